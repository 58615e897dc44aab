package payloads

import "time"

// Типы событий пользователя.
const (
	UserRegistered     = "user.registered"
	UserRoleChanged    = "user.role_changed"
	UserProfileUpdated = "user.profile_updated"
	UserAvatarChanged  = "user.avatar_changed"
)

// UserEvent представляет запись аудита об изменении пользователя,
// передается через RabbitMQ.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id"`
	ActorID    int64     `json:"actor_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

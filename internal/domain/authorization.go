package domain

import (
	"context"
	"fmt"
)

// Requester описывает аутентифицированного инициатора запроса.
type Requester struct {
	ID   int64
	Role Role
}

func (r Requester) IsTeacher() bool {
	return r.Role == RoleTeacher
}

// CanEditUser: преподаватель может менять любого пользователя,
// студент только себя.
func (r Requester) CanEditUser(targetID int64) bool {
	switch r.Role {
	case RoleTeacher:
		return true
	case RoleStudent:
		return r.ID == targetID
	default:
		return false
	}
}

// AuthorizeUserUpdate возвращает ErrForbidden, если изменение запрещено.
func AuthorizeUserUpdate(r Requester, targetID int64) error {
	if !r.CanEditUser(targetID) {
		return fmt.Errorf("%w: user %d (%s) may not update user %d", ErrForbidden, r.ID, r.Role, targetID)
	}
	return nil
}

type requesterKey struct{}

// WithRequester кладет инициатора запроса в контекст.
func WithRequester(ctx context.Context, r Requester) context.Context {
	return context.WithValue(ctx, requesterKey{}, r)
}

// RequesterFromContext достает инициатора запроса; ok=false для анонимных вызовов.
func RequesterFromContext(ctx context.Context) (Requester, bool) {
	r, ok := ctx.Value(requesterKey{}).(Requester)
	return r, ok
}

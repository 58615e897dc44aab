package ports

import (
	"context"

	"github.com/GoArmGo/CohortApp/internal/messaging/payloads"
)

// UserEventPublisher публикует события об изменениях пользователей.
// Используется use case'ами после успешной записи в бд.
type UserEventPublisher interface {
	PublishUserEvent(ctx context.Context, event payloads.UserEvent) error
}

// UserEventConsumer читает события из очереди, используется воркером.
type UserEventConsumer interface {
	// StartConsumingUserEvents начинает прослушивание очереди,
	// handler вызывается для каждого полученного сообщения
	StartConsumingUserEvents(ctx context.Context, handler func(context.Context, payloads.UserEvent) error) error
}

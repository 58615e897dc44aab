package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/GoArmGo/CohortApp/internal/core/ports"
	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/messaging/payloads"
)

// eventPublisher оборачивает необязательного издателя событий.
// Ошибка публикации только логируется: запись в бд уже прошла.
type eventPublisher struct {
	publisher ports.UserEventPublisher
	logger    *slog.Logger
}

func (p eventPublisher) publish(ctx context.Context, eventType string, userID int64, detail string) {
	if p.publisher == nil {
		return
	}

	event := payloads.UserEvent{
		Type:       eventType,
		UserID:     userID,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}
	if r, ok := domain.RequesterFromContext(ctx); ok {
		event.ActorID = r.ID
	} else {
		event.ActorID = userID
	}

	if err := p.publisher.PublishUserEvent(ctx, event); err != nil {
		p.logger.Warn("failed to publish user event",
			"type", eventType,
			"user_id", userID,
			"error", err,
		)
	}
}

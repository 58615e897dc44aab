package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/CohortApp/internal/core/ports"
	"github.com/GoArmGo/CohortApp/internal/messaging/payloads"
)

// runWorker читает события пользователей из очереди и пишет их в журнал аудита
func runWorker(ctx context.Context, consumer ports.UserEventConsumer, logger *slog.Logger) error {
	if consumer == nil {
		return errors.New("worker mode requires RABBITMQ_URL")
	}

	audit := logger.With("component", "audit")
	if err := consumer.StartConsumingUserEvents(ctx, auditHandler(audit)); err != nil {
		return fmt.Errorf("start RabbitMQ consumer: %w", err)
	}

	logger.Info("worker started, waiting for user events")
	<-ctx.Done()
	logger.Info("shutdown signal received, stopping worker")
	return nil
}

func auditHandler(logger *slog.Logger) func(context.Context, payloads.UserEvent) error {
	return func(_ context.Context, event payloads.UserEvent) error {
		logger.Info("user event",
			"type", event.Type,
			"user_id", event.UserID,
			"actor_id", event.ActorID,
			"detail", event.Detail,
			"occurred_at", event.OccurredAt,
		)
		return nil
	}
}

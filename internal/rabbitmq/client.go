package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/CohortApp/internal/config"
	"github.com/GoArmGo/CohortApp/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client представляет собой клиент RabbitMQ: публикует и читает события пользователей
type Client struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
	logger    *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет очередь событий
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.RabbitMQ.RabbitMQURL == "" {
		return nil, errors.New("RABBITMQ_URL is not set")
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// идемпотентно: очередь создается, только если ее нет
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName, // name
		true,                           // durable
		false,                          // delete when unused
		false,                          // exclusive
		false,                          // no-wait
		nil,                            // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	logger.Info("RabbitMQ connected", "queue", q.Name, "messages", q.Messages)
	return &Client{conn: conn, channel: ch, queueName: q.Name, logger: logger}, nil
}

// Close закрывает канал и соединение
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		c.logger.Error("failed to close RabbitMQ client", "error", err)
		return err
	}
	c.logger.Info("RabbitMQ connection closed")
	return nil
}

// PublishUserEvent реализует ports.UserEventPublisher
func (c *Client) PublishUserEvent(ctx context.Context, event payloads.UserEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal user event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",          // exchange
		c.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Type:         event.Type,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish user event: %w", err)
	}

	c.logger.Debug("user event published", "queue", c.queueName, "type", event.Type, "user_id", event.UserID)
	return nil
}

// StartConsumingUserEvents реализует ports.UserEventConsumer.
// Сообщения обрабатываются в отдельной горутине до отмены ctx.
func (c *Client) StartConsumingUserEvents(ctx context.Context, handler func(context.Context, payloads.UserEvent) error) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered", "queue", c.queueName)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Info("RabbitMQ channel closed, stopping consumer")
					return
				}
				handleDelivery(ctx, msg, handler, c.logger)
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping RabbitMQ consumer")
				return
			}
		}
	}()

	return nil
}

// handleDelivery: битое сообщение отклоняется без возврата в очередь,
// ошибка обработчика возвращает сообщение в очередь
func handleDelivery(
	ctx context.Context,
	msg amqp.Delivery,
	handler func(context.Context, payloads.UserEvent) error,
	logger *slog.Logger,
) {
	var event payloads.UserEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.Type == "" {
		logger.Warn("dropping malformed message", "error", err, "body", string(msg.Body))
		if err := msg.Nack(false, false); err != nil {
			logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		logger.Error("failed to process user event", "type", event.Type, "user_id", event.UserID, "error", err)
		if err := msg.Nack(false, true); err != nil {
			logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("failed to ack message", "error", err)
	}
}

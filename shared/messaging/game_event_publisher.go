package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// RabbitMQGameEventPublisher publishes gameplay events to their queues.
// It declares the queues on construction so consumers can bind lazily.
type RabbitMQGameEventPublisher struct {
	channel *amqp.Channel
	logger  *zap.Logger
}

// NewRabbitMQGameEventPublisher declares the gameplay event queues on the
// given channel. The channel must already be open.
func NewRabbitMQGameEventPublisher(conn *amqp.Connection, logger *zap.Logger) (*RabbitMQGameEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel for game event publisher: %w", err)
	}
	for _, queue := range []string{ChoiceRecordedQueue, StoryCompletedQueue} {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			ch.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
	}
	return &RabbitMQGameEventPublisher{
		channel: ch,
		logger:  logger.Named("GameEventPublisher"),
	}, nil
}

// PublishChoiceRecorded emits a choice.recorded event.
func (p *RabbitMQGameEventPublisher) PublishChoiceRecorded(ctx context.Context, payload ChoiceRecordedPayload) error {
	return p.publish(ctx, ChoiceRecordedQueue, payload)
}

// PublishStoryCompleted emits a story.completed event.
func (p *RabbitMQGameEventPublisher) PublishStoryCompleted(ctx context.Context, payload StoryCompletedPayload) error {
	return p.publish(ctx, StoryCompletedQueue, payload)
}

func (p *RabbitMQGameEventPublisher) publish(ctx context.Context, queue string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("Failed to marshal event payload", zap.String("queue", queue), zap.Error(err))
		return fmt.Errorf("failed to marshal payload for %s: %w", queue, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(pubCtx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		p.logger.Error("Failed to publish event", zap.String("queue", queue), zap.Error(err))
		return fmt.Errorf("failed to publish to %s: %w", queue, err)
	}
	p.logger.Debug("Event published", zap.String("queue", queue))
	return nil
}

// Close releases the underlying channel.
func (p *RabbitMQGameEventPublisher) Close() error {
	return p.channel.Close()
}

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/Amish929/Eco-Gamify-Project/internal/models"
)

// EventPublisher announces committed submission outcomes.
type EventPublisher interface {
	PublishSubmissionEvaluated(ctx context.Context, event *models.SubmissionEvaluatedEvent) error
	PublishSubmissionReviewed(ctx context.Context, event *models.SubmissionReviewedEvent) error
	Close() error
}

type RabbitMQConfig struct {
	URL                 string
	Exchange            string
	EvaluatedRoutingKey string
	ReviewedRoutingKey  string
	QueueName           string
}

type rabbitMQPublisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	cfg     RabbitMQConfig
	logger  zerolog.Logger
}

func NewRabbitMQPublisher(cfg RabbitMQConfig, logger zerolog.Logger) (EventPublisher, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.Exchange, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	queue, err := channel.QueueDeclare(
		cfg.QueueName, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range []string{cfg.EvaluatedRoutingKey, cfg.ReviewedRoutingKey} {
		if err := channel.QueueBind(queue.Name, key, cfg.Exchange, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to bind queue to %s: %w", key, err)
		}
	}

	logger.Info().
		Str("exchange", cfg.Exchange).
		Str("queue", queue.Name).
		Msg("Connected to RabbitMQ")

	return &rabbitMQPublisher{
		conn:    conn,
		channel: channel,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (p *rabbitMQPublisher) PublishSubmissionEvaluated(ctx context.Context, event *models.SubmissionEvaluatedEvent) error {
	if err := p.publish(ctx, p.cfg.EvaluatedRoutingKey, event); err != nil {
		return err
	}

	p.logger.Info().
		Str("submission_id", event.SubmissionID).
		Str("status", string(event.Status)).
		Int("ai_score", event.AIScore).
		Msg("Submission evaluated event published")
	return nil
}

func (p *rabbitMQPublisher) PublishSubmissionReviewed(ctx context.Context, event *models.SubmissionReviewedEvent) error {
	if err := p.publish(ctx, p.cfg.ReviewedRoutingKey, event); err != nil {
		return err
	}

	p.logger.Info().
		Str("submission_id", event.SubmissionID).
		Str("status", string(event.Status)).
		Msg("Submission reviewed event published")
	return nil
}

func (p *rabbitMQPublisher) publish(ctx context.Context, routingKey string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		publishCtx,
		p.cfg.Exchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *rabbitMQPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Error().Err(err).Msg("Failed to close RabbitMQ channel")
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	return nil
}

type noopPublisher struct{}

// NewNoopPublisher is used when the broker is disabled or unreachable.
func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) PublishSubmissionEvaluated(context.Context, *models.SubmissionEvaluatedEvent) error {
	return nil
}

func (noopPublisher) PublishSubmissionReviewed(context.Context, *models.SubmissionReviewedEvent) error {
	return nil
}

func (noopPublisher) Close() error { return nil }

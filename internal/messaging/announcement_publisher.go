package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var _ interfaces.AnnouncementPublisher = (*RabbitMQAnnouncementPublisher)(nil)

// RabbitMQAnnouncementPublisher публикует анонсы в durable-очередь.
// Потребитель - внешний сервис уведомлений.
type RabbitMQAnnouncementPublisher struct {
	conn      *amqp091.Connection
	ch        *amqp091.Channel
	queueName string
	logger    *zap.Logger
}

// NewRabbitMQAnnouncementPublisher создает издателя и объявляет очередь.
func NewRabbitMQAnnouncementPublisher(conn *amqp091.Connection, queueName string, logger *zap.Logger) (*RabbitMQAnnouncementPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("rabbitmq connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("Failed to open a channel for announcements", zap.Error(err))
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// Объявляем durable-очередь. Если она уже существует, ничего не произойдет.
	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		_ = ch.Close()
		logger.Error("Failed to declare announcements queue", zap.String("queue", queueName), zap.Error(err))
		return nil, fmt.Errorf("failed to declare queue '%s': %w", queueName, err)
	}

	logger.Info("Announcements queue declared successfully", zap.String("queue", queueName))

	return &RabbitMQAnnouncementPublisher{
		conn:      conn,
		ch:        ch,
		queueName: queueName,
		logger:    logger.Named("AnnouncementPublisher"),
	}, nil
}

// PublishAnnouncement отправляет анонс в очередь.
func (p *RabbitMQAnnouncementPublisher) PublishAnnouncement(ctx context.Context, announcement models.Announcement) error {
	body, err := json.Marshal(announcement)
	if err != nil {
		p.logger.Error("Failed to marshal announcement", zap.Error(err), zap.Any("announcement", announcement))
		return fmt.Errorf("failed to marshal announcement: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		"",          // exchange (default)
		p.queueName, // routing key = имя очереди
		false,       // mandatory
		false,       // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Error("Failed to publish announcement", zap.String("type", announcement.Type), zap.Error(err))
		return fmt.Errorf("failed to publish announcement: %w", err)
	}

	p.logger.Debug("Announcement published", zap.String("type", announcement.Type), zap.String("queue", p.queueName))
	return nil
}

// Close закрывает канал издателя.
func (p *RabbitMQAnnouncementPublisher) Close() error {
	if p.ch != nil {
		return p.ch.Close()
	}
	return nil
}

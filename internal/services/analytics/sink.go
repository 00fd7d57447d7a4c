// Package analytics содержит публикацию аналитических событий в RabbitMQ
// и их запись в базу данных на стороне воркера.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/startuplense/content-platform/internal/models"
	"github.com/startuplense/content-platform/internal/rabbitmq"
)

// Publisher описывает контракт публикации сообщения в обменник.
type Publisher interface {
	PublishMessage(exchange, routingkey string, message any) error
}

// Sink отправляет события в обменник аналитики. Потеря события допустима,
// поэтому вызывающий код логирует ошибку и продолжает работу.
type Sink struct {
	publisher Publisher
	log       *slog.Logger
}

// NewSink создает новый экземпляр Sink.
func NewSink(publisher Publisher, log *slog.Logger) *Sink {
	return &Sink{
		publisher: publisher,
		log:       log,
	}
}

// Publish отправляет событие с ключом маршрутизации "event".
func (s *Sink) Publish(_ context.Context, event models.AnalyticsEvent) error {
	const op = "services.analytics.Publish"

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if err := s.publisher.PublishMessage(rabbitmq.AnalyticsExchange, "event", event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ChannelPublisher адаптирует канал AMQP к интерфейсу Publisher.
type ChannelPublisher struct {
	ch *amqp.Channel
}

// NewChannelPublisher создает новый экземпляр ChannelPublisher.
func NewChannelPublisher(ch *amqp.Channel) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// PublishMessage публикует сообщение через канал AMQP.
func (p *ChannelPublisher) PublishMessage(exchange, routingkey string, message any) error {
	return rabbitmq.PublishMessage(p.ch, exchange, routingkey, message)
}

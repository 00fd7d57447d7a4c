package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// AnalyticsQueue — очередь, из которой воркер читает события аналитики.
const AnalyticsQueue = "analytics.events"

// GetAnalyticsQueues возвращает очереди аналитики.
func GetAnalyticsQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: AnalyticsQueue, RoutingKey: "event"},
	}
}

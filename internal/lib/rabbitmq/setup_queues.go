package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации в exchange "notifications".
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetReminderQueues возвращает очереди напоминаний об окончании подписки.
func GetReminderQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "subscription.expiring", RoutingKey: "expiring"},
	}
}

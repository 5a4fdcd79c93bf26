package kafka

// Topics для Kafka
const (
	// TopicOrderEvents — единый топик событий заказов магазина.
	TopicOrderEvents = "store.order.events"
)

package enums

// OutboxEventType names the domain events emitted through the outbox.
type OutboxEventType string

const (
	EventOrderCreated      OutboxEventType = "order.created"
	EventOrderPreparing    OutboxEventType = "order.preparing"
	EventOrderReady        OutboxEventType = "order.ready"
	EventOrderDispatched   OutboxEventType = "order.dispatched"
	EventOrderDelivered    OutboxEventType = "order.delivered"
	EventOrderCompleted    OutboxEventType = "order.completed"
	EventOrderCancelled    OutboxEventType = "order.cancelled"
	EventOrderItemAppended OutboxEventType = "order.item_appended"
	EventConfigChanged     OutboxEventType = "config.changed"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateOrder       OutboxAggregateType = "order"
	AggregateStoreConfig OutboxAggregateType = "store_config"
)

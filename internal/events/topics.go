package events

const (
	TopicOrderCompleted = "marketplace.order.completed"
	TopicListingSold    = "marketplace.listing.sold"
)

// Partition key = order_id, so every event of one order keeps its order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

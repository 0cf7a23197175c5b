package services

// EventPublisher publishes domain events to a message broker. A nil publisher
// disables publishing; failures are logged and never fail the request.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// Event type names published on the bottle events queue.
const (
	EventBottleCreated  = "bottle.created"
	EventBottleImported = "bottle.imported"
)

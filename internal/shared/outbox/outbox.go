package outbox

// Outbox rows are persisted next to the state change they describe.
// The worker relay reads pending rows and publishes them to the message bus.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
)

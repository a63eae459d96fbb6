// Package queue carries billing events over RabbitMQ: a publisher used by the
// services after commit, and a consumer that appends every event to a
// settlement log.
package queue

import (
	"encoding/json"
	"time"
)

// SettlementQueue is the durable queue every billing event is routed to.
const SettlementQueue = "billing.events"

// Envelope wraps an event payload with its type and publish time.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

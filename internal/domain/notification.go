package domain

import "time"

// Notification types.
const (
	NotificationDeadlineApproaching = "deadline_approaching"
	NotificationPaymentReceived     = "payment_received"
	NotificationAssetRedeemed       = "asset_redeemed"
)

// Notification priorities.
const (
	PriorityHigh   = "high"
	PriorityNormal = "normal"
)

// Notification is a queued outbound message record. Delivery is
// fire-and-forget; the engine never waits for confirmation.
type Notification struct {
	ID             string
	AssetID        string
	TenantID       string
	Type           string
	Title          string
	Message        string
	Priority       string
	Channels       []string
	ActionRequired bool
}

// ToRecord maps the notification onto its stored shape.
func (n Notification) ToRecord() Record {
	channels := make([]any, len(n.Channels))
	for i, c := range n.Channels {
		channels[i] = c
	}
	return Record{
		FieldID:             n.ID,
		"asset_id":          n.AssetID,
		"notification_type": n.Type,
		"title":             n.Title,
		"message":           n.Message,
		"priority":          n.Priority,
		"channels":          channels,
		"action_required":   n.ActionRequired,
	}
}

// Event is a realtime signal published when something noteworthy happens,
// consumed by websocket subscribers.
type Event struct {
	Type      string    `json:"type"`
	TenantID  string    `json:"tenant_id"`
	AssetID   string    `json:"asset_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

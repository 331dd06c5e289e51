// Package engagement tracks campaign engagement: an append-only event log,
// reply correlation against prior sends, and derived per-campaign metrics.
package engagement

import "time"

// EventType is the engagement event taxonomy. Open and click exist as
// reserved types for pixel/redirect tracking integrations.
type EventType string

const (
	EventSend  EventType = "send"
	EventOpen  EventType = "open"
	EventClick EventType = "click"
	EventReply EventType = "reply"
)

// Event is one engagement occurrence. Events are immutable once stored;
// the log's only mutation is append. Ordering within a campaign+email pair
// is established by Timestamp, not insertion order, because replies may be
// ingested out of order relative to sends.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	CampaignID string    `json:"campaign_id"`
	Email      string    `json:"email"`
	Sender     string    `json:"sender"`
	Timestamp  time.Time `json:"timestamp"`

	// Send payload
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`

	// Reply payload
	ReplyText       string   `json:"reply_text,omitempty"`
	PositivityScore *float64 `json:"positivity_score,omitempty"`
}

package engagement

import (
	"context"
	"time"

	"outreach_backend/platform/logger"

	"github.com/google/uuid"
)

// Retriever is the inbound mail port. Implementations fetch unseen messages
// and support marking them seen; failures must be non-fatal to callers.
type Retriever interface {
	FetchUnseen(ctx context.Context) ([]InboundMessage, error)
	MarkSeen(ctx context.Context, uid int) error
}

// Tracker records engagement events for one outreach identity and derives
// per-campaign metrics from the log.
type Tracker struct {
	store     *Store
	retriever Retriever
	sender    string
	log       *logger.Logger
}

// NewTracker creates a tracker. retriever may be nil when no inbound
// mailbox is configured; reply sync is then a no-op.
func NewTracker(store *Store, retriever Retriever, sender string, log *logger.Logger) *Tracker {
	return &Tracker{store: store, retriever: retriever, sender: sender, log: log}
}

// RecordSend appends a send event. A zero ts defaults to the current UTC time.
func (t *Tracker) RecordSend(ctx context.Context, campaignID, email, subject, body string, ts time.Time) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return t.store.Append(Event{
		ID:         uuid.New().String(),
		Type:       EventSend,
		CampaignID: campaignID,
		Email:      email,
		Sender:     t.sender,
		Timestamp:  ts.UTC(),
		Subject:    subject,
		Body:       body,
	})
}

// RecordReply appends a reply event. A zero ts defaults to the current UTC time.
func (t *Tracker) RecordReply(ctx context.Context, campaignID, email, replyText string, score *float64, ts time.Time) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return t.store.Append(Event{
		ID:              uuid.New().String(),
		Type:            EventReply,
		CampaignID:      campaignID,
		Email:           email,
		Sender:          t.sender,
		Timestamp:       ts.UTC(),
		ReplyText:       replyText,
		PositivityScore: score,
	})
}

// RecordOpen is a placeholder for pixel tracking integration.
func (t *Tracker) RecordOpen(ctx context.Context, campaignID, email string, ts time.Time) error {
	return nil
}

// RecordClick is a placeholder for redirect tracking integration.
func (t *Tracker) RecordClick(ctx context.Context, campaignID, email, url string) error {
	return nil
}

// SyncReplies pulls unseen inbound messages, correlates them against prior
// sends and records the matches. Re-processing the same message is
// idempotent: a reply with the same sender and identical timestamp is
// considered already tracked. Returns the number of newly tracked replies.
func (t *Tracker) SyncReplies(ctx context.Context) (int, error) {
	if t.retriever == nil {
		return 0, nil
	}

	msgs, err := t.retriever.FetchUnseen(ctx)
	if err != nil {
		return 0, err
	}

	events, err := t.store.Events()
	if err != nil {
		return 0, err
	}

	tracked := 0
	for _, msg := range msgs {
		cand, ok := correlateReply(events, msg)
		if !ok {
			t.log.Debug("unmatched inbound message", "from", msg.From, "subject", msg.Subject)
		} else {
			exists, err := t.store.HasReply(cand.LeadEmail, cand.ReplyTime)
			if err != nil {
				return tracked, err
			}
			if !exists {
				if err := t.RecordReply(ctx, cand.CampaignID, cand.LeadEmail, cand.ReplyText, nil, cand.ReplyTime); err != nil {
					return tracked, err
				}
				tracked++
				t.log.Info("tracked reply", "from", cand.LeadEmail, "campaign_id", cand.CampaignID)
			}
		}
		if err := t.retriever.MarkSeen(ctx, msg.UID); err != nil {
			t.log.Warn("failed to mark message seen", "uid", msg.UID, "error", err.Error())
		}
	}
	return tracked, nil
}

package mail

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"outreach_backend/internal/engagement"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"

	imap "github.com/BrianLeishman/go-imap"
)

// IMAPRetriever pulls unseen inbox messages over IMAP and maps them to
// inbound messages for reply correlation. The connection is established
// lazily and reused across calls.
type IMAPRetriever struct {
	server   string
	port     int
	username string
	password string
	log      *logger.Logger

	mu     sync.Mutex
	dialer *imap.Dialer
}

// NewIMAPRetriever creates a retriever from the mail configuration.
// Returns nil when IMAP is not configured; callers treat a nil retriever
// as "no inbound mailbox".
func NewIMAPRetriever(cfg config.MailConfig, log *logger.Logger) *IMAPRetriever {
	if !cfg.IsIMAPEnabled() {
		return nil
	}
	return &IMAPRetriever{
		server:   cfg.GetIMAPServer(),
		port:     cfg.GetIMAPPort(),
		username: cfg.GetFromEmail(),
		password: cfg.GetIMAPPassword(),
		log:      log,
	}
}

func (r *IMAPRetriever) connectLocked() (*imap.Dialer, error) {
	if r.dialer != nil {
		return r.dialer, nil
	}
	d, err := imap.New(r.username, r.password, r.server, r.port)
	if err != nil {
		return nil, fmt.Errorf("imap connect: %w", err)
	}
	if err := d.SelectFolder("INBOX"); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("imap select inbox: %w", err)
	}
	r.dialer = d
	return d, nil
}

// FetchUnseen returns all unseen inbox messages ordered by UID.
func (r *IMAPRetriever) FetchUnseen(ctx context.Context) ([]engagement.InboundMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, err := r.connectLocked()
	if err != nil {
		return nil, err
	}

	uids, err := d.GetUIDs("UNSEEN")
	if err != nil {
		r.resetLocked()
		return nil, fmt.Errorf("imap search: %w", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}

	emails, err := d.GetEmails(uids...)
	if err != nil {
		r.resetLocked()
		return nil, fmt.Errorf("imap fetch: %w", err)
	}

	msgs := make([]engagement.InboundMessage, 0, len(emails))
	for uid, em := range emails {
		if em == nil {
			continue
		}
		msgs = append(msgs, engagement.InboundMessage{
			UID:     uid,
			Subject: em.Subject,
			From:    firstAddress(em.From),
			Body:    em.Text,
			Date:    messageDate(em),
		})
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].UID < msgs[j].UID })

	r.log.Info("fetched unseen messages", "count", len(msgs))
	return msgs, nil
}

// MarkSeen flags one message as seen.
func (r *IMAPRetriever) MarkSeen(ctx context.Context, uid int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, err := r.connectLocked()
	if err != nil {
		return err
	}
	if err := d.MarkSeen(uid); err != nil {
		r.resetLocked()
		return fmt.Errorf("imap mark seen: %w", err)
	}
	return nil
}

// Close shuts down the IMAP connection if one is open.
func (r *IMAPRetriever) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dialer == nil {
		return nil
	}
	err := r.dialer.Close()
	r.dialer = nil
	return err
}

func (r *IMAPRetriever) resetLocked() {
	if r.dialer != nil {
		_ = r.dialer.Close()
		r.dialer = nil
	}
}

func firstAddress(addrs imap.EmailAddresses) string {
	for addr := range addrs {
		return addr
	}
	return ""
}

// messageDate resolves the reply timestamp in UTC, preferring the Date
// header over the server received time.
func messageDate(em *imap.Email) time.Time {
	if !em.Sent.IsZero() {
		return em.Sent.UTC()
	}
	if !em.Received.IsZero() {
		return em.Received.UTC()
	}
	return time.Now().UTC()
}

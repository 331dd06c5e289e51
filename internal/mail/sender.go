// Package mail provides the outbound SMTP delivery and inbound IMAP
// retrieval transports for the outreach pipeline.
package mail

import "context"

// Sender delivers one outreach email. Implementations may run in dry-run
// mode, signalling success without contacting real transport; callers must
// check DryRun before recording engagement history.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
	DryRun() bool
}

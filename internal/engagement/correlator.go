package engagement

import (
	"strings"
	"time"
	"unicode"
)

// InboundMessage is one unseen message pulled from the mail retriever.
type InboundMessage struct {
	UID     int
	Subject string
	From    string
	Body    string
	Date    time.Time
}

// replyCandidate is a correlated inbound reply ready to be recorded.
type replyCandidate struct {
	CampaignID string
	LeadEmail  string
	ReplyText  string
	ReplyTime  time.Time
}

// splitReplyMarker checks for a single case-insensitive "Re: " prefix and
// returns the normalized correlation key (trimmed, lower-cased remainder).
// Exactly one prefix is stripped: "Re: Re: Intro" yields "re: intro".
func splitReplyMarker(subject string) (string, bool) {
	if len(subject) < 4 || !strings.EqualFold(subject[:3], "re:") {
		return "", false
	}
	rest := subject[3:]
	if !unicode.IsSpace(rune(rest[0])) {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(rest)), true
}

// correlateReply matches an inbound message against prior send events.
// A match requires the send's recipient to equal the reply sender
// (case-insensitive), identical normalized subjects, and a reply timestamp
// strictly later than the send's. Sends are scanned in stored order and the
// first match wins, which is not necessarily the chronologically nearest
// send when several share a subject.
func correlateReply(events []Event, msg InboundMessage) (replyCandidate, bool) {
	key, ok := splitReplyMarker(msg.Subject)
	if !ok {
		return replyCandidate{}, false
	}

	for _, e := range events {
		if e.Type != EventSend || !strings.EqualFold(e.Email, msg.From) {
			continue
		}
		if strings.ToLower(strings.TrimSpace(e.Subject)) != key {
			continue
		}
		if !msg.Date.After(e.Timestamp) {
			continue
		}
		return replyCandidate{
			CampaignID: e.CampaignID,
			LeadEmail:  msg.From,
			ReplyText:  msg.Body,
			ReplyTime:  msg.Date.UTC(),
		}, true
	}
	return replyCandidate{}, false
}

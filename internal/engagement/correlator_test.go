package engagement

import (
	"testing"
	"time"
)

func TestSplitReplyMarker(t *testing.T) {
	cases := []struct {
		subject string
		key     string
		ok      bool
	}{
		{"Re: Intro Call", "intro call", true},
		{"RE: Intro Call", "intro call", true},
		{"re:\tIntro Call", "intro call", true},
		{"Re: Re: Intro Call", "re: intro call", true},
		{"Re:Intro", "", false},
		{"Regarding the intro", "", false},
		{"Intro Call", "", false},
		{"Re:", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		key, ok := splitReplyMarker(tc.subject)
		if ok != tc.ok || key != tc.key {
			t.Fatalf("splitReplyMarker(%q) = (%q, %v), want (%q, %v)", tc.subject, key, ok, tc.key, tc.ok)
		}
	}
}

func TestCorrelateReplyMatches(t *testing.T) {
	sendAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{Type: EventSend, CampaignID: "c1", Email: "lead@example.com", Subject: "Quick question about Acme", Timestamp: sendAt},
	}

	msg := InboundMessage{
		UID:     7,
		Subject: "Re: quick question about ACME",
		From:    "Lead@Example.com",
		Body:    "Sounds interesting",
		Date:    sendAt.Add(2 * time.Hour),
	}

	cand, ok := correlateReply(events, msg)
	if !ok {
		t.Fatalf("expected correlation")
	}
	if cand.CampaignID != "c1" {
		t.Fatalf("campaign = %q, want c1", cand.CampaignID)
	}
	if cand.LeadEmail != "Lead@Example.com" {
		t.Fatalf("lead email = %q", cand.LeadEmail)
	}
	if !cand.ReplyTime.Equal(msg.Date) {
		t.Fatalf("reply time = %v, want %v", cand.ReplyTime, msg.Date)
	}
}

func TestCorrelateReplyRejectsEarlierAndEqualDates(t *testing.T) {
	sendAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{Type: EventSend, CampaignID: "c1", Email: "lead@example.com", Subject: "Hello", Timestamp: sendAt},
	}

	for _, date := range []time.Time{sendAt.Add(-time.Minute), sendAt} {
		msg := InboundMessage{Subject: "Re: Hello", From: "lead@example.com", Date: date}
		if _, ok := correlateReply(events, msg); ok {
			t.Fatalf("reply at %v must not match send at %v", date, sendAt)
		}
	}
}

func TestCorrelateReplyFirstStoredMatchWins(t *testing.T) {
	sendAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{Type: EventReply, CampaignID: "c0", Email: "lead@example.com", Subject: "Hello", Timestamp: sendAt},
		{Type: EventSend, CampaignID: "c1", Email: "lead@example.com", Subject: "Hello", Timestamp: sendAt},
		{Type: EventSend, CampaignID: "c2", Email: "lead@example.com", Subject: "Hello", Timestamp: sendAt.Add(time.Hour)},
	}

	msg := InboundMessage{Subject: "Re: Hello", From: "lead@example.com", Date: sendAt.Add(2 * time.Hour)}
	cand, ok := correlateReply(events, msg)
	if !ok {
		t.Fatalf("expected correlation")
	}
	if cand.CampaignID != "c1" {
		t.Fatalf("campaign = %q, want first stored send c1", cand.CampaignID)
	}
}

func TestCorrelateReplyIgnoresOtherRecipients(t *testing.T) {
	sendAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{Type: EventSend, CampaignID: "c1", Email: "other@example.com", Subject: "Hello", Timestamp: sendAt},
	}

	msg := InboundMessage{Subject: "Re: Hello", From: "lead@example.com", Date: sendAt.Add(time.Hour)}
	if _, ok := correlateReply(events, msg); ok {
		t.Fatalf("reply from a different address must not match")
	}
}

package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/platform/logger"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f fakeCompleter) Name() string { return "fake" }

func (f fakeCompleter) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	return f.reply, f.err
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prefix ```json\n{\"a\": 1}\n``` suffix", `{"a": 1}`},
		{"```json\n{\"a\": 1}", `{"a": 1}`},
		{"here you go: {\"a\": 1} done", `{"a": 1}`},
		{"  plain text  ", "plain text"},
	}
	for _, tc := range cases {
		if got := extractJSON(tc.in); got != tc.want {
			t.Fatalf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGenerateInsightsParsesResponse(t *testing.T) {
	reply := "```json\n" + `{
		"performance_summary": "steady improvement",
		"content_guidelines": {"tone": ["casual"]},
		"ab_test_ideas": ["shorter subjects"]
	}` + "\n```"
	g := NewWithCompleter(fakeCompleter{reply: reply}, logger.New("development"))

	ins, err := g.GenerateInsights(context.Background(), &domain.Analysis{Note: "no previous campaigns"}, nil)
	if err != nil {
		t.Fatalf("generate insights: %v", err)
	}
	if ins.PerformanceSummary != "steady improvement" {
		t.Fatalf("summary = %q", ins.PerformanceSummary)
	}
	if len(ins.ContentGuidelines.Tone) != 1 || ins.ContentGuidelines.Tone[0] != "casual" {
		t.Fatalf("guidelines not parsed: %+v", ins.ContentGuidelines)
	}
}

func TestGenerateInsightsDegradesOnUnparseableReply(t *testing.T) {
	raw := strings.Repeat("the model rambles on ", 30)
	g := NewWithCompleter(fakeCompleter{reply: raw}, logger.New("development"))

	ins, err := g.GenerateInsights(context.Background(), &domain.Analysis{}, nil)
	if err != nil {
		t.Fatalf("degraded path must not error: %v", err)
	}
	if ins.PerformanceSummary == "" {
		t.Fatalf("expected raw text kept as summary")
	}
	if got := len([]rune(ins.PerformanceSummary)); got > 300 {
		t.Fatalf("summary length = %d, want <= 300", got)
	}
}

func TestGenerateInsightsTransportError(t *testing.T) {
	g := NewWithCompleter(fakeCompleter{err: errors.New("connection refused")}, logger.New("development"))
	if _, err := g.GenerateInsights(context.Background(), &domain.Analysis{}, nil); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestGenerateEmail(t *testing.T) {
	reply := `{"subject": "Intro", "body": "Hi there", "cta": "Book a call"}`
	g := NewWithCompleter(fakeCompleter{reply: reply}, logger.New("development"))
	lead := domain.Lead{Company: "Acme", Name: "Pat", Email: "pat@acme.com"}

	email, err := g.GenerateEmail(context.Background(), lead, "WidgetCloud", nil)
	if err != nil {
		t.Fatalf("generate email: %v", err)
	}
	if email.Subject != "Intro" || email.Body != "Hi there" || email.CTA != "Book a call" {
		t.Fatalf("unexpected content: %+v", email)
	}
	if email.ToEmail != "pat@acme.com" || email.Company != "Acme" || email.LeadName != "Pat" {
		t.Fatalf("lead bookkeeping missing: %+v", email)
	}
}

func TestGenerateEmailRejectsIncompleteReply(t *testing.T) {
	g := NewWithCompleter(fakeCompleter{reply: `{"subject": "Intro"}`}, logger.New("development"))
	if _, err := g.GenerateEmail(context.Background(), domain.Lead{}, "WidgetCloud", nil); err == nil {
		t.Fatalf("expected error for missing body")
	}
}

func TestFallbackEmail(t *testing.T) {
	lead := domain.Lead{Company: "Acme", Name: "Pat", Industry: "SaaS", Email: "pat@acme.com"}
	email := FallbackEmail(lead, "WidgetCloud")

	if email.Subject != "Quick question about Acme" {
		t.Fatalf("subject = %q", email.Subject)
	}
	if email.CTA != "Reply with your availability" {
		t.Fatalf("cta = %q", email.CTA)
	}
	if !strings.Contains(email.Body, "WidgetCloud") || !strings.Contains(email.Body, "Pat") {
		t.Fatalf("body missing product or name: %q", email.Body)
	}
	if email.ToEmail != "pat@acme.com" {
		t.Fatalf("to = %q", email.ToEmail)
	}

	anon := FallbackEmail(domain.Lead{}, "WidgetCloud")
	if !strings.Contains(anon.Body, "Hi there,") {
		t.Fatalf("missing-name fallback not applied: %q", anon.Body)
	}
	if anon.Subject != "Quick question about your company" {
		t.Fatalf("missing-company fallback not applied: %q", anon.Subject)
	}
}

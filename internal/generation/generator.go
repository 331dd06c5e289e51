// Package generation produces campaign insights and email copy through a
// configurable LLM backend, with deterministic fallbacks when the model is
// unavailable or returns unparseable output.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"
)

// Completer is a single-shot text generation backend.
type Completer interface {
	Name() string
	Complete(ctx context.Context, system, user string, temperature float32) (string, error)
}

// Generator wraps a Completer with the campaign prompt logic.
type Generator struct {
	completer Completer
	log       *logger.Logger
}

// New selects a generation backend from configuration. Provider "gemini"
// uses the Gemini API, anything else uses the OpenAI-compatible chat
// endpoint.
func New(ctx context.Context, cfg config.GenerationConfig, log *logger.Logger) (*Generator, error) {
	var (
		completer Completer
		err       error
	)
	switch cfg.GetGenerationProvider() {
	case "gemini":
		completer, err = NewGeminiCompleter(ctx, cfg.GetGeminiAPIKey(), cfg.GetGeminiModel())
		if err != nil {
			return nil, err
		}
	default:
		completer = NewChatCompleter(cfg.GetChatAPIKey(), cfg.GetChatBaseURL(), cfg.GetChatModel())
	}
	log.Info("generation backend ready", "provider", cfg.GetGenerationProvider(), "model", completer.Name())
	return &Generator{completer: completer, log: log}, nil
}

// NewWithCompleter builds a generator around an explicit backend.
func NewWithCompleter(completer Completer, log *logger.Logger) *Generator {
	return &Generator{completer: completer, log: log}
}

// GenerateInsights turns a performance analysis into strategic guidance.
// When the model answers but the reply cannot be parsed as JSON, the raw
// text is kept as a degraded performance summary instead of failing the
// stage.
func (g *Generator) GenerateInsights(ctx context.Context, analysis *domain.Analysis, previous []domain.Insights) (*domain.Insights, error) {
	prompt := buildInsightsPrompt(analysis, previous)

	raw, err := g.completer.Complete(ctx, systemAnalyst, prompt, 0.7)
	if err != nil {
		return nil, fmt.Errorf("insights generation: %w", err)
	}

	var insights domain.Insights
	if err := json.Unmarshal([]byte(extractJSON(raw)), &insights); err != nil {
		g.log.Warn("insights response not parseable, keeping raw summary", "model", g.completer.Name())
		return &domain.Insights{PerformanceSummary: truncateRunes(raw, 300)}, nil
	}
	return &insights, nil
}

// GenerateEmail writes a personalized cold email for one lead.
func (g *Generator) GenerateEmail(ctx context.Context, lead domain.Lead, product string, insights *domain.Insights) (*domain.EmailContent, error) {
	var guidelines domain.ContentGuidelines
	if insights != nil {
		guidelines = insights.ContentGuidelines
	}
	prompt := buildEmailPrompt(lead, product, guidelines)

	raw, err := g.completer.Complete(ctx, systemCopywriter, prompt, 0.8)
	if err != nil {
		return nil, fmt.Errorf("email generation: %w", err)
	}

	var parsed struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
		CTA     string `json:"cta"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("email generation: decode response: %w", err)
	}
	if parsed.Subject == "" || parsed.Body == "" {
		return nil, fmt.Errorf("email generation: incomplete response")
	}

	return &domain.EmailContent{
		Subject:     parsed.Subject,
		Body:        parsed.Body,
		CTA:         parsed.CTA,
		ToEmail:     lead.Email,
		Company:     lead.Company,
		LeadName:    lead.Name,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// FallbackEmail is the deterministic template used when generation fails
// for a lead. It always produces a sendable email.
func FallbackEmail(lead domain.Lead, product string) *domain.EmailContent {
	company := orDefault(lead.Company, "your company")
	name := orDefault(lead.Name, "there")

	return &domain.EmailContent{
		Subject: fmt.Sprintf("Quick question about %s", company),
		Body: fmt.Sprintf(
			"Hi %s,\n\nI noticed %s is doing interesting work in %s. We built %s to help teams like yours get better results with less manual effort.\n\nWould you be open to a quick chat this week?",
			name, company, orDefault(lead.Industry, "your industry"), product,
		),
		CTA:         "Reply with your availability",
		ToEmail:     lead.Email,
		Company:     lead.Company,
		LeadName:    lead.Name,
		GeneratedAt: time.Now().UTC(),
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

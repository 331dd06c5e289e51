package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"outreach_backend/internal/campaign/domain"
)

const (
	systemAnalyst    = "You are a strategic marketing analyst."
	systemCopywriter = "You are an expert email copywriter."
)

func buildInsightsPrompt(analysis *domain.Analysis, previous []domain.Insights) string {
	analysisJSON, _ := json.MarshalIndent(analysis, "", "  ")
	previousJSON, _ := json.MarshalIndent(previous, "", "  ")

	return fmt.Sprintf(`You are a strategic email marketing consultant analyzing campaign performance.

ANALYSIS DATA:
%s

PREVIOUS INSIGHTS (avoid repeating):
%s

Generate fresh, actionable strategic insights in JSON format:
{
    "performance_summary": "2-3 sentence summary",
    "content_guidelines": {
        "subject_lines": ["tip 1", "tip 2", "tip 3"],
        "body_structure": ["tip 1", "tip 2"],
        "tone": ["tip 1", "tip 2"],
        "avoid": ["thing 1", "thing 2"]
    },
    "targeting_recommendations": ["rec 1", "rec 2", "rec 3"],
    "timing_suggestions": ["suggestion 1", "suggestion 2"],
    "ab_test_ideas": ["idea 1", "idea 2", "idea 3"],
    "unique_insights": ["insight 1", "insight 2"]
}

Be specific and actionable. Avoid generic advice.`, analysisJSON, previousJSON)
}

func buildEmailPrompt(lead domain.Lead, product string, guidelines domain.ContentGuidelines) string {
	return fmt.Sprintf(`Create a personalized cold email for:
- Name: %s
- Company: %s
- Title: %s
- Industry: %s
- Product: %s

GUIDELINES:
- Subject tips: %s
- Tone: %s
- AVOID: %s

Requirements:
- Under 100 words
- Conversational and personalized
- One clear CTA
- Reference something specific about %s or %s

Return JSON:
{
    "subject": "compelling subject line",
    "body": "personalized email body",
    "cta": "clear call to action"
}`,
		orDefault(lead.Name, "there"),
		orDefault(lead.Company, "the company"),
		lead.Title,
		lead.Industry,
		product,
		joinFirst(guidelines.SubjectLines, 2),
		joinFirst(guidelines.Tone, 2),
		joinFirst(guidelines.Avoid, 2),
		lead.Industry,
		lead.Title,
	)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func joinFirst(values []string, n int) string {
	if len(values) > n {
		values = values[:n]
	}
	return strings.Join(values, ", ")
}

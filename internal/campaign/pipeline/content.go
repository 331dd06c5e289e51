package pipeline

import (
	"context"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/internal/generation"
)

// runContent generates one email per lead. Per-lead generation failures
// downgrade to the deterministic fallback template so every lead ends up
// with sendable content.
func (e *Engine) runContent(ctx context.Context, state *domain.CampaignState) Node {
	if len(state.Leads) == 0 {
		state.CurrentStep = domain.StepContentSkipped
		return NodeTerminated
	}

	content := make([]domain.EmailContent, 0, len(state.Leads))
	for _, lead := range state.Leads {
		email, err := e.generator.GenerateEmail(ctx, lead, state.Params.Product, state.Insights)
		if err != nil {
			e.log.Warn("email generation failed, using fallback template",
				"campaign_id", state.CampaignID, "company", lead.Company, "error", err.Error())
			email = generation.FallbackEmail(lead, state.Params.Product)
		}
		content = append(content, *email)
	}

	state.Content = content
	state.CurrentStep = domain.StepContentComplete

	if err := e.artifacts.SaveContent(state.CampaignID, content); err != nil {
		state.AddError("content", err)
		e.log.StageError(state.CampaignID, "content", err)
		state.Content = nil
	}

	if len(state.Content) == 0 {
		return NodeTerminated
	}
	return NodeOutreach
}

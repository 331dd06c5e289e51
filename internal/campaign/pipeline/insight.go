package pipeline

import (
	"context"

	"outreach_backend/internal/campaign/domain"
)

// runInsight turns the analysis into strategic guidance, feeding in the
// most recent insights from the cross-campaign memory so the model avoids
// repeating itself. A generation failure leaves the state without
// insights; downstream stages fall back to defaults.
func (e *Engine) runInsight(ctx context.Context, state *domain.CampaignState) Node {
	previous, err := e.history.RecentInsights(insightLookback)
	if err != nil {
		e.log.StageError(state.CampaignID, "insight", err)
		previous = nil
	}

	analysis := state.Analysis
	if analysis == nil {
		analysis = &domain.Analysis{Note: "analysis unavailable"}
	}

	insights, err := e.generator.GenerateInsights(ctx, analysis, previous)
	if err != nil {
		state.AddError("insight", err)
		e.log.StageError(state.CampaignID, "insight", err)
		state.CurrentStep = domain.StepInsightsComplete
		return NodeContent
	}

	state.Insights = insights
	state.CurrentStep = domain.StepInsightsComplete

	if err := e.artifacts.SaveInsights(state.CampaignID, insights); err != nil {
		state.AddError("insight", err)
		e.log.StageError(state.CampaignID, "insight", err)
		state.Insights = nil
		return NodeContent
	}

	if err := e.history.AppendInsights(state.CampaignID, insights); err != nil {
		state.AddError("insight", err)
		e.log.StageError(state.CampaignID, "insight", err)
	}

	return NodeContent
}

package pipeline

import (
	"context"
	"fmt"

	"outreach_backend/internal/campaign/domain"
)

// runAnalysis aggregates engagement metrics across recent previous
// campaigns into a send-count-weighted performance report. A first-ever
// campaign gets a trivial analysis that is not persisted as an artifact.
func (e *Engine) runAnalysis(ctx context.Context, state *domain.CampaignState) Node {
	previous := state.PreviousCampaigns
	if len(previous) > analysisLookback {
		previous = previous[len(previous)-analysisLookback:]
	}

	if len(previous) == 0 {
		state.Analysis = &domain.Analysis{Note: "no previous campaigns"}
		state.CurrentStep = domain.StepAnalysisComplete
		return NodeInsight
	}

	analysis := &domain.Analysis{
		IndividualCampaigns: make([]domain.CampaignPerformance, 0, len(previous)),
	}

	var openWeighted, clickWeighted, replyWeighted float64
	var totalSent int

	for _, id := range previous {
		stats, err := e.metrics.CampaignStats(ctx, id)
		if err != nil {
			state.AddError("analysis", fmt.Errorf("campaign %s: %w", id, err))
			e.log.StageError(state.CampaignID, "analysis", err)
			continue
		}
		replies, err := e.metrics.ReplyMetadata(ctx, id)
		if err != nil {
			state.AddError("analysis", fmt.Errorf("campaign %s replies: %w", id, err))
			e.log.StageError(state.CampaignID, "analysis", err)
		}

		perf := domain.CampaignPerformance{
			CampaignID:         id,
			OpenRate:           stats.OpenRate,
			ClickRate:          stats.ClickRate,
			ReplyRate:          stats.ReplyRate,
			TotalSent:          stats.TotalSends,
			AvgReplyPositivity: stats.AvgReplyPositivity,
		}
		for _, r := range replies {
			perf.ReplyMetadata = append(perf.ReplyMetadata, domain.ReplySnapshot{
				LeadEmail:       r.LeadEmail,
				ReplyTime:       r.ReplyTime,
				PositivityScore: r.PositivityScore,
				ReplyExcerpt:    r.ReplyExcerpt,
			})
		}
		analysis.IndividualCampaigns = append(analysis.IndividualCampaigns, perf)

		openWeighted += stats.OpenRate * float64(stats.TotalSends)
		clickWeighted += stats.ClickRate * float64(stats.TotalSends)
		replyWeighted += stats.ReplyRate * float64(stats.TotalSends)
		totalSent += stats.TotalSends
	}

	analysis.CampaignsAnalyzed = len(analysis.IndividualCampaigns)
	analysis.AggregateMetrics = domain.AggregateMetrics{TotalSent: totalSent}
	if totalSent > 0 {
		analysis.AggregateMetrics.AvgOpenRate = openWeighted / float64(totalSent)
		analysis.AggregateMetrics.AvgClickRate = clickWeighted / float64(totalSent)
		analysis.AggregateMetrics.AvgReplyRate = replyWeighted / float64(totalSent)
	}
	analysis.Summary = fmt.Sprintf("Analyzed %d campaigns covering %d sent emails",
		analysis.CampaignsAnalyzed, totalSent)

	state.Analysis = analysis
	state.CurrentStep = domain.StepAnalysisComplete

	if err := e.artifacts.SaveAnalysis(state.CampaignID, analysis); err != nil {
		state.AddError("analysis", err)
		e.log.StageError(state.CampaignID, "analysis", err)
		state.Analysis = nil
	}

	return NodeInsight
}

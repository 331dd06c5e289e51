package pipeline

import (
	"context"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/platform/logger"
)

// Node identifies a pipeline stage for routing.
type Node string

const (
	NodeDiscovery  Node = "discovery"
	NodeAnalysis   Node = "analysis"
	NodeInsight    Node = "insight"
	NodeContent    Node = "content"
	NodeOutreach   Node = "outreach"
	NodeTerminated Node = "terminated"
)

// How much cross-campaign memory each stage looks back over.
const (
	analysisLookback = 5
	insightLookback  = 3
)

// Engine executes the campaign stage graph over a single mutable state.
// Stage failures are recorded on the state; the engine never aborts a run
// except on context cancellation.
type Engine struct {
	metrics        MetricsSource
	recorder       SendRecorder
	sender         Deliverer
	generator      ContentGenerator
	artifacts      ArtifactSink
	history        InsightHistory
	sendsPerMinute int
	log            *logger.Logger
}

// NewEngine wires the pipeline's collaborators. sendsPerMinute of 0
// disables outbound pacing.
func NewEngine(
	metrics MetricsSource,
	recorder SendRecorder,
	sender Deliverer,
	generator ContentGenerator,
	artifacts ArtifactSink,
	history InsightHistory,
	sendsPerMinute int,
	log *logger.Logger,
) *Engine {
	return &Engine{
		metrics:        metrics,
		recorder:       recorder,
		sender:         sender,
		generator:      generator,
		artifacts:      artifacts,
		history:        history,
		sendsPerMinute: sendsPerMinute,
		log:            log,
	}
}

// Run drives the state through the stage graph until termination and
// returns the same state for convenience.
func (e *Engine) Run(ctx context.Context, state *domain.CampaignState) *domain.CampaignState {
	node := NodeDiscovery
	for node != NodeTerminated {
		if err := ctx.Err(); err != nil {
			state.AddError("pipeline", err)
			break
		}
		e.log.StageEvent(state.CampaignID, string(node), string(state.CurrentStep))
		switch node {
		case NodeDiscovery:
			node = e.runDiscovery(state)
		case NodeAnalysis:
			node = e.runAnalysis(ctx, state)
		case NodeInsight:
			node = e.runInsight(ctx, state)
		case NodeContent:
			node = e.runContent(ctx, state)
		case NodeOutreach:
			node = e.runOutreach(ctx, state)
		default:
			node = NodeTerminated
		}
	}
	return state
}

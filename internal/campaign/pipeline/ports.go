// Package pipeline runs a campaign through its stage graph: discovery,
// analysis, insight, content, outreach. The engine owns routing; each
// stage owns exactly one output field of the campaign state.
package pipeline

import (
	"context"
	"time"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/internal/engagement"
)

// MetricsSource provides engagement metrics for previously run campaigns.
type MetricsSource interface {
	CampaignStats(ctx context.Context, campaignID string) (engagement.CampaignStats, error)
	ReplyMetadata(ctx context.Context, campaignID string) ([]engagement.ReplyMetadata, error)
}

// SendRecorder records successful real deliveries in the engagement log.
type SendRecorder interface {
	RecordSend(ctx context.Context, campaignID, email, subject, body string, ts time.Time) error
}

// Deliverer sends outreach emails. DryRun reports whether deliveries are
// simulated instead of hitting the wire.
type Deliverer interface {
	Send(ctx context.Context, to, subject, body string) error
	DryRun() bool
}

// ContentGenerator produces strategic insights and per-lead email copy.
type ContentGenerator interface {
	GenerateInsights(ctx context.Context, analysis *domain.Analysis, previous []domain.Insights) (*domain.Insights, error)
	GenerateEmail(ctx context.Context, lead domain.Lead, product string, insights *domain.Insights) (*domain.EmailContent, error)
}

// ArtifactSink persists per-stage campaign artifacts.
type ArtifactSink interface {
	SaveLeads(id string, leads []domain.Lead) error
	SaveAnalysis(id string, a *domain.Analysis) error
	SaveInsights(id string, ins *domain.Insights) error
	SaveContent(id string, content []domain.EmailContent) error
	SaveReport(id string, r *domain.OutreachReport) error
}

// InsightHistory is the cross-campaign insight memory.
type InsightHistory interface {
	AppendInsights(campaignID string, ins *domain.Insights) error
	RecentInsights(n int) ([]domain.Insights, error)
}

// Package domain defines the campaign bounded context's core types: the
// pipeline state record, leads, stage outputs, and the terminal summary.
package domain

import (
	"strings"
	"time"
)

// Step identifies the last-completed or current pipeline stage. It is
// persisted in summaries for observability and completion inference.
type Step string

const (
	StepInitializing           Step = "initializing"
	StepDiscoverySkipped       Step = "discovery_skipped"
	StepLeadsInState           Step = "leads_in_state"
	StepDiscoveryFailedNoLeads Step = "discovery_failed_no_leads"
	StepAnalysisComplete       Step = "analysis_complete"
	StepInsightsComplete       Step = "insights_complete"
	StepContentComplete        Step = "content_complete"
	StepContentSkipped         Step = "content_skipped"
	StepOutreachComplete       Step = "outreach_complete"
)

// Status is the terminal status of a campaign run.
type Status string

const (
	StatusRunning             Status = "running"
	StatusCompleted           Status = "completed"
	StatusCompletedWithErrors Status = "completed_with_errors"
	StatusFailed              Status = "failed"
)

// Lead is a prospective contact/company record. Uniqueness across campaigns
// is judged by the normalized company name (see NormalizeCompany).
type Lead struct {
	Company      string     `json:"company"`
	Name         string     `json:"name,omitempty"`
	Title        string     `json:"title,omitempty"`
	Industry     string     `json:"industry,omitempty"`
	Email        string     `json:"email,omitempty"`
	Domain       string     `json:"domain,omitempty"`
	DiscoveredAt *time.Time `json:"discovered_at,omitempty"`
}

// NormalizeCompany returns the dedup key for a company name.
func NormalizeCompany(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Params are the caller-supplied campaign parameters.
type Params struct {
	CampaignID         string `json:"campaign_id,omitempty"`
	Product            string `json:"product"`
	TargetIndustry     string `json:"target_industry,omitempty"`
	LeadCount          int    `json:"lead_count,omitempty"`
	UploadedLeadsFile  string `json:"uploaded_leads_file,omitempty"`
	SkipLeadGeneration bool   `json:"skip_lead_generation,omitempty"`
}

// AggregateMetrics is the send-count-weighted mean of rates across the
// analyzed campaigns.
type AggregateMetrics struct {
	AvgOpenRate  float64 `json:"avg_open_rate"`
	AvgClickRate float64 `json:"avg_click_rate"`
	AvgReplyRate float64 `json:"avg_reply_rate"`
	TotalSent    int     `json:"total_sent"`
}

// ReplySnapshot is per-reply metadata carried into the analysis artifact.
type ReplySnapshot struct {
	LeadEmail       string    `json:"lead_email"`
	ReplyTime       time.Time `json:"reply_time"`
	PositivityScore *float64  `json:"positivity_score"`
	ReplyExcerpt    string    `json:"reply_excerpt"`
}

// CampaignPerformance is one analyzed campaign's metrics.
type CampaignPerformance struct {
	CampaignID         string          `json:"campaign_id"`
	OpenRate           float64         `json:"open_rate"`
	ClickRate          float64         `json:"click_rate"`
	ReplyRate          float64         `json:"reply_rate"`
	TotalSent          int             `json:"total_sent"`
	AvgReplyPositivity *float64        `json:"avg_reply_positivity"`
	ReplyMetadata      []ReplySnapshot `json:"reply_metadata"`
}

// Analysis is the output of the analysis stage.
type Analysis struct {
	Note                string                `json:"note,omitempty"`
	CampaignsAnalyzed   int                   `json:"campaigns_analyzed"`
	AggregateMetrics    AggregateMetrics      `json:"aggregate_metrics"`
	IndividualCampaigns []CampaignPerformance `json:"individual_campaigns"`
	Summary             string                `json:"summary,omitempty"`
}

// ContentGuidelines holds copywriting guidance produced by the insight stage.
type ContentGuidelines struct {
	SubjectLines  []string `json:"subject_lines"`
	BodyStructure []string `json:"body_structure"`
	Tone          []string `json:"tone"`
	Avoid         []string `json:"avoid"`
}

// Insights is the output of the insight stage.
type Insights struct {
	PerformanceSummary       string            `json:"performance_summary"`
	ContentGuidelines        ContentGuidelines `json:"content_guidelines"`
	TargetingRecommendations []string          `json:"targeting_recommendations"`
	TimingSuggestions        []string          `json:"timing_suggestions"`
	ABTestIdeas              []string          `json:"ab_test_ideas"`
	UniqueInsights           []string          `json:"unique_insights"`
}

// EmailContent is one generated outreach email plus bookkeeping.
type EmailContent struct {
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	CTA         string    `json:"cta"`
	ToEmail     string    `json:"to_email"`
	Company     string    `json:"company"`
	LeadName    string    `json:"lead_name"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Send record statuses in the outreach report.
const (
	SendStatusSent      = "sent"
	SendStatusFailed    = "failed"
	SendStatusSimulated = "simulated"
)

// SendRecord is one attempted delivery in the outreach report.
type SendRecord struct {
	ToEmail   string    `json:"to_email"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Company   string    `json:"company"`
	LeadName  string    `json:"lead_name"`
}

// ExecutionSummary is the outreach stage's count breakdown. Dry-run
// deliveries count under Failed; Sent reflects real deliveries only.
type ExecutionSummary struct {
	Total       int     `json:"total"`
	Sent        int     `json:"sent"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

// OutreachReport is the output of the outreach stage.
type OutreachReport struct {
	CampaignID       string           `json:"campaign_id"`
	ExecutionSummary ExecutionSummary `json:"execution_summary"`
	SendRecords      []SendRecord     `json:"send_records"`
	ExecutedAt       time.Time        `json:"executed_at"`
}

// CampaignState is the mutable state owned by exactly one pipeline run.
// Leads are set once at initialization and never mutated afterward; each
// stage output field is written exactly once by its owning stage.
type CampaignState struct {
	CampaignID        string          `json:"campaign_id"`
	Params            Params          `json:"params"`
	Leads             []Lead          `json:"leads"`
	Analysis          *Analysis       `json:"analysis,omitempty"`
	Insights          *Insights       `json:"insights,omitempty"`
	Content           []EmailContent  `json:"content,omitempty"`
	OutreachReport    *OutreachReport `json:"outreach_report,omitempty"`
	PreviousCampaigns []string        `json:"previous_campaigns"`
	Errors            []string        `json:"errors"`
	CurrentStep       Step            `json:"current_step"`
}

// AddError appends a stage-tagged error string.
func (s *CampaignState) AddError(stage string, err error) {
	s.Errors = append(s.Errors, stage+": "+err.Error())
}

// Summary is the durable per-run summary. Written once as `running` when the
// run is accepted, then exactly once more with a terminal status.
type Summary struct {
	CampaignID      string     `json:"campaign_id"`
	Status          Status     `json:"status"`
	Product         string     `json:"product,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	Timestamp       time.Time  `json:"timestamp"`
	CurrentStep     Step       `json:"current_step,omitempty"`
	LeadsDiscovered int        `json:"leads_discovered"`
	EmailsGenerated int        `json:"emails_generated"`
	EmailsSent      int        `json:"emails_sent"`
	Errors          []string   `json:"errors"`
}

// TerminalStatus computes the terminal status for a finished run:
// completed iff no errors were captured and leads were present.
func TerminalStatus(s *CampaignState) Status {
	if len(s.Errors) == 0 && len(s.Leads) > 0 {
		return StatusCompleted
	}
	return StatusCompletedWithErrors
}

// IsTerminal reports whether a summary status can no longer change.
func IsTerminal(st Status) bool {
	return st == StatusCompleted || st == StatusCompletedWithErrors || st == StatusFailed
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/internal/campaign/repository"
	"outreach_backend/internal/engagement"
	"outreach_backend/platform/apperr"
	"outreach_backend/platform/logger"
)

const (
	defaultLeadCount = 10
	listLimit        = 50
	detailLimit      = 10
)

// Service is the campaign read/write API used by the HTTP handlers and
// the worker.
type Service struct {
	artifacts *repository.ArtifactStore
	history   *repository.HistoryStore
	uploads   *repository.UploadStore
	events    *engagement.Store
	launcher  Launcher
	log       *logger.Logger
}

// New wires the service. The launcher is injected afterwards via
// SetLauncher because the in-process runner needs the orchestrator first.
func New(
	artifacts *repository.ArtifactStore,
	history *repository.HistoryStore,
	uploads *repository.UploadStore,
	events *engagement.Store,
	log *logger.Logger,
) *Service {
	return &Service{
		artifacts: artifacts,
		history:   history,
		uploads:   uploads,
		events:    events,
		log:       log,
	}
}

// SetLauncher injects the background launcher (in-process runner or queue
// client).
func (s *Service) SetLauncher(l Launcher) {
	s.launcher = l
}

// Detail is the per-campaign read view: the summary plus a preview of the
// stored artifacts.
type Detail struct {
	Summary domain.Summary        `json:"summary"`
	Params  domain.Params         `json:"params"`
	Leads   []domain.Lead         `json:"leads"`
	Emails  []domain.EmailContent `json:"emails"`
}

// DashboardStats aggregates across all campaign summaries.
type DashboardStats struct {
	TotalCampaigns  int     `json:"total_campaigns"`
	Running         int     `json:"running"`
	Completed       int     `json:"completed"`
	Failed          int     `json:"failed"`
	TotalLeads      int     `json:"total_leads"`
	TotalEmailsSent int     `json:"total_emails_sent"`
	SuccessRate     float64 `json:"success_rate"`
}

// StartCampaign accepts a run, writes the initial running summary, and
// launches the pipeline in the background. A duplicate campaign id is a
// conflict; the running summary is the only one ever overwritten, and
// only by the single terminal write.
func (s *Service) StartCampaign(ctx context.Context, params domain.Params) (domain.Summary, error) {
	if strings.TrimSpace(params.Product) == "" {
		return domain.Summary{}, apperr.Validation("product is required")
	}
	if params.LeadCount <= 0 {
		params.LeadCount = defaultLeadCount
	}
	if params.CampaignID == "" {
		params.CampaignID = newCampaignID()
	}
	if s.artifacts.Exists(params.CampaignID) {
		return domain.Summary{}, apperr.Conflict("campaign already exists: " + params.CampaignID)
	}
	if s.launcher == nil {
		return domain.Summary{}, apperr.Unavailable("campaign runner not configured")
	}

	if err := s.artifacts.EnsureCampaignDir(params.CampaignID); err != nil {
		return domain.Summary{}, apperr.Wrap(apperr.KindInternal, "failed to create campaign", err)
	}

	now := time.Now().UTC()
	sum := domain.Summary{
		CampaignID:  params.CampaignID,
		Status:      domain.StatusRunning,
		Product:     params.Product,
		CreatedAt:   &now,
		Timestamp:   now,
		CurrentStep: domain.StepInitializing,
		Errors:      []string{},
	}
	if err := s.artifacts.SaveSummary(params.CampaignID, sum); err != nil {
		return domain.Summary{}, apperr.Wrap(apperr.KindInternal, "failed to record campaign", err)
	}

	if err := s.launcher.Launch(ctx, params); err != nil {
		return domain.Summary{}, apperr.Wrap(apperr.KindInternal, "failed to launch campaign", err)
	}

	s.log.Info("campaign accepted", "campaign_id", params.CampaignID, "product", params.Product)
	return sum, nil
}

func newCampaignID() string {
	return "campaign_" + time.Now().UTC().Format("20060102_150405") + "_" + uuid.New().String()[:8]
}

// ListCampaigns returns all summaries, newest first.
func (s *Service) ListCampaigns(ctx context.Context) ([]domain.Summary, error) {
	sums, err := s.artifacts.ListSummaries()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list campaigns", err)
	}
	if sums == nil {
		sums = []domain.Summary{}
	}
	return sums, nil
}

// GetCampaign returns the detail view for one campaign. Missing artifact
// files beyond the summary are treated as not-yet-produced, not errors.
func (s *Service) GetCampaign(ctx context.Context, id string) (Detail, error) {
	sum, err := s.artifacts.LoadSummary(id)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return Detail{}, apperr.NotFound("campaign not found: " + id)
		}
		return Detail{}, apperr.Wrap(apperr.KindInternal, "failed to load campaign", err)
	}

	detail := Detail{Summary: sum, Leads: []domain.Lead{}, Emails: []domain.EmailContent{}}
	if params, err := s.artifacts.LoadParams(id); err == nil {
		detail.Params = params
	}
	if leads, err := s.artifacts.LoadLeads(id); err == nil {
		detail.Leads = truncateLeads(leads, detailLimit)
	}
	if emails, err := s.artifacts.LoadContent(id); err == nil {
		if len(emails) > detailLimit {
			emails = emails[:detailLimit]
		}
		detail.Emails = emails
	}
	return detail, nil
}

// GetStatus returns the stored summary for a campaign. The status is
// monotonic: running until the single terminal write, then fixed.
func (s *Service) GetStatus(ctx context.Context, id string) (domain.Summary, error) {
	sum, err := s.artifacts.LoadSummary(id)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return domain.Summary{}, apperr.NotFound("campaign not found: " + id)
		}
		return domain.Summary{}, apperr.Wrap(apperr.KindInternal, "failed to load campaign status", err)
	}
	return sum, nil
}

// DashboardStats aggregates the stored summaries and lead history.
func (s *Service) DashboardStats(ctx context.Context) (DashboardStats, error) {
	sums, err := s.artifacts.ListSummaries()
	if err != nil {
		return DashboardStats{}, apperr.Wrap(apperr.KindInternal, "failed to load summaries", err)
	}

	stats := DashboardStats{TotalCampaigns: len(sums)}
	for _, sum := range sums {
		switch sum.Status {
		case domain.StatusRunning:
			stats.Running++
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusFailed:
			stats.Failed++
		}
		stats.TotalEmailsSent += sum.EmailsSent
	}
	if stats.TotalCampaigns > 0 {
		stats.SuccessRate = float64(stats.Completed) / float64(stats.TotalCampaigns) * 100
	}

	leads, err := s.history.AllLeads()
	if err != nil {
		return DashboardStats{}, apperr.Wrap(apperr.KindInternal, "failed to load lead history", err)
	}
	stats.TotalLeads = len(leads)

	return stats, nil
}

// AllLeads returns the most recent slice of the global lead history.
func (s *Service) AllLeads(ctx context.Context) ([]repository.LeadRecord, error) {
	leads, err := s.history.AllLeads()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load lead history", err)
	}
	if len(leads) > listLimit {
		leads = leads[:listLimit]
	}
	if leads == nil {
		leads = []repository.LeadRecord{}
	}
	return leads, nil
}

// AllInsights returns the most recent slice of the global insight history.
func (s *Service) AllInsights(ctx context.Context) ([]repository.InsightRecord, error) {
	records, err := s.history.InsightHistory()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load insight history", err)
	}
	if len(records) > listLimit {
		records = records[:listLimit]
	}
	if records == nil {
		records = []repository.InsightRecord{}
	}
	return records, nil
}

// EngagementHistory returns the most recent slice of the engagement log.
func (s *Service) EngagementHistory(ctx context.Context) ([]engagement.Event, error) {
	events, err := s.events.Events()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load engagement events", err)
	}
	if len(events) > listLimit {
		events = events[:listLimit]
	}
	if events == nil {
		events = []engagement.Event{}
	}
	return events, nil
}

// UploadLeads stores an uploaded lead file and returns its stored name.
func (s *Service) UploadLeads(ctx context.Context, name string, data []byte) (string, error) {
	stored, err := s.uploads.Save(name, data)
	if err != nil {
		if apperr.GetKind(err) != apperr.KindUnknown {
			return "", err
		}
		return "", apperr.Wrap(apperr.KindInternal, "failed to store lead file", err)
	}
	return stored, nil
}

func truncateLeads(leads []domain.Lead, n int) []domain.Lead {
	if len(leads) > n {
		return leads[:n]
	}
	return leads
}

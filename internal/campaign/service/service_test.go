package service

import (
	"context"
	"strings"
	"testing"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/internal/campaign/repository"
	"outreach_backend/internal/engagement"
	"outreach_backend/platform/apperr"
	"outreach_backend/platform/logger"
)

type fakeLauncher struct {
	launched []domain.Params
	err      error
}

func (f *fakeLauncher) Launch(ctx context.Context, params domain.Params) error {
	if f.err != nil {
		return f.err
	}
	f.launched = append(f.launched, params)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeLauncher) {
	t.Helper()
	dirs := testDirs{base: t.TempDir()}
	log := logger.New("development")

	artifacts := repository.NewArtifactStore(dirs, log)
	history := repository.NewHistoryStore(dirs, log)
	uploads := repository.NewUploadStore(dirs, log)
	events := engagement.NewStore(dirs)

	svc := New(artifacts, history, uploads, events, log)
	launcher := &fakeLauncher{}
	svc.SetLauncher(launcher)
	return svc, launcher
}

func TestStartCampaignRequiresProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.StartCampaign(context.Background(), domain.Params{Product: "  "})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStartCampaignAcceptsAndLaunches(t *testing.T) {
	svc, launcher := newTestService(t)

	sum, err := svc.StartCampaign(context.Background(), domain.Params{Product: "WidgetCloud"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sum.Status != domain.StatusRunning {
		t.Fatalf("status = %s, want running", sum.Status)
	}
	if !strings.HasPrefix(sum.CampaignID, "campaign_") {
		t.Fatalf("generated id = %q", sum.CampaignID)
	}
	if sum.CreatedAt == nil {
		t.Fatalf("created at not set")
	}

	if len(launcher.launched) != 1 {
		t.Fatalf("launches = %d, want 1", len(launcher.launched))
	}
	params := launcher.launched[0]
	if params.CampaignID != sum.CampaignID {
		t.Fatalf("launched id = %q, want %q", params.CampaignID, sum.CampaignID)
	}
	if params.LeadCount != defaultLeadCount {
		t.Fatalf("lead count = %d, want default %d", params.LeadCount, defaultLeadCount)
	}

	status, err := svc.GetStatus(context.Background(), sum.CampaignID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Status != domain.StatusRunning {
		t.Fatalf("stored status = %s", status.Status)
	}
}

func TestStartCampaignDuplicateConflicts(t *testing.T) {
	svc, _ := newTestService(t)

	params := domain.Params{CampaignID: "c_dup", Product: "WidgetCloud"}
	if _, err := svc.StartCampaign(context.Background(), params); err != nil {
		t.Fatalf("first start: %v", err)
	}
	_, err := svc.StartCampaign(context.Background(), params)
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestStartCampaignWithoutLauncher(t *testing.T) {
	svc, _ := newTestService(t)
	svc.SetLauncher(nil)

	_, err := svc.StartCampaign(context.Background(), domain.Params{Product: "WidgetCloud"})
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestGetCampaignNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.GetCampaign(context.Background(), "ghost"); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.GetStatus(context.Background(), "ghost"); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDashboardStatsAggregates(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.StartCampaign(context.Background(), domain.Params{CampaignID: "c1", Product: "A"}); err != nil {
		t.Fatalf("start c1: %v", err)
	}
	// Finish c1 with a terminal summary, start c2 still running.
	done := domain.Summary{CampaignID: "c1", Status: domain.StatusCompleted, EmailsSent: 4, Errors: []string{}}
	if err := svc.artifacts.SaveSummary("c1", done); err != nil {
		t.Fatalf("finish c1: %v", err)
	}
	if _, err := svc.StartCampaign(context.Background(), domain.Params{CampaignID: "c2", Product: "B"}); err != nil {
		t.Fatalf("start c2: %v", err)
	}

	stats, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalCampaigns != 2 || stats.Completed != 1 || stats.Running != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.TotalEmailsSent != 4 {
		t.Fatalf("emails sent = %d", stats.TotalEmailsSent)
	}
	if stats.SuccessRate != 50 {
		t.Fatalf("success rate = %v, want 50", stats.SuccessRate)
	}
}

func TestListCampaignsEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	sums, err := svc.ListCampaigns(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if sums == nil || len(sums) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", sums)
	}
}

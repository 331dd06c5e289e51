package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/internal/campaign/pipeline"
	"outreach_backend/internal/campaign/repository"
	"outreach_backend/internal/engagement"
	"outreach_backend/platform/logger"
)

type testDirs struct {
	base string
}

func (d testDirs) GetCampaignsDir() string { return filepath.Join(d.base, "campaigns") }
func (d testDirs) GetMemoryDir() string    { return filepath.Join(d.base, "memory") }
func (d testDirs) GetUploadsDir() string   { return filepath.Join(d.base, "uploads") }

type stubSender struct {
	sent []string
}

func (s *stubSender) Send(ctx context.Context, to, subject, body string) error {
	s.sent = append(s.sent, to)
	return nil
}

func (s *stubSender) DryRun() bool { return false }

type stubGenerator struct {
	panicOnInsights bool
}

func (g *stubGenerator) GenerateInsights(ctx context.Context, analysis *domain.Analysis, previous []domain.Insights) (*domain.Insights, error) {
	if g.panicOnInsights {
		panic("generator exploded")
	}
	return &domain.Insights{PerformanceSummary: "keep it short"}, nil
}

func (g *stubGenerator) GenerateEmail(ctx context.Context, lead domain.Lead, product string, insights *domain.Insights) (*domain.EmailContent, error) {
	return &domain.EmailContent{
		Subject:     "Hello " + lead.Company,
		Body:        "About " + product,
		CTA:         "Reply",
		ToEmail:     lead.Email,
		Company:     lead.Company,
		LeadName:    lead.Name,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

type orchestratorFixture struct {
	dirs         testDirs
	artifacts    *repository.ArtifactStore
	history      *repository.HistoryStore
	uploads      *repository.UploadStore
	sender       *stubSender
	generator    *stubGenerator
	orchestrator *Orchestrator
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()
	dirs := testDirs{base: t.TempDir()}
	log := logger.New("development")

	artifacts := repository.NewArtifactStore(dirs, log)
	history := repository.NewHistoryStore(dirs, log)
	uploads := repository.NewUploadStore(dirs, log)
	events := engagement.NewStore(dirs)
	tracker := engagement.NewTracker(events, nil, "outreach@company.com", log)

	sender := &stubSender{}
	generator := &stubGenerator{}
	engine := pipeline.NewEngine(tracker, tracker, sender, generator, artifacts, history, 0, log)

	return &orchestratorFixture{
		dirs:         dirs,
		artifacts:    artifacts,
		history:      history,
		uploads:      uploads,
		sender:       sender,
		generator:    generator,
		orchestrator: NewOrchestrator(engine, artifacts, history, uploads, log),
	}
}

func (f *orchestratorFixture) writeUpload(t *testing.T, name, content string) {
	t.Helper()
	if err := os.MkdirAll(f.dirs.GetUploadsDir(), 0o755); err != nil {
		t.Fatalf("mkdir uploads: %v", err)
	}
	if err := os.WriteFile(filepath.Join(f.dirs.GetUploadsDir(), name), []byte(content), 0o644); err != nil {
		t.Fatalf("write upload: %v", err)
	}
}

const threeLeads = `[
	{"company": "Acme", "name": "Pat", "email": "pat@acme.com"},
	{"company": "Globex", "name": "Sam", "email": "sam@globex.com"},
	{"company": "Initech", "name": "Kim", "email": "kim@initech.com"}
]`

func TestOrchestratorRunEndToEnd(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.writeUpload(t, "leads.json", threeLeads)

	params := domain.Params{
		CampaignID:        "c_e2e",
		Product:           "WidgetCloud",
		LeadCount:         2,
		UploadedLeadsFile: "leads.json",
	}

	sum, err := f.orchestrator.Run(context.Background(), params)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if sum.Status != domain.StatusCompleted {
		t.Fatalf("status = %s, errors = %v", sum.Status, sum.Errors)
	}
	if sum.LeadsDiscovered != 2 || sum.EmailsGenerated != 2 || sum.EmailsSent != 2 {
		t.Fatalf("counts = %d/%d/%d, want 2/2/2", sum.LeadsDiscovered, sum.EmailsGenerated, sum.EmailsSent)
	}
	if sum.CurrentStep != domain.StepOutreachComplete {
		t.Fatalf("step = %s", sum.CurrentStep)
	}
	if len(f.sender.sent) != 2 {
		t.Fatalf("deliveries = %v", f.sender.sent)
	}

	stored, err := f.artifacts.LoadSummary("c_e2e")
	if err != nil {
		t.Fatalf("load summary: %v", err)
	}
	if stored.Status != domain.StatusCompleted {
		t.Fatalf("stored status = %s", stored.Status)
	}

	leads, err := f.artifacts.LoadLeads("c_e2e")
	if err != nil {
		t.Fatalf("load leads: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("persisted leads = %d, want truncated to 2", len(leads))
	}

	records, err := f.history.AllLeads()
	if err != nil {
		t.Fatalf("lead history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("history records = %d, want 2", len(records))
	}

	insights, err := f.history.InsightHistory()
	if err != nil {
		t.Fatalf("insight history: %v", err)
	}
	if len(insights) != 1 || insights[0].CampaignID != "c_e2e" {
		t.Fatalf("insight history = %+v", insights)
	}
}

func TestOrchestratorDedupAgainstHistory(t *testing.T) {
	f := newOrchestratorFixture(t)
	if err := f.history.AppendLeads("earlier", []domain.Lead{{Company: "ACME"}}); err != nil {
		t.Fatalf("seed history: %v", err)
	}
	f.writeUpload(t, "leads.json", threeLeads)

	params := domain.Params{CampaignID: "c_dedup", Product: "WidgetCloud", LeadCount: 10, UploadedLeadsFile: "leads.json"}
	sum, err := f.orchestrator.Run(context.Background(), params)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.LeadsDiscovered != 2 {
		t.Fatalf("leads = %d, want Acme deduplicated away", sum.LeadsDiscovered)
	}
}

func TestOrchestratorNoLeadsCompletesWithErrors(t *testing.T) {
	f := newOrchestratorFixture(t)

	params := domain.Params{CampaignID: "c_empty", Product: "WidgetCloud", LeadCount: 5}
	sum, err := f.orchestrator.Run(context.Background(), params)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Status != domain.StatusCompletedWithErrors {
		t.Fatalf("status = %s", sum.Status)
	}
	if sum.CurrentStep != domain.StepDiscoveryFailedNoLeads {
		t.Fatalf("step = %s", sum.CurrentStep)
	}
	if sum.EmailsSent != 0 {
		t.Fatalf("sent = %d, want 0", sum.EmailsSent)
	}
}

func TestOrchestratorPanicWritesFailedSummary(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.generator.panicOnInsights = true
	f.writeUpload(t, "leads.json", threeLeads)

	params := domain.Params{CampaignID: "c_panic", Product: "WidgetCloud", LeadCount: 3, UploadedLeadsFile: "leads.json"}
	if _, err := f.orchestrator.Run(context.Background(), params); err == nil {
		t.Fatalf("expected error from panicking run")
	}

	sum, err := f.artifacts.LoadSummary("c_panic")
	if err != nil {
		t.Fatalf("load summary: %v", err)
	}
	if sum.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed", sum.Status)
	}
	if len(sum.Errors) != 1 {
		t.Fatalf("errors = %v", sum.Errors)
	}
}

func TestOrchestratorMissingUploadFails(t *testing.T) {
	f := newOrchestratorFixture(t)

	params := domain.Params{CampaignID: "c_missing", Product: "WidgetCloud", UploadedLeadsFile: "ghost.json"}
	if _, err := f.orchestrator.Run(context.Background(), params); err == nil {
		t.Fatalf("expected error for missing upload")
	}

	sum, err := f.artifacts.LoadSummary("c_missing")
	if err != nil {
		t.Fatalf("load summary: %v", err)
	}
	if sum.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed", sum.Status)
	}
}

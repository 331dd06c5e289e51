package repository

import (
	"fmt"
	"testing"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/platform/logger"
)

func newTestHistory(t *testing.T) *HistoryStore {
	t.Helper()
	return NewHistoryStore(testDirs{base: t.TempDir()}, logger.New("development"))
}

func TestRecentInsightsWindow(t *testing.T) {
	store := newTestHistory(t)

	for i := 0; i < 5; i++ {
		ins := &domain.Insights{PerformanceSummary: fmt.Sprintf("run %d", i)}
		if err := store.AppendInsights(fmt.Sprintf("c%d", i), ins); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recent, err := store.RecentInsights(3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("recent = %d, want 3", len(recent))
	}
	if recent[0].PerformanceSummary != "run 2" || recent[2].PerformanceSummary != "run 4" {
		t.Fatalf("window = %q..%q, want run 2..run 4", recent[0].PerformanceSummary, recent[2].PerformanceSummary)
	}
}

func TestRecentInsightsEmptyHistory(t *testing.T) {
	store := newTestHistory(t)
	recent, err := store.RecentInsights(3)
	if err != nil {
		t.Fatalf("recent on empty history: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("recent = %d, want 0", len(recent))
	}
}

func TestAppendLeadsStampsDiscovery(t *testing.T) {
	store := newTestHistory(t)

	leads := []domain.Lead{
		{Company: "Acme", Email: "a@acme.com"},
		{Company: "Globex", Email: "b@globex.com"},
	}
	if err := store.AppendLeads("c1", leads); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := store.AllLeads()
	if err != nil {
		t.Fatalf("all leads: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	for _, r := range records {
		if r.CampaignID != "c1" {
			t.Fatalf("campaign id = %q", r.CampaignID)
		}
		if r.DiscoveredAt == nil {
			t.Fatalf("discovery time not stamped: %+v", r)
		}
	}
}

func TestHistoricalCompaniesNormalized(t *testing.T) {
	store := newTestHistory(t)

	if err := store.AppendLeads("c1", []domain.Lead{{Company: "  ACME Corp  "}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	seen, err := store.HistoricalCompanies()
	if err != nil {
		t.Fatalf("companies: %v", err)
	}
	if _, ok := seen["acme corp"]; !ok {
		t.Fatalf("normalized key missing: %v", seen)
	}
	if len(seen) != 1 {
		t.Fatalf("seen = %d entries, want 1", len(seen))
	}
}

package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/platform/apperr"
	"outreach_backend/platform/logger"
)

type testDirs struct {
	base string
}

func (d testDirs) GetCampaignsDir() string { return filepath.Join(d.base, "campaigns") }
func (d testDirs) GetMemoryDir() string    { return filepath.Join(d.base, "memory") }
func (d testDirs) GetUploadsDir() string   { return filepath.Join(d.base, "uploads") }

func newTestArtifacts(t *testing.T) (*ArtifactStore, testDirs) {
	t.Helper()
	dirs := testDirs{base: t.TempDir()}
	return NewArtifactStore(dirs, logger.New("development")), dirs
}

func TestArtifactSummaryRoundTrip(t *testing.T) {
	store, dirs := newTestArtifacts(t)

	sum := domain.Summary{
		CampaignID:      "c1",
		Status:          domain.StatusCompleted,
		Product:         "WidgetCloud",
		Timestamp:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		CurrentStep:     domain.StepOutreachComplete,
		LeadsDiscovered: 4,
		EmailsSent:      3,
		Errors:          []string{},
	}
	if err := store.SaveSummary("c1", sum); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.LoadSummary("c1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Status != domain.StatusCompleted || loaded.EmailsSent != 3 {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}

	entries, err := os.ReadDir(filepath.Join(dirs.GetCampaignsDir(), "c1"))
	if err != nil {
		t.Fatalf("read campaign dir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestArtifactLoadMissingIsNotFound(t *testing.T) {
	store, _ := newTestArtifacts(t)

	_, err := store.LoadSummary("nope")
	if err == nil {
		t.Fatalf("expected error for missing artifact")
	}
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("kind = %v, want not found", apperr.GetKind(err))
	}
}

func TestListCampaignIDsExcludesCurrent(t *testing.T) {
	store, _ := newTestArtifacts(t)
	for _, id := range []string{"c1", "c2", "c3"} {
		if err := store.EnsureCampaignDir(id); err != nil {
			t.Fatalf("ensure %s: %v", id, err)
		}
	}

	ids, err := store.ListCampaignIDs("c2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 || ids[0] != "c1" || ids[1] != "c3" {
		t.Fatalf("ids = %v, want [c1 c3]", ids)
	}
}

func TestListSummariesNewestFirst(t *testing.T) {
	store, _ := newTestArtifacts(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"c1", "c2", "c3"} {
		sum := domain.Summary{CampaignID: id, Status: domain.StatusCompleted, Timestamp: base.Add(time.Duration(i) * time.Hour)}
		if err := store.SaveSummary(id, sum); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	// A campaign dir without a summary yet is skipped, not an error.
	if err := store.EnsureCampaignDir("c4"); err != nil {
		t.Fatalf("ensure c4: %v", err)
	}

	sums, err := store.ListSummaries()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sums) != 3 {
		t.Fatalf("summaries = %d, want 3", len(sums))
	}
	if sums[0].CampaignID != "c3" || sums[2].CampaignID != "c1" {
		t.Fatalf("order = %s..%s, want newest first", sums[0].CampaignID, sums[2].CampaignID)
	}
}

func TestListCampaignIDsEmptyRoot(t *testing.T) {
	store, _ := newTestArtifacts(t)
	ids, err := store.ListCampaignIDs("")
	if err != nil {
		t.Fatalf("list on missing root: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("ids = %v, want none", ids)
	}
}

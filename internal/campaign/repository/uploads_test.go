package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"outreach_backend/platform/apperr"
	"outreach_backend/platform/logger"
)

func newTestUploads(t *testing.T) (*UploadStore, testDirs) {
	t.Helper()
	dirs := testDirs{base: t.TempDir()}
	return NewUploadStore(dirs, logger.New("development")), dirs
}

func TestUploadSaveRejectsNonJSON(t *testing.T) {
	store, _ := newTestUploads(t)

	if _, err := store.Save("leads.csv", []byte("a,b")); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for csv, got %v", err)
	}
}

func TestUploadLoadLeadsBothShapes(t *testing.T) {
	store, dirs := newTestUploads(t)
	if err := os.MkdirAll(dirs.GetUploadsDir(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	bare := `[{"company": "Acme", "email": "a@acme.com"}]`
	wrapped := `{"leads": [{"company": "Globex"}, {"company": "Initech"}]}`
	writeUpload(t, dirs, "bare.json", bare)
	writeUpload(t, dirs, "wrapped.json", wrapped)

	leads, err := store.LoadLeads("bare.json")
	if err != nil {
		t.Fatalf("load bare: %v", err)
	}
	if len(leads) != 1 || leads[0].Company != "Acme" {
		t.Fatalf("bare leads = %+v", leads)
	}

	leads, err = store.LoadLeads("wrapped.json")
	if err != nil {
		t.Fatalf("load wrapped: %v", err)
	}
	if len(leads) != 2 || leads[1].Company != "Initech" {
		t.Fatalf("wrapped leads = %+v", leads)
	}
}

func TestUploadLoadLeadsMissingFile(t *testing.T) {
	store, _ := newTestUploads(t)
	if _, err := store.LoadLeads("ghost.json"); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUploadLatestFileByModTime(t *testing.T) {
	store, dirs := newTestUploads(t)
	if err := os.MkdirAll(dirs.GetUploadsDir(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	writeUpload(t, dirs, "old.json", "[]")
	writeUpload(t, dirs, "new.json", "[]")
	writeUpload(t, dirs, "notes.txt", "ignored")

	now := time.Now()
	chtimes(t, dirs, "old.json", now.Add(-2*time.Hour))
	chtimes(t, dirs, "new.json", now.Add(-time.Minute))

	latest, err := store.LatestFile()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != "new.json" {
		t.Fatalf("latest = %q, want new.json", latest)
	}
}

func TestUploadLatestFileEmptyDir(t *testing.T) {
	store, _ := newTestUploads(t)
	latest, err := store.LatestFile()
	if err != nil {
		t.Fatalf("latest on missing dir: %v", err)
	}
	if latest != "" {
		t.Fatalf("latest = %q, want empty", latest)
	}
}

func writeUpload(t *testing.T, dirs testDirs, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dirs.GetUploadsDir(), name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func chtimes(t *testing.T, dirs testDirs, name string, ts time.Time) {
	t.Helper()
	if err := os.Chtimes(filepath.Join(dirs.GetUploadsDir(), name), ts, ts); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
}

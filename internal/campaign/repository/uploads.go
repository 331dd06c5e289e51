package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/platform/apperr"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"
)

// UploadStore manages caller-provided lead files in the uploads directory.
type UploadStore struct {
	dir string
	log *logger.Logger
}

// NewUploadStore creates a store rooted at the configured uploads dir.
func NewUploadStore(cfg config.DataConfig, log *logger.Logger) *UploadStore {
	return &UploadStore{dir: cfg.GetUploadsDir(), log: log}
}

// Save stores an uploaded lead file and returns its stored filename. The
// name is timestamped to avoid collisions between uploads.
func (s *UploadStore) Save(originalName string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	base := filepath.Base(originalName)
	if !strings.HasSuffix(strings.ToLower(base), ".json") {
		return "", apperr.Validation("only .json lead files are accepted")
	}
	name := time.Now().UTC().Format("20060102_150405") + "_" + base
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	s.log.Info("lead file stored", "file", name)
	return name, nil
}

// LoadLeads parses a stored lead file. The file may be either a bare JSON
// array of leads or an object with a "leads" array.
func (s *UploadStore) LoadLeads(name string) ([]domain.Lead, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, filepath.Base(name))
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, apperr.NotFound("lead file not found: " + filepath.Base(name))
	}
	if err != nil {
		return nil, err
	}

	var leads []domain.Lead
	if err := json.Unmarshal(data, &leads); err == nil {
		return leads, nil
	}
	var wrapped struct {
		Leads []domain.Lead `json:"leads"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, apperr.Validation("lead file is not valid JSON: " + filepath.Base(name))
	}
	return wrapped.Leads, nil
}

// LatestFile returns the name of the most recently modified .json upload,
// or empty when there are none.
func (s *UploadStore) LatestFile() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var (
		latest    string
		latestMod time.Time
	)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = e.Name()
			latestMod = info.ModTime()
		}
	}
	return latest, nil
}

package repository

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"
)

// Memory file names inside the memory directory.
const (
	fileInsightHistory = "global_insights_history.json"
	fileLeadHistory    = "all_leads_history.json"
)

// InsightRecord is one appended insight entry in the global history.
type InsightRecord struct {
	CampaignID string          `json:"campaign_id"`
	Timestamp  time.Time       `json:"timestamp"`
	Insights   domain.Insights `json:"insights"`
}

// LeadRecord is one discovered lead in the global lead history.
type LeadRecord struct {
	domain.Lead
	CampaignID string `json:"campaign_id"`
}

// HistoryStore owns the cross-campaign memory files. Appends from
// concurrent campaign runs are serialized by a mutex; each append is a
// full read-modify-write with an atomic replace.
type HistoryStore struct {
	memoryDir string
	mu        sync.Mutex
	log       *logger.Logger
}

// NewHistoryStore creates a store rooted at the configured memory dir.
func NewHistoryStore(cfg config.DataConfig, log *logger.Logger) *HistoryStore {
	return &HistoryStore{memoryDir: cfg.GetMemoryDir(), log: log}
}

// AppendInsights records one campaign's insights in the global history.
func (s *HistoryStore) AppendInsights(campaignID string, ins *domain.Insights) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.memoryDir, fileInsightHistory)
	var records []InsightRecord
	if err := readJSON(path, &records); err != nil && !os.IsNotExist(err) {
		return err
	}
	records = append(records, InsightRecord{
		CampaignID: campaignID,
		Timestamp:  time.Now().UTC(),
		Insights:   *ins,
	})
	return writeJSON(path, records)
}

// RecentInsights returns up to n of the most recently appended insights,
// oldest first.
func (s *HistoryStore) RecentInsights(n int) ([]domain.Insights, error) {
	records, err := s.InsightHistory()
	if err != nil {
		return nil, err
	}
	if len(records) > n {
		records = records[len(records)-n:]
	}
	out := make([]domain.Insights, 0, len(records))
	for _, r := range records {
		out = append(out, r.Insights)
	}
	return out, nil
}

// InsightHistory returns the full insight history in append order.
func (s *HistoryStore) InsightHistory() ([]InsightRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []InsightRecord
	err := readJSON(filepath.Join(s.memoryDir, fileInsightHistory), &records)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return records, err
}

// AppendLeads adds a campaign's leads to the global lead history, stamping
// a discovery time on leads that lack one.
func (s *HistoryStore) AppendLeads(campaignID string, leads []domain.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.memoryDir, fileLeadHistory)
	var records []LeadRecord
	if err := readJSON(path, &records); err != nil && !os.IsNotExist(err) {
		return err
	}
	now := time.Now().UTC()
	for _, lead := range leads {
		if lead.DiscoveredAt == nil {
			t := now
			lead.DiscoveredAt = &t
		}
		records = append(records, LeadRecord{Lead: lead, CampaignID: campaignID})
	}
	return writeJSON(path, records)
}

// AllLeads returns the full lead history in append order.
func (s *HistoryStore) AllLeads() ([]LeadRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []LeadRecord
	err := readJSON(filepath.Join(s.memoryDir, fileLeadHistory), &records)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return records, err
}

// HistoricalCompanies returns the set of normalized company names seen in
// any previous campaign.
func (s *HistoryStore) HistoricalCompanies() (map[string]struct{}, error) {
	records, err := s.AllLeads()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if key := domain.NormalizeCompany(r.Company); key != "" {
			seen[key] = struct{}{}
		}
	}
	return seen, nil
}

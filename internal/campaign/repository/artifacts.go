package repository

import (
	"os"
	"path/filepath"
	"sort"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/platform/apperr"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"
)

// Artifact file names inside each campaign directory.
const (
	fileParams   = "campaign_params.json"
	fileLeads    = "discovered_leads.json"
	fileAnalysis = "analysis_report.json"
	fileInsights = "feedback_insights.json"
	fileContent  = "generated_content.json"
	fileReport   = "outreach_report.json"
	fileSummary  = "campaign_summary.json"
)

// ArtifactStore owns the per-campaign artifact directories. Each campaign
// run has a single writer, so individual artifact writes need no locking;
// atomicity comes from the rename in writeJSON.
type ArtifactStore struct {
	campaignsDir string
	log          *logger.Logger
}

// NewArtifactStore creates a store rooted at the configured campaigns dir.
func NewArtifactStore(cfg config.DataConfig, log *logger.Logger) *ArtifactStore {
	return &ArtifactStore{campaignsDir: cfg.GetCampaignsDir(), log: log}
}

func (s *ArtifactStore) campaignDir(id string) string {
	return filepath.Join(s.campaignsDir, id)
}

// EnsureCampaignDir creates the campaign's artifact directory.
func (s *ArtifactStore) EnsureCampaignDir(id string) error {
	return os.MkdirAll(s.campaignDir(id), 0o755)
}

// Exists reports whether a campaign directory is already present.
func (s *ArtifactStore) Exists(id string) bool {
	info, err := os.Stat(s.campaignDir(id))
	return err == nil && info.IsDir()
}

func (s *ArtifactStore) save(id, name string, v interface{}) error {
	if err := writeJSON(filepath.Join(s.campaignDir(id), name), v); err != nil {
		s.log.StoreError("save "+name, err)
		return err
	}
	return nil
}

func (s *ArtifactStore) load(id, name string, v interface{}) error {
	err := readJSON(filepath.Join(s.campaignDir(id), name), v)
	if os.IsNotExist(err) {
		return apperr.NotFound("artifact not found: " + name)
	}
	return err
}

func (s *ArtifactStore) SaveParams(id string, p domain.Params) error {
	return s.save(id, fileParams, p)
}

func (s *ArtifactStore) SaveLeads(id string, leads []domain.Lead) error {
	return s.save(id, fileLeads, leads)
}

func (s *ArtifactStore) SaveAnalysis(id string, a *domain.Analysis) error {
	return s.save(id, fileAnalysis, a)
}

func (s *ArtifactStore) SaveInsights(id string, ins *domain.Insights) error {
	return s.save(id, fileInsights, ins)
}

func (s *ArtifactStore) SaveContent(id string, content []domain.EmailContent) error {
	return s.save(id, fileContent, content)
}

func (s *ArtifactStore) SaveReport(id string, r *domain.OutreachReport) error {
	return s.save(id, fileReport, r)
}

func (s *ArtifactStore) SaveSummary(id string, sum domain.Summary) error {
	return s.save(id, fileSummary, sum)
}

func (s *ArtifactStore) LoadParams(id string) (domain.Params, error) {
	var p domain.Params
	err := s.load(id, fileParams, &p)
	return p, err
}

func (s *ArtifactStore) LoadLeads(id string) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := s.load(id, fileLeads, &leads)
	return leads, err
}

func (s *ArtifactStore) LoadAnalysis(id string) (*domain.Analysis, error) {
	var a domain.Analysis
	if err := s.load(id, fileAnalysis, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ArtifactStore) LoadInsights(id string) (*domain.Insights, error) {
	var ins domain.Insights
	if err := s.load(id, fileInsights, &ins); err != nil {
		return nil, err
	}
	return &ins, nil
}

func (s *ArtifactStore) LoadContent(id string) ([]domain.EmailContent, error) {
	var content []domain.EmailContent
	err := s.load(id, fileContent, &content)
	return content, err
}

func (s *ArtifactStore) LoadReport(id string) (*domain.OutreachReport, error) {
	var r domain.OutreachReport
	if err := s.load(id, fileReport, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *ArtifactStore) LoadSummary(id string) (domain.Summary, error) {
	var sum domain.Summary
	err := s.load(id, fileSummary, &sum)
	return sum, err
}

// ListCampaignIDs returns the ids of all campaign directories except the
// excluded one, in lexical order.
func (s *ArtifactStore) ListCampaignIDs(exclude string) ([]string, error) {
	entries, err := os.ReadDir(s.campaignsDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || e.Name() == exclude {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// ListSummaries returns every campaign's summary, newest first. Campaigns
// without a summary file yet are skipped.
func (s *ArtifactStore) ListSummaries() ([]domain.Summary, error) {
	ids, err := s.ListCampaignIDs("")
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.Summary, 0, len(ids))
	for _, id := range ids {
		sum, err := s.LoadSummary(id)
		if err != nil {
			continue
		}
		summaries = append(summaries, sum)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Timestamp.After(summaries[j].Timestamp)
	})
	return summaries, nil
}

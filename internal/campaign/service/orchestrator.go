// Package service owns the campaign lifecycle: accepting runs, building
// the initial pipeline state, executing the stage graph, and exposing the
// read API over stored artifacts.
package service

import (
	"context"
	"fmt"
	"time"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/internal/campaign/pipeline"
	"outreach_backend/internal/campaign/repository"
	"outreach_backend/platform/logger"
)

// Orchestrator runs one campaign end to end: ingestion, pipeline, terminal
// summary. It assumes the initial `running` summary was written when the
// run was accepted.
type Orchestrator struct {
	engine    *pipeline.Engine
	artifacts *repository.ArtifactStore
	history   *repository.HistoryStore
	uploads   *repository.UploadStore
	log       *logger.Logger
}

// NewOrchestrator wires the orchestrator's collaborators.
func NewOrchestrator(
	engine *pipeline.Engine,
	artifacts *repository.ArtifactStore,
	history *repository.HistoryStore,
	uploads *repository.UploadStore,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		engine:    engine,
		artifacts: artifacts,
		history:   history,
		uploads:   uploads,
		log:       log,
	}
}

// Run executes a campaign. Pipeline-stage failures end in a
// completed_with_errors summary; a panic or an initialization failure ends
// in a best-effort `failed` summary so the run never stays `running`
// forever.
func (o *Orchestrator) Run(ctx context.Context, params domain.Params) (sum domain.Summary, err error) {
	id := params.CampaignID
	log := o.log.WithCampaignID(id)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("campaign run panicked: %v", r)
		}
		if err != nil {
			log.Error("campaign run failed", "error", err.Error())
			o.writeFailedSummary(id, params, err)
		}
	}()

	state, err := o.initialState(params)
	if err != nil {
		return domain.Summary{}, err
	}

	if err := o.artifacts.EnsureCampaignDir(id); err != nil {
		return domain.Summary{}, fmt.Errorf("create campaign dir: %w", err)
	}
	if err := o.artifacts.SaveParams(id, state.Params); err != nil {
		return domain.Summary{}, fmt.Errorf("save params: %w", err)
	}

	log.Info("campaign started", "leads", len(state.Leads), "product", params.Product)
	o.engine.Run(ctx, state)

	sum = terminalSummary(state)
	if err := o.artifacts.SaveSummary(id, sum); err != nil {
		return domain.Summary{}, fmt.Errorf("save summary: %w", err)
	}

	log.Info("campaign finished",
		"status", string(sum.Status),
		"leads", sum.LeadsDiscovered,
		"emails_sent", sum.EmailsSent,
		"errors", len(sum.Errors),
	)
	return sum, nil
}

// initialState builds the pipeline state: ingested leads, previous
// campaign ids, and the initializing step marker.
func (o *Orchestrator) initialState(params domain.Params) (*domain.CampaignState, error) {
	leads, err := o.ingestLeads(&params)
	if err != nil {
		return nil, err
	}

	previous, err := o.artifacts.ListCampaignIDs(params.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("list previous campaigns: %w", err)
	}

	return &domain.CampaignState{
		CampaignID:        params.CampaignID,
		Params:            params,
		Leads:             leads,
		PreviousCampaigns: previous,
		Errors:            []string{},
		CurrentStep:       domain.StepInitializing,
	}, nil
}

// ingestLeads loads the named upload file, or the most recent one when
// none is named. New leads are deduplicated against the global company
// history and within the batch, truncated to the requested count, and
// appended to the history. A successful ingestion marks lead generation
// as skipped on the params.
func (o *Orchestrator) ingestLeads(params *domain.Params) ([]domain.Lead, error) {
	file := params.UploadedLeadsFile
	if file == "" {
		latest, err := o.uploads.LatestFile()
		if err != nil {
			return nil, fmt.Errorf("find latest upload: %w", err)
		}
		file = latest
	}
	if file == "" {
		return nil, nil
	}

	raw, err := o.uploads.LoadLeads(file)
	if err != nil {
		return nil, fmt.Errorf("load leads from %s: %w", file, err)
	}

	seen, err := o.history.HistoricalCompanies()
	if err != nil {
		return nil, fmt.Errorf("load lead history: %w", err)
	}

	now := time.Now().UTC()
	leads := make([]domain.Lead, 0, len(raw))
	for _, lead := range raw {
		key := domain.NormalizeCompany(lead.Company)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if lead.DiscoveredAt == nil {
			t := now
			lead.DiscoveredAt = &t
		}
		leads = append(leads, lead)
	}

	if params.LeadCount > 0 && len(leads) > params.LeadCount {
		leads = leads[:params.LeadCount]
	}

	if len(leads) > 0 {
		params.SkipLeadGeneration = true
		params.UploadedLeadsFile = file
		if err := o.history.AppendLeads(params.CampaignID, leads); err != nil {
			return nil, fmt.Errorf("append lead history: %w", err)
		}
	}

	o.log.Info("leads ingested",
		"campaign_id", params.CampaignID, "file", file,
		"raw", len(raw), "accepted", len(leads),
	)
	return leads, nil
}

// terminalSummary derives the durable summary from the finished state.
func terminalSummary(state *domain.CampaignState) domain.Summary {
	var emailsSent int
	if state.OutreachReport != nil {
		emailsSent = state.OutreachReport.ExecutionSummary.Sent
	}
	errs := state.Errors
	if errs == nil {
		errs = []string{}
	}
	return domain.Summary{
		CampaignID:      state.CampaignID,
		Status:          domain.TerminalStatus(state),
		Product:         state.Params.Product,
		Timestamp:       time.Now().UTC(),
		CurrentStep:     state.CurrentStep,
		LeadsDiscovered: len(state.Leads),
		EmailsGenerated: len(state.Content),
		EmailsSent:      emailsSent,
		Errors:          errs,
	}
}

// writeFailedSummary is the second phase of failure handling: overwrite
// the `running` summary with `failed` so callers see a terminal status.
// Best effort; a write failure here is only logged.
func (o *Orchestrator) writeFailedSummary(id string, params domain.Params, cause error) {
	sum := domain.Summary{
		CampaignID: id,
		Status:     domain.StatusFailed,
		Product:    params.Product,
		Timestamp:  time.Now().UTC(),
		Errors:     []string{cause.Error()},
	}
	if err := o.artifacts.SaveSummary(id, sum); err != nil {
		o.log.StoreError("save failed summary", err)
	}
}

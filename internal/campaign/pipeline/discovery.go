package pipeline

import (
	"errors"

	"outreach_backend/internal/campaign/domain"
)

// runDiscovery validates the lead set placed on the state at initialization
// and persists it. The orchestrator has already ingested uploads or
// historical leads; this stage only decides whether the run can proceed.
func (e *Engine) runDiscovery(state *domain.CampaignState) Node {
	if len(state.Leads) == 0 {
		state.AddError("discovery", errors.New("no leads available"))
		state.CurrentStep = domain.StepDiscoveryFailedNoLeads
		return NodeTerminated
	}

	if state.Params.SkipLeadGeneration {
		state.CurrentStep = domain.StepDiscoverySkipped
	} else {
		state.CurrentStep = domain.StepLeadsInState
	}

	if err := e.artifacts.SaveLeads(state.CampaignID, state.Leads); err != nil {
		state.AddError("discovery", err)
		e.log.StageError(state.CampaignID, "discovery", err)
		state.Leads = nil
		state.CurrentStep = domain.StepDiscoveryFailedNoLeads
		return NodeTerminated
	}

	return NodeAnalysis
}

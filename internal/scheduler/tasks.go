// Package scheduler provides the asynq-backed campaign queue: typed task
// payloads, the enqueue client used by the API, and the worker that
// executes queued campaign runs.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"outreach_backend/internal/campaign/domain"
)

const TaskCampaignRun = "campaign.run"

// CampaignRunPayload carries the accepted campaign parameters to the worker.
type CampaignRunPayload struct {
	Params domain.Params `json:"params"`
}

func NewCampaignRunTask(payload CampaignRunPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCampaignRun, data), nil
}

func ParseCampaignRunPayload(task *asynq.Task) (CampaignRunPayload, error) {
	var payload CampaignRunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CampaignRunPayload{}, err
	}
	return payload, nil
}

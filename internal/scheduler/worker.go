package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"outreach_backend/internal/campaign/service"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"
)

// Worker consumes queued campaign runs and executes them through the
// orchestrator. Run failures are reflected in the stored campaign summary
// and not returned to asynq, so a failed campaign is not retried blindly.
type Worker struct {
	server       *asynq.Server
	mux          *asynq.ServeMux
	orchestrator *service.Orchestrator
	log          *logger.Logger
}

// NewWorker creates the queue worker from the scheduler configuration.
func NewWorker(cfg config.SchedulerConfig, orchestrator *service.Orchestrator, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 2
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:       server,
		mux:          mux,
		orchestrator: orchestrator,
		log:          log,
	}

	mux.HandleFunc(TaskCampaignRun, w.handleCampaignRun)

	return w, nil
}

func (w *Worker) handleCampaignRun(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCampaignRunPayload(task)
	if err != nil {
		return err
	}

	if _, err := w.orchestrator.Run(ctx, payload.Params); err != nil {
		// The terminal failed summary is already stored; log and ack.
		w.log.Error("queued campaign run failed",
			"campaign_id", payload.Params.CampaignID, "error", err.Error())
	}
	return nil
}

// Run serves the queue until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"outreach_backend/internal/campaign/domain"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"
)

// Launcher starts a campaign run in the background. Implementations:
// the in-process Runner below, or the asynq-backed scheduler client.
type Launcher interface {
	Launch(ctx context.Context, params domain.Params) error
}

// Runner executes campaigns on in-process goroutines with a concurrency
// cap. Used when no redis queue is configured.
type Runner struct {
	orchestrator *Orchestrator
	group        *errgroup.Group
	log          *logger.Logger
}

// NewRunner creates a bounded background runner.
func NewRunner(orchestrator *Orchestrator, cfg config.RunnerConfig, log *logger.Logger) *Runner {
	g := &errgroup.Group{}
	limit := cfg.GetRunnerConcurrency()
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)
	return &Runner{orchestrator: orchestrator, group: g, log: log}
}

// Launch schedules a campaign run. The run outlives the request context;
// it is bound to the runner's lifetime instead.
func (r *Runner) Launch(ctx context.Context, params domain.Params) error {
	r.group.Go(func() error {
		runCtx := context.WithoutCancel(ctx)
		if _, err := r.orchestrator.Run(runCtx, params); err != nil {
			// Failure is already reflected in the stored summary.
			r.log.Error("background campaign run failed",
				"campaign_id", params.CampaignID, "error", err.Error())
		}
		return nil
	})
	return nil
}

// Wait blocks until all launched runs finish. Called during shutdown.
func (r *Runner) Wait() {
	_ = r.group.Wait()
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outreach_backend/internal/campaign"
	"outreach_backend/internal/campaign/service"
	"outreach_backend/internal/engagement"
	"outreach_backend/internal/generation"
	apphttp "outreach_backend/internal/http"
	"outreach_backend/internal/http/router"
	"outreach_backend/internal/mail"
	"outreach_backend/internal/scheduler"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"
	"outreach_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	events := engagement.NewStore(cfg)
	retriever := mail.NewIMAPRetriever(cfg, log)
	if retriever != nil {
		defer retriever.Close()
		log.Info("imap retriever initialized", "server", cfg.GetIMAPServer())
	} else {
		log.Warn("IMAP not configured; reply tracking disabled")
	}
	tracker := engagement.NewTracker(events, trackerRetriever(retriever), cfg.GetFromEmail(), log)

	sender := mail.NewSMTPSender(cfg, log)
	if sender.DryRun() {
		log.Warn("dry run mode enabled; emails will not be delivered")
	}

	generator, err := generation.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize generation backend", "error", err)
		panic("failed to initialize generation backend: " + err.Error())
	}

	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	campaignModule := campaign.NewModule(cfg, tracker, events, sender, generator, val, log)

	launcher, closeLauncher := initLauncher(cfg, campaignModule.Orchestrator(), log)
	if closeLauncher != nil {
		defer closeLauncher()
	}
	campaignModule.SetLauncher(launcher)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Env:    cfg.Env,
		Logger: log,
		Modules: []apphttp.Module{
			campaignModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		waitForRunner(shutdownCtx, launcher)
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initLauncher picks the background execution backend: the redis queue
// when configured, otherwise the bounded in-process runner.
func initLauncher(cfg *config.Config, orchestrator *service.Orchestrator, log *logger.Logger) (service.Launcher, func()) {
	if cfg.IsSchedulerEnabled() {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize scheduler client, falling back to in-process runner", "error", err)
		} else {
			log.Info("campaign queue client initialized", "queue", cfg.GetAsynqQueueName())
			return client, func() { _ = client.Close() }
		}
	}

	log.Info("using in-process campaign runner", "concurrency", cfg.GetRunnerConcurrency())
	return service.NewRunner(orchestrator, cfg, log), nil
}

// waitForRunner drains in-flight in-process campaign runs on shutdown.
func waitForRunner(ctx context.Context, launcher service.Launcher) {
	runner, ok := launcher.(*service.Runner)
	if !ok {
		return
	}
	done := make(chan struct{})
	go func() {
		runner.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// trackerRetriever converts the possibly-nil concrete retriever into the
// tracker's port without handing it a non-nil interface wrapping nil.
func trackerRetriever(r *mail.IMAPRetriever) engagement.Retriever {
	if r == nil {
		return nil
	}
	return r
}

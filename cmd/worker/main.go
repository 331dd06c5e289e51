package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"outreach_backend/internal/campaign"
	"outreach_backend/internal/engagement"
	"outreach_backend/internal/generation"
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
	log.Info("starting campaign worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := engagement.NewStore(cfg)
	retriever := mail.NewIMAPRetriever(cfg, log)
	if retriever != nil {
		defer retriever.Close()
	}
	var retrieverPort engagement.Retriever
	if retriever != nil {
		retrieverPort = retriever
	}
	tracker := engagement.NewTracker(events, retrieverPort, cfg.GetFromEmail(), log)

	sender := mail.NewSMTPSender(cfg, log)

	generator, err := generation.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize generation backend", "error", err)
		panic("failed to initialize generation backend: " + err.Error())
	}

	campaignModule := campaign.NewModule(cfg, tracker, events, sender, generator, validator.New(), log)

	worker, err := scheduler.NewWorker(cfg, campaignModule.Orchestrator(), log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("campaign worker stopped")
}

// Package campaign provides the campaign bounded context module: the
// outreach pipeline, its artifact stores, and the HTTP API over them.
package campaign

import (
	"outreach_backend/internal/campaign/handler"
	"outreach_backend/internal/campaign/pipeline"
	"outreach_backend/internal/campaign/repository"
	"outreach_backend/internal/campaign/service"
	"outreach_backend/internal/engagement"
	apphttp "outreach_backend/internal/http"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"
	"outreach_backend/platform/validator"
)

// ModuleConfig combines the config interfaces the campaign module needs.
type ModuleConfig interface {
	config.DataConfig
	config.OutreachConfig
}

// Module is the campaign bounded context module implementing http.Module.
type Module struct {
	handler      *handler.Handler
	service      *service.Service
	orchestrator *service.Orchestrator
}

// NewModule creates and initializes the campaign module. The engagement
// tracker, delivery backend and generator are built by the composition
// root and injected. The launcher is set afterwards via SetLauncher
// because the in-process runner wraps this module's orchestrator.
func NewModule(
	cfg ModuleConfig,
	tracker *engagement.Tracker,
	events *engagement.Store,
	sender pipeline.Deliverer,
	generator pipeline.ContentGenerator,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	artifacts := repository.NewArtifactStore(cfg, log)
	history := repository.NewHistoryStore(cfg, log)
	uploads := repository.NewUploadStore(cfg, log)

	engine := pipeline.NewEngine(
		tracker, tracker, sender, generator,
		artifacts, history, cfg.GetSendsPerMinute(), log,
	)
	orchestrator := service.NewOrchestrator(engine, artifacts, history, uploads, log)
	svc := service.New(artifacts, history, uploads, events, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, orchestrator: orchestrator}
}

// SetLauncher injects the background launcher into the service layer.
func (m *Module) SetLauncher(l service.Launcher) {
	m.service.SetLauncher(l)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "campaign"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Orchestrator returns the pipeline orchestrator for background runners.
func (m *Module) Orchestrator() *service.Orchestrator {
	return m.orchestrator
}

// RegisterRoutes mounts campaign routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	campaigns := ctx.V1.Group("/campaigns")
	campaigns.POST("", m.handler.Start)
	campaigns.GET("", m.handler.List)
	campaigns.GET("/:id", m.handler.Get)
	campaigns.GET("/:id/status", m.handler.Status)

	ctx.V1.POST("/leads/upload", m.handler.Upload)
	ctx.V1.GET("/leads", m.handler.Leads)
	ctx.V1.GET("/insights", m.handler.Insights)
	ctx.V1.GET("/engagement", m.handler.Engagement)
	ctx.V1.GET("/dashboard/stats", m.handler.Dashboard)
}

var _ apphttp.Module = (*Module)(nil)

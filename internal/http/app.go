package http

import (
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
}

// App holds the fully initialized application dependencies. It is
// populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the HTTP router configuration.
	Config RouterConfig
	// Env is the runtime environment name, used to pick the gin mode.
	Env string
	// Logger is the structured logger.
	Logger *logger.Logger
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}

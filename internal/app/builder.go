package app

import "github.com/droverbuild/drover/internal/core/ports"

// Components aggregates the resolved application graph for the CLI entry
// point.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NewComponents creates a Components struct from resolved dependencies.
func NewComponents(app *App, logger ports.Logger) *Components {
	return &Components{
		App:    app,
		Logger: logger,
	}
}

// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/droverbuild/drover/internal/adapters/cachefile"
	_ "github.com/droverbuild/drover/internal/adapters/config"
	_ "github.com/droverbuild/drover/internal/adapters/fs"
	_ "github.com/droverbuild/drover/internal/adapters/logger"
	_ "github.com/droverbuild/drover/internal/adapters/shell"
	_ "github.com/droverbuild/drover/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "github.com/droverbuild/drover/internal/app"
	_ "github.com/droverbuild/drover/internal/engine/depcache"
	_ "github.com/droverbuild/drover/internal/engine/scheduler"
)

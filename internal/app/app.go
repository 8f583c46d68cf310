// Package app implements the application layer: it connects the manifest
// loader, the dependency cache, and the scheduler into one build invocation.
package app

import (
	"context"
	"errors"
	"runtime"

	"github.com/droverbuild/drover/internal/core/ports"
	"github.com/droverbuild/drover/internal/engine/depcache"
	"github.com/droverbuild/drover/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scheduler    *scheduler.Scheduler
	cache        *depcache.Cache
	telemetry    ports.Telemetry
	logger       ports.Logger
}

// RunOptions carries the per-invocation knobs from the CLI.
type RunOptions struct {
	// Jobs is the worker pool width. 0 runs the synchronous fallback; a
	// negative value selects one worker per CPU.
	Jobs int

	// NoCache skips loading the stamp file, forcing every action to run.
	// Completed tasks are still stamped, so the next run is incremental.
	NoCache bool
}

// New creates an App instance.
func New(
	loader ports.ConfigLoader,
	sched *scheduler.Scheduler,
	cache *depcache.Cache,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		scheduler:    sched,
		cache:        cache,
		telemetry:    telemetry,
		logger:       logger,
	}
}

// Run executes one build: load the manifest, snapshot the registry, load the
// stamp cache, schedule everything, and persist the cache. The cache save
// sits in a deferred cleanup path so an aborted build keeps the progress of
// the tasks that genuinely completed.
func (a *App) Run(ctx context.Context, cwd string, opts RunOptions) (err error) {
	registry, err := a.configLoader.Load(cwd)
	if err != nil {
		return zerr.Wrap(err, "failed to load build manifest")
	}
	tasks := registry.Snapshot()

	if opts.NoCache {
		a.logger.Info("cache disabled, rebuilding everything")
		a.cache.Reset()
	} else {
		a.cache.Load()
	}

	defer func() {
		if saveErr := a.cache.Save(); saveErr != nil {
			err = errors.Join(err, zerr.Wrap(saveErr, "failed to persist build cache"))
		}
		if closeErr := a.telemetry.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	jobs := opts.Jobs
	if jobs < 0 {
		jobs = runtime.NumCPU()
	}

	if err = a.scheduler.Run(ctx, tasks, jobs); err != nil {
		return zerr.Wrap(err, "build execution failed")
	}
	return nil
}

package scheduler

import (
	"context"

	"github.com/droverbuild/drover/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"github.com/droverbuild/drover/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"github.com/droverbuild/drover/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"github.com/droverbuild/drover/internal/core/ports"
	"github.com/droverbuild/drover/internal/engine/depcache"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			depcache.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			cache, err := graft.Dep[*depcache.Cache](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(executor, cache, tel, log), nil
		},
	})
}

package depcache

import (
	"context"

	"github.com/droverbuild/drover/internal/adapters/cachefile" //nolint:depguard // Wired in engine wiring
	"github.com/droverbuild/drover/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"github.com/droverbuild/drover/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"github.com/droverbuild/drover/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the dependency cache Graft node.
const NodeID graft.ID = "engine.depcache"

func init() {
	graft.Register(graft.Node[*Cache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cachefile.NodeID,
			fs.HasherNodeID,
			fs.VerifierNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Cache, error) {
			store, err := graft.Dep[ports.StampStore](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			verifier, err := graft.Dep[ports.Verifier](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(store, hasher, verifier, log), nil
		},
	})
}

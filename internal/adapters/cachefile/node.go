package cachefile

import (
	"context"

	"github.com/droverbuild/drover/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the stamp store Graft node.
const NodeID graft.ID = "adapter.stamp_store"

func init() {
	graft.Register(graft.Node[ports.StampStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.StampStore, error) {
			return NewStore(DefaultPath), nil
		},
	})
}

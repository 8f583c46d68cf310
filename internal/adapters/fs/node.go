package fs

import (
	"context"

	"github.com/droverbuild/drover/internal/core/ports"
	"github.com/grindlemire/graft"
)

const (
	// WalkerNodeID identifies the walker node (concrete type, needed by the hasher).
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// HasherNodeID identifies the content hasher node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
	// VerifierNodeID identifies the output verifier node.
	VerifierNodeID graft.ID = "adapter.fs.verifier"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.Hasher, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewHasher(walker), nil
		},
	})

	graft.Register(graft.Node[ports.Verifier]{
		ID:        VerifierNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Verifier, error) {
			return NewVerifier(), nil
		},
	})
}

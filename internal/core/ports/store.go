package ports

import "github.com/droverbuild/drover/internal/core/domain"

// StampStore persists the build cache between invocations. It is read once
// before scheduling starts and written once at the very end.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StampStore interface {
	// Load reads the persisted stamp map. A missing store yields an empty
	// map and no error; a corrupt store yields an error the cache treats as
	// "rebuild everything".
	Load() (domain.StampMap, error)

	// Save serializes the full stamp map, replacing the previous contents.
	Save(stamps domain.StampMap) error
}

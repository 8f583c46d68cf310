package ports

import "github.com/droverbuild/drover/internal/core/domain"

// ConfigLoader turns an external build definition into a populated Registry.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the build definition found in cwd and registers its steps.
	Load(cwd string) (*domain.Registry, error)
}

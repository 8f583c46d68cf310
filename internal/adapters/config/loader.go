// Package config loads the yaml build definition and feeds it to the target
// registry.
package config

import (
	"os"
	"path/filepath"

	"github.com/droverbuild/drover/internal/core/domain"
	"github.com/droverbuild/drover/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the manifest name looked up in the working directory.
const DefaultFilename = "drover.yaml"

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader using a yaml manifest.
type FileConfigLoader struct {
	Filename string
}

// Load reads the manifest from the given working directory.
func (l *FileConfigLoader) Load(cwd string) (*domain.Registry, error) {
	name := l.Filename
	if name == "" {
		name = DefaultFilename
	}
	return Load(filepath.Join(cwd, name))
}

// Load parses the manifest at path into a populated Registry. Registration
// errors surface here, before any scheduling starts.
func Load(path string) (*domain.Registry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read build manifest")
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, zerr.Wrap(err, "failed to parse build manifest")
	}

	registry := domain.NewRegistry()

	// First pass: declare every step so alternate deps and commands can
	// reference outputs registered by later entries.
	for i, step := range manifest.Steps {
		outputs, err := stepOutputs(step, i)
		if err != nil {
			return nil, err
		}
		if err := registry.RegisterGroup(outputs, step.Inputs, step.Options, step.Deps); err != nil {
			return nil, err
		}
	}

	// Second pass: soft ordering constraints and action commands.
	for i, step := range manifest.Steps {
		outputs, _ := stepOutputs(step, i)
		if len(step.AltDeps) > 0 {
			if err := registry.RegisterAlternate(outputs[0], step.AltDeps); err != nil {
				return nil, err
			}
		}
		if len(step.Cmd) > 0 {
			if err := registry.BindCommand(outputs[0], step.Cmd); err != nil {
				return nil, err
			}
		}
	}

	return registry, nil
}

func stepOutputs(step StepDTO, index int) ([]string, error) {
	switch {
	case step.Output != "" && len(step.Outputs) > 0:
		return nil, zerr.With(zerr.New("step declares both output and outputs"), "step", index)
	case step.Output != "":
		return []string{step.Output}, nil
	case len(step.Outputs) > 0:
		return step.Outputs, nil
	default:
		return nil, zerr.With(zerr.New("step declares no output"), "step", index)
	}
}

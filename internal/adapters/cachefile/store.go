// Package cachefile persists the build stamp map as a flat JSON file.
package cachefile

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/droverbuild/drover/internal/core/domain"
	"github.com/droverbuild/drover/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultPath is where the stamp file lives relative to the working
// directory when the CLI does not override it.
const DefaultPath = ".drover/stamps.json"

var _ ports.StampStore = (*Store)(nil)

// Store reads and writes the stamp map at a fixed path. It holds no state of
// its own; the dependency cache owns the in-memory map between Load and Save.
type Store struct {
	path string
}

// NewStore creates a Store backed by the file at the given path.
func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Load reads the persisted stamp map. A missing file yields an empty map; a
// file that cannot be parsed yields an error the caller downgrades to a full
// rebuild.
func (s *Store) Load() (domain.StampMap, error) {
	stamps := make(domain.StampMap)

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stamps, nil
		}
		return nil, zerr.Wrap(err, "failed to read stamp file")
	}
	if len(data) == 0 {
		return stamps, nil
	}

	if err := json.Unmarshal(data, &stamps); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal stamp file")
	}
	return stamps, nil
}

// Save replaces the stamp file with the given map.
func (s *Store) Save(stamps domain.StampMap) error {
	data, err := json.MarshalIndent(stamps, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal stamp map")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create stamp file directory")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write stamp file")
	}
	return nil
}

// Path returns the location of the stamp file.
func (s *Store) Path() string {
	return s.path
}

package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker yields files beneath a directory in lexical order, which keeps
// directory signatures deterministic across runs.
type Walker struct{}

// NewWalker creates a Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file under root, skipping version-control metadata
// and any directory or file matching an ignore pattern.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if skip := w.skip(d, ignores); skip != nil {
				return skip
			}
			if d.IsDir() {
				return nil
			}
			if ignored(d.Name(), ignores) {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) skip(d fs.DirEntry, ignores []string) error {
	if !d.IsDir() {
		return nil
	}
	name := d.Name()
	if name == ".git" || name == ".jj" || ignored(name, ignores) {
		return filepath.SkipDir
	}
	return nil
}

func ignored(name string, ignores []string) bool {
	for _, pattern := range ignores {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

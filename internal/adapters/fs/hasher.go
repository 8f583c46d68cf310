// Package fs provides filesystem adapters: content signatures, output
// verification, and directory walking.
package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/droverbuild/drover/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes xxhash content signatures. Content hashes are a strictly
// stronger staleness invariant than modification times, at the cost of
// reading every input once per run.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// Signature returns the content signature of the file at path. A directory
// input is signed over the paths and contents of every file beneath it.
func (h *Hasher) Signature(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat input"), "path", path)
	}

	if !info.IsDir() {
		sum, err := h.fileHash(path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%016x", sum), nil
	}

	digest := xxhash.New()
	for filePath := range h.walker.WalkFiles(path, nil) {
		_, _ = digest.WriteString(filePath)
		_, _ = digest.Write([]byte{0})
		sum, err := h.fileHash(filePath)
		if err != nil {
			return "", err
		}
		if err := binary.Write(digest, binary.LittleEndian, sum); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}
	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

func (h *Hasher) fileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return digest.Sum64(), nil
}

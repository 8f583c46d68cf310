package fs

import (
	"os"

	"github.com/droverbuild/drover/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Verifier = (*Verifier)(nil)

// Verifier reports whether declared outputs exist on disk.
type Verifier struct{}

// NewVerifier creates a Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// OutputsExist returns true only when every listed output exists.
func (v *Verifier) OutputsExist(outputs []string) (bool, error) {
	for _, output := range outputs {
		if _, err := os.Stat(output); err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, zerr.With(zerr.Wrap(err, "failed to stat output"), "path", output)
		}
	}
	return true, nil
}

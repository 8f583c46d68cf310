package commands

import (
	"errors"
	"io/fs"
	"os"

	"github.com/droverbuild/drover/internal/adapters/cachefile"
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the stamp cache, forcing a full rebuild",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := os.Remove(cachefile.DefaultPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		},
	}
}

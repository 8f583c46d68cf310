package commands

import (
	"runtime"

	"github.com/droverbuild/drover/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build everything the manifest declares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jobs, _ := cmd.Flags().GetInt("jobs")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			return c.app.Run(cmd.Context(), ".", app.RunOptions{
				Jobs:    jobs,
				NoCache: noCache,
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", runtime.NumCPU(), "Worker pool width; 0 builds sequentially on the calling thread")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the stamp cache and force every action to run")
	return cmd
}

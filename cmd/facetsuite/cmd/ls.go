package cmd

import (
	"github.com/spf13/cobra"

	"github.com/G-Research/facetsuite/internal/facetsuite"
)

func lsCmd() *cobra.Command {
	return lsCmdWithApp(facetsuite.New())
}

// Takes a caller-supplied app struct; useful for testing.
func lsCmdWithApp(app *facetsuite.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List the job results of a suite.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initParams(cmd, app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			archiveDir, err := cmd.Flags().GetString("archive-dir")
			if err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			return app.List(archiveDir, verbose)
		},
	}

	cmd.Flags().String("archive-dir", "", "path under which results for the suite are stored")
	cmd.Flags().BoolP("verbose", "v", false, "show reasons tests failed")
	_ = cmd.MarkFlagRequired("archive-dir")

	return cmd
}

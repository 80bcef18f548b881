package cmd

import (
	"github.com/spf13/cobra"

	"github.com/G-Research/facetsuite/internal/facetsuite"
)

func resultsCmd() *cobra.Command {
	return resultsCmdWithApp(facetsuite.New())
}

// Takes a caller-supplied app struct; useful for testing.
func resultsCmdWithApp(app *facetsuite.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Wait for the jobs of a suite and report on them.",
		Long: `Wait for the jobs of a suite and report on them.

Prints a one-line summary, and optionally writes a JUnit report and emails the full results.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initParams(cmd, app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			archiveDir, err := cmd.Flags().GetString("archive-dir")
			if err != nil {
				return err
			}
			name, err := cmd.Flags().GetString("name")
			if err != nil {
				return err
			}
			email, err := cmd.Flags().GetString("email")
			if err != nil {
				return err
			}
			timeout, err := cmd.Flags().GetInt("timeout")
			if err != nil {
				return err
			}
			junitPath, err := cmd.Flags().GetString("junit")
			if err != nil {
				return err
			}

			_, err = app.Results(&facetsuite.ResultsConfig{
				ArchiveDir: archiveDir,
				Name:       name,
				Email:      email,
				Timeout:    timeout,
				JUnitPath:  junitPath,
			})
			return err
		},
	}

	cmd.Flags().String("archive-dir", "", "path under which results for the suite are stored")
	cmd.Flags().String("name", "", "name of the suite")
	cmd.Flags().String("email", "", "address to email test failures to")
	cmd.Flags().Int("timeout", 0, "how many seconds to wait for all tests to finish (default no wait)")
	cmd.Flags().BoolP("verbose", "v", false, "be more verbose")
	cmd.Flags().String("junit", "", "write a JUnit XML report to this file")
	_ = cmd.MarkFlagRequired("archive-dir")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

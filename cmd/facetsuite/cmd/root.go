package cmd

import (
	"github.com/spf13/cobra"

	"github.com/G-Research/facetsuite/internal/facetsuite"
)

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "facetsuite",
		Short: "facetsuite schedules every combination of a set of test collections and reports on the results.",
		Long: `facetsuite schedules every combination of a set of test collections and reports on the results.

A collection is a directory of facets; a facet is a directory of YAML config snippets.
One job is scheduled for every way of choosing one snippet from each facet.

Persistent config can be saved in a config file so it doesn't have to be specified every command.

Example structure:
scheduler:
  path: /usr/local/bin/facetsuite-schedule
results:
  sendingEmail: ci@example.com
smtp:
  host: smtp.example.com
  port: 587

The location of this file can be passed in using the --config argument.
If not provided, $HOME/.facetsuite.yaml is used.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "config file (default is $HOME/.facetsuite.yaml)")

	cmd.AddCommand(
		runCmd(),
		lsCmd(),
		resultsCmd(),
		versionCmd(facetsuite.New()),
	)

	return cmd
}

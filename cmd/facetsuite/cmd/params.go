package cmd

import (
	"github.com/spf13/cobra"

	"github.com/G-Research/facetsuite/internal/common"
	"github.com/G-Research/facetsuite/internal/facetsuite"
	"github.com/G-Research/facetsuite/internal/facetsuite/configuration"
)

// initParams loads the config file named by --config into the app and applies -v, if the
// command has it.
func initParams(cmd *cobra.Command, app *facetsuite.App) error {
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil {
		common.SetVerbose(verbose)
	}

	// --config is inherited from the root command; commands run on their own have none.
	configPath, _ := cmd.Flags().GetString("config")
	config, err := configuration.Load(configPath)
	if err != nil {
		return err
	}
	app.Params.Config = config
	return nil
}

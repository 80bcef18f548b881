package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/G-Research/facetsuite/internal/facetsuite"
)

func runCmd() *cobra.Command {
	return runCmdWithApp(facetsuite.New())
}

// Takes a caller-supplied app struct; useful for testing.
func runCmdWithApp(app *facetsuite.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run --name NAME --collections DIR [DIR...] [flags] [-- CONFFILE...]",
		Short: "Schedule one job per combination of facets of the given collections.",
		Long: `Schedule one job per combination of facets of the given collections.

Every job receives the given config files followed by one snippet of each facet of its
collection. After all jobs, a final job is scheduled that waits for the rest of the suite
and reports on it.

Collections may be given as glob patterns, e.g., 'suites/**/rados*'. All arguments
following --collections up to "--" are collections; config files go after "--":

  facetsuite run --name nightly --collections suites/rados suites/rbd -- ceph.yaml`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initParams(cmd, app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := cmd.Flags().GetString("name")
			if err != nil {
				return err
			}
			collections, err := cmd.Flags().GetStringSlice("collections")
			if err != nil {
				return err
			}
			owner, err := cmd.Flags().GetString("owner")
			if err != nil {
				return err
			}
			email, err := cmd.Flags().GetString("email")
			if err != nil {
				return err
			}
			var timeout *int
			if cmd.Flags().Changed("timeout") {
				t, err := cmd.Flags().GetInt("timeout")
				if err != nil {
					return err
				}
				timeout = &t
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			dryRun, err := cmd.Flags().GetBool("dry-run")
			if err != nil {
				return err
			}

			// Create a context that is cancelled on SIGINT/SIGTERM.
			// Kills a scheduler invocation that is still in flight.
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			stopSignal := make(chan os.Signal, 1)
			signal.Notify(stopSignal, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(stopSignal)
			go func() {
				select {
				case <-ctx.Done():
					return
				case <-stopSignal:
					cancel()
				}
			}()

			collections, configs := splitPositionalArgs(cmd, collections, args)
			_, err = app.Run(ctx, &facetsuite.RunConfig{
				Name:        name,
				Collections: collections,
				Owner:       owner,
				Email:       email,
				Timeout:     timeout,
				Verbose:     verbose,
				DryRun:      dryRun,
				Configs:     configs,
			})
			return err
		},
	}

	cmd.Flags().String("name", "", "name of the suite")
	cmd.Flags().StringSlice("collections", nil, "collections of facets to run, directories or glob patterns")
	cmd.Flags().String("owner", "", "job owner")
	cmd.Flags().String("email", "", "address to email the suite results to")
	cmd.Flags().Int("timeout", 0, "seconds the last job waits for the rest of the suite to finish")
	cmd.Flags().BoolP("verbose", "v", false, "be more verbose")
	cmd.Flags().Bool("dry-run", false, "print scheduler invocations instead of running them")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("collections")

	return cmd
}

// splitPositionalArgs returns the collections and config files given on the command line.
// Positional arguments before "--" continue the --collections list; those after it are
// config files.
func splitPositionalArgs(cmd *cobra.Command, collections []string, args []string) ([]string, []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return append(collections, args...), nil
	}
	return append(collections, args[:dash]...), args[dash:]
}

// Package facetsuite implements the facetsuite commands: scheduling every combination of
// a set of collections, listing the results of a suite, and reporting on them.
package facetsuite

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"k8s.io/utils/clock"

	"github.com/G-Research/facetsuite/internal/common/util"
	"github.com/G-Research/facetsuite/internal/facetsuite/build"
	"github.com/G-Research/facetsuite/internal/facetsuite/configuration"
	"github.com/G-Research/facetsuite/internal/facetsuite/dispatcher"
	"github.com/G-Research/facetsuite/internal/facetsuite/notifier"
)

type App struct {
	// Parameters passed to the CLI by the user.
	Params *Params
	// Out is used to write the output. Defaults to standard out,
	// but can be overridden in tests to make assertions on the applications's output.
	Out io.Writer
	// If set, used by Run instead of the scheduler built from the configuration.
	Scheduler dispatcher.Scheduler
	// If set, used by Results instead of an SMTP sender built from the configuration.
	Sender notifier.Sender
	// Clock used while waiting for jobs to finish.
	Clock util.Clock
}

// Params struct holds all user-customizable parameters.
type Params struct {
	Config *configuration.Configuration
}

// New instantiates an App with default parameters, including standard output.
// Params.Config is filled in from the config file once the command line has been parsed.
func New() *App {
	return &App{
		Params: &Params{},
		Out:    os.Stdout,
		Clock:  clock.RealClock{},
	}
}

// Version prints build information (e.g., current git commit) to the app output.
func (a *App) Version() error {
	w := tabwriter.NewWriter(a.Out, 1, 1, 1, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "Version:\t%s\n", build.ReleaseVersion)
	fmt.Fprintf(w, "Commit:\t%s\n", build.GitCommit)
	fmt.Fprintf(w, "Go version:\t%s\n", build.GoVersion)
	fmt.Fprintf(w, "Built:\t%s\n", build.BuildTime)
	return nil
}

func (a *App) config() *configuration.Configuration {
	if a.Params.Config == nil {
		a.Params.Config = &configuration.Configuration{}
	}
	return a.Params.Config
}

package facetsuite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-zglob"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/G-Research/facetsuite/internal/common/suiteerrors"
	"github.com/G-Research/facetsuite/internal/facetsuite/combo"
	"github.com/G-Research/facetsuite/internal/facetsuite/dispatcher"
)

type RunConfig struct {
	// Name of the suite; passed to every job.
	Name string
	// Collection directories, or glob patterns matching them.
	Collections []string
	Owner       string
	// Address the end of suite job mails the results to.
	Email string
	// Seconds the end of suite job waits for other jobs to finish.
	// Nil leaves the choice to the scheduler.
	Timeout *int
	// Passes -v to the scheduler.
	Verbose bool
	// Print scheduler invocations instead of running them.
	DryRun bool
	// Config files passed to every job.
	Configs []string
}

func (config *RunConfig) Validate() error {
	if config.Name == "" {
		return errors.WithStack(&suiteerrors.ErrInvalidArgument{
			Name:    "name",
			Value:   config.Name,
			Message: "not provided",
		})
	}
	if len(config.Collections) == 0 {
		return errors.WithStack(&suiteerrors.ErrInvalidArgument{
			Name:    "collections",
			Value:   config.Collections,
			Message: "no collections provided",
		})
	}
	if config.Timeout != nil && *config.Timeout < 0 {
		return errors.WithStack(&suiteerrors.ErrInvalidArgument{
			Name:    "timeout",
			Value:   *config.Timeout,
			Message: "must not be negative",
		})
	}
	return nil
}

// Run schedules one job per combination of every collection, followed by the job marking
// the end of the suite. All collections are loaded before anything is scheduled, so a bad
// collection argument never results in a partially scheduled suite.
// It returns the number of jobs scheduled, including the end marker.
func (a *App) Run(ctx context.Context, config *RunConfig) (int, error) {
	if err := config.Validate(); err != nil {
		return 0, err
	}

	paths, err := expandCollections(config.Collections)
	if err != nil {
		return 0, err
	}
	collections, err := loadCollections(paths)
	if err != nil {
		return 0, err
	}

	scheduler, err := a.scheduler(config.DryRun)
	if err != nil {
		return 0, err
	}
	d := &dispatcher.Dispatcher{
		Scheduler:    scheduler,
		Suite:        config.Name,
		Owner:        config.Owner,
		Verbose:      config.Verbose,
		ExtraConfigs: config.Configs,
	}

	for _, collection := range collections {
		log.Infof("Collection %s in %s", collection.Name, collection.Path)
		log.Debugf("%d combination(s) in %s", collection.Count(), collection.Name)
		it := collection.Combinations()
		for combination, ok := it.Next(); ok; combination, ok = it.Next() {
			if err := d.Dispatch(ctx, collection.Name, combination); err != nil {
				return d.NumScheduled(), err
			}
		}
	}
	if err := d.DispatchEndMarker(ctx, config.Email, config.Timeout); err != nil {
		return d.NumScheduled(), err
	}
	log.Infof("Scheduled %d job(s) for suite %s", d.NumScheduled(), config.Name)
	return d.NumScheduled(), nil
}

func (a *App) scheduler(dryRun bool) (dispatcher.Scheduler, error) {
	if a.Scheduler != nil {
		return a.Scheduler, nil
	}
	path := a.config().Scheduler.Path
	if path == "" {
		defaultPath, err := dispatcher.DefaultSchedulerPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	if dryRun {
		return &dispatcher.DryRunScheduler{Path: path, Out: a.Out}, nil
	}
	return dispatcher.NewExecScheduler(path, a.config().Scheduler.Env), nil
}

func isPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

// expandCollections replaces glob patterns with the directories they match.
// Other arguments are passed through as given and checked when loaded.
func expandCollections(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !isPattern(arg) {
			paths = append(paths, arg)
			continue
		}
		matches, err := zglob.Glob(arg)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, errors.WithStack(&suiteerrors.ErrInvalidArgument{
				Name:    "collections",
				Value:   arg,
				Message: fmt.Sprintf("invalid pattern: %s", err),
			})
		}
		numDirs := 0
		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && info.IsDir() {
				paths = append(paths, match)
				numDirs++
			}
		}
		if numDirs == 0 {
			return nil, errors.WithStack(&suiteerrors.ErrNotFound{
				Type:    "collection",
				Value:   arg,
				Message: "pattern matches no directories",
			})
		}
	}
	return paths, nil
}

// loadCollections loads every collection and orders them by name.
// The same directory given twice, however spelled, is loaded once. Two different
// collections with the same name would produce indistinguishable job descriptions,
// so they are rejected.
func loadCollections(paths []string) ([]*combo.Collection, error) {
	seen := sets.NewString()
	byName := make(map[string]*combo.Collection, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if seen.Has(abs) {
			continue
		}
		seen.Insert(abs)

		collection, err := combo.Load(path)
		if err != nil {
			return nil, err
		}
		if existing, ok := byName[collection.Name]; ok {
			return nil, errors.WithStack(&suiteerrors.ErrInvalidArgument{
				Name:    "collections",
				Value:   collection.Path,
				Message: fmt.Sprintf("collection name %s is already used by %s", collection.Name, existing.Path),
			})
		}
		byName[collection.Name] = collection
	}

	names := maps.Keys(byName)
	slices.Sort(names)
	collections := make([]*combo.Collection, len(names))
	for i, name := range names {
		collections[i] = byName[name]
	}
	return collections, nil
}

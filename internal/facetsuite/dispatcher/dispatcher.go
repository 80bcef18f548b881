// Package dispatcher hands combinations to the external scheduler.
//
// Scheduling is strictly sequential: the scheduler assigns job numbers in the order it
// is called, and the final "last in suite" job relies on every other job of the suite
// having been queued before it. Any failure therefore aborts the whole run.
package dispatcher

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/G-Research/facetsuite/internal/facetsuite/combo"
)

// Dispatcher turns combinations into scheduler invocations for one suite and counts
// the jobs it has handed over.
type Dispatcher struct {
	Scheduler Scheduler
	// Name of the suite all jobs belong to.
	Suite string
	// Optional owner of the jobs.
	Owner string
	// Passes -v to the scheduler.
	Verbose bool
	// Config files passed to every job, ahead of the combination's snippets.
	ExtraConfigs []string

	numScheduled int
}

// NumScheduled returns the number of successful scheduler invocations so far,
// including the end marker.
func (d *Dispatcher) NumScheduled() int {
	return d.numScheduled
}

func (d *Dispatcher) baseArgs() []string {
	args := []string{"--name", d.Suite}
	if d.Verbose {
		args = append(args, "-v")
	}
	if d.Owner != "" {
		args = append(args, "--owner", d.Owner)
	}
	return args
}

// JobArgs returns the scheduler arguments for running combination from the named collection.
func (d *Dispatcher) JobArgs(collectionName string, combination combo.Combination) []string {
	args := d.baseArgs()
	args = append(args, "--description", combination.Description(collectionName), "--")
	args = append(args, d.ExtraConfigs...)
	args = append(args, combination.Paths()...)
	return args
}

// EndMarkerArgs returns the scheduler arguments of the job closing the suite.
// A nil timeout leaves the scheduler's default in place; any given value, zero included,
// is passed on.
func (d *Dispatcher) EndMarkerArgs(email string, timeout *int) []string {
	args := d.baseArgs()
	args = append(args, "--last-in-suite")
	if email != "" {
		args = append(args, "--email", email)
	}
	if timeout != nil {
		args = append(args, "--timeout", strconv.Itoa(*timeout))
	}
	return args
}

// Dispatch schedules a single combination and waits for the scheduler to accept it.
func (d *Dispatcher) Dispatch(ctx context.Context, collectionName string, combination combo.Combination) error {
	description := combination.Description(collectionName)
	log.Infof("Running scheduler with facets %s", description)
	if err := d.Scheduler.Schedule(ctx, d.JobArgs(collectionName, combination)); err != nil {
		return errors.WithMessagef(err, "error scheduling %s", description)
	}
	d.numScheduled++
	return nil
}

// DispatchEndMarker schedules the job that marks the end of the suite. Once all previous
// jobs have drained, the scheduler uses it to trigger result collection, optionally
// mailing email and waiting up to timeout seconds for stragglers.
func (d *Dispatcher) DispatchEndMarker(ctx context.Context, email string, timeout *int) error {
	log.WithField("suite", d.Suite).Info("Scheduling end of suite marker")
	if err := d.Scheduler.Schedule(ctx, d.EndMarkerArgs(email, timeout)); err != nil {
		return errors.WithMessage(err, "error scheduling end of suite marker")
	}
	d.numScheduled++
	return nil
}

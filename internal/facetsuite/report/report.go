// Package report holds the outcome of a suite and renders it for humans and CI systems.
package report

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// FailedJob is a job whose summary says it didn't succeed.
type FailedJob struct {
	// "<jobId>: <description>"
	Line string
	// Optional reason given by the job.
	Reason string
}

// SuiteReport aggregates the jobs of an archive. Every archived job appears in exactly
// one of Passed, Failed and Unfinished.
type SuiteReport struct {
	Suite string
	// Seconds waited for jobs to finish before the report was built.
	Timeout int
	// "<jobId>: <description>" of every job with a summary, in archive order.
	Descriptions []string
	// "<jobId>: <description>" of every passed job.
	Passed []string
	Failed []FailedJob
	// Ids of jobs without a summary.
	Unfinished []string
	// Jobs whose summary couldn't be interpreted. They are still classified above.
	Anomalies *multierror.Error
}

// Total returns the number of jobs in the report.
func (r *SuiteReport) Total() int {
	return len(r.Passed) + len(r.Failed) + len(r.Unfinished)
}

// AllPassed is true if no job failed or is still running.
func (r *SuiteReport) AllPassed() bool {
	return len(r.Failed) == 0 && len(r.Unfinished) == 0
}

func (r *SuiteReport) Subject() string {
	if r.AllPassed() {
		return fmt.Sprintf("All tests passed in %s!", r.Suite)
	}
	return fmt.Sprintf(
		"%d failed, %d possibly hung, %d passed tests in %s",
		len(r.Failed), len(r.Unfinished), len(r.Passed), r.Suite,
	)
}

func (r *SuiteReport) Body() string {
	if r.AllPassed() {
		return strings.Join(r.Descriptions, "\n")
	}

	failures := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		failures = append(failures, f.Line)
		if f.Reason != "" {
			failures = append(failures, "    "+f.Reason)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nThe following tests failed:\n\n%s\n\n", strings.Join(failures, "\n"))
	fmt.Fprintf(
		&b,
		"These tests may be hung (did not finish in %d seconds after the last test in the suite):\n%s\n\n",
		r.Timeout, strings.Join(r.Unfinished, "\n"),
	)
	fmt.Fprintf(&b, "These tests passed:\n%s", strings.Join(r.Passed, "\n"))
	return b.String()
}

package archive

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"github.com/G-Research/facetsuite/internal/common/suiteerrors"
	"github.com/G-Research/facetsuite/internal/facetsuite/report"
)

// Aggregate classifies every job of the archive as passed, failed, or unfinished.
//
// Problems with individual summaries never abort the aggregation: they are collected in
// SuiteReport.Anomalies and the job is classified as well as possible. A summary that
// can't be read, or has no usable success field, counts as a failure.
// Only a failure to list the archive itself is returned as an error.
func (a *Archive) Aggregate(suite string, timeout int) (*report.SuiteReport, error) {
	jobIds, err := a.JobIds()
	if err != nil {
		return nil, err
	}

	r := &report.SuiteReport{
		Suite:   suite,
		Timeout: timeout,
	}
	for _, jobId := range jobIds {
		raw, err := a.ReadSummary(jobId)
		if err != nil {
			if os.IsNotExist(err) {
				r.Unfinished = append(r.Unfinished, jobId)
				continue
			}
			malformed := &suiteerrors.ErrMalformedSummary{JobId: jobId, Reason: err.Error()}
			r.Anomalies = multierror.Append(r.Anomalies, malformed)
			line := fmt.Sprintf("%s: %s", jobId, UnknownDescription)
			r.Descriptions = append(r.Descriptions, line)
			r.Failed = append(r.Failed, report.FailedJob{Line: line, Reason: malformed.Error()})
			continue
		}

		summary, err := ParseSummary(jobId, raw)
		if err != nil {
			r.Anomalies = multierror.Append(r.Anomalies, err)
		}

		line := fmt.Sprintf("%s: %s", jobId, summary.Description)
		r.Descriptions = append(r.Descriptions, line)
		switch {
		case !summary.SuccessKnown:
			r.Failed = append(r.Failed, report.FailedJob{Line: line, Reason: err.Error()})
		case summary.Success:
			r.Passed = append(r.Passed, line)
		default:
			r.Failed = append(r.Failed, report.FailedJob{Line: line, Reason: summary.FailureReason})
		}
	}

	log.WithFields(log.Fields{
		"passed":     len(r.Passed),
		"failed":     len(r.Failed),
		"unfinished": len(r.Unfinished),
	}).Debugf("aggregated %d job(s) in %s", len(jobIds), a.Dir)
	return r, nil
}

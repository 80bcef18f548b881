package report

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/jstemmer/go-junit-report/v2/junit"
	"github.com/pkg/errors"
)

// JUnit converts the report into a single JUnit test suite, one test case per job.
// Hung jobs are reported as errors rather than failures, since their outcome is unknown.
func (r *SuiteReport) JUnit() junit.Testsuites {
	suite := junit.Testsuite{Name: r.Suite}

	for _, line := range r.Passed {
		suite.AddTestcase(testcase(line))
	}
	for _, f := range r.Failed {
		tc := testcase(f.Line)
		tc.Failure = &junit.Result{Message: "Failed", Data: f.Reason}
		if f.Reason != "" {
			tc.Failure.Message = f.Reason
		}
		suite.AddTestcase(tc)
	}
	for _, jobId := range r.Unfinished {
		suite.AddTestcase(junit.Testcase{
			Name:      jobId,
			Classname: jobId,
			Error:     &junit.Result{Message: "possibly hung", Type: "unfinished"},
		})
	}

	var suites junit.Testsuites
	suites.AddSuite(suite)
	return suites
}

// WriteJUnit writes the report as an indented JUnit XML document, header included, to w.
func (r *SuiteReport) WriteJUnit(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.WithMessage(err, "error writing junit report")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(r.JUnit()); err != nil {
		return errors.WithMessage(err, "error writing junit report")
	}
	if err := enc.Flush(); err != nil {
		return errors.WithMessage(err, "error writing junit report")
	}
	_, err := io.WriteString(w, "\n")
	return errors.WithStack(err)
}

// testcase splits "<jobId>: <description>" into a test case named by the description
// and classified by the job id.
func testcase(line string) junit.Testcase {
	jobId, description := line, line
	if i := strings.Index(line, ": "); i >= 0 {
		jobId, description = line[:i], line[i+2:]
	}
	return junit.Testcase{Name: description, Classname: jobId}
}

// Package archive reads the results that executed jobs leave behind.
//
// An archive is a directory with one subdirectory per job, named by the job id the
// scheduler assigned. A job has finished once its summary file exists. This package
// never writes to the archive.
package archive

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/G-Research/facetsuite/internal/common/suiteerrors"
)

// DefaultSummaryFile is the name of the file a job writes into its archive directory when done.
const DefaultSummaryFile = "summary.yaml"

type Archive struct {
	Dir         string
	SummaryFile string
}

func New(dir string, summaryFile string) *Archive {
	if summaryFile == "" {
		summaryFile = DefaultSummaryFile
	}
	return &Archive{
		Dir:         dir,
		SummaryFile: summaryFile,
	}
}

// JobIds returns the sorted names of all non-hidden entries of the archive.
func (a *Archive) JobIds() ([]string, error) {
	entries, err := os.ReadDir(a.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithStack(&suiteerrors.ErrNotFound{Type: "archive", Value: a.Dir})
		}
		return nil, errors.WithMessagef(err, "error listing archive %s", a.Dir)
	}
	jobIds := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		jobIds = append(jobIds, e.Name())
	}
	slices.Sort(jobIds)
	return jobIds, nil
}

func (a *Archive) SummaryPath(jobId string) string {
	return filepath.Join(a.Dir, jobId, a.SummaryFile)
}

// Finished returns true if the job has written its summary.
func (a *Archive) Finished(jobId string) bool {
	_, err := os.Stat(a.SummaryPath(jobId))
	return err == nil
}

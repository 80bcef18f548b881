package facetsuite

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/G-Research/facetsuite/internal/facetsuite/archive"
)

// List prints one line per job of the archive: its id, pass or FAIL, owner and description.
// With verbose, the failure reason of each job follows on an indented line.
func (a *App) List(archiveDir string, verbose bool) error {
	arch := archive.New(archiveDir, a.config().Results.SummaryFile)
	jobIds, err := arch.JobIds()
	if err != nil {
		return err
	}

	for _, jobId := range jobIds {
		raw, err := arch.ReadSummary(jobId)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(a.Out, "%s (no %s)\n", jobId, arch.SummaryFile)
			} else {
				log.WithError(err).Warnf("can't read summary of job %s", jobId)
				fmt.Fprintf(a.Out, "%s (unreadable %s)\n", jobId, arch.SummaryFile)
			}
			continue
		}

		status := "FAIL"
		if success, ok := raw["success"].(bool); ok && success {
			status = "pass"
		}
		fmt.Fprintf(a.Out, "%s %s %s %s\n", jobId, status, fieldOrDash(raw, "owner"), fieldOrDash(raw, "description"))
		if reason, ok := raw["failure_reason"]; verbose && ok && reason != nil {
			fmt.Fprintf(a.Out, "    %v\n", reason)
		}
	}
	return nil
}

func fieldOrDash(raw map[string]interface{}, key string) string {
	if v, ok := raw[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return "-"
}

package archive

import (
	"time"

	log "github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/G-Research/facetsuite/internal/common/util"
)

// DefaultPollInterval is the time between two looks at the archive.
const DefaultPollInterval = 10 * time.Second

// Poller waits for the jobs of an archive to finish.
type Poller struct {
	Archive  *Archive
	Interval time.Duration
	Clock    util.Clock
}

func NewPoller(archive *Archive, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		Archive:  archive,
		Interval: interval,
		Clock:    clock.RealClock{},
	}
}

// Await returns the ids of jobs that haven't finished within timeout.
//
// Jobs whose summary exists when Await is called are never returned. With a
// non-positive timeout, Await doesn't wait: it returns the jobs unfinished right now.
// Otherwise every remaining job is rechecked each Interval until none are left or
// the timeout expires. Unfinished jobs on timeout are logged, not treated as an error.
func (p *Poller) Await(timeout time.Duration) ([]string, error) {
	jobIds, err := p.Archive.JobIds()
	if err != nil {
		return nil, err
	}
	running := p.stillRunning(jobIds)
	if timeout <= 0 || len(running) == 0 {
		return running, nil
	}

	start := p.Clock.Now()
	for {
		if elapsed := p.Clock.Since(start); elapsed > timeout {
			log.WithField("unfinished", len(running)).
				Warnf("test(s) did not finish before timeout of %d seconds", int(timeout.Seconds()))
			return running, nil
		}
		log.Debugf("waiting for %d job(s) to finish, most recent %s", len(running), running[len(running)-1])
		p.Clock.Sleep(p.Interval)
		running = p.stillRunning(running)
		if len(running) == 0 {
			return running, nil
		}
	}
}

func (p *Poller) stillRunning(jobIds []string) []string {
	running := make([]string, 0, len(jobIds))
	for _, jobId := range jobIds {
		if !p.Archive.Finished(jobId) {
			running = append(running, jobId)
		}
	}
	return running
}

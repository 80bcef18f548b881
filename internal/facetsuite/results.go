package facetsuite

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/G-Research/facetsuite/internal/common/suiteerrors"
	"github.com/G-Research/facetsuite/internal/facetsuite/archive"
	"github.com/G-Research/facetsuite/internal/facetsuite/notifier"
	"github.com/G-Research/facetsuite/internal/facetsuite/report"
)

type ResultsConfig struct {
	ArchiveDir string
	// Name of the suite, used in the report.
	Name string
	// Address the report is mailed to. No mail is sent if empty.
	Email string
	// Seconds to wait for unfinished jobs. Zero means don't wait.
	Timeout int
	// If set, a JUnit XML report is written to this file.
	JUnitPath string
}

func (config *ResultsConfig) Validate() error {
	if config.ArchiveDir == "" {
		return errors.WithStack(&suiteerrors.ErrInvalidArgument{
			Name:    "archive-dir",
			Value:   config.ArchiveDir,
			Message: "not provided",
		})
	}
	if config.Name == "" {
		return errors.WithStack(&suiteerrors.ErrInvalidArgument{
			Name:    "name",
			Value:   config.Name,
			Message: "not provided",
		})
	}
	if config.Timeout < 0 {
		return errors.WithStack(&suiteerrors.ErrInvalidArgument{
			Name:    "timeout",
			Value:   config.Timeout,
			Message: "must not be negative",
		})
	}
	return nil
}

// Results waits up to config.Timeout seconds for the jobs of the archive to finish,
// classifies them and reports the outcome: the subject line on the app output, optionally
// a JUnit file, and optionally an email.
func (a *App) Results(config *ResultsConfig) (*report.SuiteReport, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	settings := a.config().Results

	arch := archive.New(config.ArchiveDir, settings.SummaryFile)
	poller := archive.NewPoller(arch, settings.PollInterval)
	if a.Clock != nil {
		poller.Clock = a.Clock
	}
	if _, err := poller.Await(time.Duration(config.Timeout) * time.Second); err != nil {
		return nil, err
	}

	r, err := arch.Aggregate(config.Name, config.Timeout)
	if err != nil {
		return nil, err
	}
	if r.Anomalies != nil {
		for _, anomaly := range r.Anomalies.Errors {
			log.WithError(anomaly).Warn("job summary could not be fully interpreted")
		}
	}

	if config.JUnitPath != "" {
		if err := writeJUnit(r, config.JUnitPath); err != nil {
			return r, err
		}
		log.Infof("Wrote JUnit report to %s", config.JUnitPath)
	}

	fmt.Fprintln(a.Out, r.Subject())
	n := notifier.New(a.sender(), a.sendingEmail())
	n.Notify(r, config.Email)
	return r, nil
}

func writeJUnit(r *report.SuiteReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := r.WriteJUnit(f); err != nil {
		f.Close()
		return errors.WithMessagef(err, "error writing JUnit report %s", path)
	}
	return errors.WithStack(f.Close())
}

func (a *App) sender() notifier.Sender {
	if a.Sender != nil {
		return a.Sender
	}
	smtp := a.config().Smtp
	return notifier.NewMailSender(notifier.SmtpConfig{
		Host:     smtp.Host,
		Port:     smtp.Port,
		Username: smtp.Username,
		Password: smtp.Password,
		StartTLS: smtp.StartTLS,
	})
}

func (a *App) sendingEmail() string {
	if from := a.config().Results.SendingEmail; from != "" {
		return from
	}
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return "facetsuite@" + host
}

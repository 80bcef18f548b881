package dispatcher

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/G-Research/facetsuite/internal/common/suiteerrors"
)

// DefaultSchedulerName is the scheduler binary looked up next to the running executable
// when no scheduler path is configured.
const DefaultSchedulerName = "facetsuite-schedule"

// Scheduler enqueues work with the external job scheduler.
// Schedule must not return before the scheduler has accepted or rejected the job.
type Scheduler interface {
	Schedule(ctx context.Context, args []string) error
}

// ExecScheduler runs the scheduler as a subprocess, once per job.
type ExecScheduler struct {
	// Set by the config
	Path string
	Env  []string

	// Stubbable for testing
	Stdout  io.Writer
	Stderr  io.Writer
	environ func() []string
}

func NewExecScheduler(path string, env []string) *ExecScheduler {
	return &ExecScheduler{
		Path:    path,
		Env:     env,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		environ: os.Environ,
	}
}

// DefaultSchedulerPath returns DefaultSchedulerName in the directory of the running executable.
func DefaultSchedulerPath() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", errors.WithMessage(err, "error finding executable path")
	}
	return filepath.Join(filepath.Dir(exePath), DefaultSchedulerName), nil
}

// Schedule runs the scheduler with args and waits for it to exit. A non-zero exit status,
// or a failure to start the scheduler, is returned as a *suiteerrors.ErrDispatch.
func (s *ExecScheduler) Schedule(ctx context.Context, args []string) error {
	environ := os.Environ
	if s.environ != nil {
		environ = s.environ
	}
	cmd := exec.CommandContext(ctx, s.Path, args...)
	cmd.Env = append(environ(), s.Env...)
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr

	log.Debugf("running %s %s", s.Path, strings.Join(args, " "))
	err := cmd.Run()
	if err == nil {
		return nil
	}

	dispatchErr := &suiteerrors.ErrDispatch{
		Args:     append([]string{s.Path}, args...),
		ExitCode: -1,
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		dispatchErr.ExitCode = exitErr.ExitCode()
	}
	return errors.WithStack(dispatchErr)
}

// DryRunScheduler logs what would be scheduled without running anything.
type DryRunScheduler struct {
	Path string
	Out  io.Writer
}

func (s *DryRunScheduler) Schedule(_ context.Context, args []string) error {
	log.Infof("dry run: not scheduling %s %s", s.Path, strings.Join(args, " "))
	if s.Out != nil {
		_, err := io.WriteString(s.Out, strings.Join(append([]string{s.Path}, args...), " ")+"\n")
		return err
	}
	return nil
}

package cmd

/*
These tests check that command-line arguments and flags are passed through correctly to the
facetsuite app.

They hijack the PreRunE function of each command, which normally loads the config file, and
instead give the app a fixed configuration and a scheduler that records its invocations.
*/

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Research/facetsuite/internal/common/util"
	"github.com/G-Research/facetsuite/internal/facetsuite"
	"github.com/G-Research/facetsuite/internal/facetsuite/configuration"
	"github.com/G-Research/facetsuite/internal/facetsuite/notifier"
)

type recordingScheduler struct {
	calls [][]string
}

func (s *recordingScheduler) Schedule(_ context.Context, args []string) error {
	s.calls = append(s.calls, args)
	return nil
}

type fakeSender struct {
	sent []*notifier.Message
}

func (s *fakeSender) Send(msg *notifier.Message) error {
	s.sent = append(s.sent, msg)
	return nil
}

func hijack(cmd *cobra.Command, app *facetsuite.App) *bytes.Buffer {
	out := &bytes.Buffer{}
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		app.Out = out
		app.Clock = util.NewDummyClock(time.Now())
		app.Params.Config = &configuration.Configuration{
			Results: configuration.ResultsConfig{
				SendingEmail: "suite@example.com",
				SummaryFile:  "summary.yaml",
				PollInterval: time.Second,
			},
		}
		return nil
	}
	cmd.SetOut(out)
	cmd.SetErr(out)
	return out
}

func mkdirAll(t *testing.T, path string) {
	require.NoError(t, os.MkdirAll(path, 0o755))
}

func TestRunCmd(t *testing.T) {
	root := t.TempDir()
	collection := filepath.Join(root, "basic")
	mkdirAll(t, filepath.Join(collection, "tasks"))
	require.NoError(t, os.WriteFile(filepath.Join(collection, "tasks", "smoke.yaml"), []byte("{}\n"), 0o644))

	tests := map[string]struct {
		args      []string
		firstCall []string
		lastCall  []string
	}{
		"minimal": {
			args: []string{"--name", "nightly", "--collections", collection},
			firstCall: []string{
				"--name", "nightly", "--description", "collection:basic tasks:smoke.yaml", "--",
				filepath.Join(collection, "tasks", "smoke.yaml"),
			},
			lastCall: []string{"--name", "nightly", "--last-in-suite"},
		},
		"all flags": {
			args: []string{
				"--name", "nightly", "--collections", collection, "--owner", "alice",
				"--email", "dev@example.com", "--timeout", "600", "-v", "--", "extra.yaml",
			},
			firstCall: []string{
				"--name", "nightly", "-v", "--owner", "alice",
				"--description", "collection:basic tasks:smoke.yaml", "--",
				"extra.yaml", filepath.Join(collection, "tasks", "smoke.yaml"),
			},
			lastCall: []string{
				"--name", "nightly", "-v", "--owner", "alice",
				"--last-in-suite", "--email", "dev@example.com", "--timeout", "600",
			},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			app := facetsuite.New()
			scheduler := &recordingScheduler{}
			app.Scheduler = scheduler
			cmd := runCmdWithApp(app)
			hijack(cmd, app)
			cmd.SetArgs(tc.args)

			require.NoError(t, cmd.Execute())
			require.Len(t, scheduler.calls, 2)
			assert.Equal(t, tc.firstCall, scheduler.calls[0])
			assert.Equal(t, tc.lastCall, scheduler.calls[1])
		})
	}
}

func writeCollection(t *testing.T, root string, name string, snippet string) string {
	dir := filepath.Join(root, name)
	mkdirAll(t, filepath.Join(dir, "tasks"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks", snippet), []byte("{}\n"), 0o644))
	return dir
}

func TestRunCmd_SeveralCollections(t *testing.T) {
	root := t.TempDir()
	alpha := writeCollection(t, root, "alpha", "smoke.yaml")
	beta := writeCollection(t, root, "beta", "load.yaml")

	tests := map[string]struct {
		args    []string
		configs []string
	}{
		"collections only": {
			args: []string{"--name", "nightly", "--collections", alpha, beta},
		},
		"config files after dash": {
			args:    []string{"--name", "nightly", "--collections", alpha, beta, "--", "extra.yaml"},
			configs: []string{"extra.yaml"},
		},
		"collections around other flags": {
			args: []string{"--collections", alpha, beta, "--name", "nightly"},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			app := facetsuite.New()
			scheduler := &recordingScheduler{}
			app.Scheduler = scheduler
			cmd := runCmdWithApp(app)
			hijack(cmd, app)
			cmd.SetArgs(tc.args)

			require.NoError(t, cmd.Execute())
			require.Len(t, scheduler.calls, 3)
			assert.Equal(t, append(append([]string{
				"--name", "nightly", "--description", "collection:alpha tasks:smoke.yaml", "--",
			}, tc.configs...), filepath.Join(alpha, "tasks", "smoke.yaml")), scheduler.calls[0])
			assert.Equal(t, append(append([]string{
				"--name", "nightly", "--description", "collection:beta tasks:load.yaml", "--",
			}, tc.configs...), filepath.Join(beta, "tasks", "load.yaml")), scheduler.calls[1])
			assert.Contains(t, scheduler.calls[2], "--last-in-suite")
		})
	}
}

func TestRunCmd_ConfigFileWithoutDashIsRejected(t *testing.T) {
	root := t.TempDir()
	alpha := writeCollection(t, root, "alpha", "smoke.yaml")
	extra := filepath.Join(root, "extra.yaml")
	require.NoError(t, os.WriteFile(extra, []byte("{}\n"), 0o644))

	app := facetsuite.New()
	scheduler := &recordingScheduler{}
	app.Scheduler = scheduler
	cmd := runCmdWithApp(app)
	hijack(cmd, app)
	cmd.SetArgs([]string{"--name", "nightly", "--collections", alpha, extra})

	assert.Error(t, cmd.Execute())
	assert.Empty(t, scheduler.calls)
}

func TestRunCmd_Timeout(t *testing.T) {
	root := t.TempDir()
	alpha := writeCollection(t, root, "alpha", "smoke.yaml")

	tests := map[string]struct {
		args     []string
		lastCall []string
	}{
		"not given": {
			args:     nil,
			lastCall: []string{"--name", "nightly", "--last-in-suite"},
		},
		"zero": {
			args:     []string{"--timeout", "0"},
			lastCall: []string{"--name", "nightly", "--last-in-suite", "--timeout", "0"},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			app := facetsuite.New()
			scheduler := &recordingScheduler{}
			app.Scheduler = scheduler
			cmd := runCmdWithApp(app)
			hijack(cmd, app)
			cmd.SetArgs(append([]string{"--name", "nightly", "--collections", alpha}, tc.args...))

			require.NoError(t, cmd.Execute())
			require.Len(t, scheduler.calls, 2)
			assert.Equal(t, tc.lastCall, scheduler.calls[1])
		})
	}
}

func TestRunCmd_RequiredFlags(t *testing.T) {
	tests := map[string][]string{
		"no name":        {"--collections", "basic"},
		"no collections": {"--name", "nightly"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			app := facetsuite.New()
			scheduler := &recordingScheduler{}
			app.Scheduler = scheduler
			cmd := runCmdWithApp(app)
			hijack(cmd, app)
			cmd.SetArgs(args)

			assert.Error(t, cmd.Execute())
			assert.Empty(t, scheduler.calls)
		})
	}
}

func TestRunCmd_NotADirectory(t *testing.T) {
	app := facetsuite.New()
	scheduler := &recordingScheduler{}
	app.Scheduler = scheduler
	cmd := runCmdWithApp(app)
	hijack(cmd, app)
	cmd.SetArgs([]string{"--name", "nightly", "--collections", filepath.Join(t.TempDir(), "missing")})

	assert.Error(t, cmd.Execute())
	assert.Empty(t, scheduler.calls)
}

func TestLsCmd(t *testing.T) {
	archiveDir := t.TempDir()
	mkdirAll(t, filepath.Join(archiveDir, "1"))
	require.NoError(t, os.WriteFile(
		filepath.Join(archiveDir, "1", "summary.yaml"),
		[]byte("description: collection:basic\nsuccess: false\nfailure_reason: timeout\n"),
		0o644,
	))
	mkdirAll(t, filepath.Join(archiveDir, "2"))

	app := facetsuite.New()
	cmd := lsCmdWithApp(app)
	out := hijack(cmd, app)
	cmd.SetArgs([]string{"--archive-dir", archiveDir, "-v"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "1 FAIL - collection:basic\n    timeout\n2 (no summary.yaml)\n", out.String())
}

func TestResultsCmd(t *testing.T) {
	archiveDir := t.TempDir()
	mkdirAll(t, filepath.Join(archiveDir, "1"))
	require.NoError(t, os.WriteFile(
		filepath.Join(archiveDir, "1", "summary.yaml"),
		[]byte("description: collection:basic\nsuccess: true\n"),
		0o644,
	))
	junitPath := filepath.Join(t.TempDir(), "junit.xml")

	app := facetsuite.New()
	sender := &fakeSender{}
	app.Sender = sender
	cmd := resultsCmdWithApp(app)
	out := hijack(cmd, app)
	cmd.SetArgs([]string{
		"--archive-dir", archiveDir, "--name", "nightly",
		"--email", "dev@example.com", "--timeout", "5", "--junit", junitPath,
	})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "All tests passed in nightly!\n", out.String())
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "dev@example.com", sender.sent[0].To)
	assert.FileExists(t, junitPath)
}

func TestVersionCmd(t *testing.T) {
	app := facetsuite.New()
	out := &bytes.Buffer{}
	app.Out = out
	cmd := versionCmd(app)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Version:")
}

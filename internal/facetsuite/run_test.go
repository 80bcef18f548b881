package facetsuite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Research/facetsuite/internal/common/suiteerrors"
)

// Used for in-line initialization of pointers to ints
func intPtr(v int) *int {
	return &v
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	basic := writeCollection(t, root, "basic", map[string][]string{
		"clusters": {"fixed.yaml", "three.yaml"},
		"tasks":    {"smoke.yaml"},
	})
	bare := writeCollection(t, root, "bare", nil)

	app, _ := testApp()
	scheduler := &recordingScheduler{}
	app.Scheduler = scheduler

	n, err := app.Run(context.Background(), &RunConfig{
		Name:        "nightly",
		Collections: []string{basic, bare},
		Owner:       "alice",
		Email:       "dev@example.com",
		Timeout:     intPtr(600),
		Configs:     []string{"extra.yaml"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.Len(t, scheduler.calls, 4)

	// Collections run in name order; a collection without facets still runs once.
	assert.Equal(t, []string{
		"--name", "nightly", "--owner", "alice",
		"--description", "collection:bare",
		"--", "extra.yaml",
	}, scheduler.calls[0])
	assert.Equal(t, []string{
		"--name", "nightly", "--owner", "alice",
		"--description", "collection:basic clusters:fixed.yaml tasks:smoke.yaml",
		"--", "extra.yaml",
		filepath.Join(basic, "clusters", "fixed.yaml"), filepath.Join(basic, "tasks", "smoke.yaml"),
	}, scheduler.calls[1])
	assert.Contains(t, scheduler.calls[2], "collection:basic clusters:three.yaml tasks:smoke.yaml")
	assert.Equal(t, []string{
		"--name", "nightly", "--owner", "alice",
		"--last-in-suite", "--email", "dev@example.com", "--timeout", "600",
	}, scheduler.calls[3])
}

func TestRun_EmptyFacetSchedulesOnlyEndMarker(t *testing.T) {
	root := t.TempDir()
	empty := writeCollection(t, root, "empty", map[string][]string{
		"clusters": {"fixed.yaml"},
		"tasks":    nil,
	})

	app, _ := testApp()
	scheduler := &recordingScheduler{}
	app.Scheduler = scheduler

	n, err := app.Run(context.Background(), &RunConfig{Name: "nightly", Collections: []string{empty}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, scheduler.calls, 1)
	assert.Contains(t, scheduler.calls[0], "--last-in-suite")
}

func TestRun_Glob(t *testing.T) {
	root := t.TempDir()
	writeCollection(t, root, filepath.Join("suites", "rados-a"), map[string][]string{"tasks": {"a.yaml"}})
	writeCollection(t, root, filepath.Join("suites", "nested", "rados-b"), map[string][]string{"tasks": {"b.yaml"}})
	writeCollection(t, root, filepath.Join("suites", "rbd"), map[string][]string{"tasks": {"c.yaml"}})

	app, _ := testApp()
	scheduler := &recordingScheduler{}
	app.Scheduler = scheduler

	n, err := app.Run(context.Background(), &RunConfig{
		Name:        "nightly",
		Collections: []string{filepath.Join(root, "suites", "**", "rados*")},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Contains(t, scheduler.calls[0], "collection:rados-a tasks:a.yaml")
	assert.Contains(t, scheduler.calls[1], "collection:rados-b tasks:b.yaml")
}

func TestRun_InvalidCollectionSchedulesNothing(t *testing.T) {
	root := t.TempDir()
	basic := writeCollection(t, root, "basic", map[string][]string{"tasks": {"a.yaml"}})

	tests := map[string][]string{
		"missing directory": {basic, filepath.Join(root, "missing")},
		"file":              {basic, filepath.Join(basic, "tasks", "a.yaml")},
		"unmatched pattern": {basic, filepath.Join(root, "nothing*")},
	}
	for name, collections := range tests {
		t.Run(name, func(t *testing.T) {
			app, _ := testApp()
			scheduler := &recordingScheduler{}
			app.Scheduler = scheduler

			n, err := app.Run(context.Background(), &RunConfig{Name: "nightly", Collections: collections})
			require.Error(t, err)
			assert.True(t, suiteerrors.IsUsageError(err))
			assert.Equal(t, 0, n)
			assert.Empty(t, scheduler.calls)
		})
	}
}

func TestRun_DuplicateCollectionName(t *testing.T) {
	root := t.TempDir()
	first := writeCollection(t, root, filepath.Join("one", "basic"), map[string][]string{"tasks": {"a.yaml"}})
	second := writeCollection(t, root, filepath.Join("two", "basic"), map[string][]string{"tasks": {"b.yaml"}})

	app, _ := testApp()
	scheduler := &recordingScheduler{}
	app.Scheduler = scheduler

	_, err := app.Run(context.Background(), &RunConfig{Name: "nightly", Collections: []string{first, second}})
	require.Error(t, err)

	var invalid *suiteerrors.ErrInvalidArgument
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, second, invalid.Value)
	assert.Empty(t, scheduler.calls)
}

func TestRun_SchedulerFailureStopsRun(t *testing.T) {
	root := t.TempDir()
	basic := writeCollection(t, root, "basic", map[string][]string{"tasks": {"a.yaml", "b.yaml", "c.yaml"}})

	app, _ := testApp()
	scheduler := &recordingScheduler{failOn: 2}
	app.Scheduler = scheduler

	n, err := app.Run(context.Background(), &RunConfig{Name: "nightly", Collections: []string{basic}})
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, scheduler.calls, 2)

	var dispatchErr *suiteerrors.ErrDispatch
	assert.True(t, errors.As(err, &dispatchErr))
	assert.False(t, suiteerrors.IsUsageError(err))
}

func TestRun_DryRun(t *testing.T) {
	root := t.TempDir()
	basic := writeCollection(t, root, "basic", map[string][]string{"tasks": {"a.yaml"}})

	app, out := testApp()
	app.Params.Config.Scheduler.Path = "/opt/bin/schedule"

	n, err := app.Run(context.Background(), &RunConfig{Name: "nightly", Collections: []string{basic}, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, out.String(), "/opt/bin/schedule --name nightly --description collection:basic tasks:a.yaml --")
	assert.Contains(t, out.String(), "/opt/bin/schedule --name nightly --last-in-suite")
}

func TestRunConfig_Validate(t *testing.T) {
	tests := map[string]RunConfig{
		"no name":          {Collections: []string{"basic"}},
		"no collections":   {Name: "nightly"},
		"negative timeout": {Name: "nightly", Collections: []string{"basic"}, Timeout: intPtr(-1)},
	}
	for name, config := range tests {
		t.Run(name, func(t *testing.T) {
			err := config.Validate()
			require.Error(t, err)
			assert.True(t, suiteerrors.IsUsageError(err))
		})
	}
}

func TestRun_SameDirectoryTwice(t *testing.T) {
	root := t.TempDir()
	basic := writeCollection(t, root, "basic", map[string][]string{"tasks": {"a.yaml"}})

	app, _ := testApp()
	scheduler := &recordingScheduler{}
	app.Scheduler = scheduler

	n, err := app.Run(context.Background(), &RunConfig{
		Name:        "nightly",
		Collections: []string{basic, basic + "/", filepath.Join(basic, ".")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, scheduler.calls[0], "collection:basic tasks:a.yaml")
}

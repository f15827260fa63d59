package steamcmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records directive batches and plays back scripted results.
type fakeRunner struct {
	calls   [][]Directive
	results []fakeResult
}

type fakeResult struct {
	result *Result
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, binDir string, directives []Directive) (*Result, error) {
	f.calls = append(f.calls, directives)
	if len(f.results) == 0 {
		return &Result{}, nil
	}
	next := f.results[0]
	f.results = f.results[1:]
	return next.result, next.err
}

func newTestClient(t *testing.T, runner Runner) *Client {
	t.Helper()

	binDir := filepath.Join(t.TempDir(), "steamcmd")
	require.NoError(t, os.MkdirAll(binDir, 0755))

	c := New(Options{
		BinDir: binDir,
		Warmup: WarmupPolicy{SettleDelay: time.Millisecond, Attempts: 2, Backoff: time.Millisecond},
	})
	c.runner = runner
	return c
}

func TestUpdateAppRelativeDirFailsBeforeSpawn(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestClient(t, runner)

	_, err := c.UpdateApp(context.Background(), 740, "relative/path")
	require.ErrorIs(t, err, ErrRelativeInstallDir)
	assert.Empty(t, runner.calls, "no process must be spawned on validation failure")
}

func TestUpdateAppOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		stdout  string
		want    bool
		wantErr bool
	}{
		{
			name:   "fully_installed",
			stdout: "Update state (0x101) committing\nSuccess! App '42' fully installed.\n",
			want:   true,
		},
		{
			name:   "already_up_to_date",
			stdout: "Connecting anonymously...OK\nSuccess! App '42' already up to date.\n",
			want:   false,
		},
		{
			name:    "unrecognized_output",
			stdout:  "something\nERROR! Failed (No subscription)\ntrailer\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{results: []fakeResult{
				{result: &Result{ExitCode: 0, Stdout: tt.stdout}},
			}}
			c := newTestClient(t, runner)

			updated, err := c.UpdateApp(context.Background(), 42, "/srv/app")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUpdateUnrecognized)
				assert.Contains(t, err.Error(), "ERROR! Failed (No subscription)")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, updated)
		})
	}
}

func TestUpdateAppDirectiveBatch(t *testing.T) {
	runner := &fakeRunner{results: []fakeResult{
		{result: &Result{Stdout: "Success! App '90' fully installed.\n"}},
	}}
	c := newTestClient(t, runner)

	_, err := c.UpdateApp(context.Background(), 90, "/srv/hlds")
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)

	batch := runner.calls[0]
	updates := 0
	for _, d := range batch {
		if d[0] == "app_update" {
			updates++
		}
	}
	assert.Equal(t, 2, updates, "app 90 issues app_update twice")
}

func TestTouchRunsEmptyBatch(t *testing.T) {
	runner := &fakeRunner{}
	c := newTestClient(t, runner)

	require.NoError(t, c.Touch(context.Background()))
	require.Len(t, runner.calls, 1)
	assert.Empty(t, runner.calls[0])
}

func TestAppInfoIssuesTwoBatches(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("testdata", "app_info_730.txt"))
	require.NoError(t, err)

	runner := &fakeRunner{results: []fakeResult{
		{result: &Result{Stdout: "warm-up noise\n"}},
		{result: &Result{Stdout: string(fixture)}},
	}}
	c := newTestClient(t, runner)

	info, err := c.AppInfo(context.Background(), 730)
	require.NoError(t, err)
	require.Len(t, runner.calls, 2)

	warm := runner.calls[0]
	assert.Equal(t, Directive{"login", "anonymous"}, warm[0])
	assert.Equal(t, Directive{"force_install_dir", "./4"}, warm[1])

	refresh := runner.calls[1]
	assert.Equal(t, Directive{"app_info_update", "1"}, refresh[1])
	assert.Equal(t, Directive{"app_info_print", "730"}, refresh[2])

	name, ok := info.String("common.name")
	require.True(t, ok)
	assert.Equal(t, "Counter-Strike: Global Offensive", name)

	ufs, ok := info.Object("ufs")
	require.True(t, ok)
	assert.NotEmpty(t, ufs)
}

func TestAppInfoRepeatedCalls(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("testdata", "app_info_730.txt"))
	require.NoError(t, err)

	runner := &fakeRunner{results: []fakeResult{
		{result: &Result{}},
		{result: &Result{Stdout: string(fixture)}},
		{result: &Result{}},
		{result: &Result{Stdout: string(fixture)}},
	}}
	c := newTestClient(t, runner)

	first, err := c.AppInfo(context.Background(), 730)
	require.NoError(t, err)
	second, err := c.AppInfo(context.Background(), 730)
	require.NoError(t, err)

	firstName, _ := first.String("common.name")
	secondName, _ := second.String("common.name")
	assert.Equal(t, firstName, secondName)
}

func TestAppInfoMissingMarkers(t *testing.T) {
	runner := &fakeRunner{results: []fakeResult{
		{result: &Result{}},
		{result: &Result{Stdout: "no info block here\n"}},
	}}
	c := newTestClient(t, runner)

	_, err := c.AppInfo(context.Background(), 730)
	require.ErrorIs(t, err, ErrAppInfoNotFound)
}

func TestPrepRetriesWarmup(t *testing.T) {
	runErr := &RunError{Result: Result{ExitCode: 8}, Err: errors.New("exit status 8")}
	runner := &fakeRunner{results: []fakeResult{
		{result: &Result{ExitCode: 8}, err: runErr},
		{result: &Result{}},
	}}
	c := newTestClient(t, runner)

	require.NoError(t, c.Prep(context.Background()))
	assert.Len(t, runner.calls, 2, "first warm-up fails, second succeeds")
}

func TestPrepExhaustsAttempts(t *testing.T) {
	runErr := &RunError{Result: Result{ExitCode: 8}, Err: errors.New("exit status 8")}
	runner := &fakeRunner{results: []fakeResult{
		{result: &Result{ExitCode: 8}, err: runErr},
		{result: &Result{ExitCode: 8}, err: runErr},
	}}
	c := newTestClient(t, runner)

	err := c.Prep(context.Background())
	require.Error(t, err)

	var re *RunError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 8, re.Result.ExitCode)
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()

	assert.NotEmpty(t, opts.BinDir)
	assert.Equal(t, DefaultWarmup, opts.Warmup)
	assert.NotNil(t, opts.Logger)
}

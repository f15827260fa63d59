package steamcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// exitCodeExpectedFailure is SteamCMD's documented "expected failure" exit
// code; it shows up on otherwise healthy runs (self-update restarts, for
// one) and is treated as success alongside 0.
const exitCodeExpectedFailure = 7

// Runner executes a SteamCMD directive batch inside a binary directory and
// returns the captured process result. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, binDir string, directives []Directive) (*Result, error)
}

// execRunner is the real Runner backed by os/exec.
type execRunner struct {
	goos string
	log  Logger
}

// NewRunner creates a Runner that spawns the real SteamCMD binary.
func NewRunner(log Logger) Runner {
	if log == nil {
		log = defaultLogger()
	}
	return &execRunner{goos: runtime.GOOS, log: log}
}

// buildArgs turns a directive batch into SteamCMD's argv form: every
// directive's command token gets a `+` prefix, payload tokens follow as
// separate argv entries, and a terminating +quit is always appended.
func buildArgs(directives []Directive) []string {
	args := make([]string, 0, len(directives)*2+1)
	for _, d := range directives {
		if len(d) == 0 {
			continue
		}
		args = append(args, "+"+d[0])
		args = append(args, d[1:]...)
	}
	return append(args, "+quit")
}

// Run invokes SteamCMD with the directive batch, capturing stdout and
// stderr separately. Exit codes 0 and 7 are success; anything else yields
// a *RunError carrying the full result. A cancelled context kills the
// subprocess.
func (r *execRunner) Run(ctx context.Context, binDir string, directives []Directive) (*Result, error) {
	args := buildArgs(directives)
	bin := filepath.Join(binDir, execName(r.goos))

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = binDir
	// SteamCMD reads HOME for its cache location; pass the ambient
	// environment through untouched.
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug("running steamcmd", "bin", bin, "args", args)

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("steamcmd run: %w", ctx.Err())
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// Spawn failure: binary missing, permission denied, etc.
			return nil, fmt.Errorf("spawn steamcmd: %w", err)
		}

		result.ExitCode = exitErr.ExitCode()
		if result.ExitCode == exitCodeExpectedFailure {
			r.log.Debug("steamcmd expected-failure exit", "code", result.ExitCode)
			return result, nil
		}

		return result, &RunError{Result: *result, Err: err}
	}

	return result, nil
}

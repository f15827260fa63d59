package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/fletchkit/steamctl/internal/config"
	"github.com/fletchkit/steamctl/internal/platform"
	"github.com/fletchkit/steamctl/internal/steamcmd"
)

// defaultConfigPath is consulted when --config is not given; a missing
// file there is not an error.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".steamctl", "steamctl.lua")
}

// loadConfig resolves the effective configuration: the --config file if
// given (must exist), otherwise the default path if present, otherwise an
// empty config.
func loadConfig(ctx context.Context, cmd *cli.Command) (*config.Config, error) {
	parser := config.NewParser(platform.NewDetector())

	if path := cmd.String("config"); path != "" {
		cfg, err := parser.ParseFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		return cfg, nil
	}

	path := defaultConfigPath()
	if path == "" {
		return &config.Config{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &config.Config{}, nil
		}
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	cfg, err := parser.ParseFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// newClient builds a steamcmd client from the effective config and flags.
func newClient(ctx context.Context, cmd *cli.Command) (*steamcmd.Client, *config.Config, error) {
	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		return nil, nil, err
	}

	opts := steamcmd.Options{
		BinDir: cfg.BinDir,
		Logger: newSlogLogger(cmd.Bool("verbose")),
	}
	if dir := cmd.String("bin-dir"); dir != "" {
		opts.BinDir = dir
	}
	opts.Warmup = warmupPolicy(cfg.Warmup)

	return steamcmd.New(opts), cfg, nil
}

// warmupPolicy converts config warmup fields to a policy, leaving zero
// values for the client's defaults to fill in.
func warmupPolicy(w config.Warmup) steamcmd.WarmupPolicy {
	if w == (config.Warmup{}) {
		return steamcmd.WarmupPolicy{}
	}
	policy := steamcmd.DefaultWarmup
	if w.SettleDelayMS > 0 {
		policy.SettleDelay = time.Duration(w.SettleDelayMS) * time.Millisecond
	}
	if w.Attempts > 0 {
		policy.Attempts = w.Attempts
	}
	if w.BackoffMS > 0 {
		policy.Backoff = time.Duration(w.BackoffMS) * time.Millisecond
	}
	return policy
}

// exitCodeFor maps errors to Unix exit codes.
func exitCodeFor(err error) int {
	var perr *config.ParseError
	var verr *config.ValidationError
	switch {
	case errors.As(err, &perr), errors.As(err, &verr):
		return ExitConfigError
	case errors.Is(err, steamcmd.ErrRelativeInstallDir):
		return ExitUsageError
	default:
		return ExitGeneralError
	}
}

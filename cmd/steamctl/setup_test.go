package main

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fletchkit/steamctl/internal/config"
	"github.com/fletchkit/steamctl/internal/steamcmd"
)

func TestWarmupPolicy(t *testing.T) {
	tests := []struct {
		name string
		in   config.Warmup
		want steamcmd.WarmupPolicy
	}{
		{
			name: "zero_config_defers_to_client_defaults",
			in:   config.Warmup{},
			want: steamcmd.WarmupPolicy{},
		},
		{
			name: "full_config",
			in:   config.Warmup{SettleDelayMS: 1500, Attempts: 5, BackoffMS: 250},
			want: steamcmd.WarmupPolicy{SettleDelay: 1500 * time.Millisecond, Attempts: 5, Backoff: 250 * time.Millisecond},
		},
		{
			name: "partial_config_keeps_default_fields",
			in:   config.Warmup{Attempts: 7},
			want: steamcmd.WarmupPolicy{
				SettleDelay: steamcmd.DefaultWarmup.SettleDelay,
				Attempts:    7,
				Backoff:     steamcmd.DefaultWarmup.Backoff,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, warmupPolicy(tt.in))
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "config_parse_error",
			err:  fmt.Errorf("load config: %w", &config.ParseError{Message: "bad", Detail: "detail"}),
			want: ExitConfigError,
		},
		{
			name: "validation_error",
			err:  &config.ValidationError{Field: "apps[1].dir", Message: "must be absolute"},
			want: ExitConfigError,
		},
		{
			name: "relative_install_dir",
			err:  fmt.Errorf("update: %w", steamcmd.ErrRelativeInstallDir),
			want: ExitUsageError,
		},
		{
			name: "generic_error",
			err:  errors.New("boom"),
			want: ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestNewAppCommands(t *testing.T) {
	app := newApp()

	names := make(map[string]bool)
	for _, c := range app.Commands {
		names[c.Name] = true
	}

	for _, want := range []string{"install", "prep", "info", "update", "sync", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

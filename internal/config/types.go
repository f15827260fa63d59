// Package config parses steamctl's Lua configuration file.
//
// It uses gopher-lua for safe, sandboxed Lua execution with platform
// detection injected as a read-only table, so a single config can declare
// per-platform values:
//
//	steamctl = {
//	    bin_dir = "/opt/steamcmd",
//	    warmup = { settle_delay_ms = 3000, attempts = 3, backoff_ms = 2000 },
//	    apps = {
//	        { id = 740, dir = "/srv/csgo-ds" },
//	        platform.when(platform.is_linux, { id = 258550, dir = "/srv/rust" }),
//	    },
//	}
package config

import (
	"fmt"
	"path/filepath"
)

// Config is the parsed steamctl configuration.
type Config struct {
	// BinDir is the SteamCMD binary directory. Empty means the built-in
	// default.
	BinDir string `json:"bin_dir,omitempty"`

	// Warmup tunes the prep warm-up policy.
	Warmup Warmup `json:"warmup,omitempty"`

	// Apps is the manifest consumed by the sync command.
	Apps []App `json:"apps,omitempty"`
}

// Warmup mirrors steamcmd.WarmupPolicy in config form. Zero values mean
// the built-in defaults.
type Warmup struct {
	SettleDelayMS int `json:"settle_delay_ms,omitempty"`
	Attempts      int `json:"attempts,omitempty"`
	BackoffMS     int `json:"backoff_ms,omitempty"`
}

// App is one entry in the config's app manifest.
type App struct {
	ID  int    `json:"id"`
	Dir string `json:"dir"`
}

// ValidationError describes an invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config field %s: %s", e.Field, e.Message)
}

// Validate performs basic validation on a Config.
func (c *Config) Validate() error {
	if c.Warmup.SettleDelayMS < 0 {
		return &ValidationError{Field: "warmup.settle_delay_ms", Message: "must not be negative"}
	}
	if c.Warmup.Attempts < 0 {
		return &ValidationError{Field: "warmup.attempts", Message: "must not be negative"}
	}
	if c.Warmup.BackoffMS < 0 {
		return &ValidationError{Field: "warmup.backoff_ms", Message: "must not be negative"}
	}

	for i, app := range c.Apps {
		if app.ID <= 0 {
			return &ValidationError{
				Field:   fmt.Sprintf("apps[%d].id", i+1),
				Message: fmt.Sprintf("app ID must be positive, got %d", app.ID),
			}
		}
		if app.Dir == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("apps[%d].dir", i+1),
				Message: "install dir is required",
			}
		}
		if !filepath.IsAbs(app.Dir) {
			return &ValidationError{
				Field:   fmt.Sprintf("apps[%d].dir", i+1),
				Message: fmt.Sprintf("install dir must be absolute, got %q", app.Dir),
			}
		}
	}

	return nil
}

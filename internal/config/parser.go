package config

import (
	"context"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/fletchkit/steamctl/internal/platform"
)

// Parser represents a Lua config parser with platform detection.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector skips platform table injection (used in tests).
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseError represents a config parsing error with a friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseFile parses a Lua config from a file on disk.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return p.ParseString(ctx, string(data))
}

// ParseString parses a Lua config from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
			Err:     err,
		}
	}

	return extractConfig(L)
}

// extractConfig extracts the config from a Lua state.
// It expects a global "steamctl" table with the config structure.
func extractConfig(L *lua.LState) (*Config, error) {
	root := L.GetGlobal("steamctl")
	if root.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'steamctl' table",
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}

	config := &Config{}
	table := root.(*lua.LTable)

	if binVal := table.RawGetString("bin_dir"); binVal.Type() == lua.LTString {
		config.BinDir = binVal.String()
	}

	if warmupVal := table.RawGetString("warmup"); warmupVal.Type() == lua.LTTable {
		config.Warmup = extractWarmup(warmupVal.(*lua.LTable))
	}

	if appsVal := table.RawGetString("apps"); appsVal.Type() == lua.LTTable {
		config.Apps = extractApps(appsVal.(*lua.LTable))
	}

	if err := config.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
			Err:     err,
		}
	}

	return config, nil
}

// extractWarmup extracts the warmup policy from a Lua table.
func extractWarmup(table *lua.LTable) Warmup {
	warmup := Warmup{}

	if v := table.RawGetString("settle_delay_ms"); v.Type() == lua.LTNumber {
		warmup.SettleDelayMS = int(v.(lua.LNumber))
	}
	if v := table.RawGetString("attempts"); v.Type() == lua.LTNumber {
		warmup.Attempts = int(v.(lua.LNumber))
	}
	if v := table.RawGetString("backoff_ms"); v.Type() == lua.LTNumber {
		warmup.BackoffMS = int(v.(lua.LNumber))
	}

	return warmup
}

// extractApps extracts the app manifest from a Lua table.
// It skips nil values from platform conditionals like
// platform.when(platform.is_linux, {...}).
func extractApps(table *lua.LTable) []App {
	var apps []App

	table.ForEach(func(key, value lua.LValue) {
		if value.Type() != lua.LTTable {
			return
		}

		appTable := value.(*lua.LTable)
		app := App{}

		if idVal := appTable.RawGetString("id"); idVal.Type() == lua.LTNumber {
			app.ID = int(idVal.(lua.LNumber))
		}
		if dirVal := appTable.RawGetString("dir"); dirVal.Type() == lua.LTString {
			app.Dir = dirVal.String()
		}

		apps = append(apps, app)
	})

	return apps
}

package steamcmd

import (
	"os"
	"path/filepath"
	"time"
)

// ArchiveKind identifies the archive format of a SteamCMD distributable.
type ArchiveKind int

const (
	// ArchiveTarGz is a gzip-compressed tarball (linux, darwin).
	ArchiveTarGz ArchiveKind = iota
	// ArchiveZip is a zip archive (windows).
	ArchiveZip
)

// String returns the conventional file extension for the archive kind.
func (k ArchiveKind) String() string {
	switch k {
	case ArchiveTarGz:
		return "tar.gz"
	case ArchiveZip:
		return "zip"
	default:
		return "unknown"
	}
}

// DownloadInfo describes where to fetch the SteamCMD distributable for one
// platform and how to unpack it.
type DownloadInfo struct {
	OS          string
	URL         string
	ArchiveKind ArchiveKind
}

// Directive is a single pre-tokenized command for SteamCMD's scripting
// interface. The first token is the command name and receives the `+`
// prefix at spawn time; remaining tokens are passed as separate argv
// entries, so payloads containing spaces (install paths, for one) survive
// intact.
type Directive []string

// Result is the captured outcome of one SteamCMD invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// UpdateOutcome is the three-way classification of an app_update run.
type UpdateOutcome int

const (
	// OutcomeUpdated means SteamCMD reported the app as fully installed.
	OutcomeUpdated UpdateOutcome = iota
	// OutcomeUnchanged means the app was already up to date.
	OutcomeUnchanged
)

// WarmupPolicy controls how Prep waits for SteamCMD's self-update to
// settle after a fresh install. SteamCMD exposes no readiness signal, only
// an internal lock that clears within a few seconds, so the policy is a
// bounded retry rather than a real synchronization primitive.
type WarmupPolicy struct {
	// SettleDelay is waited once before the first warm-up invocation.
	SettleDelay time.Duration
	// Attempts is the maximum number of warm-up invocations.
	Attempts int
	// Backoff is the wait after the first failed attempt; it doubles on
	// each subsequent failure.
	Backoff time.Duration
}

// DefaultWarmup preserves the timing envelope of the fixed delay it
// replaces while retrying instead of hoping once.
var DefaultWarmup = WarmupPolicy{
	SettleDelay: 3 * time.Second,
	Attempts:    3,
	Backoff:     2 * time.Second,
}

// Options configures a Client. The zero value is usable: defaults are
// applied once in New, never re-merged per operation.
type Options struct {
	// BinDir is the directory holding the SteamCMD installation.
	BinDir string
	// Warmup tunes Prep's settle-and-retry behavior.
	Warmup WarmupPolicy
	// Logger receives structured diagnostics. Defaults to a no-op logger.
	Logger Logger
}

func (o Options) withDefaults() Options {
	if o.BinDir == "" {
		o.BinDir = DefaultBinDir()
	}
	if o.Warmup == (WarmupPolicy{}) {
		o.Warmup = DefaultWarmup
	}
	if o.Warmup.Attempts < 1 {
		o.Warmup.Attempts = 1
	}
	if o.Logger == nil {
		o.Logger = defaultLogger()
	}
	return o
}

// DefaultBinDir returns the default SteamCMD installation directory,
// ~/.steamctl/steamcmd, falling back to a relative directory when the home
// directory cannot be determined.
func DefaultBinDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "steamcmd_bin"
	}
	return filepath.Join(home, ".steamctl", "steamcmd")
}

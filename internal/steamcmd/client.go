package steamcmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"

	"github.com/fletchkit/steamctl/internal/vdf"
)

// lockRetryInterval is how often lock acquisition is retried while the
// context is still live.
const lockRetryInterval = 250 * time.Millisecond

// warmCacheDir is the disposable install directory used by the app info
// warm-up batch. Updating anything into it forces SteamCMD to populate its
// local app info cache; app 4 (Dedicated Server) is tiny and anonymous.
const warmCacheDir = "./4"

// Client composes installation, process running, and output scraping into
// the public SteamCMD operations. Invocations against the binary directory
// are serialized with a file lock; SteamCMD holds an internal lock on its
// cache files and concurrent runs trip over it.
type Client struct {
	opts      Options
	installer *Installer
	runner    Runner
	lock      *flock.Flock
	log       Logger
}

// New creates a Client. Defaults are applied here, once; Options is not
// re-merged on every operation.
func New(opts Options) *Client {
	opts = opts.withDefaults()
	return &Client{
		opts:      opts,
		installer: NewInstaller(opts.BinDir, opts.Logger),
		runner:    NewRunner(opts.Logger),
		lock:      flock.New(opts.BinDir + ".lock"),
		log:       opts.Logger,
	}
}

// BinDir returns the managed binary directory.
func (c *Client) BinDir() string {
	return c.opts.BinDir
}

// EnsurePresent installs SteamCMD if the binary directory does not exist.
func (c *Client) EnsurePresent(ctx context.Context) error {
	return c.withLock(ctx, func() error {
		return c.installer.EnsurePresent(ctx)
	})
}

// Touch runs SteamCMD with no directives (just the terminator). It
// confirms the tool is installed and lets it complete a self-update.
func (c *Client) Touch(ctx context.Context) error {
	return c.withLock(ctx, func() error {
		return c.touchLocked(ctx)
	})
}

func (c *Client) touchLocked(ctx context.Context) error {
	_, err := c.runner.Run(ctx, c.opts.BinDir, nil)
	return err
}

// Prep makes SteamCMD ready for use: install if missing, then warm it up
// under the configured policy. SteamCMD's self-update takes an internal
// lock that clears within a few seconds of a fresh install, so the warm-up
// waits once and then retries the no-op invocation with backoff.
func (c *Client) Prep(ctx context.Context) error {
	return c.withLock(ctx, func() error {
		if err := c.installer.EnsurePresent(ctx); err != nil {
			return err
		}

		policy := c.opts.Warmup
		if err := sleepCtx(ctx, policy.SettleDelay); err != nil {
			return err
		}

		var lastErr error
		backoff := policy.Backoff
		for attempt := 0; attempt < policy.Attempts; attempt++ {
			if attempt > 0 {
				if err := sleepCtx(ctx, backoff); err != nil {
					return err
				}
				backoff *= 2
			}

			lastErr = c.touchLocked(ctx)
			if lastErr == nil {
				return nil
			}
			c.log.Warn("steamcmd warm-up attempt failed", "attempt", attempt+1, "error", lastErr)

			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		return fmt.Errorf("steamcmd warm-up failed after %d attempts: %w", policy.Attempts, lastErr)
	})
}

// AppInfo fetches the app info block for appID and returns it as a parsed
// mapping. Two sequential batches are issued: a throwaway warm-up that
// forces SteamCMD to populate its local app info cache, then the real
// cache-refresh-and-print run.
func (c *Client) AppInfo(ctx context.Context, appID int) (vdf.Object, error) {
	var info vdf.Object
	err := c.withLock(ctx, func() error {
		id := strconv.Itoa(appID)

		// Without this throwaway cycle the first app_info_print of a
		// fresh install returns an empty block.
		warm := []Directive{
			{"login", "anonymous"},
			{"force_install_dir", warmCacheDir},
			{"app_update", "4"},
			{"app_info_print", id},
		}
		if _, err := c.runner.Run(ctx, c.opts.BinDir, warm); err != nil {
			return fmt.Errorf("app info warm-up: %w", err)
		}

		batch := []Directive{
			{"login", "anonymous"},
			{"app_info_update", "1"},
			{"app_info_print", id},
		}
		result, err := c.runner.Run(ctx, c.opts.BinDir, batch)
		if err != nil {
			return err
		}

		parsed, err := parseInfoBlock(result.Stdout, appID)
		if err != nil {
			return err
		}
		info = parsed
		return nil
	})
	return info, err
}

// UpdateApp installs or updates appID into installDir. It returns true
// when SteamCMD changed the installation and false when it was already up
// to date. installDir must be absolute; relative paths fail before any
// process is spawned.
func (c *Client) UpdateApp(ctx context.Context, appID int, installDir string) (bool, error) {
	if !filepath.IsAbs(installDir) {
		return false, fmt.Errorf("%w: %q", ErrRelativeInstallDir, installDir)
	}

	var updated bool
	err := c.withLock(ctx, func() error {
		result, err := c.runner.Run(ctx, c.opts.BinDir, updateDirectives(appID, installDir))
		if err != nil {
			return err
		}

		outcome, err := classifyUpdateResult(result.Stdout)
		if err != nil {
			return err
		}

		updated = outcome == OutcomeUpdated
		c.log.Info("app update finished", "app_id", appID, "updated", updated)
		return nil
	})
	return updated, err
}

// withLock serializes an operation against other steamctl processes using
// a lock file next to the binary directory.
func (c *Client) withLock(ctx context.Context, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(c.lock.Path()), 0755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}

	locked, err := c.lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLockHeld, err)
	}
	if !locked {
		return ErrLockHeld
	}
	defer c.lock.Unlock()

	return fn()
}

// sleepCtx waits for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

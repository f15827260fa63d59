package steamcmd

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPlatform is returned for any OS without a SteamCMD
	// distributable. There is no fallback.
	ErrUnsupportedPlatform = errors.New("no steamcmd distributable for platform")

	// ErrRelativeInstallDir is returned by UpdateApp before any process is
	// spawned when the install directory is not absolute.
	ErrRelativeInstallDir = errors.New("install dir must be an absolute path")

	// ErrAppInfoNotFound is returned when SteamCMD's output does not
	// contain the expected app info markers for the requested app ID.
	ErrAppInfoNotFound = errors.New("app info not found in steamcmd output")

	// ErrUpdateUnrecognized is returned when an app_update run printed
	// neither of the known success markers.
	ErrUpdateUnrecognized = errors.New("unrecognized steamcmd update output")

	// ErrLockHeld is returned when the binary-directory lock cannot be
	// acquired before the context expires.
	ErrLockHeld = errors.New("steamcmd directory is locked by another operation")
)

// RunError carries the full process result of a SteamCMD invocation that
// exited with an unexpected code.
type RunError struct {
	Result Result
	Err    error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("steamcmd exited with code %d: %v", e.Result.ExitCode, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

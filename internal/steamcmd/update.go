package steamcmd

import (
	"fmt"
	"strconv"
	"strings"
)

// Success markers in app_update output. Like the app info markers these
// track SteamCMD's current phrasing, not a documented contract.
const (
	markerFullyInstalled = "fully installed"
	markerUpToDate       = "already up to date"
)

// halfLifeAppID is the one app whose installer needs the app_update
// directive issued twice in the same batch to complete.
const halfLifeAppID = 90

// updateDirectives builds the directive batch for updating appID into
// installDir.
func updateDirectives(appID int, installDir string) []Directive {
	id := strconv.Itoa(appID)
	batch := []Directive{
		{"login", "anonymous"},
		{"force_install_dir", installDir},
		{"app_update", id},
	}
	if appID == halfLifeAppID {
		batch = append(batch, Directive{"app_update", id})
	}
	return batch
}

// classifyUpdateResult scrapes an app_update run's stdout into a three-way
// outcome. When neither success marker is present, the second-to-last line
// is SteamCMD's own diagnostic more often than not, so it rides along in
// the error.
func classifyUpdateResult(out string) (UpdateOutcome, error) {
	out = normalizeNewlines(out)

	if strings.Contains(out, markerFullyInstalled) {
		return OutcomeUpdated, nil
	}
	if strings.Contains(out, markerUpToDate) {
		return OutcomeUnchanged, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrUpdateUnrecognized, diagnosticLine(out))
}

// diagnosticLine returns the second-to-last non-empty-trailing line of
// out, or whatever text exists when there are fewer than two lines.
func diagnosticLine(out string) string {
	trimmed := strings.TrimRight(out, "\n")
	lines := strings.Split(trimmed, "\n")
	if len(lines) >= 2 {
		return lines[len(lines)-2]
	}
	return trimmed
}

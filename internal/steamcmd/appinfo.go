package steamcmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fletchkit/steamctl/internal/vdf"
)

// conVarsMarker is the line SteamCMD prints immediately after the app info
// block. It is an incidental dependency on the tool's current output
// format, not a designed protocol.
const conVarsMarker = "ConVars:"

// parseInfoBlock locates the app info payload for appID in captured
// SteamCMD stdout and parses it with the VDF grammar. The payload is the
// text between the first occurrence of the quoted app ID and the first
// subsequent ConVars: marker. Returns ErrAppInfoNotFound when either
// marker is absent.
func parseInfoBlock(out string, appID int) (vdf.Object, error) {
	out = normalizeNewlines(out)
	id := strconv.Itoa(appID)
	idMarker := `"` + id + `"`

	start := strings.Index(out, idMarker)
	if start < 0 {
		return nil, fmt.Errorf("%w: app %d", ErrAppInfoNotFound, appID)
	}

	rest := out[start:]
	end := strings.Index(rest, conVarsMarker)
	if end < 0 {
		return nil, fmt.Errorf("%w: app %d", ErrAppInfoNotFound, appID)
	}

	payload := rest[:end]
	obj, err := vdf.Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("parse app info block: %w", err)
	}

	info, ok := obj.Object(id)
	if !ok {
		return nil, fmt.Errorf("%w: app %d", ErrAppInfoNotFound, appID)
	}
	return info, nil
}

// normalizeNewlines folds CRLF line endings into LF. SteamCMD emits CRLF
// on Windows and occasionally mid-stream elsewhere.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

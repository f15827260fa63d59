package steamcmd

import "fmt"

// Valve ships exactly three SteamCMD distributables. The URLs are fixed;
// there is no version component and no per-architecture variant.
const (
	windowsURL = "https://steamcdn-a.akamaihd.net/client/installer/steamcmd.zip"
	darwinURL  = "https://steamcdn-a.akamaihd.net/client/installer/steamcmd_osx.tar.gz"
	linuxURL   = "https://steamcdn-a.akamaihd.net/client/installer/steamcmd_linux.tar.gz"
)

// downloadInfoFor maps a GOOS value to the SteamCMD distributable for that
// platform. Every unrecognized value is a hard error.
func downloadInfoFor(goos string) (*DownloadInfo, error) {
	switch goos {
	case "windows":
		return &DownloadInfo{OS: goos, URL: windowsURL, ArchiveKind: ArchiveZip}, nil
	case "darwin":
		return &DownloadInfo{OS: goos, URL: darwinURL, ArchiveKind: ArchiveTarGz}, nil
	case "linux":
		return &DownloadInfo{OS: goos, URL: linuxURL, ArchiveKind: ArchiveTarGz}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

// execName returns the SteamCMD entry point name inside the binary
// directory for the given platform.
func execName(goos string) string {
	if goos == "windows" {
		return "steamcmd.exe"
	}
	return "steamcmd.sh"
}

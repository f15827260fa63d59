package steamcmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// downloadClient fetches a URL to a local file. Tests substitute a fake.
type downloadClient interface {
	DownloadToFile(ctx context.Context, url, destPath string) error
}

// archiveExtractor unpacks a distributable archive. Tests substitute a fake.
type archiveExtractor interface {
	Extract(kind ArchiveKind, archivePath, destDir string) error
}

// Installer fetches and unpacks the SteamCMD distributable for the current
// platform into a managed binary directory.
type Installer struct {
	binDir     string
	goos       string
	downloader downloadClient
	extractor  archiveExtractor
	log        Logger
}

// NewInstaller creates an installer targeting binDir.
func NewInstaller(binDir string, log Logger) *Installer {
	if log == nil {
		log = defaultLogger()
	}
	return &Installer{
		binDir:     binDir,
		goos:       runtime.GOOS,
		downloader: NewDownloader(),
		extractor:  NewExtractor(),
		log:        log,
	}
}

// IsInstalled reports whether the binary directory exists. Any existing
// directory counts as installed; contents are not validated.
func (i *Installer) IsInstalled() (bool, error) {
	info, err := os.Stat(i.binDir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat bin dir: %w", err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("bin dir path %s exists but is not a directory", i.binDir)
	}
	return true, nil
}

// EnsurePresent installs SteamCMD if the binary directory does not already
// exist. A second call is a no-op.
func (i *Installer) EnsurePresent(ctx context.Context) error {
	installed, err := i.IsInstalled()
	if err != nil {
		return fmt.Errorf("check if installed: %w", err)
	}
	if installed {
		i.log.Debug("steamcmd already present", "bin_dir", i.binDir)
		return nil
	}
	return i.Install(ctx)
}

// Install downloads the platform distributable and unpacks it into the
// binary directory. Extraction targets a staging directory that is renamed
// into place only on success, so a failed run never leaves a partially
// populated directory that IsInstalled would treat as valid.
func (i *Installer) Install(ctx context.Context) error {
	info, err := downloadInfoFor(i.goos)
	if err != nil {
		return err
	}

	parent := filepath.Dir(i.binDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	archivePath := filepath.Join(parent, "steamcmd-download."+info.ArchiveKind.String())
	i.log.Info("downloading steamcmd", "url", info.URL, "os", info.OS)
	if err := i.downloader.DownloadToFile(ctx, info.URL, archivePath); err != nil {
		return fmt.Errorf("download steamcmd: %w", err)
	}
	defer os.Remove(archivePath)

	staging, err := os.MkdirTemp(parent, ".steamcmd-staging-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			os.RemoveAll(staging)
		}
	}()

	if err := i.extractor.Extract(info.ArchiveKind, archivePath, staging); err != nil {
		return fmt.Errorf("extract steamcmd: %w", err)
	}

	// The tarballs carry the executable bit already; set it explicitly in
	// case the archive was repacked without modes.
	entry := filepath.Join(staging, execName(i.goos))
	if i.goos != "windows" {
		if _, err := os.Stat(entry); err == nil {
			if err := SetExecutable(entry); err != nil {
				return err
			}
		}
	}

	if err := os.Rename(staging, i.binDir); err != nil {
		return fmt.Errorf("move staging dir into place: %w", err)
	}

	cleanupNeeded = false
	i.log.Info("steamcmd installed", "bin_dir", i.binDir)
	return nil
}

// ExecPath returns the path to the SteamCMD entry point inside the binary
// directory.
func (i *Installer) ExecPath() string {
	return filepath.Join(i.binDir, execName(i.goos))
}

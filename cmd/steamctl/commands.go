package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	cli "github.com/urfave/cli/v3"

	"github.com/fletchkit/steamctl/internal/config"
)

func installCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Download and install SteamCMD if it is not already present",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, _, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}
			if err := client.EnsurePresent(ctx); err != nil {
				return err
			}
			fmt.Printf("SteamCMD present in %s\n", client.BinDir())
			return nil
		},
	}
}

func prepCommand() *cli.Command {
	return &cli.Command{
		Name:  "prep",
		Usage: "Install SteamCMD if missing and warm it up (self-update)",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, _, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}
			if err := client.Prep(ctx); err != nil {
				return err
			}
			fmt.Println("SteamCMD ready")
			return nil
		},
	}
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Print the app info block for a Steam app ID",
		ArgsUsage: "<app-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			appID, err := appIDArg(cmd, 0)
			if err != nil {
				return err
			}

			client, _, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}

			info, err := client.AppInfo(ctx, appID)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Install or update a Steam app into an absolute install dir",
		ArgsUsage: "<app-id> <install-dir>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			appID, err := appIDArg(cmd, 0)
			if err != nil {
				return err
			}
			installDir := cmd.Args().Get(1)
			if installDir == "" {
				return errors.New("install dir argument is required")
			}

			client, _, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}

			updated, err := client.UpdateApp(ctx, appID, installDir)
			if err != nil {
				return err
			}

			if updated {
				fmt.Printf("App %d fully installed\n", appID)
			} else {
				fmt.Printf("App %d already up to date\n", appID)
			}
			return nil
		},
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Update every app declared in the config file's app manifest",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, cfg, err := newClient(ctx, cmd)
			if err != nil {
				return err
			}
			if len(cfg.Apps) == 0 {
				return errors.New("no apps declared in config")
			}

			if err := client.Prep(ctx); err != nil {
				return err
			}

			return syncApps(ctx, cfg.Apps, client.UpdateApp, os.Stdout, os.Stderr)
		},
	}
}

// syncApps updates each declared app in turn, reporting one line per app.
// Failures are counted rather than aborting the loop; a single aggregate
// error is returned when any app failed.
func syncApps(ctx context.Context, apps []config.App, update func(context.Context, int, string) (bool, error), out, errOut io.Writer) error {
	failed := 0
	for _, app := range apps {
		updated, err := update(ctx, app.ID, app.Dir)
		switch {
		case err != nil:
			failed++
			fmt.Fprintf(errOut, "app %d: %v\n", app.ID, err)
		case updated:
			fmt.Fprintf(out, "app %d: updated (%s)\n", app.ID, app.Dir)
		default:
			fmt.Fprintf(out, "app %d: up to date (%s)\n", app.ID, app.Dir)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d apps failed to update", failed, len(apps))
	}
	return nil
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the steamctl version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Printf("steamctl %s\n", Version)
			return nil
		},
	}
}

// appIDArg parses a positional app ID argument.
func appIDArg(cmd *cli.Command, index int) (int, error) {
	raw := cmd.Args().Get(index)
	if raw == "" {
		return 0, errors.New("app ID argument is required")
	}
	appID, err := strconv.Atoi(raw)
	if err != nil || appID <= 0 {
		return 0, fmt.Errorf("invalid app ID %q", raw)
	}
	return appID, nil
}

// Command steamctl manages SteamCMD installations: it fetches the platform
// distributable, warms the tool up, and drives app info queries and app
// updates through SteamCMD's scripting interface.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"
)

// Version is set at build time via -ldflags.
var Version = "v0.1.0-dev"

// Exit codes follow standard Unix conventions for better scripting support.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp()
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "steamctl",
		Usage:   "Download and drive Valve's SteamCMD",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the Lua config file",
			},
			&cli.StringFlag{
				Name:  "bin-dir",
				Usage: "SteamCMD binary directory (overrides the config file)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			installCommand(),
			prepCommand(),
			infoCommand(),
			updateCommand(),
			syncCommand(),
			versionCommand(),
		},
	}
}

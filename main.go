package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/okra-platform/overlay/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "overlay",
		Usage:   "Generate JSON-backed Go wrappers, contracts and enumerations from type definitions",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("OVERLAY_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to overlay.json or overlay.yaml (default: search from the working directory)",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)
			ctrl.Flags.LogLevel = c.String("log-level")
			ctrl.Flags.Config = c.String("config")
			ctrl.Logger = log.Logger

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate wrappers from the configured source",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "regenerate even when the output is newer than every source",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Generate(ctx, c.Bool("force"))
				},
			},
			{
				Name:  "inspect",
				Usage: "Show how every property is classified",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Inspect(ctx)
				},
			},
			{
				Name:  "watch",
				Usage: "Regenerate whenever a source changes",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Watch(ctx)
				},
			},
			{
				Name:  "init",
				Usage: "Create an overlay.json in the current directory",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run overlay")
	}
}

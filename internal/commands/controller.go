// Package commands contains the CLI commands for the application
package commands

import (
	"context"

	"github.com/rs/zerolog"
)

type Flags struct {
	LogLevel string
	Config   string
}

type Controller struct {
	Flags  *Flags
	Logger zerolog.Logger
}

func (c *Controller) Generate(ctx context.Context, force bool) error {
	cmd := NewGenerateCommand(c.Logger)
	_, err := cmd.Execute(ctx, GenerateOptions{ConfigPath: c.Flags.Config, Force: force})
	return err
}

func (c *Controller) Inspect(ctx context.Context) error {
	cmd := NewInspectCommand(c.Logger)
	return cmd.Execute(ctx, c.Flags.Config)
}

func (c *Controller) Watch(ctx context.Context) error {
	cmd := NewWatchCommand(c.Logger)
	return cmd.Execute(ctx, c.Flags.Config)
}

func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand()
	return cmd.Run(ctx)
}

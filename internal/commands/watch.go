package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/okra-platform/overlay/internal/config"
	"github.com/okra-platform/overlay/internal/dev"
)

// WatchDependencies for the watch command
type WatchDependencies struct {
	ConfigLoader   ConfigLoader
	LoopFactory    LoopFactory
	SignalNotifier SignalNotifier
	Output         Output
}

type LoopFactory interface {
	NewLoop(cfg *config.Config, projectRoot string, rebuild func(ctx context.Context) error) WatchLoop
}

type WatchLoop interface {
	Run(ctx context.Context) error
}

type defaultLoopFactory struct {
	logger zerolog.Logger
}

func (f *defaultLoopFactory) NewLoop(cfg *config.Config, projectRoot string, rebuild func(ctx context.Context) error) WatchLoop {
	return dev.NewLoop(projectRoot, cfg.Watch.Patterns, cfg.Watch.Exclude, rebuild, f.logger)
}

// WatchCommand regenerates wrappers whenever a watched source changes
type WatchCommand struct {
	deps     WatchDependencies
	generate *GenerateCommand
}

// NewWatchCommand creates a new watch command with default dependencies
func NewWatchCommand(logger zerolog.Logger) *WatchCommand {
	return &WatchCommand{
		deps: WatchDependencies{
			ConfigLoader:   &defaultConfigLoader{},
			LoopFactory:    &defaultLoopFactory{logger: logger},
			SignalNotifier: defaultSignalNotifier{},
			Output:         defaultOutput{},
		},
		generate: NewGenerateCommand(logger),
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (wc *WatchCommand) WithDependencies(deps WatchDependencies, generate *GenerateCommand) *WatchCommand {
	wc.deps = deps
	wc.generate = generate
	return wc
}

// Execute runs the watch command
func (wc *WatchCommand) Execute(ctx context.Context, configPath string) error {
	cfg, projectRoot, err := wc.deps.ConfigLoader.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	wc.deps.Output.Printf("📁 Project root: %s\n", projectRoot)
	wc.deps.Output.Printf("🔧 Source: %s\n", cfg.Source.Kind)
	wc.deps.Output.Printf("📦 Output: %s\n", resolve(projectRoot, cfg.Output))

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	wc.deps.SignalNotifier.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer wc.deps.SignalNotifier.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			wc.deps.Output.Println("\n👋 Stopping watch...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Regenerations in watch mode skip the freshness check
	rebuild := func(ctx context.Context) error {
		_, err := wc.generate.Run(ctx, cfg, projectRoot, true)
		return err
	}

	loop := wc.deps.LoopFactory.NewLoop(cfg, projectRoot, rebuild)
	if err := loop.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("watch error: %w", err)
	}

	return nil
}

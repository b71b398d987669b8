package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/okra-platform/overlay/internal/codegen"
	"github.com/okra-platform/overlay/internal/codegen/golang"
	"github.com/okra-platform/overlay/internal/config"
	"github.com/okra-platform/overlay/internal/output"
	"github.com/okra-platform/overlay/internal/schema"
	"github.com/okra-platform/overlay/internal/source"
)

// GenerateOptions contains options for the generate command
type GenerateOptions struct {
	// ConfigPath names the configuration file; empty searches from the working directory
	ConfigPath string
	// Force skips the freshness check
	Force bool
}

// GenerateResult describes one generate run
type GenerateResult struct {
	Files   []codegen.File
	Output  string
	Skipped bool
}

// GenerateDependencies for the generate command
type GenerateDependencies struct {
	ConfigLoader ConfigLoader
	Sources      *source.Registry
	FileSystem   output.FileSystem
	Output       Output
}

// GenerateCommand loads the configured source, generates wrappers and writes them
type GenerateCommand struct {
	deps   GenerateDependencies
	logger zerolog.Logger
}

// NewGenerateCommand creates a new generate command with default dependencies
func NewGenerateCommand(logger zerolog.Logger) *GenerateCommand {
	return &GenerateCommand{
		deps: GenerateDependencies{
			ConfigLoader: &defaultConfigLoader{},
			Sources:      source.DefaultRegistry,
			FileSystem:   output.OSFileSystem{},
			Output:       defaultOutput{},
		},
		logger: logger,
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (gc *GenerateCommand) WithDependencies(deps GenerateDependencies) *GenerateCommand {
	gc.deps = deps
	return gc
}

// Execute runs the generate command
func (gc *GenerateCommand) Execute(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	cfg, projectRoot, err := gc.deps.ConfigLoader.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}

	return gc.Run(ctx, cfg, projectRoot, opts.Force)
}

// Run generates from an already loaded configuration
func (gc *GenerateCommand) Run(ctx context.Context, cfg *config.Config, projectRoot string, force bool) (*GenerateResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s, err := loadSource(ctx, gc.deps.Sources, cfg, projectRoot, gc.logger)
	if err != nil {
		return nil, err
	}

	writer := output.NewWriterWithFS(resolve(projectRoot, cfg.Output), cfg.Module, gc.deps.FileSystem, gc.logger)
	result := &GenerateResult{Output: writer.Root}

	if !force && writer.UpToDate(s.Sources) {
		gc.logger.Debug().Strs("sources", s.Sources).Msg("output newer than every source")
		gc.deps.Output.Printf("Output in %s is up to date\n", writer.Root)
		result.Skipped = true
		return result, nil
	}

	gen := codegen.NewGenerator(generatorOptions(cfg), golang.NewEmitter(), gc.logger)
	files, err := gen.Generate(s)
	if err != nil {
		return nil, fmt.Errorf("failed to generate wrappers: %w", err)
	}

	if err := writer.Write(files); err != nil {
		return nil, err
	}

	result.Files = files
	gc.deps.Output.Printf("✅ Generated %d files for %d types in %s\n", len(files), len(s.Types), writer.Root)
	return result, nil
}

// loadSource reads the configured source through its registered loader
func loadSource(ctx context.Context, registry *source.Registry, cfg *config.Config, projectRoot string, logger zerolog.Logger) (*schema.Schema, error) {
	loader, err := registry.Get(cfg.Source.Kind, logger)
	if err != nil {
		return nil, err
	}

	s, err := loader.Load(ctx, source.Input{
		Dir:      projectRoot,
		Schema:   cfg.Source.Schema,
		Packages: cfg.Source.Packages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s source: %w", cfg.Source.Kind, err)
	}
	return s, nil
}

func generatorOptions(cfg *config.Config) codegen.Options {
	return codegen.Options{
		OldPackagePrefix:  cfg.OldPackagePrefix,
		NewPackagePrefix:  cfg.NewPackagePrefix,
		GenerateContracts: cfg.GenerateContracts,
	}
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

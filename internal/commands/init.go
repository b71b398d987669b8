package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/okra-platform/overlay/internal/config"
)

type InitOptions struct {
	Kind              string
	Sources           string
	Output            string
	Module            string
	GenerateContracts bool
	Format            string
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	Getwd() (string, error)
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (fs *osFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

type InitCommand struct {
	filesystem FileSystem
	output     Output
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		filesystem: &osFileSystem{},
		output:     defaultOutput{},
	}
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	dir, err := ic.filesystem.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	for _, name := range config.FileNames {
		if _, err := ic.filesystem.Stat(filepath.Join(dir, name)); err == nil {
			return fmt.Errorf("%s already exists in %s", name, dir)
		}
	}

	var options *InitOptions

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	cfg := buildConfig(options)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	name := "overlay.json"
	if options.Format == "yaml" {
		name = "overlay.yaml"
	}
	path := filepath.Join(dir, name)

	data, err := cfg.Encode(path)
	if err != nil {
		return err
	}
	if err := ic.filesystem.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	ic.output.Printf("✅ Created %s\n", path)
	return nil
}

// buildConfig turns form answers into a configuration with defaults for everything left blank
func buildConfig(options *InitOptions) *config.Config {
	cfg := &config.Config{
		Source:            config.SourceConfig{Kind: options.Kind},
		Output:            strings.TrimSpace(options.Output),
		Module:            strings.TrimSpace(options.Module),
		GenerateContracts: options.GenerateContracts,
	}
	if sources := splitList(options.Sources); options.Kind == "go" {
		cfg.Source.Packages = sources
	} else {
		cfg.Source.Schema = sources
	}
	cfg.ApplyDefaults()
	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := &InitOptions{
		Kind:              "schema",
		Output:            "./generated",
		GenerateContracts: true,
		Format:            "json",
	}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Source").
				Description("Where type definitions come from").
				Options(
					huh.NewOption("GraphQL schema files", "schema"),
					huh.NewOption("Go packages", "go"),
				).
				Value(&options.Kind),

			huh.NewInput().
				Title("Inputs").
				Description("Comma-separated schema globs or Go package patterns; blank for defaults").
				Value(&options.Sources),

			huh.NewInput().
				Title("Output directory").
				Value(&options.Output).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("output directory cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Title("Module").
				Description("Go module path the output directory belongs to (optional)").
				Value(&options.Module),

			huh.NewConfirm().
				Title("Generate contracts").
				Description("Emit an I-prefixed interface per value object").
				Value(&options.GenerateContracts),

			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("JSON", "json"),
					huh.NewOption("YAML", "yaml"),
				).
				Value(&options.Format),
		),
	)
}

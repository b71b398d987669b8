package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog"

	"github.com/okra-platform/overlay/internal/codegen"
	"github.com/okra-platform/overlay/internal/codegen/golang"
	"github.com/okra-platform/overlay/internal/source"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// InspectCommand prints how every property of the configured source classifies
type InspectCommand struct {
	configLoader ConfigLoader
	sources      *source.Registry
	output       Output
	logger       zerolog.Logger
}

// NewInspectCommand creates a new inspect command with default dependencies
func NewInspectCommand(logger zerolog.Logger) *InspectCommand {
	return &InspectCommand{
		configLoader: &defaultConfigLoader{},
		sources:      source.DefaultRegistry,
		output:       defaultOutput{},
		logger:       logger,
	}
}

// Execute runs the inspect command
func (ic *InspectCommand) Execute(ctx context.Context, configPath string) error {
	cfg, projectRoot, err := ic.configLoader.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	s, err := loadSource(ctx, ic.sources, cfg, projectRoot, ic.logger)
	if err != nil {
		return err
	}

	plan, err := codegen.NewGenerator(generatorOptions(cfg), golang.NewEmitter(), ic.logger).Plan(s)
	if err != nil {
		return fmt.Errorf("failed to plan generation: %w", err)
	}

	ic.output.Println(RenderPlan(plan))
	return nil
}

// RenderPlan renders one row per property and enumeration
func RenderPlan(plan *codegen.Plan) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TYPE", "TARGET", "PROPERTY", "CLASSIFICATION", "ACCESSORS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, tp := range plan.Types {
		target := tp.Package + "." + tp.Impl
		if tp.IsEnum() {
			target = tp.Package + "." + tp.Name
			t.Row(tp.Def.ID().String(), target, "", fmt.Sprintf("Enumeration(%d constants)", len(tp.Constants)), "")
			continue
		}
		if len(tp.Properties) == 0 {
			t.Row(tp.Def.ID().String(), target, "", "", "")
			continue
		}
		for _, p := range tp.Properties {
			t.Row(tp.Def.ID().String(), target, p.Name, p.Type.String(), accessors(p))
		}
	}

	return fmt.Sprintf("%s\nhelper: %s", t.Render(), helperLine(plan))
}

func accessors(p codegen.PropertyPlan) string {
	switch {
	case p.Getter != "" && p.Setter != "":
		return p.Getter + "/" + p.Setter
	case p.Getter != "":
		return p.Getter
	default:
		return p.Setter
	}
}

func helperLine(plan *codegen.Plan) string {
	if plan.Helper == "" {
		return "none"
	}
	return plan.Helper
}

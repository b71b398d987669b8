// Package codegen turns a schema batch into generated source files. It plans the batch
// (classification, validation, namespace root) and hands each type to a language Emitter.
package codegen

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/okra-platform/overlay/internal/schema"
)

// Generator runs one generation pass over a schema batch
type Generator struct {
	opts    Options
	emitter Emitter
	logger  zerolog.Logger
}

// NewGenerator creates a generator that renders through emitter
func NewGenerator(opts Options, emitter Emitter, logger zerolog.Logger) *Generator {
	return &Generator{
		opts:    opts,
		emitter: emitter,
		logger:  logger,
	}
}

// Plan classifies and validates s without rendering anything
func (g *Generator) Plan(s *schema.Schema) (*Plan, error) {
	return newPlan(s, g.opts, g.logger)
}

// Generate renders every type of s. Value objects produce a wrapper and, with contracts
// enabled, a contract; enumerations produce one file. The shared helper is rendered once.
func (g *Generator) Generate(s *schema.Schema) ([]File, error) {
	p, err := g.Plan(s)
	if err != nil {
		return nil, err
	}

	var files []File
	for _, t := range p.Types {
		rendered, err := g.emitType(p, t)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", t.Def.ID(), err)
		}
		files = append(files, rendered...)
	}

	if p.Helper != "" {
		helper, err := g.emitter.Helper(p)
		if err != nil {
			return nil, fmt.Errorf("failed to generate helper package %s: %w", p.Helper, err)
		}
		files = append(files, helper)
	}

	g.logger.Debug().
		Int("types", len(p.Types)).
		Int("files", len(files)).
		Str("root", p.Root).
		Str("language", g.emitter.Language()).
		Msg("generation complete")
	return files, nil
}

func (g *Generator) emitType(p *Plan, t *TypePlan) ([]File, error) {
	if t.IsEnum() {
		f, err := g.emitter.Enumeration(p, t)
		if err != nil {
			return nil, err
		}
		return []File{f}, nil
	}

	wrapper, err := g.emitter.Wrapper(p, t)
	if err != nil {
		return nil, err
	}
	files := []File{wrapper}
	if p.Options.GenerateContracts {
		contract, err := g.emitter.Contract(p, t)
		if err != nil {
			return nil, err
		}
		files = append(files, contract)
	}
	return files, nil
}

// Package source maps a configured source kind onto the front end that reads it.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/okra-platform/overlay/internal/introspect"
	"github.com/okra-platform/overlay/internal/schema"
)

// Source kinds understood by the default registry
const (
	KindSchema = "schema"
	KindGo     = "go"
)

// Input tells a loader where to find its artifacts
type Input struct {
	// Dir is the directory relative paths and patterns are resolved against
	Dir string
	// Schema lists glob patterns of SDL files
	Schema []string
	// Packages lists Go package patterns
	Packages []string
}

// Loader reads source artifacts into a schema. The returned schema's Sources
// name every artifact read so freshness checks can compare modification times.
type Loader interface {
	Load(ctx context.Context, in Input) (*schema.Schema, error)
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(ctx context.Context, in Input) (*schema.Schema, error)

// Load calls f
func (f LoaderFunc) Load(ctx context.Context, in Input) (*schema.Schema, error) {
	return f(ctx, in)
}

// Registry manages available source loaders
type Registry struct {
	loaders map[string]func(logger zerolog.Logger) Loader
}

// NewRegistry creates a new loader registry
func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[string]func(logger zerolog.Logger) Loader),
	}
}

// Register adds a new loader factory to the registry
func (r *Registry) Register(kind string, factory func(logger zerolog.Logger) Loader) {
	r.loaders[kind] = factory
}

// Get returns a loader for the specified kind
func (r *Registry) Get(kind string, logger zerolog.Logger) (Loader, error) {
	factory, exists := r.loaders[kind]
	if !exists {
		return nil, fmt.Errorf("unsupported source kind: %s", kind)
	}

	return factory(logger), nil
}

// Kinds returns the registered kinds in sorted order
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.loaders))
	for kind := range r.loaders {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// DefaultRegistry is the global registry instance with pre-registered loaders
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(KindSchema, func(zerolog.Logger) Loader {
		return LoaderFunc(LoadSchema)
	})

	DefaultRegistry.Register(KindGo, func(logger zerolog.Logger) Loader {
		return LoaderFunc(func(ctx context.Context, in Input) (*schema.Schema, error) {
			if len(in.Packages) == 0 {
				return nil, fmt.Errorf("no Go packages configured")
			}
			return introspect.NewLoader(in.Dir, logger).Load(ctx, in.Packages...)
		})
	})
}

// LoadSchema parses every SDL file matching the input's schema globs
func LoadSchema(_ context.Context, in Input) (*schema.Schema, error) {
	paths, err := Expand(in.Dir, in.Schema)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no schema files match %v", in.Schema)
	}
	return schema.ParseFiles(paths)
}

// Expand resolves glob patterns against dir. Matches are deduplicated and sorted.
func Expand(dir string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(dir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid schema pattern %s: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

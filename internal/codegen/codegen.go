package codegen

import (
	"errors"
	"path"

	"github.com/okra-platform/overlay/internal/naming"
)

var (
	// ErrAccessorMismatch is returned when the getter and setter of a property classify differently.
	ErrAccessorMismatch = errors.New("getter and setter types differ")
	// ErrImportCycle is returned when generated packages would import each other.
	ErrImportCycle = errors.New("import cycle between generated packages")
)

// File is one generated source file
type File struct {
	// Package is the import path of the package the file belongs to
	Package string
	// Name is the file name within the package directory
	Name string
	// Owner is the source type the file was generated for, empty for the shared helper
	Owner string
	// Content is the formatted source text
	Content []byte
}

// Path returns the slash-separated path of the file below the output root
func (f File) Path() string {
	return path.Join(f.Package, f.Name)
}

// Options configures a Generator
type Options struct {
	// OldPackagePrefix and NewPackagePrefix form the package rename rule
	OldPackagePrefix string
	NewPackagePrefix string

	// GenerateContracts emits an interface per value object and makes
	// generated code refer to other value objects through it
	GenerateContracts bool
}

// Rename returns the package rename rule
func (o Options) Rename() naming.RenameRule {
	return naming.RenameRule{Old: o.OldPackagePrefix, New: o.NewPackagePrefix}
}

// DefaultOptions returns the default generator options
func DefaultOptions() Options {
	return Options{GenerateContracts: true}
}

// Emitter renders planned types into source files for one target language
type Emitter interface {
	// Language returns the name of the target language
	Language() string

	// Wrapper renders the JSON-backed wrapper of a value object
	Wrapper(p *Plan, t *TypePlan) (File, error)

	// Contract renders the interface implemented by a wrapper
	Contract(p *Plan, t *TypePlan) (File, error)

	// Enumeration renders an enumeration type
	Enumeration(p *Plan, t *TypePlan) (File, error)

	// Helper renders the shared helper package placed under the namespace root
	Helper(p *Plan) (File, error)
}

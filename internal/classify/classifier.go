// Package classify maps declared property types onto the six field categories the emitter
// knows how to render, and computes the target names generated code refers to them by.
package classify

import (
	"strings"

	"github.com/okra-platform/overlay/internal/naming"
	"github.com/okra-platform/overlay/internal/schema"
)

// Suffixes and prefixes of generated type names
const (
	ImplSuffix     = "JSO"
	ContractPrefix = "I"
)

// Options configures a Classifier
type Options struct {
	Rename            naming.RenameRule
	GenerateContracts bool
}

// Classifier classifies declared types. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	opts        Options
	isGenerated func(schema.TypeID) bool
}

// New creates a classifier. isGenerated reports whether a value object is part of the
// batch being generated; nil treats every value object as generated.
func New(opts Options, isGenerated func(schema.TypeID) bool) *Classifier {
	if isGenerated == nil {
		isGenerated = func(schema.TypeID) bool { return true }
	}
	return &Classifier{opts: opts, isGenerated: isGenerated}
}

// Options returns the classifier configuration
func (c *Classifier) Options() Options {
	return c.opts
}

// IsBuiltin reports whether pkg belongs to the built-in namespace: predeclared types
// (empty path) and the standard library (first path element without a dot).
func IsBuiltin(pkg string) bool {
	if pkg == "" {
		return true
	}
	first, _, _ := strings.Cut(pkg, "/")
	return !strings.Contains(first, ".")
}

// TargetPackage returns the package generated code for pkg lives in
func (c *Classifier) TargetPackage(pkg string) string {
	if IsBuiltin(pkg) {
		return pkg
	}
	return c.opts.Rename.Apply(pkg)
}

// Classify maps a declared type onto its FieldType
func (c *Classifier) Classify(ref schema.TypeRef) FieldType {
	switch {
	case ref.IsDate():
		return StringLike{}
	case ref.Shape == schema.ShapeArray:
		return Array{Elem: c.element(ref.Elem)}
	case ref.Shape == schema.ShapeList:
		elem := c.element(ref.Elem)
		if elem.Kind == ElemScalar || elem.Kind == ElemText {
			return Array{Elem: elem}
		}
		return List{Elem: elem}
	case ref.Enum:
		return Enumeration{Type: c.TargetName(ref)}
	case IsBuiltin(ref.Package):
		return Scalar{Type: c.TargetName(ref)}
	default:
		return Object{Type: c.TargetName(ref), Impl: c.ImplName(ref)}
	}
}

// element classifies a collection element. Dates become text and nested collections
// degrade to untyped scalars.
func (c *Classifier) element(ref *schema.TypeRef) Element {
	switch {
	case ref == nil || ref.Shape != schema.ShapeNamed:
		return Element{Kind: ElemScalar, Type: TypeName{Name: "any"}}
	case ref.IsDate():
		return Element{Kind: ElemText, Type: TypeName{Name: "string"}}
	case ref.Enum:
		return Element{Kind: ElemEnum, Type: c.TargetName(*ref)}
	case IsBuiltin(ref.Package):
		return Element{Kind: ElemScalar, Type: c.TargetName(*ref)}
	default:
		return Element{Kind: ElemObject, Type: c.TargetName(*ref), Impl: c.ImplName(*ref)}
	}
}

// TargetName returns the name generated code uses for a named type: built-ins unchanged,
// enumerations under their renamed package, value objects as their contract or wrapper.
func (c *Classifier) TargetName(ref schema.TypeRef) TypeName {
	if IsBuiltin(ref.Package) && !ref.Enum {
		return TypeName{Path: ref.Package, Name: ref.Name}
	}
	name := naming.SanitizeIdentifier(ref.Name)
	pkg := c.opts.Rename.Apply(ref.Package)
	switch {
	case ref.Enum:
		return TypeName{Path: pkg, Name: name}
	case c.opts.GenerateContracts:
		return TypeName{Path: pkg, Name: ContractPrefix + name}
	default:
		return TypeName{Path: pkg, Name: name + ImplSuffix}
	}
}

// ImplName returns the concrete wrapper type for a value object
func (c *Classifier) ImplName(ref schema.TypeRef) TypeName {
	return TypeName{
		Path: c.opts.Rename.Apply(ref.Package),
		Name: naming.SanitizeIdentifier(ref.Name) + ImplSuffix,
	}
}

// Missing returns the value objects referenced by ref that are not part of the batch.
// They still classify as objects; callers usually log a warning.
func (c *Classifier) Missing(ref schema.TypeRef) []schema.TypeID {
	var out []schema.TypeID
	for r := &ref; r != nil; r = r.Elem {
		if r.Shape != schema.ShapeNamed || r.IsDate() || r.Enum || IsBuiltin(r.Package) {
			continue
		}
		if !c.isGenerated(r.ID()) {
			out = append(out, r.ID())
		}
	}
	return out
}

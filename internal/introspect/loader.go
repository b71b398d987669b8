// Package introspect builds a schema from Go source: exported structs become value objects
// and string or integer types with package constants become enumerations.
package introspect

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"

	"github.com/okra-platform/overlay/internal/classify"
	"github.com/okra-platform/overlay/internal/naming"
	"github.com/okra-platform/overlay/internal/schema"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// RootDirective marks a type as a root element in its doc comment
const RootDirective = "//overlay:root"

// ErrUnsupportedType is returned for property types that have no JSON representation
var ErrUnsupportedType = errors.New("unsupported type")

// Loader loads Go packages and turns their exported types into a schema
type Loader struct {
	dir    string
	logger zerolog.Logger
}

// NewLoader creates a loader resolving patterns relative to dir
func NewLoader(dir string, logger zerolog.Logger) *Loader {
	return &Loader{dir: dir, logger: logger}
}

// candidate is a type declaration found in a loaded package
type candidate struct {
	named *types.Named
	spec  *ast.TypeSpec
	doc   *ast.CommentGroup
	def   *schema.TypeDef
}

// Load loads the packages matching patterns.
// Patterns are standard Go package patterns (e.g., "./model/...", "example.com/acme/model").
func (l *Loader) Load(ctx context.Context, patterns ...string) (*schema.Schema, error) {
	cfg := &packages.Config{
		Mode:    LoadMode,
		Dir:     l.dir,
		Context: ctx,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	s := &schema.Schema{}
	var candidates []*candidate
	enums := make(map[*types.TypeName]*candidate)
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			if !ast.IsGenerated(file) {
				s.Sources = append(s.Sources, pkg.Fset.File(file.Pos()).Name())
			}
		}
		found := l.collectTypes(pkg)
		for _, c := range found {
			if c.def.Kind == schema.KindEnumeration {
				enums[c.named.Obj()] = c
			}
		}
		candidates = append(candidates, found...)
	}

	r := &resolver{enums: enums, known: make(map[*types.TypeName]bool)}
	for _, c := range candidates {
		r.known[c.named.Obj()] = true
	}

	for _, c := range candidates {
		if c.def.Kind == schema.KindValueObject {
			props, err := l.properties(r, c)
			if err != nil {
				return nil, fmt.Errorf("failed to process type %s: %w", c.def.ID(), err)
			}
			c.def.Properties = props
		}
		s.Types = append(s.Types, c.def)
	}

	l.logger.Debug().
		Strs("patterns", patterns).
		Int("packages", len(pkgs)).
		Int("types", len(s.Types)).
		Msg("loaded Go packages")
	return s, nil
}

// collectTypes finds the exported struct and enumeration types of a package in declaration order
func (l *Loader) collectTypes(pkg *packages.Package) []*candidate {
	var out []*candidate
	byObj := make(map[*types.TypeName]*candidate)

	for _, file := range pkg.Syntax {
		// Generated files, including this tool's own output, are never sources
		if ast.IsGenerated(file) {
			continue
		}
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				if !ts.Name.IsExported() || ts.TypeParams != nil || ts.Assign.IsValid() {
					continue
				}
				obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
				if !ok {
					continue
				}
				named, ok := obj.Type().(*types.Named)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				c := &candidate{
					named: named,
					spec:  ts,
					doc:   doc,
					def: &schema.TypeDef{
						Package: pkg.PkgPath,
						Name:    obj.Name(),
						Doc:     strings.TrimSpace(doc.Text()),
						Root:    hasDirective(doc, RootDirective),
					},
				}

				switch u := named.Underlying().(type) {
				case *types.Struct:
					c.def.Kind = schema.KindValueObject
				case *types.Basic:
					if u.Info()&(types.IsString|types.IsInteger) == 0 {
						continue
					}
					c.def.Kind = schema.KindEnumeration
				default:
					continue
				}
				out = append(out, c)
				byObj[obj] = c
			}
		}
	}

	// Constants are attached in source order; basic types without constants are dropped.
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.CONST {
				continue
			}
			for _, spec := range gen.Specs {
				for _, name := range spec.(*ast.ValueSpec).Names {
					cnst, ok := pkg.TypesInfo.Defs[name].(*types.Const)
					if !ok || !cnst.Exported() {
						continue
					}
					named, ok := cnst.Type().(*types.Named)
					if !ok {
						continue
					}
					if c, ok := byObj[named.Obj()]; ok && c.def.Kind == schema.KindEnumeration {
						c.def.Constants = append(c.def.Constants, constantName(cnst))
					}
				}
			}
		}
	}

	kept := out[:0]
	for _, c := range out {
		if c.def.Kind == schema.KindEnumeration && len(c.def.Constants) == 0 {
			l.logger.Debug().Str("type", c.def.ID().String()).Msg("skipping basic type without constants")
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// constantName is the string value of a string constant, else its identifier
func constantName(c *types.Const) string {
	if c.Val().Kind() == constant.String {
		return constant.StringVal(c.Val())
	}
	return c.Name()
}

func hasDirective(doc *ast.CommentGroup, directive string) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.TrimSpace(c.Text) == directive {
			return true
		}
	}
	return false
}

// properties collects exported fields and Get/Is/Set methods, merged by property name.
// Fields come first in declaration order, then methods in source order.
// Unsupported types are skipped; unresolvable named types fail the type.
func (l *Loader) properties(r *resolver, c *candidate) ([]schema.Property, error) {
	var props []schema.Property
	index := make(map[string]int)
	upsert := func(name string) *schema.Property {
		if i, ok := index[name]; ok {
			return &props[i]
		}
		index[name] = len(props)
		props = append(props, schema.Property{Name: name})
		return &props[len(props)-1]
	}

	st := c.named.Underlying().(*types.Struct)
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if !field.Exported() || field.Embedded() {
			continue
		}
		name, skip := jsonName(field.Name(), st.Tag(i))
		if skip {
			continue
		}
		ref, err := r.resolve(field.Type())
		if err != nil {
			if errors.Is(err, schema.ErrTypeNotFound) {
				return nil, fmt.Errorf("property %s: %w", name, err)
			}
			l.skip(c, name, err)
			continue
		}
		p := upsert(name)
		p.Getter = &schema.Accessor{Name: field.Name(), Type: ref}
		p.Setter = &schema.Accessor{Name: field.Name(), Type: ref}
	}
	if fields, ok := c.spec.Type.(*ast.StructType); ok {
		for _, f := range fields.Fields.List {
			for _, n := range f.Names {
				name, _ := jsonName(n.Name, tagValue(f.Tag))
				if i, ok := index[name]; ok && f.Doc != nil {
					props[i].Doc = strings.TrimSpace(f.Doc.Text())
				}
			}
		}
	}

	methods := types.NewMethodSet(types.NewPointer(c.named))
	sels := make([]*types.Selection, 0, methods.Len())
	for i := 0; i < methods.Len(); i++ {
		sels = append(sels, methods.At(i))
	}
	sort.SliceStable(sels, func(i, j int) bool { return sels[i].Obj().Pos() < sels[j].Obj().Pos() })

	for _, sel := range sels {
		fn, ok := sel.Obj().(*types.Func)
		if !ok || !fn.Exported() || len(sel.Index()) > 1 {
			continue
		}
		sig := fn.Type().(*types.Signature)
		kind, t := accessorKind(fn.Name(), sig)
		if kind == "" {
			continue
		}
		name := naming.PropertyName(fn.Name())
		ref, err := r.resolve(t)
		if err != nil {
			if errors.Is(err, schema.ErrTypeNotFound) {
				return nil, fmt.Errorf("property %s: %w", name, err)
			}
			l.skip(c, name, err)
			continue
		}
		p := upsert(name)
		acc := &schema.Accessor{Name: fn.Name(), Type: ref}
		if kind == "get" {
			p.Getter = acc
		} else {
			p.Setter = acc
		}
	}
	return props, nil
}

func (l *Loader) skip(c *candidate, property string, err error) {
	l.logger.Warn().
		Err(err).
		Str("type", c.def.ID().String()).
		Str("property", property).
		Msg("skipping property")
}

// accessorKind recognises GetX() T, IsX() bool and SetX(T)
func accessorKind(name string, sig *types.Signature) (string, types.Type) {
	params, results := sig.Params(), sig.Results()
	switch {
	case strings.HasPrefix(name, "Get") && len(name) > 3 && params.Len() == 0 && results.Len() == 1:
		return "get", results.At(0).Type()
	case strings.HasPrefix(name, "Is") && len(name) > 2 && params.Len() == 0 && results.Len() == 1:
		if b, ok := results.At(0).Type().(*types.Basic); ok && b.Kind() == types.Bool {
			return "get", b
		}
	case strings.HasPrefix(name, "Set") && len(name) > 3 && params.Len() == 1 && results.Len() == 0 && !sig.Variadic():
		return "set", params.At(0).Type()
	}
	return "", nil
}

// jsonName returns the property name of a struct field and whether the field is skipped
func jsonName(field, tag string) (string, bool) {
	value, ok := reflect.StructTag(tag).Lookup("json")
	if !ok {
		return naming.Decapitalize(field), false
	}
	name, _, _ := strings.Cut(value, ",")
	switch name {
	case "-":
		return "", true
	case "":
		return naming.Decapitalize(field), false
	}
	return name, false
}

func tagValue(tag *ast.BasicLit) string {
	if tag == nil {
		return ""
	}
	return strings.Trim(tag.Value, "`")
}

// resolver maps go/types types onto schema type references
type resolver struct {
	enums map[*types.TypeName]*candidate
	known map[*types.TypeName]bool
}

func (r *resolver) resolve(t types.Type) (schema.TypeRef, error) {
	t = types.Unalias(t)
	switch tt := t.(type) {
	case *types.Pointer:
		return r.resolve(tt.Elem())
	case *types.Slice:
		elem, err := r.resolve(tt.Elem())
		if err != nil {
			return schema.TypeRef{}, err
		}
		return schema.ListOf(elem), nil
	case *types.Array:
		elem, err := r.resolve(tt.Elem())
		if err != nil {
			return schema.TypeRef{}, err
		}
		return schema.ArrayOf(elem), nil
	case *types.Basic:
		if tt.Info()&types.IsUntyped != 0 || tt.Kind() == types.UnsafePointer {
			return schema.TypeRef{}, fmt.Errorf("%w: %s", ErrUnsupportedType, tt)
		}
		return schema.Named("", tt.Name()), nil
	case *types.Map:
		return schema.Named("", "any"), nil
	case *types.Interface:
		if tt.Empty() {
			return schema.Named("", "any"), nil
		}
		return schema.TypeRef{}, fmt.Errorf("%w: %s", ErrUnsupportedType, tt)
	case *types.Named:
		return r.named(tt)
	default:
		return schema.TypeRef{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

func (r *resolver) named(t *types.Named) (schema.TypeRef, error) {
	obj := t.Obj()
	if obj.Pkg() == nil {
		return schema.TypeRef{}, fmt.Errorf("%w: %s", ErrUnsupportedType, obj.Name())
	}
	ref := schema.Named(obj.Pkg().Path(), obj.Name())
	switch {
	case ref.IsDate():
		return schema.Date, nil
	case r.enums[obj] != nil:
		return schema.EnumRef(ref.Package, ref.Name), nil
	case r.known[obj]:
		return ref, nil
	case classify.IsBuiltin(ref.Package):
		return ref, nil
	}
	return schema.TypeRef{}, fmt.Errorf("%w: %s", schema.ErrTypeNotFound, ref)
}

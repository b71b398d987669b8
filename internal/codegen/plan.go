package codegen

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/okra-platform/overlay/internal/classify"
	"github.com/okra-platform/overlay/internal/naming"
	"github.com/okra-platform/overlay/internal/schema"
)

// wrapperMethods are declared on every wrapper and cannot be used by properties
var wrapperMethods = map[string]bool{
	"JSObject":      true,
	"TypeName":      true,
	"JSONString":    true,
	"MarshalJSON":   true,
	"UnmarshalJSON": true,
}

// Plan is a validated, fully classified batch ready for emission
type Plan struct {
	Options    Options
	Classifier *classify.Classifier
	Types      []*TypePlan

	// Root is the namespace root and Helper the import path of the shared helper package.
	// Both are empty when the batch is empty.
	Root   string
	Helper string

	index map[schema.TypeID]*TypePlan
}

// Lookup returns the plan of a source type
func (p *Plan) Lookup(id schema.TypeID) (*TypePlan, bool) {
	t, ok := p.index[id]
	return t, ok
}

// TypePlan is one source type with its target names and classified properties
type TypePlan struct {
	Def *schema.TypeDef

	// Package is the target import path
	Package string
	// Name is the sanitized simple name
	Name string
	// Impl is the wrapper type name, Contract the interface name (empty without contracts)
	Impl     string
	Contract string

	Properties []PropertyPlan
	Constants  []ConstantPlan
}

// IsEnum reports whether the type is an enumeration
func (t *TypePlan) IsEnum() bool {
	return t.Def.Kind == schema.KindEnumeration
}

// QualifiedImpl returns the stable qualified name of the wrapper type
func (t *TypePlan) QualifiedImpl() string {
	return t.Package + "." + t.Impl
}

// PropertyPlan is a property that survived validation
type PropertyPlan struct {
	// Name is the property name; it is also the key in the backing object
	Name string
	Doc  string
	// Getter and Setter are the generated method names, empty when the accessor is absent
	Getter string
	Setter string
	Type   classify.FieldType
}

// ConstantPlan is one enumeration constant
type ConstantPlan struct {
	// Ident is the Go identifier of the constant
	Ident string
	// Value is the original constant name
	Value string
}

// newPlan classifies every property of every type and validates the batch.
// Skipped properties are logged; accessor mismatches and import cycles are fatal.
func newPlan(s *schema.Schema, opts Options, logger zerolog.Logger) (*Plan, error) {
	ids := make(map[schema.TypeID]bool, len(s.Types))
	for _, t := range s.Types {
		ids[t.ID()] = true
	}
	c := classify.New(classify.Options{
		Rename:            opts.Rename(),
		GenerateContracts: opts.GenerateContracts,
	}, func(id schema.TypeID) bool { return ids[id] })

	p := &Plan{
		Options:    opts,
		Classifier: c,
		index:      make(map[schema.TypeID]*TypePlan, len(s.Types)),
	}

	targets := make(map[string]string)
	var mismatches []error
	for _, def := range s.Types {
		t := &TypePlan{
			Def:     def,
			Package: c.TargetPackage(def.Package),
			Name:    naming.SanitizeIdentifier(def.Name),
		}
		t.Impl = t.Name + classify.ImplSuffix
		if opts.GenerateContracts && !t.IsEnum() {
			t.Contract = classify.ContractPrefix + t.Name
		}

		target := t.Package + "." + t.Name
		if prev, ok := targets[target]; ok {
			return nil, fmt.Errorf("types %s and %s both generate %s", prev, def.ID(), target)
		}
		targets[target] = def.ID().String()

		if t.IsEnum() {
			t.Constants = planConstants(t, logger)
		} else {
			props, errs := planProperties(c, def, logger)
			t.Properties = props
			mismatches = append(mismatches, errs...)
		}

		p.Types = append(p.Types, t)
		p.index[def.ID()] = t
	}

	if len(mismatches) > 0 {
		return nil, errors.Join(mismatches...)
	}
	if err := checkImportCycles(p); err != nil {
		return nil, err
	}

	packages := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		packages = append(packages, t.Package)
	}
	if root, ok := ResolveRoot(packages); ok {
		p.Root = root
		p.Helper = HelperPath(root)
	}
	return p, nil
}

func planProperties(c *classify.Classifier, def *schema.TypeDef, logger zerolog.Logger) ([]PropertyPlan, []error) {
	var (
		props []PropertyPlan
		errs  []error
	)
	used := make(map[string]string)
	for _, prop := range def.Properties {
		log := logger.With().Str("type", def.ID().String()).Str("property", prop.Name).Logger()

		if prop.Getter == nil && prop.Setter == nil {
			continue
		}
		if naming.IsReserved(prop.Name) {
			log.Warn().Msg("skipping property: name is a reserved word")
			continue
		}

		var getType, setType classify.FieldType
		if prop.Getter != nil {
			getType = c.Classify(prop.Getter.Type)
		}
		if prop.Setter != nil {
			setType = c.Classify(prop.Setter.Type)
		}
		if getType != nil && setType != nil && !classify.Equal(getType, setType) {
			errs = append(errs, fmt.Errorf("%w: %s.%s: %s and %s classify as %s",
				ErrAccessorMismatch, def.ID(), prop.Name,
				prop.Getter.Name, prop.Setter.Name, classify.Describe(getType, setType)))
			continue
		}

		method := naming.Exported(naming.Identifier(naming.SanitizeIdentifier(prop.Name)))
		plan := PropertyPlan{Name: prop.Name, Doc: prop.Doc, Type: getType}
		if prop.Getter != nil {
			plan.Getter = method
		}
		if prop.Setter != nil {
			plan.Setter = "Set" + method
			plan.Type = setType
		}

		if collision := methodCollision(used, plan); collision != "" {
			log.Warn().Str("method", collision).Msg("skipping property: method name already in use")
			continue
		}
		for _, m := range []string{plan.Getter, plan.Setter} {
			if m != "" {
				used[m] = prop.Name
			}
		}

		for _, missing := range c.Missing(accessorType(prop)) {
			log.Warn().Str("ref", missing.String()).Msg("referenced type is not part of this batch")
		}
		props = append(props, plan)
	}
	return props, errs
}

func accessorType(prop schema.Property) schema.TypeRef {
	if prop.Getter != nil {
		return prop.Getter.Type
	}
	return prop.Setter.Type
}

func methodCollision(used map[string]string, plan PropertyPlan) string {
	for _, m := range []string{plan.Getter, plan.Setter} {
		if m == "" {
			continue
		}
		if wrapperMethods[m] {
			return m
		}
		if _, ok := used[m]; ok {
			return m
		}
	}
	return ""
}

func planConstants(t *TypePlan, logger zerolog.Logger) []ConstantPlan {
	var out []ConstantPlan
	seen := make(map[string]bool)
	for _, value := range t.Def.Constants {
		ident := t.Name + naming.Exported(naming.Identifier(naming.SanitizeIdentifier(value)))
		if seen[ident] {
			logger.Warn().
				Str("type", t.Def.ID().String()).
				Str("constant", value).
				Msg("skipping constant: identifier already in use")
			continue
		}
		seen[ident] = true
		out = append(out, ConstantPlan{Ident: ident, Value: value})
	}
	return out
}

// References returns the target packages a type's generated code refers to, sorted
func (t *TypePlan) References() []string {
	set := make(map[string]bool)
	add := func(tn classify.TypeName) {
		if tn.Path != "" && !classify.IsBuiltin(tn.Path) && tn.Path != t.Package {
			set[tn.Path] = true
		}
	}
	for _, prop := range t.Properties {
		switch ft := prop.Type.(type) {
		case classify.Enumeration:
			add(ft.Type)
		case classify.Object:
			add(ft.Type)
			add(ft.Impl)
		case classify.List:
			add(ft.Elem.Type)
			add(ft.Elem.Impl)
		case classify.Array:
			add(ft.Elem.Type)
			add(ft.Elem.Impl)
		}
	}
	out := make([]string, 0, len(set))
	for pkg := range set {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}

// checkImportCycles rejects batches whose generated packages would import each other
func checkImportCycles(p *Plan) error {
	graph := make(map[string][]string)
	for _, t := range p.Types {
		graph[t.Package] = append(graph[t.Package], t.References()...)
	}
	nodes := make([]string, 0, len(graph))
	for pkg := range graph {
		nodes = append(nodes, pkg)
	}
	sort.Strings(nodes)

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	var stack []string
	var visit func(pkg string) error
	visit = func(pkg string) error {
		switch state[pkg] {
		case visiting:
			i := len(stack) - 1
			for i > 0 && stack[i] != pkg {
				i--
			}
			cycle := append(append([]string{}, stack[i:]...), pkg)
			return fmt.Errorf("%w: %s", ErrImportCycle, strings.Join(cycle, " -> "))
		case done:
			return nil
		}
		state[pkg] = visiting
		stack = append(stack, pkg)
		for _, dep := range graph[pkg] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[pkg] = done
		return nil
	}
	for _, pkg := range nodes {
		if err := visit(pkg); err != nil {
			return err
		}
	}
	return nil
}

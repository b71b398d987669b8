package schema

import (
	"fmt"
	"os"
	"strings"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/astparser"

	"github.com/okra-platform/overlay/internal/naming"
)

// Input is one SDL document
type Input struct {
	Name    string
	Content string
}

// builtinScalars maps SDL scalar names onto Go types
var builtinScalars = map[string]TypeRef{
	"String":   Named("", "string"),
	"ID":       Named("", "string"),
	"Int":      Named("", "int"),
	"Int32":    Named("", "int32"),
	"Int64":    Named("", "int64"),
	"Float":    Named("", "float64"),
	"Float32":  Named("", "float32"),
	"Boolean":  Named("", "bool"),
	"Bool":     Named("", "bool"),
	"Any":      Named("", "any"),
	"Date":     Date,
	"DateTime": Date,
	"Time":     Date,
}

// sdlType is a parsed definition whose field types are not yet resolved
type sdlType struct {
	def    *TypeDef
	source string
	fields []sdlField
}

type sdlField struct {
	name      string
	doc       string
	typ       *sdlTypeRef
	array     bool
	readonly  bool
	writeonly bool
}

type sdlTypeRef struct {
	name string
	elem *sdlTypeRef
}

// ParseSchema parses a single SDL document into a Schema
func ParseSchema(input string) (*Schema, error) {
	return Parse(Input{Name: "schema.gql", Content: input})
}

// ParseFiles reads and parses the SDL files at paths into one Schema
func ParseFiles(paths []string) (*Schema, error) {
	inputs := make([]Input, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
		}
		inputs = append(inputs, Input{Name: path, Content: string(content)})
	}

	s, err := Parse(inputs...)
	if err != nil {
		return nil, err
	}
	s.Sources = append(s.Sources, paths...)
	return s, nil
}

// Parse parses SDL documents into one Schema. Type names are global across documents,
// so a field may refer to a type declared in another file.
func Parse(inputs ...Input) (*Schema, error) {
	var parsed []*sdlType
	scalars := make(map[string]TypeRef)

	for _, in := range inputs {
		types, err := parseDocument(in, scalars)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, types...)
	}

	byName := make(map[string]*TypeDef, len(parsed))
	for _, t := range parsed {
		if prev, ok := byName[t.def.Name]; ok {
			return nil, fmt.Errorf("duplicate type %s in %s: already declared as %s", t.def.Name, t.source, prev.ID())
		}
		byName[t.def.Name] = t.def
	}

	r := &resolver{types: byName, scalars: scalars}
	s := &Schema{Types: make([]*TypeDef, 0, len(parsed))}
	for _, t := range parsed {
		for _, f := range t.fields {
			prop, err := r.property(f)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s.%s: %w", t.def.Name, f.name, err)
			}
			t.def.Properties = append(t.def.Properties, prop)
		}
		s.Types = append(s.Types, t.def)
	}

	return s, nil
}

func parseDocument(in Input, scalars map[string]TypeRef) ([]*sdlType, error) {
	doc, report := astparser.ParseGraphqlDocumentString(PreprocessSDL(in.Content))
	if report.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %v", in.Name, report)
	}

	pkg := ""
	for i := range doc.RootNodes {
		node := doc.RootNodes[i]
		if node.Kind != ast.NodeKindObjectTypeDefinition {
			continue
		}
		typeDef := doc.ObjectTypeDefinitions[node.Ref]
		if doc.Input.ByteSliceString(typeDef.Name) == metaTypeName {
			pkg = parseOverlayMetadata(&doc, typeDef)
		}
	}
	pkg = naming.NormalizePackage(pkg)

	var types []*sdlType
	for i := range doc.RootNodes {
		node := doc.RootNodes[i]
		switch node.Kind {
		case ast.NodeKindObjectTypeDefinition:
			typeDef := doc.ObjectTypeDefinitions[node.Ref]
			if doc.Input.ByteSliceString(typeDef.Name) == metaTypeName {
				continue
			}
			t, err := parseObjectType(&doc, typeDef, pkg)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", in.Name, err)
			}
			t.source = in.Name
			types = append(types, t)
		case ast.NodeKindEnumTypeDefinition:
			t, err := parseEnumType(&doc, node.Ref, pkg)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", in.Name, err)
			}
			t.source = in.Name
			types = append(types, t)
		case ast.NodeKindScalarTypeDefinition:
			parseScalarType(&doc, node.Ref, scalars)
		}
	}

	return types, nil
}

func parseOverlayMetadata(doc *ast.Document, typeDef ast.ObjectTypeDefinition) string {
	for _, fieldRef := range typeDef.FieldsDefinition.Refs {
		for _, d := range parseDirectives(doc, doc.FieldDefinitions[fieldRef].Directives) {
			if d.Name == "overlay" {
				return d.Args["package"]
			}
		}
	}
	return ""
}

func parseObjectType(doc *ast.Document, typeDef ast.ObjectTypeDefinition, pkg string) (*sdlType, error) {
	def := &TypeDef{
		Package: pkg,
		Name:    doc.Input.ByteSliceString(typeDef.Name),
		Kind:    KindValueObject,
		Doc:     getDescription(doc, typeDef.Description),
	}
	for _, d := range parseDirectives(doc, typeDef.Directives) {
		switch d.Name {
		case "package":
			def.Package = naming.NormalizePackage(d.Args["path"])
		case "root":
			def.Root = true
		}
	}
	if def.Package == "" {
		return nil, fmt.Errorf("type %s has no package: add @overlay(package: ...) or @package(path: ...)", def.Name)
	}

	t := &sdlType{def: def}
	for _, fieldRef := range typeDef.FieldsDefinition.Refs {
		f, err := parseField(doc, fieldRef)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", def.Name, err)
		}
		t.fields = append(t.fields, f)
	}
	return t, nil
}

func parseEnumType(doc *ast.Document, ref int, pkg string) (*sdlType, error) {
	enumDef := doc.EnumTypeDefinitions[ref]

	def := &TypeDef{
		Package: pkg,
		Name:    doc.Input.ByteSliceString(enumDef.Name),
		Kind:    KindEnumeration,
		Doc:     getDescription(doc, enumDef.Description),
	}
	for _, d := range parseDirectives(doc, enumDef.Directives) {
		if d.Name == "package" {
			def.Package = naming.NormalizePackage(d.Args["path"])
		}
	}
	if def.Package == "" {
		return nil, fmt.Errorf("enum %s has no package: add @overlay(package: ...) or @package(path: ...)", def.Name)
	}

	for _, valueRef := range enumDef.EnumValuesDefinition.Refs {
		valueDef := doc.EnumValueDefinitions[valueRef]
		def.Constants = append(def.Constants, doc.Input.ByteSliceString(valueDef.EnumValue))
	}

	return &sdlType{def: def}, nil
}

// parseScalarType registers `scalar X @goType(package: "...", name: "...")` declarations.
// A scalar without @goType is treated as `any`.
func parseScalarType(doc *ast.Document, ref int, scalars map[string]TypeRef) {
	scalarDef := doc.ScalarTypeDefinitions[ref]
	name := doc.Input.ByteSliceString(scalarDef.Name)

	target := Named("", "any")
	for _, d := range parseDirectives(doc, scalarDef.Directives) {
		if d.Name == "goType" {
			target = Named(naming.NormalizePackage(d.Args["package"]), d.Args["name"])
		}
	}
	scalars[name] = target
}

func parseField(doc *ast.Document, fieldRef int) (sdlField, error) {
	fieldDef := doc.FieldDefinitions[fieldRef]

	f := sdlField{
		name: doc.Input.ByteSliceString(fieldDef.Name),
		doc:  getDescription(doc, fieldDef.Description),
		typ:  parseType(doc, fieldDef.Type),
	}
	for _, d := range parseDirectives(doc, fieldDef.Directives) {
		switch d.Name {
		case "array":
			f.array = true
		case "readonly":
			f.readonly = true
		case "writeonly":
			f.writeonly = true
		}
	}
	if f.readonly && f.writeonly {
		return f, fmt.Errorf("field %s cannot be both @readonly and @writeonly", f.name)
	}
	if f.array && f.typ.elem == nil {
		return f, fmt.Errorf("field %s: @array requires a list type", f.name)
	}
	return f, nil
}

func parseType(doc *ast.Document, typeRef int) *sdlTypeRef {
	current := typeRef

	// Nullability has no meaning for a JSON-backed property
	if doc.Types[current].TypeKind == ast.TypeKindNonNull {
		current = doc.Types[current].OfType
	}

	if doc.Types[current].TypeKind == ast.TypeKindList {
		return &sdlTypeRef{elem: parseType(doc, doc.Types[current].OfType)}
	}

	return &sdlTypeRef{name: doc.Input.ByteSliceString(doc.Types[current].Name)}
}

func parseDirectives(doc *ast.Document, directives ast.DirectiveList) []Directive {
	result := []Directive{}

	for _, directiveRef := range directives.Refs {
		directive := doc.Directives[directiveRef]

		result = append(result, Directive{
			Name: doc.Input.ByteSliceString(directive.Name),
			Args: parseDirectiveArgs(doc, directive),
		})
	}

	return result
}

func parseDirectiveArgs(doc *ast.Document, directive ast.Directive) map[string]string {
	args := make(map[string]string)

	for _, argRef := range directive.Arguments.Refs {
		arg := doc.Arguments[argRef]
		argName := doc.Input.ByteSliceString(arg.Name)

		value := doc.ArgumentValue(argRef)
		args[argName] = parseValue(doc, value)
	}

	return args
}

func parseValue(doc *ast.Document, value ast.Value) string {
	switch value.Kind {
	case ast.ValueKindString:
		return doc.StringValueContentString(value.Ref)

	case ast.ValueKindEnum:
		if value.Ref >= 0 && value.Ref < len(doc.EnumValues) {
			return doc.Input.ByteSliceString(doc.EnumValues[value.Ref].Name)
		}

	case ast.ValueKindBoolean:
		if value.Ref >= 0 && value.Ref < len(doc.BooleanValues) {
			if doc.BooleanValues[value.Ref] {
				return "true"
			}
			return "false"
		}

	case ast.ValueKindInteger:
		return fmt.Sprintf("%d", doc.IntValueAsInt(value.Ref))
	}

	return ""
}

func getDescription(doc *ast.Document, desc ast.Description) string {
	if !desc.IsDefined {
		return ""
	}

	return strings.TrimSpace(doc.Input.ByteSliceString(desc.Content))
}

// Directive is an attached directive with its arguments rendered as strings
type Directive struct {
	Name string
	Args map[string]string
}

// resolver turns SDL type names into TypeRefs once every document is parsed
type resolver struct {
	types   map[string]*TypeDef
	scalars map[string]TypeRef
}

func (r *resolver) property(f sdlField) (Property, error) {
	ref, err := r.ref(f.typ)
	if err != nil {
		return Property{}, err
	}
	if f.array {
		ref.Shape = ShapeArray
	}

	prop := Property{Name: f.name, Doc: f.doc}
	if !f.writeonly {
		prop.Getter = &Accessor{Name: "get" + naming.Exported(f.name), Type: ref}
	}
	if !f.readonly {
		prop.Setter = &Accessor{Name: "set" + naming.Exported(f.name), Type: ref}
	}
	return prop, nil
}

func (r *resolver) ref(t *sdlTypeRef) (TypeRef, error) {
	if t.elem != nil {
		elem, err := r.ref(t.elem)
		if err != nil {
			return TypeRef{}, err
		}
		return ListOf(elem), nil
	}

	if ref, ok := builtinScalars[t.name]; ok {
		return ref, nil
	}
	if ref, ok := r.scalars[t.name]; ok {
		return ref, nil
	}
	if def, ok := r.types[t.name]; ok {
		return TypeRef{
			Shape:   ShapeNamed,
			Package: def.Package,
			Name:    def.Name,
			Enum:    def.Kind == KindEnumeration,
		}, nil
	}
	return TypeRef{}, fmt.Errorf("%w: %s", ErrTypeNotFound, t.name)
}

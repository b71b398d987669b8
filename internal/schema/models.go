package schema

import "errors"

// ErrTypeNotFound is returned when a property refers to a type the front end cannot resolve.
var ErrTypeNotFound = errors.New("type not found")

// Schema is the batch of source types handed to the generator by a front end
type Schema struct {
	Types []*TypeDef `json:"types"`
	// Sources lists the artifacts the schema was read from (schema files or Go files);
	// their modification times drive the freshness check.
	Sources []string `json:"sources"`
}

// Kind distinguishes value objects from enumerations
type Kind int

const (
	KindValueObject Kind = iota
	KindEnumeration
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindValueObject:
		return "value-object"
	case KindEnumeration:
		return "enumeration"
	default:
		return "unknown"
	}
}

// TypeID identifies a source type by package path and simple name
type TypeID struct {
	Package string `json:"package"`
	Name    string `json:"name"`
}

// String returns the qualified name
func (id TypeID) String() string {
	if id.Package == "" {
		return id.Name
	}
	return id.Package + "." + id.Name
}

// TypeDef describes one source type: a value object with properties or an enumeration with constants
type TypeDef struct {
	Package    string     `json:"package"`
	Name       string     `json:"name"`
	Kind       Kind       `json:"kind"`
	Doc        string     `json:"doc"`
	Root       bool       `json:"root"`
	Constants  []string   `json:"constants"`
	Properties []Property `json:"properties"`
}

// ID returns the type identity
func (t *TypeDef) ID() TypeID {
	return TypeID{Package: t.Package, Name: t.Name}
}

// Property is a bean-style property. Either accessor may be absent.
type Property struct {
	Name   string    `json:"name"`
	Doc    string    `json:"doc"`
	Getter *Accessor `json:"getter,omitempty"`
	Setter *Accessor `json:"setter,omitempty"`
}

// Accessor is one side of a property: the getter's return type or the setter's single parameter type
type Accessor struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// Shape is the structural form of a declared type
type Shape int

const (
	ShapeNamed Shape = iota
	// ShapeArray is a fixed array ([N]T in Go, @array in the SDL)
	ShapeArray
	// ShapeList is an ordered collection ([]T in Go, [T] in the SDL)
	ShapeList
)

// TypeRef is a declared property type
type TypeRef struct {
	Shape   Shape    `json:"shape"`
	Package string   `json:"package,omitempty"`
	Name    string   `json:"name,omitempty"`
	Enum    bool     `json:"enum,omitempty"`
	Elem    *TypeRef `json:"elem,omitempty"`
}

// Named returns a reference to a named type
func Named(pkg, name string) TypeRef {
	return TypeRef{Shape: ShapeNamed, Package: pkg, Name: name}
}

// EnumRef returns a reference to an enumeration type
func EnumRef(pkg, name string) TypeRef {
	return TypeRef{Shape: ShapeNamed, Package: pkg, Name: name, Enum: true}
}

// ArrayOf returns an array of elem
func ArrayOf(elem TypeRef) TypeRef {
	return TypeRef{Shape: ShapeArray, Elem: &elem}
}

// ListOf returns an ordered collection of elem
func ListOf(elem TypeRef) TypeRef {
	return TypeRef{Shape: ShapeList, Elem: &elem}
}

// Date is the date marker type
var Date = Named("time", "Time")

// IsDate reports whether the reference is the date marker type
func (r TypeRef) IsDate() bool {
	return r.Shape == ShapeNamed && r.Package == Date.Package && r.Name == Date.Name
}

// ID returns the identity of a named reference
func (r TypeRef) ID() TypeID {
	return TypeID{Package: r.Package, Name: r.Name}
}

// String renders the reference in Go syntax
func (r TypeRef) String() string {
	switch r.Shape {
	case ShapeArray:
		return "[N]" + r.elemString()
	case ShapeList:
		return "[]" + r.elemString()
	default:
		return r.ID().String()
	}
}

func (r TypeRef) elemString() string {
	if r.Elem == nil {
		return "?"
	}
	return r.Elem.String()
}

// Lookup returns the type with the given identity
func (s *Schema) Lookup(id TypeID) (*TypeDef, bool) {
	for _, t := range s.Types {
		if t.ID() == id {
			return t, true
		}
	}
	return nil, false
}

package classify

import "strings"

// TypeName is a rendered Go type: an import path plus a name. Path is empty for predeclared types.
type TypeName struct {
	Path string
	Name string
}

// String returns the qualified name
func (t TypeName) String() string {
	if t.Path == "" {
		return t.Name
	}
	return t.Path + "." + t.Name
}

// IsZero reports whether the name is unset
func (t TypeName) IsZero() bool {
	return t.Path == "" && t.Name == ""
}

// Kind is the tag of a FieldType
type Kind int

const (
	KindScalar Kind = iota
	KindStringLike
	KindEnumeration
	KindList
	KindArray
	KindObject
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindStringLike:
		return "string-like"
	case KindEnumeration:
		return "enumeration"
	case KindList:
		return "list"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// FieldType is the classification of a property type. The set of
// implementations is closed: Scalar, StringLike, Enumeration, List, Array and Object.
type FieldType interface {
	Kind() Kind
	String() string
	fieldType()
}

// Scalar is a predeclared or built-in type passed through unchanged
type Scalar struct {
	Type TypeName
}

// StringLike is always exposed as a string (the date marker type)
type StringLike struct{}

// Enumeration is backed by a generated enumeration type
type Enumeration struct {
	Type TypeName
}

// List is an ordered collection of generated elements boxed by the shared list helper
type List struct {
	Elem Element
}

// Array is a native slice surface
type Array struct {
	Elem Element
}

// Object refers to another generated value object
type Object struct {
	// Type is the rendered name: the contract when contracts are enabled, else the wrapper.
	Type TypeName
	// Impl is always the concrete wrapper type.
	Impl TypeName
}

func (Scalar) Kind() Kind      { return KindScalar }
func (StringLike) Kind() Kind  { return KindStringLike }
func (Enumeration) Kind() Kind { return KindEnumeration }
func (List) Kind() Kind        { return KindList }
func (Array) Kind() Kind       { return KindArray }
func (Object) Kind() Kind      { return KindObject }

func (Scalar) fieldType()      {}
func (StringLike) fieldType()  {}
func (Enumeration) fieldType() {}
func (List) fieldType()        {}
func (Array) fieldType()       {}
func (Object) fieldType()      {}

func (f Scalar) String() string      { return "Scalar(" + f.Type.String() + ")" }
func (StringLike) String() string    { return "StringLike" }
func (f Enumeration) String() string { return "Enumeration(" + f.Type.String() + ")" }
func (f List) String() string        { return "List(" + f.Elem.String() + ")" }
func (f Array) String() string       { return "Array(" + f.Elem.String() + ")" }
func (f Object) String() string      { return "Object(" + f.Type.String() + ")" }

// ElemKind is the kind of a List or Array element
type ElemKind int

const (
	ElemScalar ElemKind = iota
	// ElemText is a date element exposed as a string
	ElemText
	ElemEnum
	ElemObject
)

// String returns the element kind name
func (k ElemKind) String() string {
	switch k {
	case ElemScalar:
		return "scalar"
	case ElemText:
		return "text"
	case ElemEnum:
		return "enum"
	case ElemObject:
		return "object"
	default:
		return "unknown"
	}
}

// Element is the element of a List or Array
type Element struct {
	Kind ElemKind
	Type TypeName
	// Impl is the concrete wrapper for object elements
	Impl TypeName
}

// IsEnum reports whether the element is an enumeration constant
func (e Element) IsEnum() bool {
	return e.Kind == ElemEnum
}

// String returns a readable element description
func (e Element) String() string {
	return e.Kind.String() + " " + e.Type.String()
}

// Equal reports whether two classifications are identical
func Equal(a, b FieldType) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}

// IsEnumCollection reports whether f is a List or Array of enumeration constants
func IsEnumCollection(f FieldType) bool {
	switch ft := f.(type) {
	case List:
		return ft.Elem.IsEnum()
	case Array:
		return ft.Elem.IsEnum()
	}
	return false
}

// Describe renders a list of classifications for log output
func Describe(fs ...FieldType) string {
	parts := make([]string, 0, len(fs))
	for _, f := range fs {
		if f == nil {
			parts = append(parts, "-")
			continue
		}
		parts = append(parts, f.String())
	}
	return strings.Join(parts, ", ")
}

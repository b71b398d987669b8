package golang

import (
	"strconv"

	"github.com/okra-platform/overlay/internal/classify"
	"github.com/okra-platform/overlay/internal/codegen"
	"github.com/okra-platform/overlay/internal/naming"
)

// renderer turns classified properties into Go expressions for one file
type renderer struct {
	*file
	plan *codegen.Plan
	jso  string
}

func newRenderer(p *codegen.Plan, pkg string) *renderer {
	f := newFile(pkg)
	r := &renderer{file: f, plan: p}
	if alias := f.imports.add(p.Helper); alias != "" {
		r.jso = alias + "."
	}
	return r
}

// helper qualifies a name declared in the shared helper package
func (r *renderer) helper(name string) string {
	return r.jso + name
}

// goType renders the Go type of a classified property
func (r *renderer) goType(ft classify.FieldType) string {
	switch ft := ft.(type) {
	case classify.Scalar:
		return r.imports.qualify(ft.Type)
	case classify.StringLike:
		return "string"
	case classify.Enumeration:
		return r.imports.qualify(ft.Type)
	case classify.List:
		if ft.Elem.Kind == classify.ElemObject {
			return "*" + r.helper("ListHelper") + "[" + r.elemType(ft.Elem) + "]"
		}
		return "[]" + r.elemType(ft.Elem)
	case classify.Array:
		return "[]" + r.elemType(ft.Elem)
	case classify.Object:
		return r.objectType(ft.Type, ft.Impl)
	default:
		return "any"
	}
}

func (r *renderer) elemType(e classify.Element) string {
	if e.Kind == classify.ElemObject {
		return r.objectType(e.Type, e.Impl)
	}
	return r.imports.qualify(e.Type)
}

// objectType renders a value object reference: the contract, or a pointer to the wrapper
func (r *renderer) objectType(tn, impl classify.TypeName) string {
	if tn == impl {
		return "*" + r.imports.qualify(impl)
	}
	return r.imports.qualify(tn)
}

// constructor renders the wrapper constructor of impl
func (r *renderer) constructor(impl classify.TypeName) string {
	return r.imports.qualify(classify.TypeName{Path: impl.Path, Name: "New" + impl.Name})
}

// parser renders the parse function of an enumeration
func (r *renderer) parser(enum classify.TypeName) string {
	return r.imports.qualify(classify.TypeName{Path: enum.Path, Name: "Parse" + enum.Name})
}

// wrapFunc renders a function literal wrapping a backing object into e
func (r *renderer) wrapFunc(e classify.Element) string {
	return "func(obj " + r.helper("Object") + ") " + r.elemType(e) +
		" { return " + r.constructor(e.Impl) + "(obj) }"
}

// param picks the setter parameter name for a property
func (r *renderer) param(prop codegen.PropertyPlan) string {
	name := naming.Decapitalize(naming.Identifier(naming.SanitizeIdentifier(prop.Name)))
	if !usableName(name) || r.imports.isAlias(name) {
		return "value"
	}
	return name
}

// getterSignature renders the getter method signature without receiver
func (r *renderer) getterSignature(prop codegen.PropertyPlan) string {
	return prop.Getter + "() " + r.goType(prop.Type)
}

// setterSignature renders the setter method signature without receiver
func (r *renderer) setterSignature(prop codegen.PropertyPlan) string {
	return prop.Setter + "(" + r.param(prop) + " " + r.goType(prop.Type) + ")"
}

func quote(s string) string {
	return strconv.Quote(s)
}

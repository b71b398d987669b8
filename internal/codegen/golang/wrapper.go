package golang

import (
	"github.com/okra-platform/overlay/internal/classify"
	"github.com/okra-platform/overlay/internal/codegen"
	"github.com/okra-platform/overlay/internal/naming"
)

// Wrapper renders the JSON-backed wrapper of a value object
func (e *Emitter) Wrapper(p *codegen.Plan, t *codegen.TypePlan) (codegen.File, error) {
	r := newRenderer(p, t.Package)
	for _, prop := range t.Properties {
		r.goType(prop.Type)
	}

	w := r.body
	recv := "(o *" + t.Impl + ")"

	w.Commentf("%s reads and writes %s through a JSON object.", t.Impl, t.Def.ID())
	if t.Def.Doc != "" {
		w.Line("//")
		w.Doc(t.Def.Doc)
	}
	w.Block("type "+t.Impl+" struct {", "}", func() {
		w.Linef("obj %s", r.helper("Object"))
	})
	w.BlankLine()

	w.Commentf("New%s wraps obj. A nil obj starts an empty object.", t.Impl)
	w.Func("New"+t.Impl+"(obj "+r.helper("Object")+") *"+t.Impl, func() {
		w.Block("if obj == nil {", "}", func() {
			w.Linef("obj = %s{}", r.helper("Object"))
		})
		w.Linef("return &%s{obj: obj}", t.Impl)
	})
	w.BlankLine()

	if t.Def.Root {
		writeParsers(r, t)
	}

	w.Comment("JSObject returns the backing object.")
	w.Func(recv+" JSObject() "+r.helper("Object"), func() {
		w.Block("if o == nil {", "}", func() {
			w.Line("return nil")
		})
		w.Line("return o.object()")
	})
	w.BlankLine()

	w.Comment("object returns the backing object, starting an empty one for a zero wrapper.")
	w.Func(recv+" object() "+r.helper("Object"), func() {
		w.Block("if o.obj == nil {", "}", func() {
			w.Linef("o.obj = %s{}", r.helper("Object"))
		})
		w.Line("return o.obj")
	})
	w.BlankLine()

	w.Comment("TypeName returns the qualified name of the wrapper type.")
	w.Func(recv+" TypeName() string", func() {
		w.Linef("return %s", quote(t.QualifiedImpl()))
	})
	w.BlankLine()

	w.Comment("JSONString returns the JSON text of the backing object.")
	w.Func(recv+" JSONString() string", func() {
		w.Line("return o.JSObject().JSONString()")
	})
	w.BlankLine()

	w.Func(recv+" MarshalJSON() ([]byte, error)", func() {
		w.Line("return o.JSObject().MarshalJSON()")
	})
	w.BlankLine()

	w.Func(recv+" UnmarshalJSON(data []byte) error", func() {
		w.Linef("obj, err := %s(string(data))", r.helper("Parse"))
		w.Block("if err != nil {", "}", func() {
			w.Line("return err")
		})
		w.Line("o.obj = obj")
		w.Line("return nil")
	})

	for _, prop := range t.Properties {
		key := quote(prop.Name)
		if prop.Getter != "" {
			w.BlankLine()
			w.Doc(prop.Doc)
			w.Func(recv+" "+r.getterSignature(prop), func() {
				writeGetter(r, prop.Type, key)
			})
		}
		if prop.Setter != "" {
			w.BlankLine()
			param := r.param(prop)
			w.Func(recv+" "+r.setterSignature(prop), func() {
				writeSetter(r, prop.Type, key, param)
			})
		}
	}

	return r.build(naming.FileName(t.Name)+WrapperSuffix, t.Def.ID().String())
}

// writeParsers renders the decoding entry points of a root element
func writeParsers(r *renderer, t *codegen.TypePlan) {
	w := r.body

	w.Commentf("Parse%s decodes a JSON object into a %s.", t.Impl, t.Impl)
	w.Func("Parse"+t.Impl+"(text string) (*"+t.Impl+", error)", func() {
		w.Linef("obj, err := %s(text)", r.helper("Parse"))
		w.Block("if err != nil {", "}", func() {
			w.Line("return nil, err")
		})
		w.Linef("return New%s(obj), nil", t.Impl)
	})
	w.BlankLine()

	w.Commentf("Parse%sArray decodes a JSON array of objects.", t.Impl)
	w.Func("Parse"+t.Impl+"Array(text string) ([]*"+t.Impl+", error)", func() {
		w.Linef("objs, err := %s(text)", r.helper("ParseArray"))
		w.Block("if err != nil {", "}", func() {
			w.Line("return nil, err")
		})
		w.Linef("out := make([]*%s, len(objs))", t.Impl)
		w.Block("for i, obj := range objs {", "}", func() {
			w.Linef("out[i] = New%s(obj)", t.Impl)
		})
		w.Line("return out, nil")
	})
	w.BlankLine()
}

func writeGetter(r *renderer, ft classify.FieldType, key string) {
	w := r.body
	if classify.IsEnumCollection(ft) {
		writeEnumsGetter(r, ft, key)
		return
	}
	switch ft := ft.(type) {
	case classify.StringLike:
		w.Linef("return o.obj.Text(%s)", key)
	case classify.Enumeration:
		w.Linef("return %s(o.obj.Text(%s))", r.parser(ft.Type), key)
	case classify.Object:
		w.Linef("obj, ok := o.obj.Object(%s)", key)
		w.Block("if !ok {", "}", func() {
			w.Line("return nil")
		})
		w.Linef("return %s(obj)", r.constructor(ft.Impl))
	case classify.List:
		writeCollectionGetter(r, ft.Elem, key, true)
	case classify.Array:
		writeCollectionGetter(r, ft.Elem, key, false)
	case classify.Scalar:
		w.Linef("return %s[%s](o.obj, %s)", r.helper("Get"), r.goType(ft), key)
	}
}

// writeEnumsGetter renders the getter of a List or Array of enumeration constants
func writeEnumsGetter(r *renderer, ft classify.FieldType, key string) {
	w := r.body
	elem := collectionElem(ft)
	w.Linef("values := o.obj.Strings(%s)", key)
	w.Block("if values == nil {", "}", func() {
		w.Line("return nil")
	})
	w.Linef("out := make([]%s, len(values))", r.elemType(elem))
	w.Block("for i, s := range values {", "}", func() {
		w.Linef("out[i] = %s(s)", r.parser(elem.Type))
	})
	w.Line("return out")
}

// writeCollectionGetter reads list helpers through the stored array so their changes
// reach the object; every other collection is a read-only view.
func writeCollectionGetter(r *renderer, elem classify.Element, key string, list bool) {
	w := r.body
	switch {
	case elem.Kind == classify.ElemObject && list:
		w.Linef("return %s(o.object().Array(%s), %s)", r.helper("NewListHelper"), key, r.wrapFunc(elem))
	case elem.Kind == classify.ElemObject:
		w.Linef("return %s(o.obj.Lookup(%s), %s)", r.helper("Wrap"), key, r.wrapFunc(elem))
	default:
		w.Linef("return %s[%s](o.obj.Lookup(%s))", r.helper("Values"), r.elemType(elem), key)
	}
}

func collectionElem(ft classify.FieldType) classify.Element {
	switch ft := ft.(type) {
	case classify.List:
		return ft.Elem
	case classify.Array:
		return ft.Elem
	}
	return classify.Element{}
}

func writeSetter(r *renderer, ft classify.FieldType, key, param string) {
	w := r.body
	if classify.IsEnumCollection(ft) {
		writeEnumsSetter(r, key, param)
		return
	}
	switch ft := ft.(type) {
	case classify.Enumeration:
		w.Linef("o.object().Set(%s, %s.String())", key, param)
	case classify.Object:
		w.Linef("o.object().Set(%s, %s(%s))", key, r.helper("ObjectOf"), param)
	case classify.List:
		writeCollectionSetter(r, ft.Elem, key, param, true)
	case classify.Array:
		writeCollectionSetter(r, ft.Elem, key, param, false)
	default:
		w.Linef("o.object().Set(%s, %s)", key, param)
	}
}

// writeEnumsSetter stores enumeration constants by name
func writeEnumsSetter(r *renderer, key, param string) {
	w := r.body
	w.Block("if "+param+" == nil {", "}", func() {
		w.Linef("o.object().Set(%s, nil)", key)
		w.Line("return")
	})
	w.Linef("out := make([]string, len(%s))", param)
	w.Block("for i, e := range "+param+" {", "}", func() {
		w.Line("out[i] = e.String()")
	})
	w.Linef("o.object().Set(%s, %s(out))", key, r.helper("ArrayOf"))
}

func writeCollectionSetter(r *renderer, elem classify.Element, key, param string, list bool) {
	w := r.body
	switch {
	case elem.Kind == classify.ElemObject && list:
		w.Linef("o.object().Set(%s, %s.Raw())", key, param)
	case elem.Kind == classify.ElemObject:
		w.Linef("o.object().Set(%s, %s(%s))", key, r.helper("Unwrap"), param)
	default:
		w.Linef("o.object().Set(%s, %s(%s))", key, r.helper("ArrayOf"), param)
	}
}

package golang

import (
	"github.com/okra-platform/overlay/internal/codegen"
	"github.com/okra-platform/overlay/internal/naming"
)

// Contract renders the interface implemented by a value object's wrapper, followed by
// a compile-time assertion that the wrapper satisfies it.
func (e *Emitter) Contract(p *codegen.Plan, t *codegen.TypePlan) (codegen.File, error) {
	r := newRenderer(p, t.Package)
	for _, prop := range t.Properties {
		r.goType(prop.Type)
	}

	w := r.body
	w.Commentf("%s is the contract of %s.", t.Contract, t.Def.ID())
	if t.Def.Doc != "" {
		w.Line("//")
		w.Doc(t.Def.Doc)
	}
	w.Block("type "+t.Contract+" interface {", "}", func() {
		w.Linef("JSObject() %s", r.helper("Object"))
		w.Line("TypeName() string")
		w.Line("JSONString() string")
		for _, prop := range t.Properties {
			if prop.Getter != "" {
				w.BlankLine()
				w.Doc(prop.Doc)
				w.Line(r.getterSignature(prop))
			}
			if prop.Setter != "" {
				if prop.Getter == "" {
					w.BlankLine()
				}
				w.Line(r.setterSignature(prop))
			}
		}
	})
	w.BlankLine()
	w.Linef("var _ %s = (*%s)(nil)", t.Contract, t.Impl)

	return r.build(naming.FileName(t.Name)+ContractSuffix, t.Def.ID().String())
}

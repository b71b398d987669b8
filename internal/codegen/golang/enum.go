package golang

import (
	"strings"

	"github.com/okra-platform/overlay/internal/codegen"
	"github.com/okra-platform/overlay/internal/naming"
)

// Enumeration renders a string-backed enumeration with its constants in declaration order
func (e *Emitter) Enumeration(p *codegen.Plan, t *codegen.TypePlan) (codegen.File, error) {
	f := newFile(t.Package)
	w := f.body
	name := t.Name

	w.Commentf("%s mirrors the enumeration %s.", name, t.Def.ID())
	if t.Def.Doc != "" {
		w.Line("//")
		w.Doc(t.Def.Doc)
	}
	w.Linef("type %s string", name)
	w.BlankLine()

	idents := make([]string, 0, len(t.Constants))
	if len(t.Constants) > 0 {
		w.Block("const (", ")", func() {
			for _, c := range t.Constants {
				w.Linef("%s %s = %s", c.Ident, name, quote(c.Value))
				idents = append(idents, c.Ident)
			}
		})
		w.BlankLine()
	}

	w.Commentf("%sValues lists every %s in declaration order.", name, name)
	w.Linef("var %sValues = []%s{%s}", name, name, strings.Join(idents, ", "))
	w.BlankLine()

	w.Commentf("Lookup%s returns the %s named s and whether s names a constant.", name, name)
	w.Func("Lookup"+name+"(s string) ("+name+", bool)", func() {
		w.Block("if v := "+name+"(s); v.Valid() {", "}", func() {
			w.Line("return v, true")
		})
		w.Line(`return "", false`)
	})
	w.BlankLine()

	w.Commentf("Parse%s returns the %s named s, or the zero value when s names no constant.", name, name)
	w.Func("Parse"+name+"(s string) "+name, func() {
		w.Linef("v, _ := Lookup%s(s)", name)
		w.Line("return v")
	})
	w.BlankLine()

	w.Func("(e "+name+") String() string", func() {
		w.Line("return string(e)")
	})
	w.BlankLine()

	w.Commentf("Valid returns true if the %s is a valid value", name)
	w.Func("(e "+name+") Valid() bool", func() {
		if len(idents) == 0 {
			w.Line("return false")
			return
		}
		w.Line("switch e {")
		w.Linef("case %s:", strings.Join(idents, ", "))
		w.Indent()
		w.Line("return true")
		w.Dedent()
		w.Line("default:")
		w.Indent()
		w.Line("return false")
		w.Dedent()
		w.Line("}")
	})

	return f.build(naming.FileName(t.Name)+EnumerationSuffix, t.Def.ID().String())
}

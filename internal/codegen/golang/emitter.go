// Package golang renders planned types as Go source: JSON-backed wrappers, their contracts,
// enumerations and the shared jso helper package.
package golang

import (
	"fmt"

	"golang.org/x/tools/imports"

	"github.com/okra-platform/overlay/internal/codegen"
	"github.com/okra-platform/overlay/internal/codegen/writer"
	"github.com/okra-platform/overlay/internal/naming"
)

// Header is the first line of every generated file
const Header = "// Code generated by overlay. DO NOT EDIT."

// File name suffixes
const (
	WrapperSuffix     = "_jso.go"
	ContractSuffix    = "_contract.go"
	EnumerationSuffix = "_enum.go"
)

// Emitter renders Go source files
type Emitter struct{}

// NewEmitter creates a Go emitter
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Language returns the name of the target language
func (e *Emitter) Language() string {
	return "go"
}

var _ codegen.Emitter = (*Emitter)(nil)

// file is a Go source file under construction. The body is rendered first so the
// import block only lists packages the body refers to.
type file struct {
	pkg     string
	imports *importSet
	body    *writer.Writer
}

func newFile(pkg string) *file {
	return &file{
		pkg:     pkg,
		imports: newImportSet(pkg),
		body:    writer.New("\t"),
	}
}

// build assembles the header, package clause, imports and body and formats the result
func (f *file) build(name, owner string) (codegen.File, error) {
	w := writer.New("\t")
	w.Line(Header)
	w.BlankLine()
	w.Linef("package %s", naming.PackageName(f.pkg))
	w.BlankLine()
	f.imports.write(w)
	w.Write(f.body.String())

	src, err := imports.Process(name, w.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return codegen.File{}, fmt.Errorf("failed to format %s: %w", name, err)
	}
	return codegen.File{
		Package: f.pkg,
		Name:    name,
		Owner:   owner,
		Content: src,
	}, nil
}

// Package writer builds indented source text line by line.
package writer

import (
	"fmt"
	"strings"
)

// Writer accumulates generated code, tracking indentation and blank lines
type Writer struct {
	sb          strings.Builder
	indent      string
	level       int
	needsIndent bool
	newlines    int
}

// New creates a writer that indents with the given string
func New(indent string) *Writer {
	return &Writer{
		indent:      indent,
		needsIndent: true,
	}
}

// Indent increases the indentation level
func (w *Writer) Indent() {
	w.level++
}

// Dedent decreases the indentation level, never below zero
func (w *Writer) Dedent() {
	if w.level > 0 {
		w.level--
	}
}

// Write writes s on the current line
func (w *Writer) Write(s string) {
	if s == "" {
		return
	}
	if w.needsIndent {
		w.sb.WriteString(strings.Repeat(w.indent, w.level))
		w.needsIndent = false
	}
	w.sb.WriteString(s)
	w.newlines = 0
}

// Line writes s and ends the line
func (w *Writer) Line(s string) {
	w.Write(s)
	w.Newline()
}

// Linef writes a formatted line
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Newline ends the current line
func (w *Writer) Newline() {
	w.sb.WriteString("\n")
	w.needsIndent = true
	w.newlines++
}

// BlankLine separates sections with at most one empty line
func (w *Writer) BlankLine() {
	if w.sb.Len() > 0 && w.newlines < 2 {
		if w.newlines == 0 {
			w.Newline()
		}
		w.Newline()
	}
}

// Block writes opener, the indented content and closer
func (w *Writer) Block(opener, closer string, content func()) {
	w.Line(opener)
	w.Indent()
	content()
	w.Dedent()
	w.Line(closer)
}

// Func writes a function with the given signature and body
func (w *Writer) Func(signature string, body func()) {
	w.Block("func "+signature+" {", "}", body)
}

// Comment writes a single-line comment
func (w *Writer) Comment(text string) {
	w.Linef("// %s", text)
}

// Commentf writes a formatted single-line comment
func (w *Writer) Commentf(format string, args ...any) {
	w.Comment(fmt.Sprintf(format, args...))
}

// Doc writes a documentation block, one comment line per line of doc
func (w *Writer) Doc(doc string) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		if line = strings.TrimSpace(line); line == "" {
			w.Line("//")
			continue
		}
		w.Comment(line)
	}
}

// String returns the accumulated text
func (w *Writer) String() string {
	return w.sb.String()
}

// Bytes returns the accumulated text as bytes
func (w *Writer) Bytes() []byte {
	return []byte(w.sb.String())
}

// Reset discards all content and indentation
func (w *Writer) Reset() {
	w.sb.Reset()
	w.level = 0
	w.needsIndent = true
	w.newlines = 0
}

package golang

import (
	"fmt"
	"go/token"
	"go/types"
	"sort"

	"github.com/okra-platform/overlay/internal/classify"
	"github.com/okra-platform/overlay/internal/codegen/writer"
	"github.com/okra-platform/overlay/internal/naming"
)

// locals are identifiers generated function bodies declare; aliases and
// parameters must not shadow them
var locals = map[string]bool{
	"o":      true,
	"obj":    true,
	"objs":   true,
	"ok":     true,
	"out":    true,
	"values": true,
	"i":      true,
	"s":      true,
	"e":      true,
	"err":    true,
	"text":   true,
	"data":   true,
	"value":  true,
}

// importSet assigns a unique alias to every package a file refers to
type importSet struct {
	self    string
	aliases map[string]string
	taken   map[string]bool
}

func newImportSet(self string) *importSet {
	return &importSet{
		self:    self,
		aliases: make(map[string]string),
		taken:   make(map[string]bool),
	}
}

// add registers path and returns its alias; empty for the file's own package
func (im *importSet) add(path string) string {
	if path == "" || path == im.self {
		return ""
	}
	if alias, ok := im.aliases[path]; ok {
		return alias
	}
	base := naming.PackageName(path)
	alias := base
	for n := 2; im.taken[alias] || !usableName(alias); n++ {
		alias = fmt.Sprintf("%s%d", base, n)
	}
	im.aliases[path] = alias
	im.taken[alias] = true
	return alias
}

// qualify renders tn as seen from the file's package
func (im *importSet) qualify(tn classify.TypeName) string {
	if alias := im.add(tn.Path); alias != "" {
		return alias + "." + tn.Name
	}
	return tn.Name
}

// isAlias reports whether name is the alias of an imported package
func (im *importSet) isAlias(name string) bool {
	return im.taken[name]
}

// write renders the import block, sorted by path
func (im *importSet) write(w *writer.Writer) {
	if len(im.aliases) == 0 {
		return
	}
	paths := make([]string, 0, len(im.aliases))
	for path := range im.aliases {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	w.Block("import (", ")", func() {
		for _, path := range paths {
			alias := im.aliases[path]
			if alias == lastElem(path) {
				w.Linef("%q", path)
			} else {
				w.Linef("%s %q", alias, path)
			}
		}
	})
	w.BlankLine()
}

func lastElem(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// usableName reports whether name can be declared without shadowing a keyword,
// a predeclared identifier or a generated local
func usableName(name string) bool {
	return token.IsIdentifier(name) &&
		!token.IsKeyword(name) &&
		types.Universe.Lookup(name) == nil &&
		!locals[name]
}

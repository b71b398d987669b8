// Package naming holds the pure string transforms shared by the classifier and the emitter:
// identifier sanitizing, package normalisation and renaming, and property-name derivation.
package naming

import (
	"go/token"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RenameRule rewrites source package paths into target package paths.
// The rule is the identity unless both Old and New are set.
type RenameRule struct {
	Old string
	New string
}

// Enabled reports whether the rule rewrites anything.
func (r RenameRule) Enabled() bool {
	return r.Old != "" && r.New != ""
}

// Apply normalises pkg and replaces every occurrence of Old with New.
// The match is a plain substring, so "acme" also rewrites "acmetools".
func (r RenameRule) Apply(pkg string) string {
	pkg = NormalizePackage(pkg)
	if !r.Enabled() {
		return pkg
	}
	return strings.ReplaceAll(pkg, r.Old, r.New)
}

// SanitizeIdentifier replaces every '$' and '-' with '_'.
func SanitizeIdentifier(name string) string {
	return strings.NewReplacer("$", "_", "-", "_").Replace(name)
}

// NormalizePackage converts a directory-style path into an import path
// and trims trailing separators.
func NormalizePackage(pkg string) string {
	pkg = filepath.ToSlash(strings.TrimSpace(pkg))
	return strings.TrimRight(pkg, "/.")
}

// PropertyName derives a property name from an accessor name by stripping
// a get/set/is prefix and decapitalizing the remainder.
func PropertyName(accessor string) string {
	for _, prefix := range []string{"get", "set", "Get", "Set"} {
		if rest, ok := strings.CutPrefix(accessor, prefix); ok && rest != "" {
			return Decapitalize(rest)
		}
	}
	for _, prefix := range []string{"is", "Is"} {
		if rest, ok := strings.CutPrefix(accessor, prefix); ok && rest != "" {
			return Decapitalize(rest)
		}
	}
	return Decapitalize(accessor)
}

// Decapitalize lowers the first letter unless the first two letters are both
// upper case, so "Bob" becomes "bob" while "URL" and "BOb" are left alone.
func Decapitalize(name string) string {
	if name == "" {
		return name
	}
	first, size := utf8.DecodeRuneInString(name)
	if second, _ := utf8.DecodeRuneInString(name[size:]); unicode.IsUpper(first) && unicode.IsUpper(second) {
		return name
	}
	return string(unicode.ToLower(first)) + name[size:]
}

// Exported upper-cases the first letter of name.
func Exported(name string) string {
	if name == "" {
		return name
	}
	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + name[size:]
}

// IsReserved reports whether name cannot be used as a property name.
func IsReserved(name string) bool {
	return token.IsKeyword(name)
}

// PackageName returns the package clause name for an import path: the last
// path element with every character that is not a letter or digit turned into '_'.
func PackageName(importPath string) string {
	base := importPath
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	name := Identifier(strings.ToLower(base))
	switch {
	case name == "" || name == "_":
		return "pkg"
	case token.IsKeyword(name):
		return name + "pkg"
	}
	return name
}

// Identifier maps name onto a valid Go identifier.
func Identifier(name string) string {
	var sb strings.Builder
	for i, r := range name {
		switch {
		case unicode.IsLetter(r) || r == '_':
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteRune('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// FileName returns the lower-cased file stem for a sanitized type name.
func FileName(typeName string) string {
	return strings.ToLower(SanitizeIdentifier(typeName))
}

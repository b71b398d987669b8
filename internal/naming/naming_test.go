package naming

import (
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test plan:
// 1. SanitizeIdentifier removes '$' and '-' and is idempotent
// 2. NormalizePackage converts directory paths and trims trailing separators
// 3. RenameRule is the identity unless both sides are set, and rewrites every occurrence
// 4. PropertyName strips accessor prefixes and decapitalizes like java.beans
// 5. IsReserved flags Go keywords
// 6. PackageName and Identifier produce valid identifiers

func TestSanitizeIdentifier(t *testing.T) {
	// Test: '$' and '-' become '_' and the result is a valid identifier
	inputs := []string{"Outer$Inner", "my-type", "a$b-c$", "Plain", "$-$"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			out := SanitizeIdentifier(in)
			assert.NotContains(t, out, "$")
			assert.NotContains(t, out, "-")
			assert.True(t, token.IsIdentifier(out), "%q should be an identifier", out)
			assert.Equal(t, out, SanitizeIdentifier(out), "sanitizing twice changes nothing")
		})
	}
	assert.Equal(t, "Outer_Inner", SanitizeIdentifier("Outer$Inner"))
}

func TestNormalizePackage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com/test", "example.com/test"},
		{"example.com/test/", "example.com/test"},
		{"example.com/test.", "example.com/test"},
		{"  example.com/test/  ", "example.com/test"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePackage(tt.in), tt.in)
	}
}

func TestRenameRule_Apply(t *testing.T) {
	tests := []struct {
		name string
		rule RenameRule
		in   string
		want string
	}{
		{"identity without rule", RenameRule{}, "example.com/test", "example.com/test"},
		{"identity with only old", RenameRule{Old: "example.com"}, "example.com/test", "example.com/test"},
		{"identity with only new", RenameRule{New: "acme.org"}, "example.com/test", "example.com/test"},
		{"prefix rewrite", RenameRule{Old: "example.com/test", New: "acme.org/stuff"}, "example.com/test", "acme.org/stuff"},
		{"rewrite after normalising", RenameRule{Old: "example.com/test", New: "acme.org/stuff"}, "example.com/test/", "acme.org/stuff"},
		{"sub package keeps suffix", RenameRule{Old: "example.com/model", New: "example.com/jso"}, "example.com/model/order", "example.com/jso/order"},
		{"partial match is rewritten", RenameRule{Old: "model", New: "view"}, "example.com/models/model", "example.com/views/view"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule.Apply(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, tt.rule.Apply(tt.in), "same input gives same output")
		})
	}
}

func TestPropertyName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"getName", "name"},
		{"setName", "name"},
		{"isActive", "active"},
		{"GetName", "name"},
		{"SetXmlDate", "xmlDate"},
		{"IsBool", "bool"},
		{"getURL", "URL"},
		{"Bob", "bob"},
		{"BOb", "BOb"},
		{"BOB", "BOB"},
		{"bob", "bob"},
		{"get", "get"},
		{"is", "is"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PropertyName(tt.in), tt.in)
	}
}

func TestIsReserved(t *testing.T) {
	// Test: keywords are reserved, ordinary names are not
	assert.True(t, IsReserved("default"))
	assert.True(t, IsReserved("type"))
	assert.True(t, IsReserved("func"))
	assert.False(t, IsReserved("name"))
	assert.False(t, IsReserved("Default"))
}

func TestExported(t *testing.T) {
	assert.Equal(t, "Name", Exported("name"))
	assert.Equal(t, "XmlDate", Exported("xmlDate"))
	assert.Equal(t, "URL", Exported("URL"))
	assert.Equal(t, "", Exported(""))
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com/acme/model", "model"},
		{"example.com/acme/go-utils", "go_utils"},
		{"example.com/acme/v2.api", "v2_api"},
		{"model", "model"},
		{"example.com/acme/2fa", "_2fa"},
		{"", "pkg"},
		{"example.com/acme/type", "typepkg"},
	}
	for _, tt := range tests {
		got := PackageName(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.True(t, token.IsIdentifier(got))
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "order_item", FileName("Order$Item"))
	assert.Equal(t, "orderitem", FileName("OrderItem"))
	assert.False(t, strings.ContainsAny(FileName("A-b$c"), "$-"))
}

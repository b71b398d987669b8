package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okra-platform/overlay/internal/naming"
	"github.com/okra-platform/overlay/internal/schema"
)

// Test plan:
// 1. Decision table: every declared shape maps to exactly one FieldType
// 2. Collections: built-in elements give Array, generated elements give List, enum flag
// 3. Target names follow the contract/wrapper naming and the rename rule
// 4. Built-in namespace detection
// 5. Getter and setter types of one property classify identically
// 6. Missing reports referenced value objects outside the batch

const model = "com.example/model"

func newClassifier(contracts bool) *Classifier {
	return New(Options{
		Rename:            naming.RenameRule{Old: "com.example", New: "com.example/client"},
		GenerateContracts: contracts,
	}, nil)
}

func TestClassify_DecisionTable(t *testing.T) {
	c := newClassifier(true)
	target := "com.example/client/model"

	tests := []struct {
		name string
		ref  schema.TypeRef
		want FieldType
	}{
		{
			name: "predeclared scalar",
			ref:  schema.Named("", "int"),
			want: Scalar{Type: TypeName{Name: "int"}},
		},
		{
			name: "standard library scalar",
			ref:  schema.Named("time", "Duration"),
			want: Scalar{Type: TypeName{Path: "time", Name: "Duration"}},
		},
		{
			name: "date",
			ref:  schema.Date,
			want: StringLike{},
		},
		{
			name: "enumeration",
			ref:  schema.EnumRef(model, "Status"),
			want: Enumeration{Type: TypeName{Path: target, Name: "Status"}},
		},
		{
			name: "value object",
			ref:  schema.Named(model, "Customer"),
			want: Object{
				Type: TypeName{Path: target, Name: "ICustomer"},
				Impl: TypeName{Path: target, Name: "CustomerJSO"},
			},
		},
		{
			name: "array of scalars",
			ref:  schema.ArrayOf(schema.Named("", "int")),
			want: Array{Elem: Element{Kind: ElemScalar, Type: TypeName{Name: "int"}}},
		},
		{
			name: "array of objects",
			ref:  schema.ArrayOf(schema.Named(model, "Item")),
			want: Array{Elem: Element{
				Kind: ElemObject,
				Type: TypeName{Path: target, Name: "IItem"},
				Impl: TypeName{Path: target, Name: "ItemJSO"},
			}},
		},
		{
			name: "array of enums",
			ref:  schema.ArrayOf(schema.EnumRef(model, "Status")),
			want: Array{Elem: Element{Kind: ElemEnum, Type: TypeName{Path: target, Name: "Status"}}},
		},
		{
			name: "list of strings",
			ref:  schema.ListOf(schema.Named("", "string")),
			want: Array{Elem: Element{Kind: ElemScalar, Type: TypeName{Name: "string"}}},
		},
		{
			name: "list of dates",
			ref:  schema.ListOf(schema.Date),
			want: Array{Elem: Element{Kind: ElemText, Type: TypeName{Name: "string"}}},
		},
		{
			name: "list of objects",
			ref:  schema.ListOf(schema.Named(model, "Item")),
			want: List{Elem: Element{
				Kind: ElemObject,
				Type: TypeName{Path: target, Name: "IItem"},
				Impl: TypeName{Path: target, Name: "ItemJSO"},
			}},
		},
		{
			name: "list of enums",
			ref:  schema.ListOf(schema.EnumRef(model, "Status")),
			want: List{Elem: Element{Kind: ElemEnum, Type: TypeName{Path: target, Name: "Status"}}},
		},
		{
			name: "nested list",
			ref:  schema.ListOf(schema.ListOf(schema.Named("", "int"))),
			want: Array{Elem: Element{Kind: ElemScalar, Type: TypeName{Name: "any"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.ref)
			assert.Equal(t, tt.want, got)
			assert.True(t, Equal(tt.want, got))
		})
	}
}

func TestClassify_EnumCollections(t *testing.T) {
	c := newClassifier(false)

	// Test: enum flag is set for both collection shapes
	assert.True(t, IsEnumCollection(c.Classify(schema.ListOf(schema.EnumRef(model, "Status")))))
	assert.True(t, IsEnumCollection(c.Classify(schema.ArrayOf(schema.EnumRef(model, "Status")))))
	assert.False(t, IsEnumCollection(c.Classify(schema.ListOf(schema.Named(model, "Item")))))
	assert.False(t, IsEnumCollection(c.Classify(schema.EnumRef(model, "Status"))))
}

func TestTargetName(t *testing.T) {
	tests := []struct {
		name      string
		rename    naming.RenameRule
		contracts bool
		ref       schema.TypeRef
		want      TypeName
	}{
		{
			name: "built-in unchanged",
			ref:  schema.Named("", "string"),
			want: TypeName{Name: "string"},
		},
		{
			name:   "rename rule ignores built-ins",
			rename: naming.RenameRule{Old: "time", New: "clock"},
			ref:    schema.Named("time", "Duration"),
			want:   TypeName{Path: "time", Name: "Duration"},
		},
		{
			name: "wrapper suffix without contracts",
			ref:  schema.Named("com.example/model", "Bean"),
			want: TypeName{Path: "com.example/model", Name: "BeanJSO"},
		},
		{
			name:      "contract prefix with contracts",
			contracts: true,
			ref:       schema.Named("com.example/model", "Bean"),
			want:      TypeName{Path: "com.example/model", Name: "IBean"},
		},
		{
			name:   "renamed package",
			rename: naming.RenameRule{Old: "com.example/model", New: "com.example/client"},
			ref:    schema.Named("com.example/model/sub", "Bean"),
			want:   TypeName{Path: "com.example/client/sub", Name: "BeanJSO"},
		},
		{
			name:   "rename is a substring replacement",
			rename: naming.RenameRule{Old: "acme", New: "widgets"},
			ref:    schema.Named("acme.io/acmetools", "Bean"),
			want:   TypeName{Path: "widgets.io/widgetstools", Name: "BeanJSO"},
		},
		{
			name:      "sanitized name",
			contracts: true,
			ref:       schema.Named("com.example/model", "Outer$Inner"),
			want:      TypeName{Path: "com.example/model", Name: "IOuter_Inner"},
		},
		{
			name:      "enumerations keep their name",
			contracts: true,
			rename:    naming.RenameRule{Old: "model", New: "api"},
			ref:       schema.EnumRef("com.example/model", "Color"),
			want:      TypeName{Path: "com.example/api", Name: "Color"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Options{Rename: tt.rename, GenerateContracts: tt.contracts}, nil)
			assert.Equal(t, tt.want, c.TargetName(tt.ref))
		})
	}
}

func TestImplName(t *testing.T) {
	// Test: the concrete wrapper name does not depend on the contracts option
	for _, contracts := range []bool{true, false} {
		c := New(Options{GenerateContracts: contracts}, nil)
		assert.Equal(t,
			TypeName{Path: "com.example/model", Name: "Bean_1JSO"},
			c.ImplName(schema.Named("com.example/model", "Bean-1")))
	}
}

func TestIsBuiltin(t *testing.T) {
	tests := []struct {
		pkg  string
		want bool
	}{
		{"", true},
		{"time", true},
		{"encoding/json", true},
		{"github.com/acme/model", false},
		{"com.example", false},
		{"example.com/x", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsBuiltin(tt.pkg), tt.pkg)
	}
}

func TestClassify_Symmetry(t *testing.T) {
	// Test: identical declared types classify identically, different ones do not
	c := newClassifier(true)
	refs := []schema.TypeRef{
		schema.Named("", "string"),
		schema.Date,
		schema.EnumRef(model, "Status"),
		schema.Named(model, "Item"),
		schema.ListOf(schema.Named(model, "Item")),
		schema.ArrayOf(schema.Named("", "int")),
	}
	for i, a := range refs {
		for j, b := range refs {
			assert.Equal(t, i == j, Equal(c.Classify(a), c.Classify(b)), "%s vs %s", a, b)
		}
	}
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(StringLike{}, nil))
}

func TestMissing(t *testing.T) {
	known := schema.TypeID{Package: model, Name: "Item"}
	c := New(Options{}, func(id schema.TypeID) bool { return id == known })

	// Test: only value objects outside the batch are reported
	assert.Empty(t, c.Missing(schema.Named(model, "Item")))
	assert.Empty(t, c.Missing(schema.Named("", "int")))
	assert.Empty(t, c.Missing(schema.EnumRef(model, "Status")))
	assert.Equal(t,
		[]schema.TypeID{{Package: model, Name: "Other"}},
		c.Missing(schema.ListOf(schema.Named(model, "Other"))))
}

func TestFieldType_String(t *testing.T) {
	c := newClassifier(false)
	assert.Equal(t, "StringLike", c.Classify(schema.Date).String())
	assert.Equal(t, "Scalar(int)", c.Classify(schema.Named("", "int")).String())
	assert.Equal(t, KindList, c.Classify(schema.ListOf(schema.Named(model, "Item"))).Kind())
	assert.Equal(t, "StringLike, -", Describe(StringLike{}, nil))
}

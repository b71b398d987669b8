package codegen

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/overlay/internal/classify"
	"github.com/okra-platform/overlay/internal/naming"
	"github.com/okra-platform/overlay/internal/schema"
)

// Test plan:
// 1. Value objects emit a wrapper and, with contracts, a contract; enumerations emit one file
// 2. The helper is emitted exactly once, under the namespace root
// 3. Reserved and colliding property names are skipped with a warning
// 4. Getter/setter mismatches fail with every mismatch listed
// 5. Import cycles between generated packages fail
// 6. Renamed packages flow into the plan
// 7. Emitter errors name the failing type
// 8. Enumeration constants with clashing identifiers are skipped

// recordingEmitter records the calls made by the generator
type recordingEmitter struct {
	calls []string
	fail  string
}

func (r *recordingEmitter) Language() string { return "test" }

func (r *recordingEmitter) Wrapper(p *Plan, t *TypePlan) (File, error) {
	return r.record("wrapper", t.Package, t.Impl)
}

func (r *recordingEmitter) Contract(p *Plan, t *TypePlan) (File, error) {
	return r.record("contract", t.Package, t.Contract)
}

func (r *recordingEmitter) Enumeration(p *Plan, t *TypePlan) (File, error) {
	return r.record("enum", t.Package, t.Name)
}

func (r *recordingEmitter) Helper(p *Plan) (File, error) {
	return r.record("helper", p.Helper, "jso")
}

func (r *recordingEmitter) record(kind, pkg, name string) (File, error) {
	if name == r.fail {
		return File{}, errors.New("boom")
	}
	r.calls = append(r.calls, kind+" "+pkg+"."+name)
	return File{Package: pkg, Name: name + ".go"}, nil
}

func prop(name string, ref schema.TypeRef) schema.Property {
	return schema.Property{
		Name:   name,
		Getter: &schema.Accessor{Name: "get" + naming.Exported(name), Type: ref},
		Setter: &schema.Accessor{Name: "set" + naming.Exported(name), Type: ref},
	}
}

const pkg = "example.com/acme/model"

func orderSchema() *schema.Schema {
	return &schema.Schema{Types: []*schema.TypeDef{
		{
			Package: pkg,
			Name:    "Order",
			Properties: []schema.Property{
				prop("name", schema.Named("", "string")),
				prop("items", schema.ListOf(schema.Named(pkg, "LineItem"))),
				prop("status", schema.EnumRef(pkg, "Status")),
			},
		},
		{
			Package:    pkg,
			Name:       "LineItem",
			Properties: []schema.Property{prop("sku", schema.Named("", "string"))},
		},
		{
			Package:   pkg,
			Name:      "Status",
			Kind:      schema.KindEnumeration,
			Constants: []string{"PENDING", "SHIPPED"},
		},
	}}
}

func TestGenerator_EmitsEveryType(t *testing.T) {
	// Test: wrappers, contracts, enumerations and a single helper
	em := &recordingEmitter{}
	g := NewGenerator(DefaultOptions(), em, zerolog.Nop())

	files, err := g.Generate(orderSchema())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"wrapper example.com/acme/model.OrderJSO",
		"contract example.com/acme/model.IOrder",
		"wrapper example.com/acme/model.LineItemJSO",
		"contract example.com/acme/model.ILineItem",
		"enum example.com/acme/model.Status",
		"helper example.com/acme/model/jso.jso",
	}, em.calls)
	assert.Len(t, files, 6)
	assert.Equal(t, "example.com/acme/model/OrderJSO.go", files[0].Path())
}

func TestGenerator_WithoutContracts(t *testing.T) {
	// Test: disabling contracts drops contract files and changes object references
	em := &recordingEmitter{}
	g := NewGenerator(Options{}, em, zerolog.Nop())

	p, err := g.Plan(orderSchema())
	require.NoError(t, err)

	order, ok := p.Lookup(schema.TypeID{Package: pkg, Name: "Order"})
	require.True(t, ok)
	assert.Empty(t, order.Contract)
	assert.Equal(t, classify.List{Elem: classify.Element{
		Kind: classify.ElemObject,
		Type: classify.TypeName{Path: pkg, Name: "LineItemJSO"},
		Impl: classify.TypeName{Path: pkg, Name: "LineItemJSO"},
	}}, order.Properties[1].Type)

	_, err = g.Generate(orderSchema())
	require.NoError(t, err)
	for _, call := range em.calls {
		assert.NotContains(t, call, "contract")
	}
}

func TestGenerator_EmptyBatch(t *testing.T) {
	// Test: nothing to generate means no helper either
	em := &recordingEmitter{}
	g := NewGenerator(DefaultOptions(), em, zerolog.Nop())

	files, err := g.Generate(&schema.Schema{})
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Empty(t, em.calls)
}

func TestPlan_SkipsReservedAndCollidingProperties(t *testing.T) {
	// Test: keywords and wrapper method names are skipped and logged
	var logs bytes.Buffer
	g := NewGenerator(DefaultOptions(), &recordingEmitter{}, zerolog.New(&logs))

	s := &schema.Schema{Types: []*schema.TypeDef{{
		Package: pkg,
		Name:    "Bean",
		Properties: []schema.Property{
			prop("type", schema.Named("", "string")),
			prop("typeName", schema.Named("", "string")),
			prop("value", schema.Named("", "int")),
			prop("Value", schema.Named("", "int")),
			prop("default", schema.Named("", "int")),
		},
	}}}

	p, err := g.Plan(s)
	require.NoError(t, err)

	bean := p.Types[0]
	require.Len(t, bean.Properties, 1)
	assert.Equal(t, "value", bean.Properties[0].Name)
	assert.Equal(t, "Value", bean.Properties[0].Getter)
	assert.Equal(t, "SetValue", bean.Properties[0].Setter)

	out := logs.String()
	assert.Contains(t, out, "name is a reserved word")
	assert.Contains(t, out, `"property":"type"`)
	assert.Contains(t, out, `"method":"TypeName"`)
	assert.Contains(t, out, `"property":"Value"`)
}

func TestPlan_ReadOnlyAndWriteOnly(t *testing.T) {
	// Test: a missing accessor leaves its method name empty
	g := NewGenerator(DefaultOptions(), &recordingEmitter{}, zerolog.Nop())
	s := &schema.Schema{Types: []*schema.TypeDef{{
		Package: pkg,
		Name:    "Bean",
		Properties: []schema.Property{
			{Name: "total", Getter: &schema.Accessor{Name: "getTotal", Type: schema.Named("", "float64")}},
			{Name: "secret", Setter: &schema.Accessor{Name: "setSecret", Type: schema.Date}},
		},
	}}}

	p, err := g.Plan(s)
	require.NoError(t, err)
	props := p.Types[0].Properties
	require.Len(t, props, 2)
	assert.Equal(t, PropertyPlan{Name: "total", Getter: "Total", Type: classify.Scalar{Type: classify.TypeName{Name: "float64"}}}, props[0])
	assert.Equal(t, PropertyPlan{Name: "secret", Setter: "SetSecret", Type: classify.StringLike{}}, props[1])
}

func TestPlan_AccessorMismatch(t *testing.T) {
	// Test: every mismatching property is reported
	g := NewGenerator(DefaultOptions(), &recordingEmitter{}, zerolog.Nop())
	mismatch := func(name string, get, set schema.TypeRef) schema.Property {
		return schema.Property{
			Name:   name,
			Getter: &schema.Accessor{Name: "get" + naming.Exported(name), Type: get},
			Setter: &schema.Accessor{Name: "set" + naming.Exported(name), Type: set},
		}
	}
	s := &schema.Schema{Types: []*schema.TypeDef{{
		Package: pkg,
		Name:    "Bean",
		Properties: []schema.Property{
			mismatch("count", schema.Named("", "int"), schema.Named("", "int")),
			mismatch("when", schema.Date, schema.Named("", "int64")),
			mismatch("tags", schema.ListOf(schema.Named("", "string")), schema.Named("", "string")),
		},
	}}}

	_, err := g.Generate(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAccessorMismatch))
	assert.Contains(t, err.Error(), "example.com/acme/model.Bean.when: getWhen and setWhen classify as StringLike, Scalar(int64)")
	assert.Contains(t, err.Error(), "example.com/acme/model.Bean.tags")
	assert.NotContains(t, err.Error(), "Bean.count")
}

func TestPlan_ImportCycle(t *testing.T) {
	// Test: two generated packages referring to each other are rejected
	g := NewGenerator(DefaultOptions(), &recordingEmitter{}, zerolog.Nop())
	s := &schema.Schema{Types: []*schema.TypeDef{
		{
			Package:    "example.com/acme/order",
			Name:       "Order",
			Properties: []schema.Property{prop("customer", schema.Named("example.com/acme/crm", "Customer"))},
		},
		{
			Package:    "example.com/acme/crm",
			Name:       "Customer",
			Properties: []schema.Property{prop("orders", schema.ListOf(schema.Named("example.com/acme/order", "Order")))},
		},
	}}

	_, err := g.Generate(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrImportCycle))
	assert.Contains(t, err.Error(), "example.com/acme/crm -> example.com/acme/order -> example.com/acme/crm")
}

func TestPlan_RenamedPackages(t *testing.T) {
	// Test: the rename rule moves every type and the namespace root
	g := NewGenerator(Options{
		OldPackagePrefix:  "example.com/acme",
		NewPackagePrefix:  "example.com/acme/client",
		GenerateContracts: true,
	}, &recordingEmitter{}, zerolog.Nop())

	p, err := g.Plan(orderSchema())
	require.NoError(t, err)
	assert.Equal(t, "example.com/acme/client/model", p.Types[0].Package)
	assert.Equal(t, "example.com/acme/client/model", p.Root)
	assert.Equal(t, "example.com/acme/client/model/jso", p.Helper)
	assert.Equal(t, "example.com/acme/client/model.OrderJSO", p.Types[0].QualifiedImpl())
	assert.Empty(t, p.Types[0].References())
}

func TestPlan_MissingReferenceWarns(t *testing.T) {
	// Test: references outside the batch are logged but still classified
	var logs bytes.Buffer
	g := NewGenerator(DefaultOptions(), &recordingEmitter{}, zerolog.New(&logs))
	s := &schema.Schema{Types: []*schema.TypeDef{{
		Package:    pkg,
		Name:       "Order",
		Properties: []schema.Property{prop("customer", schema.Named("example.com/acme/crm", "Customer"))},
	}}}

	p, err := g.Plan(s)
	require.NoError(t, err)
	assert.Equal(t, classify.KindObject, p.Types[0].Properties[0].Type.Kind())
	assert.Equal(t, []string{"example.com/acme/crm"}, p.Types[0].References())
	assert.Contains(t, logs.String(), "referenced type is not part of this batch")
}

func TestPlan_DuplicateTargets(t *testing.T) {
	// Test: two source types that sanitize to the same target fail
	g := NewGenerator(DefaultOptions(), &recordingEmitter{}, zerolog.Nop())
	s := &schema.Schema{Types: []*schema.TypeDef{
		{Package: pkg, Name: "A-B"},
		{Package: pkg, Name: "A$B"},
	}}

	_, err := g.Plan(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both generate example.com/acme/model.A_B")
}

func TestPlan_EnumConstants(t *testing.T) {
	// Test: constants keep declaration order; clashing identifiers are dropped
	g := NewGenerator(DefaultOptions(), &recordingEmitter{}, zerolog.Nop())
	s := &schema.Schema{Types: []*schema.TypeDef{{
		Package:   pkg,
		Name:      "Color",
		Kind:      schema.KindEnumeration,
		Constants: []string{"RED", "GREEN", "dark-blue", "dark_blue"},
	}}}

	p, err := g.Plan(s)
	require.NoError(t, err)
	assert.Equal(t, []ConstantPlan{
		{Ident: "ColorRED", Value: "RED"},
		{Ident: "ColorGREEN", Value: "GREEN"},
		{Ident: "ColorDark_blue", Value: "dark-blue"},
	}, p.Types[0].Constants)
}

func TestGenerator_EmitterError(t *testing.T) {
	// Test: emitter failures name the type
	g := NewGenerator(DefaultOptions(), &recordingEmitter{fail: "LineItemJSO"}, zerolog.Nop())

	_, err := g.Generate(orderSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate example.com/acme/model.LineItem")
}

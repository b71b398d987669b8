package golang

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/overlay/internal/codegen"
	"github.com/okra-platform/overlay/internal/schema"
)

// Test plan for running generated code:
// 1. Getters only read the backing object; absent collections are nil
// 2. Setters, list helper changes and nested wrappers show up in the parent's JSON
// 3. Enumeration collections are stored by constant name; Lookup reports unknown names
// 4. JSON text round-trips through the root parse functions
// 5. A zero wrapper starts an empty object instead of panicking

const runModule = "example.com/acme"

func runSchema() *schema.Schema {
	return &schema.Schema{Types: []*schema.TypeDef{
		{
			Package: model,
			Name:    "Order",
			Root:    true,
			Properties: []schema.Property{
				prop("name", schema.Named("", "string")),
				prop("count", schema.Named("", "int")),
				prop("status", schema.EnumRef(model, "Status")),
				prop("flags", schema.ArrayOf(schema.EnumRef(model, "Status"))),
				prop("tags", schema.ArrayOf(schema.Named("", "string"))),
				prop("items", schema.ListOf(schema.Named(model, "LineItem"))),
				prop("lines", schema.ArrayOf(schema.Named(model, "LineItem"))),
			},
		},
		{
			Package:    model,
			Name:       "LineItem",
			Properties: []schema.Property{prop("sku", schema.Named("", "string"))},
		},
		{
			Package:   model,
			Name:      "Status",
			Kind:      schema.KindEnumeration,
			Constants: []string{"PENDING", "SHIPPED"},
		},
	}}
}

const runMain = `package main

import (
	"fmt"

	"example.com/acme/model"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	o, err := model.ParseOrderJSO(` + "`" + `{"name":"x","count":3,"status":"SHIPPED"}` + "`" + `)
	check(err)
	fmt.Println(o.Name(), o.Count(), o.Status())
	fmt.Println(o.Tags() == nil, o.Flags() == nil, o.Lines() == nil)
	fmt.Println(o.JSONString())

	o.SetFlags([]model.Status{model.StatusSHIPPED, model.StatusPENDING})
	o.SetTags([]string{"a", "b"})
	fmt.Println(o.Flags(), o.Tags())
	fmt.Println(o.JSONString())

	item := model.NewLineItemJSO(nil)
	item.SetSku("s1")
	o.Items().Add(item)
	o.Items().Get(0).SetSku("s2")
	fmt.Println(o.Items().Len(), o.JSONString())

	replacement := model.NewLineItemJSO(nil)
	replacement.SetSku("s3")
	o.Items().Set(0, replacement)
	o.SetLines([]model.ILineItem{item})
	fmt.Println(o.Lines()[0].Sku(), o.JSONString())

	again, err := model.ParseOrderJSO(o.JSONString())
	check(err)
	fmt.Println(again.JSONString() == o.JSONString(), again.Items().Get(0).Sku())

	var zero model.OrderJSO
	fmt.Println(zero.Name() == "", zero.Tags() == nil, zero.JSONString())
	zero.SetName("z")
	zero.SetStatus(model.StatusPENDING)
	fmt.Println(zero.Items().Len(), zero.JSONString())

	status, ok := model.LookupStatus("LOST")
	fmt.Println(status == "", ok, model.ParseStatus("PENDING"))

	orders, err := model.ParseOrderJSOArray(` + "`" + `[{"name":"a"},null]` + "`" + `)
	check(err)
	fmt.Println(len(orders), orders[0].Name(), orders[1].JSONString())
}
`

// writeRunModule lays out generated files below a temporary module next to a main package
func writeRunModule(t *testing.T, files []codegen.File) string {
	t.Helper()
	dir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	write("go.mod", "module "+runModule+"\n\ngo 1.22\n")
	write("main.go", runMain)
	for _, f := range files {
		rel, ok := strings.CutPrefix(f.Path(), runModule+"/")
		require.True(t, ok, "file %s outside the module", f.Path())
		write(rel, string(f.Content))
	}
	return dir
}

func TestEmitter_GeneratedCodeRuns(t *testing.T) {
	// Test: the generated wrappers and helper behave as documented when executed
	if testing.Short() {
		t.Skip("running generated code invokes the go command")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go command not available")
	}

	g := codegen.NewGenerator(codegen.DefaultOptions(), NewEmitter(), zerolog.Nop())
	files, err := g.Generate(runSchema())
	require.NoError(t, err)
	dir := writeRunModule(t, files)

	cmd := exec.Command(goBin, "run", ".")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	want := []string{
		`x 3 SHIPPED`,
		`true true true`,
		`{"count":3,"name":"x","status":"SHIPPED"}`,
		`[SHIPPED PENDING] [a b]`,
		`{"count":3,"flags":["SHIPPED","PENDING"],"name":"x","status":"SHIPPED","tags":["a","b"]}`,
		`1 {"count":3,"flags":["SHIPPED","PENDING"],"items":[{"sku":"s2"}],"name":"x","status":"SHIPPED","tags":["a","b"]}`,
		`s2 {"count":3,"flags":["SHIPPED","PENDING"],"items":[{"sku":"s3"}],"lines":[{"sku":"s2"}],"name":"x","status":"SHIPPED","tags":["a","b"]}`,
		`true s3`,
		`true true {}`,
		`0 {"items":[],"name":"z","status":"PENDING"}`,
		`true false PENDING`,
		`2 a {}`,
	}
	assert.Equal(t, want, strings.Split(strings.TrimSpace(string(out)), "\n"))
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atl-tw/xddl-sub001/internal/document"
	"github.com/atl-tw/xddl-sub001/internal/model"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
	"github.com/atl-tw/xddl-sub001/internal/resolve"
)

// stubResolver is a minimal TypeResolver for testing Prepare logic.
type stubResolver struct{}

func (s *stubResolver) PrimitiveType(core model.CoreType) string { return strings.ToLower(core.String()) }
func (s *stubResolver) ListType(elemType string) string { return "[]" + elemType }
func (s *stubResolver) InlineType(path string) string { return "inline:" + path }
func (s *stubResolver) FormatDefName(name string) string { return name }
func (s *stubResolver) EnrichField(_ *Field) {}

func (s *stubResolver) RefType(t model.Target, local bool) string {
	return QualifiedName(t, local)
}

const ordersYAML = `
title: Orders
structures:
  - name: Entity
    fields:
      - {name: id, type: Long, required: true}
      - {name: note, type: Text}
  - name: Order
    extends: Entity
    description: A customer order
    ext: {table: orders}
    fields:
      - {name: note, type: String}
      - {name: lines, type: {list: Line}, required: true}
      - {name: status, type: {enum: Status}}
      - {name: unit, type: Unit}
      - name: shipping
        type:
          structure:
            fields:
              - {name: carrier, type: String, default: UPS}
              - name: window
                type: {structure: {fields: [{name: from, type: Time}]}}
  - name: Line
    fields:
      - {name: sku, type: String}
enumerations:
  - name: Status
    values: [OPEN, CLOSED]
`

func ordersContext(t *testing.T) *plugin.Context {
	t.Helper()
	units, err := document.YAML.Parse(strings.NewReader(`
enumerations:
  - {name: Unit, values: [KG]}
`), "units.xddl.yaml")
	require.NoError(t, err)

	spec, err := document.YAML.Parse(strings.NewReader(ordersYAML), "orders.xddl.yaml")
	require.NoError(t, err)
	require.NoError(t, spec.AddImport(units))
	require.NoError(t, resolve.Resolve(spec))

	c, err := plugin.NewContext(document.YAMLFormat, spec)
	require.NoError(t, err)
	return c
}

func TestPrepare_Order(t *testing.T) {
	c := ordersContext(t)
	order, ok := c.Spec().Structure("Order")
	require.True(t, ok)

	td, err := PrepareStructure(c, order, &stubResolver{})
	require.NoError(t, err)

	assert.Equal(t, "Order", td.Name)
	assert.Equal(t, "A customer order", td.Description)
	assert.Equal(t, []string{"Entity"}, td.Parents)
	assert.Equal(t, "table: orders", td.Extensions)

	require.Len(t, td.Fields, 5)
	fields := make(map[string]Field)
	for _, f := range td.Fields {
		fields[f.Name] = f
	}
	assert.Equal(t, "string", fields["note"].Type)
	assert.Equal(t, "[]Line", fields["lines"].Type)
	assert.False(t, fields["lines"].Nullable)
	assert.True(t, fields["status"].Nullable)
	assert.Equal(t, "Status", fields["status"].Type)
	assert.Equal(t, "UnitsUnit", fields["unit"].Type, "imported definitions are qualified")
	assert.Equal(t, "inline:Order.shipping", fields["shipping"].Type)

	require.Len(t, td.Inherited, 1, "note is redeclared by Order")
	assert.Equal(t, Field{Name: "id", Type: "long", From: "Entity"}, td.Inherited[0])

	require.Len(t, td.Inline, 2)
	assert.Equal(t, "Order.shipping", td.Inline[0].Path)
	assert.Equal(t, "UPS", td.Inline[0].Fields[0].Default)
	assert.Equal(t, "inline:Order.shipping.window", td.Inline[0].Fields[1].Type)
	assert.Equal(t, "Order.shipping.window", td.Inline[1].Path)
	assert.Equal(t, "time", td.Inline[1].Fields[0].Type)
}

func TestPrepare_All(t *testing.T) {
	data, err := Prepare(ordersContext(t), &stubResolver{})
	require.NoError(t, err)

	assert.Equal(t, "Orders", data.Title)
	require.Len(t, data.Defs, 3)
	assert.Equal(t, "Entity", data.Defs[0].Name)
	assert.Equal(t, "Order", data.Defs[1].Name)
	assert.Equal(t, "Line", data.Defs[2].Name)
	require.Len(t, data.Enums, 1)
	assert.Equal(t, "Status", data.Enums[0].Name)
	assert.Len(t, data.Enums[0].Values, 2)
}

func TestTypeString(t *testing.T) {
	c := ordersContext(t)
	typ := &model.ListOf{Elem: model.Primitive{Core: model.BigDecimal}}
	assert.Equal(t, "[]bigdecimal", TypeString(c, "x", typ, &stubResolver{}))
}

func TestNames(t *testing.T) {
	tests := []struct {
		in     string
		pascal string
		snake  string
	}{
		{"first_name", "FirstName", "first_name"},
		{"order-line", "OrderLine", "order_line"},
		{"Person.contact", "PersonContact", "person_contact"},
		{"2fa code", "2faCode", "_2fa_code"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.pascal, ToPascalCase(tt.in))
			assert.Equal(t, tt.snake, ToSnakeCase(tt.in))
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		meta model.Meta
		want string
	}{
		{"title", model.Meta{Title: "People Directory", Source: "x.yaml"}, "people-directory"},
		{"source", model.Meta{Source: "specs/common.xddl.yaml"}, "common"},
		{"fallback", model.Meta{}, "spec"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := model.New(tt.meta)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Slug(s))
		})
	}

	assert.Equal(t, "Common", DocumentName("specs/common.xddl.yaml"))
	assert.Equal(t, "CommonAddress", QualifiedName(model.Target{Document: "common.yaml", Name: "Address"}, false))
	assert.Equal(t, "Address", QualifiedName(model.Target{Document: "common.yaml", Name: "Address"}, true))
}

package discovery

import (
	"context"
	"testing"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/loader"
	"github.com/eventforge/asyncgen/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bundled(t *testing.T, files loader.MapSource) *asyncapi.Document {
	t.Helper()
	doc, err := resolver.New(files).Bundle(context.Background(), "api.yaml")
	require.NoError(t, err)
	return doc
}

const shopDoc = `
asyncapi: 3.0.0
info: {title: Shop, version: '1'}
components:
  schemas:
    Order:
      type: object
      properties:
        id:
          type: string
        customer:
          $ref: 'customer.yaml#/Customer'
        details:
          type: object
          properties:
            note:
              type: string
            shipping:
              title: shipping_info
              type: object
              properties:
                carrier:
                  type: string
        tags:
          type: array
          items:
            type: object
            properties:
              label:
                type: string
        labels:
          type: object
          additionalProperties:
            type: object
            properties:
              value:
                type: string
        status:
          type: string
          enum: [pending, shipped]
        priority:
          type: integer
          enum: [1, 2]
`

const customerFile = `
Customer:
  type: object
  properties:
    address:
      $ref: '#/Address'
    referrer:
      $ref: '#/Customer'
Address:
  type: object
  properties:
    street:
      type: string
`

// discovered seeds the component schemas of doc and pulls in every
// referenced schema.
func discovered(t *testing.T, doc *asyncapi.Document) *asyncapi.SchemaMap {
	t.Helper()
	m, err := Seed(doc, CollisionError)
	require.NoError(t, err)
	m, err = ReferenceAnalyzer{}.Discover(m)
	require.NoError(t, err)
	return m
}

func TestReferenceAnalyzerDiscoversTransitively(t *testing.T) {
	t.Parallel()

	doc := bundled(t, loader.MapSource{"api.yaml": shopDoc, "customer.yaml": customerFile})
	m := discovered(t, doc)

	assert.Equal(t, []string{"Order", "Customer", "Address"}, m.Keys())

	customer, _ := m.Get("Customer")
	ref, _ := customer.Property("referrer")
	assert.Same(t, customer, asyncapi.DerefSchema(ref))
}

// clashingReference builds a component Address and an Order whose billing
// property references a different Address from another file.
func clashingReference() (*asyncapi.SchemaMap, *asyncapi.Schema, *asyncapi.Reference[asyncapi.Schema]) {
	mk := func(prop string) *asyncapi.Schema {
		s := &asyncapi.Schema{Type: asyncapi.Single(asyncapi.TypeObject)}
		s.SetProperty(prop, asyncapi.NewInlineSchema(&asyncapi.Schema{Type: asyncapi.Single(asyncapi.TypeString)}))
		return s
	}
	other := mk("iban")
	ref := &asyncapi.Reference[asyncapi.Schema]{Pointer: "other.yaml#/Address", Location: "other.yaml#/Address"}
	ref.Bind(asyncapi.NewInlineSchema(other), 7)
	order := &asyncapi.Schema{Type: asyncapi.Single(asyncapi.TypeObject)}
	order.SetProperty("billing", ref)

	m := asyncapi.NewSchemaMap()
	m.Set("Address", mk("street"))
	m.Set("Order", order)
	return m, other, ref
}

func TestReferenceAnalyzerCollisionPolicies(t *testing.T) {
	t.Parallel()

	t.Run("error", func(t *testing.T) {
		t.Parallel()
		m, _, _ := clashingReference()
		_, err := ReferenceAnalyzer{Policy: CollisionError}.Discover(m)
		var collision *asyncapi.CollisionError
		require.ErrorAs(t, err, &collision)
		assert.Equal(t, "Address", collision.Name)
		assert.Equal(t, "other.yaml#/Address", collision.Context)
		assert.ErrorIs(t, err, asyncapi.ErrNameCollision)
	})

	t.Run("suffix", func(t *testing.T) {
		t.Parallel()
		m, other, ref := clashingReference()
		m, err := ReferenceAnalyzer{Policy: CollisionSuffix}.Discover(m)
		require.NoError(t, err)
		assert.Equal(t, []string{"Address", "Order", "Address2"}, m.Keys())
		got, _ := m.Get("Address2")
		assert.Same(t, other, got)
		assert.Equal(t, "#/components/schemas/Address2", ref.Pointer)
		assert.Same(t, other, ref.Model)
	})

	t.Run("first wins", func(t *testing.T) {
		t.Parallel()
		m, _, ref := clashingReference()
		first, _ := m.Get("Address")
		m, err := ReferenceAnalyzer{Policy: CollisionFirstWins}.Discover(m)
		require.NoError(t, err)
		assert.Equal(t, []string{"Address", "Order"}, m.Keys())
		assert.Same(t, first, ref.Model)
	})

	t.Run("equal schemas share the name", func(t *testing.T) {
		t.Parallel()
		m, other, ref := clashingReference()
		m.Set("Address", other.Clone())
		m, err := ReferenceAnalyzer{Policy: CollisionError}.Discover(m)
		require.NoError(t, err)
		assert.Equal(t, []string{"Address", "Order"}, m.Keys())
		assert.Equal(t, "#/components/schemas/Address", ref.Pointer)
	})
}

func TestSeedCollision(t *testing.T) {
	t.Parallel()

	doc := bundled(t, loader.MapSource{"api.yaml": `
asyncapi: 3.0.0
info: {title: x, version: '1'}
components:
  schemas:
    order_line:
      type: object
      properties:
        sku: {type: string}
    OrderLine:
      type: object
      properties:
        qty: {type: integer}
`})

	_, err := Seed(doc, CollisionError)
	assert.ErrorIs(t, err, asyncapi.ErrNameCollision)

	m, err := Seed(doc, CollisionSuffix)
	require.NoError(t, err)
	assert.Equal(t, []string{"OrderLine", "OrderLine2"}, m.Keys())
}

func TestPromoteNaming(t *testing.T) {
	t.Parallel()

	doc := bundled(t, loader.MapSource{"api.yaml": shopDoc, "customer.yaml": customerFile})
	m, err := InlineSchemaAnalyzer{}.Promote(discovered(t, doc))
	require.NoError(t, err)

	for _, name := range []string{"Details", "ShippingInfo", "TagsItem", "LabelsValue", "Status"} {
		assert.True(t, m.Has(name), "expected promoted schema %s in %v", name, m.Keys())
	}
	assert.False(t, m.Has("Priority"), "integer enums are not promoted")

	order, _ := m.Get("Order")
	details, _ := order.Property("details")
	ref, ok := details.(*asyncapi.Reference[asyncapi.Schema])
	require.True(t, ok)
	assert.Equal(t, "#/components/schemas/Details", ref.Pointer)
	detailsModel, _ := m.Get("Details")
	assert.Same(t, detailsModel, ref.Model)

	// Children are promoted before their parent.
	shipping, _ := detailsModel.Property("shipping")
	assert.IsType(t, &asyncapi.Reference[asyncapi.Schema]{}, shipping)

	tags, _ := order.Property("tags")
	items := asyncapi.DerefSchema(tags).Items
	assert.Equal(t, "#/components/schemas/TagsItem", items.(*asyncapi.Reference[asyncapi.Schema]).Pointer)

	labels, _ := order.Property("labels")
	values := asyncapi.DerefSchema(labels).AdditionalProperties
	assert.Equal(t, "#/components/schemas/LabelsValue", values.(*asyncapi.Reference[asyncapi.Schema]).Pointer)
}

func TestPromoteTitleWins(t *testing.T) {
	t.Parallel()

	nested := &asyncapi.Schema{Title: "CustomName", Type: asyncapi.Single(asyncapi.TypeObject)}
	nested.SetProperty("x", asyncapi.NewInlineSchema(&asyncapi.Schema{Type: asyncapi.Single(asyncapi.TypeString)}))
	root := &asyncapi.Schema{Type: asyncapi.Single(asyncapi.TypeObject)}
	root.SetProperty("details", asyncapi.NewInlineSchema(nested))

	m := asyncapi.NewSchemaMap()
	m.Set("Root", root)
	m, err := InlineSchemaAnalyzer{}.Promote(m)
	require.NoError(t, err)

	assert.Equal(t, []string{"Root", "CustomName"}, m.Keys())
	details, _ := root.Property("details")
	assert.Equal(t, "#/components/schemas/CustomName", details.(*asyncapi.Reference[asyncapi.Schema]).Pointer)
}

func TestDiscoveryIsIdempotent(t *testing.T) {
	t.Parallel()

	doc := bundled(t, loader.MapSource{"api.yaml": shopDoc, "customer.yaml": customerFile})
	seeded, err := Seed(doc, CollisionError)
	require.NoError(t, err)
	first, err := Pipeline{}.Run(seeded)
	require.NoError(t, err)
	keys := first.Schemas.Keys()
	order, _ := first.Schemas.Get("Order")
	details, _ := order.Property("details")

	second, err := Pipeline{}.Run(first.Schemas)
	require.NoError(t, err)
	assert.Equal(t, keys, second.Schemas.Keys())

	again, _ := order.Property("details")
	assert.Same(t, details, again)
}

// collidingRoots builds two schemas that each nest a different anonymous
// object under the property "details".
func collidingRoots() *asyncapi.SchemaMap {
	mk := func(prop string) *asyncapi.Schema {
		inner := &asyncapi.Schema{Type: asyncapi.Single(asyncapi.TypeObject)}
		inner.SetProperty(prop, asyncapi.NewInlineSchema(&asyncapi.Schema{Type: asyncapi.Single(asyncapi.TypeString)}))
		root := &asyncapi.Schema{Type: asyncapi.Single(asyncapi.TypeObject)}
		root.SetProperty("details", asyncapi.NewInlineSchema(inner))
		return root
	}
	m := asyncapi.NewSchemaMap()
	m.Set("Order", mk("note"))
	m.Set("Invoice", mk("amount"))
	return m
}

func TestPromoteCollisionPolicies(t *testing.T) {
	t.Parallel()

	t.Run("error", func(t *testing.T) {
		t.Parallel()
		_, err := InlineSchemaAnalyzer{Policy: CollisionError}.Promote(collidingRoots())
		var collision *asyncapi.CollisionError
		require.ErrorAs(t, err, &collision)
		assert.Equal(t, "Details", collision.Name)
		assert.Equal(t, "Invoice.details", collision.Context)
	})

	t.Run("suffix", func(t *testing.T) {
		t.Parallel()
		m, err := InlineSchemaAnalyzer{Policy: CollisionSuffix}.Promote(collidingRoots())
		require.NoError(t, err)
		assert.Equal(t, []string{"Order", "Invoice", "Details", "Details2"}, m.Keys())
		invoice, _ := m.Get("Invoice")
		details, _ := invoice.Property("details")
		assert.Equal(t, "#/components/schemas/Details2", details.(*asyncapi.Reference[asyncapi.Schema]).Pointer)
	})

	t.Run("first wins", func(t *testing.T) {
		t.Parallel()
		m, err := InlineSchemaAnalyzer{Policy: CollisionFirstWins}.Promote(collidingRoots())
		require.NoError(t, err)
		assert.Equal(t, []string{"Order", "Invoice", "Details"}, m.Keys())
		first, _ := m.Get("Details")
		invoice, _ := m.Get("Invoice")
		details, _ := invoice.Property("details")
		assert.Same(t, first, asyncapi.DerefSchema(details))
	})
}

func TestPromoteReusesStructurallyEqualSchema(t *testing.T) {
	t.Parallel()

	mk := func() *asyncapi.Schema {
		inner := &asyncapi.Schema{Type: asyncapi.Single(asyncapi.TypeObject)}
		inner.SetProperty("street", asyncapi.NewInlineSchema(&asyncapi.Schema{Type: asyncapi.Single(asyncapi.TypeString)}))
		root := &asyncapi.Schema{Type: asyncapi.Single(asyncapi.TypeObject)}
		root.SetProperty("address", asyncapi.NewInlineSchema(inner))
		return root
	}
	m := asyncapi.NewSchemaMap()
	m.Set("Billing", mk())
	m.Set("Shipping", mk())

	m, err := InlineSchemaAnalyzer{}.Promote(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"Billing", "Shipping", "Address"}, m.Keys())
}

func TestPolymorphicAnalyzer(t *testing.T) {
	t.Parallel()

	ref := func(name string) asyncapi.SchemaNode {
		return asyncapi.NewSchemaRef("#/components/schemas/"+name, &asyncapi.Schema{Title: name})
	}
	m := asyncapi.NewSchemaMap()
	m.Set("Parent", &asyncapi.Schema{OneOf: []asyncapi.SchemaNode{ref("ChildA"), ref("ChildB")}})
	m.Set("Other", &asyncapi.Schema{AnyOf: []asyncapi.SchemaNode{
		ref("ChildA"),
		ref("ChildA"),
		asyncapi.NewInlineSchema(&asyncapi.Schema{Type: asyncapi.Single(asyncapi.TypeString)}),
	}})

	poly := PolymorphicAnalyzer{}.Analyze(m)

	a, _ := poly.Get("ChildA")
	assert.Equal(t, []string{"Parent", "Other"}, a)
	b, _ := poly.Get("ChildB")
	assert.Equal(t, []string{"Parent"}, b)
	assert.Equal(t, 2, poly.Len())
}

func TestParseCollisionPolicy(t *testing.T) {
	t.Parallel()

	p, err := ParseCollisionPolicy("")
	require.NoError(t, err)
	assert.Equal(t, CollisionError, p)

	p, err = ParseCollisionPolicy("First-Wins")
	require.NoError(t, err)
	assert.Equal(t, CollisionFirstWins, p)

	_, err = ParseCollisionPolicy("rename")
	assert.Error(t, err)
}

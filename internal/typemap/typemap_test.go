package typemap

import (
	"testing"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func typed(name string) *asyncapi.Schema {
	return &asyncapi.Schema{Type: asyncapi.Single(name)}
}

func TestMapScalars(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		schema *asyncapi.Schema
		want   string
	}{
		"plain string":        {schema: typed("string"), want: "string"},
		"uuid":                {schema: &asyncapi.Schema{Type: asyncapi.Single("string"), Format: "uuid"}, want: "uuid.UUID"},
		"date-time":           {schema: &asyncapi.Schema{Type: asyncapi.Single("string"), Format: "date-time"}, want: "time.Time"},
		"date":                {schema: &asyncapi.Schema{Type: asyncapi.Single("string"), Format: "date"}, want: "civil.Date"},
		"time":                {schema: &asyncapi.Schema{Type: asyncapi.Single("string"), Format: "time"}, want: "civil.Time"},
		"email is plain":      {schema: &asyncapi.Schema{Type: asyncapi.Single("string"), Format: "email"}, want: "string"},
		"integer no bounds":   {schema: typed("integer"), want: "int32"},
		"integer small max":   {schema: &asyncapi.Schema{Type: asyncapi.Single("integer"), Maximum: ptr(1000.0)}, want: "int32"},
		"integer wide max":    {schema: &asyncapi.Schema{Type: asyncapi.Single("integer"), Maximum: ptr(2147483648.0)}, want: "int64"},
		"integer wide min":    {schema: &asyncapi.Schema{Type: asyncapi.Single("integer"), Minimum: ptr(-2147483649.0)}, want: "int64"},
		"integer int32 max":   {schema: &asyncapi.Schema{Type: asyncapi.Single("integer"), Maximum: ptr(2147483647.0)}, want: "int32"},
		"format int64":        {schema: &asyncapi.Schema{Type: asyncapi.Single("integer"), Format: "int64", Maximum: ptr(5.0)}, want: "int64"},
		"format int32 wins":   {schema: &asyncapi.Schema{Type: asyncapi.Single("integer"), Format: "int32", Maximum: ptr(1e12)}, want: "int32"},
		"number default":      {schema: typed("number"), want: "float64"},
		"number float":        {schema: &asyncapi.Schema{Type: asyncapi.Single("number"), Format: "float"}, want: "float32"},
		"number double":       {schema: &asyncapi.Schema{Type: asyncapi.Single("number"), Format: "double"}, want: "float64"},
		"multipleOf decimal":  {schema: &asyncapi.Schema{Type: asyncapi.Single("number"), MultipleOf: ptr(0.01)}, want: "decimal.Decimal"},
		"multipleOf w format": {schema: &asyncapi.Schema{Type: asyncapi.Single("number"), Format: "float", MultipleOf: ptr(0.01)}, want: "decimal.Decimal"},
		"boolean":             {schema: typed("boolean"), want: "bool"},
		"untyped":             {schema: &asyncapi.Schema{}, want: "any"},
		"nullable string":     {schema: &asyncapi.Schema{Type: asyncapi.TypeSet{Name: "string", Null: true, List: true}}, want: "string"},
	}

	e := New(DefaultTarget())
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := e.MapSchema(Context{Property: "field"}, tt.schema)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestMapUnionAndEnum(t *testing.T) {
	t.Parallel()

	e := New(DefaultTarget())
	a := &asyncapi.Schema{Type: asyncapi.Single("object")}
	union := &asyncapi.Schema{
		Type:  asyncapi.Single("string"),
		Enum:  []any{"x"},
		OneOf: []asyncapi.SchemaNode{asyncapi.NewSchemaRef("#/components/schemas/A", a)},
	}

	got, err := e.MapSchema(Context{Property: "payment_method"}, union)
	require.NoError(t, err)
	assert.Equal(t, TypeRef{Name: "PaymentMethod", Kind: KindUnion}, got, "union runs before enum")

	enum := &asyncapi.Schema{Type: asyncapi.Single("string"), Enum: []any{"new", "done"}}
	got, err = e.MapSchema(Context{Property: "status"}, enum)
	require.NoError(t, err)
	assert.Equal(t, TypeRef{Name: "Status", Kind: KindEnum}, got)

	enum.Title = "order state"
	got, err = e.MapSchema(Context{Property: "status"}, enum)
	require.NoError(t, err)
	assert.Equal(t, "OrderState", got.Name)
}

func TestMapArrays(t *testing.T) {
	t.Parallel()

	e := New(DefaultTarget())
	code := typed("string")
	customer := &asyncapi.Schema{Type: asyncapi.Single("object")}
	customer.SetProperty("id", asyncapi.NewInlineSchema(typed("string")))
	status := &asyncapi.Schema{Type: asyncapi.Single("string"), Enum: []any{"a"}}

	tests := map[string]struct {
		items asyncapi.SchemaNode
		want  string
	}{
		"inline scalar":        {items: asyncapi.NewInlineSchema(typed("integer")), want: "[]int32"},
		"ref to plain string":  {items: asyncapi.NewSchemaRef("#/components/schemas/Code", code), want: "[]string"},
		"ref to object":        {items: asyncapi.NewSchemaRef("#/components/schemas/Customer", customer), want: "[]Customer"},
		"ref to enum":          {items: asyncapi.NewSchemaRef("#/components/schemas/Status", status), want: "[]Status"},
		"no items":             {items: nil, want: "[]any"},
		"nested array":         {items: asyncapi.NewInlineSchema(&asyncapi.Schema{Type: asyncapi.Single("array"), Items: asyncapi.NewInlineSchema(typed("boolean"))}), want: "[][]bool"},
		"boolean schema items": {items: asyncapi.BoolSchema(true), want: "[]any"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := e.MapSchema(Context{Property: "list"}, &asyncapi.Schema{Type: asyncapi.Single("array"), Items: tt.items})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
			assert.Equal(t, KindArray, got.Kind)
			require.NotNil(t, got.Elem)
		})
	}
}

func TestMapObjects(t *testing.T) {
	t.Parallel()

	e := New(DefaultTarget())

	t.Run("open map", func(t *testing.T) {
		t.Parallel()
		got, err := e.MapSchema(Context{}, typed("object"))
		require.NoError(t, err)
		assert.Equal(t, "map[string]any", got.Name)
	})

	t.Run("typed values", func(t *testing.T) {
		t.Parallel()
		s := &asyncapi.Schema{Type: asyncapi.Single("object"), AdditionalProperties: asyncapi.NewInlineSchema(typed("number"))}
		got, err := e.MapSchema(Context{}, s)
		require.NoError(t, err)
		assert.Equal(t, "map[string]float64", got.Name)
		assert.Equal(t, KindMap, got.Kind)
	})

	t.Run("closed object has no map type", func(t *testing.T) {
		t.Parallel()
		s := &asyncapi.Schema{Type: asyncapi.Single("object"), AdditionalProperties: asyncapi.BoolSchema(false)}
		_, err := e.MapSchema(Context{Property: "meta"}, s)
		require.ErrorIs(t, err, ErrNoMapType)
		assert.NotErrorIs(t, err, ErrUnpromotedObject)
	})

	t.Run("unpromoted object is a fault", func(t *testing.T) {
		t.Parallel()
		s := typed("object")
		s.SetProperty("id", asyncapi.NewInlineSchema(typed("string")))
		_, err := e.MapSchema(Context{Property: "details"}, s)
		require.ErrorIs(t, err, ErrUnpromotedObject)
		assert.NotErrorIs(t, err, ErrNoMapType)
	})

	t.Run("unpromoted array element", func(t *testing.T) {
		t.Parallel()
		item := typed("object")
		item.SetProperty("id", asyncapi.NewInlineSchema(typed("string")))
		s := &asyncapi.Schema{Type: asyncapi.Single("array"), Items: asyncapi.NewInlineSchema(item)}
		_, err := e.MapSchema(Context{Property: "lines"}, s)
		assert.ErrorIs(t, err, ErrUnpromotedObject)
	})
}

func TestMapNodes(t *testing.T) {
	t.Parallel()

	e := New(DefaultTarget())

	_, err := e.Map(Context{Property: "x"}, &asyncapi.Reference[asyncapi.Schema]{Pointer: "#/missing"})
	assert.ErrorIs(t, err, asyncapi.ErrUnresolvedReference)

	got, err := e.Map(Context{}, asyncapi.BoolSchema(true))
	require.NoError(t, err)
	assert.Equal(t, "any", got.Name)

	got, err = e.Map(Context{}, &asyncapi.MultiFormatSchema{SchemaFormat: "application/vnd.apache.avro;version=1.9.0"})
	require.NoError(t, err)
	assert.Equal(t, "any", got.Name)

	order := typed("object")
	order.SetProperty("id", asyncapi.NewInlineSchema(typed("string")))
	got, err = e.Map(Context{}, asyncapi.NewSchemaRef("#/components/schemas/order_payload", order))
	require.NoError(t, err)
	assert.Equal(t, TypeRef{Name: "OrderPayload", Kind: KindNamed}, got)
}

func TestOrderPayloadAmountIsDecimal(t *testing.T) {
	t.Parallel()

	payload := typed("object")
	payload.SetProperty("id", asyncapi.NewInlineSchema(typed("string")))
	payload.SetProperty("amount", asyncapi.NewInlineSchema(&asyncapi.Schema{Type: asyncapi.Single("number"), MultipleOf: ptr(0.01)}))

	amount, ok := payload.Property("amount")
	require.True(t, ok)
	got, err := New(DefaultTarget()).Map(Context{Property: "amount"}, amount)
	require.NoError(t, err)
	assert.Equal(t, "decimal.Decimal", got.Name)
}

func TestCustomRuleChain(t *testing.T) {
	t.Parallel()

	e := New(DefaultTarget())
	e.Rules = append([]Rule{func(_ Context, s *asyncapi.Schema) (TypeRef, bool, error) {
		if s.Format == "email" {
			return TypeRef{Name: "mail.Address", Kind: KindNamed}, true, nil
		}
		return TypeRef{}, false, nil
	}}, e.Rules...)

	got, err := e.MapSchema(Context{}, &asyncapi.Schema{Type: asyncapi.Single("string"), Format: "email"})
	require.NoError(t, err)
	assert.Equal(t, "mail.Address", got.Name)
}

func TestTargetOverrides(t *testing.T) {
	t.Parallel()

	target, err := DefaultTarget().WithOverrides(map[string]string{"Decimal": "big.Rat", "array": "List<%s>", "uuid": ""})
	require.NoError(t, err)
	assert.Equal(t, "big.Rat", target.Decimal)
	assert.Equal(t, "List<%s>", target.Array)
	assert.Equal(t, "uuid.UUID", target.UUID)

	got, err := New(target).MapSchema(Context{}, &asyncapi.Schema{Type: asyncapi.Single("array"), Items: asyncapi.NewInlineSchema(typed("string"))})
	require.NoError(t, err)
	assert.Equal(t, "List<string>", got.Name)

	_, err = DefaultTarget().WithOverrides(map[string]string{"money": "x"})
	assert.ErrorContains(t, err, "unknown target type")

	_, err = DefaultTarget().WithOverrides(map[string]string{"map": "Dict"})
	assert.ErrorContains(t, err, "exactly one %s")

	assert.Len(t, TargetKeys(), 15)
}

func TestDefaultValue(t *testing.T) {
	t.Parallel()

	e := New(DefaultTarget())
	str := TypeRef{Name: "string", Kind: KindString}

	tests := map[string]struct {
		schema   *asyncapi.Schema
		typ      TypeRef
		nullable bool
		want     string
		ok       bool
	}{
		"quoted string":       {schema: &asyncapi.Schema{Default: `say "hi"`}, typ: str, want: `"say \"hi\""`, ok: true},
		"boolean verbatim":    {schema: &asyncapi.Schema{Default: true}, typ: TypeRef{Name: "bool", Kind: KindBoolean}, want: "true", ok: true},
		"integer verbatim":    {schema: &asyncapi.Schema{Default: 42}, typ: TypeRef{Name: "int32", Kind: KindInteger}, want: "42", ok: true},
		"number verbatim":     {schema: &asyncapi.Schema{Default: 1.5}, typ: TypeRef{Name: "float64", Kind: KindNumber}, want: "1.5", ok: true},
		"enum member":         {schema: &asyncapi.Schema{Default: "in-progress"}, typ: TypeRef{Name: "Status", Kind: KindEnum}, want: "Status.IN_PROGRESS", ok: true},
		"enum member spaces":  {schema: &asyncapi.Schema{Default: "on hold"}, typ: TypeRef{Name: "Status", Kind: KindEnum}, want: "Status.ON_HOLD", ok: true},
		"absent not nullable": {schema: &asyncapi.Schema{}, typ: str},
		"absent nullable":     {schema: &asyncapi.Schema{}, typ: str, nullable: true, want: "nil", ok: true},
		"nil schema nullable": {typ: str, nullable: true, want: "nil", ok: true},
		"structured default":  {schema: &asyncapi.Schema{Default: []any{"a", 1}}, typ: TypeRef{Name: "[]any", Kind: KindArray}, want: `["a",1]`, ok: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, ok, err := e.DefaultValue(tt.schema, tt.typ, tt.nullable)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "decimal.Decimal", TypeRef{Name: "decimal.Decimal"}.String())
	assert.Equal(t, "enum", KindEnum.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())

	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("union")))
	assert.Equal(t, KindUnion, k)
	assert.Error(t, k.UnmarshalText([]byte("struct")))
}

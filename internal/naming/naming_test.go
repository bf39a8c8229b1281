package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeName(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want string
	}{
		"lower word":        {in: "details", want: "Details"},
		"snake case":        {in: "order_payload", want: "OrderPayload"},
		"camel case":        {in: "orderPayload", want: "OrderPayload"},
		"already canonical": {in: "CustomName", want: "CustomName"},
		"kebab and spaces":  {in: "user-signed up", want: "UserSignedUp"},
		"leading digit":     {in: "3dModel", want: "N3dModel"},
		"empty":             {in: "", want: ""},
		"only separators":   {in: "--", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TypeName(tt.in))
		})
	}
}

func TestFromPointer(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		pointer string
		want    string
	}{
		"local component":  {pointer: "#/components/schemas/order_payload", want: "OrderPayload"},
		"cross file":       {pointer: "common.yaml#/definitions/Address", want: "Address"},
		"whole file":       {pointer: "schemas/user-profile.yaml", want: "UserProfile"},
		"escaped token":    {pointer: "#/components/schemas/a~1b", want: "AB"},
		"trailing root":    {pointer: "money.json#", want: "Money"},
		"percent encoding": {pointer: "#/components/schemas/line%20item", want: "LineItem"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FromPointer(tt.pointer))
		})
	}
}

func TestEnumMember(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "IN_PROGRESS", EnumMember("in-progress"))
	assert.Equal(t, "ON_HOLD", EnumMember("on hold"))
	assert.Equal(t, "ACTIVE", EnumMember("ACTIVE"))
	assert.Equal(t, "42", EnumMember(42))
}

package validation

import (
	"context"
	"testing"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	"github.com/eventforge/asyncgen/internal/loader"
	"github.com/eventforge/asyncgen/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bundle(t *testing.T, text string) *asyncapi.Document {
	t.Helper()
	doc, err := resolver.New(loader.MapSource{"api.yaml": text}).Bundle(context.Background(), "api.yaml")
	require.NoError(t, err)
	return doc
}

func texts(msgs []*Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Error())
	}
	return out
}

func TestValidateValidDocument(t *testing.T) {
	t.Parallel()

	doc := bundle(t, `
asyncapi: 3.0.0
info: {title: Orders, version: '1.0.0'}
servers:
  prod:
    host: kafka.example.com:9092
    protocol: kafka
channels:
  orders:
    address: orders.{region}
    parameters:
      region:
        enum: [eu, us]
    messages:
      created:
        payload:
          type: object
          properties:
            id: {type: string}
operations:
  publishOrder:
    action: send
    channel:
      $ref: '#/channels/orders'
    messages:
      - $ref: '#/channels/orders/messages/created'
`)

	r := New().Validate(doc)
	assert.True(t, r.Valid(), "errors: %v", texts(r.Errors))
	assert.False(t, r.HasWarnings(), "warnings: %v", texts(r.Warnings))
}

func TestValidateFindings(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		doc          string
		wantErrors   []string
		wantWarnings []string
	}{
		"missing version and info fields": {
			doc: `
info: {description: x}
`,
			wantErrors: []string{
				"asyncapi version is required",
				"Info: title is required",
				"Info: version is required",
			},
		},
		"unsupported version": {
			doc: `
asyncapi: 2.6.0
info: {title: x, version: '1'}
`,
			wantErrors: []string{`unsupported asyncapi version "2.6.0"`},
		},
		"server fields": {
			doc: `
asyncapi: 3.0.0
info: {title: x, version: '1'}
servers:
  dev:
    host: localhost
`,
			wantErrors: []string{"Server 'dev': protocol is required"},
		},
		"address parameters": {
			doc: `
asyncapi: 3.0.0
info: {title: x, version: '1'}
channels:
  user:
    address: users.{userId}
    parameters:
      tenant: {}
    messages:
      m:
        payload: {type: string}
`,
			wantErrors:   []string{`Channel 'user': address parameter "userId" has no matching parameter`},
			wantWarnings: []string{`Channel 'user': parameter "tenant" is not used in the address`},
		},
		"messages": {
			doc: `
asyncapi: 3.0.0
info: {title: x, version: '1'}
channels:
  empty: {}
  events:
    messages:
      bare: {name: bare}
      badHeaders:
        headers: {type: string}
        payload: {type: string}
`,
			wantErrors: []string{"Channel 'events' Message 'badHeaders' Headers: headers must be an object schema, got string"},
			wantWarnings: []string{
				"Channel 'empty': channel declares no messages",
				"Channel 'events' Message 'bare': message has no payload",
			},
		},
		"operation action and foreign message": {
			doc: `
asyncapi: 3.0.0
info: {title: x, version: '1'}
channels:
  a:
    messages:
      one: {payload: {type: string}}
  b:
    messages:
      two: {payload: {type: string}}
operations:
  publish:
    action: publish
    channel:
      $ref: '#/channels/a'
    messages:
      - $ref: '#/channels/b/messages/two'
`,
			wantErrors: []string{
				`Operation 'publish': action must be one of [send receive], got "publish"`,
				"Operation 'publish' Message #0: message is not declared on the operation's channel",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			r := New().Validate(bundle(t, tt.doc))
			assert.Equal(t, tt.wantErrors, texts(r.Errors))
			if tt.wantWarnings == nil {
				tt.wantWarnings = []string{}
			}
			assert.Equal(t, tt.wantWarnings, texts(r.Warnings))
			assert.Equal(t, len(tt.wantErrors) == 0, r.Valid())
		})
	}
}

func TestMessageFormatFull(t *testing.T) {
	t.Parallel()

	m := &Message{Severity: SeverityWarning, Context: "Channel 'a'", Text: "channel declares no messages", Hint: "add one"}
	assert.Equal(t, "  At: Channel 'a'\n  Warning: channel declares no messages\n  Hint: add one\n", m.FormatFull())

	m = &Message{Severity: SeverityError, Text: "asyncapi version is required"}
	assert.Equal(t, "asyncapi version is required", m.Error())
	assert.Equal(t, "  Error: asyncapi version is required\n", m.FormatFull())
	assert.Equal(t, "unknown", Severity(5).String())
}

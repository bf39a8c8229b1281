package cli

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/eventforge/asyncgen/internal/asyncapi"
	clierrors "github.com/eventforge/asyncgen/internal/errors"
	"github.com/eventforge/asyncgen/internal/generate"
	"github.com/eventforge/asyncgen/internal/testutil"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersDoc = `
asyncapi: 3.0.0
info: {title: Orders, version: '1.0.0'}
channels:
  orders:
    address: shop.orders
    messages:
      OrderCreated:
        payload:
          $ref: 'schemas.yaml#/Order'
operations:
  publishOrder:
    action: send
    channel: {$ref: '#/channels/orders'}
`

const ordersSchemas = `
Order:
  type: object
  required: [id]
  properties:
    id: {type: string, format: uuid}
    total: {type: number}
    customer:
      type: object
      properties:
        name: {type: string}
`

// writeOrders writes the orders document and returns the path of its root.
func writeOrders(t *testing.T) string {
	t.Helper()
	dir := testutil.WriteDocuments(t, map[string]string{
		"asyncapi.yaml": ordersDoc,
		"schemas.yaml":  ordersSchemas,
	})
	return filepath.Join(dir, "asyncapi.yaml")
}

// execute runs the command tree with args. Commands read the config and
// environment, so tests call testutil.IsolateConfig and do not run in
// parallel.
func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.json")))
	err := cmd.Execute()
	return out.String(), errOut.String(), ExitCode(err)
}

func TestAnalyzeCmd(t *testing.T) {
	testutil.IsolateConfig(t)
	path := writeOrders(t)

	stdout, stderr, code := execute(t, "analyze", path)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Document: "+path+" (2 files)")
	assert.Contains(t, stdout, "shop.orders")
	assert.Contains(t, stdout, "produce")
	assert.Contains(t, stdout, "OrderCreated -> Order")
	assert.Contains(t, stdout, "Types: 2 types in 2 waves")
}

func TestAnalyzeCmd_JSON(t *testing.T) {
	testutil.IsolateConfig(t)
	path := writeOrders(t)

	stdout, stderr, code := execute(t, "analyze", path, "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, path, rep.Document)
	assert.Len(t, rep.Files, 2)
	require.Len(t, rep.Channels, 1)
	assert.True(t, rep.Channels[0].Producer)
	assert.False(t, rep.Channels[0].Consumer)
	assert.Equal(t, [][]string{{"Customer"}, {"Order"}}, rep.Waves)
}

func TestTypesCmd(t *testing.T) {
	testutil.IsolateConfig(t)
	path := writeOrders(t)

	stdout, stderr, code := execute(t, "types", path)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Customer object (wave 1)")
	assert.Contains(t, stdout, "Order object (wave 2)")
	assert.Contains(t, stdout, "id        uuid.UUID  required")
	assert.Contains(t, stdout, "total     float64    = nil")
	assert.Contains(t, stdout, "customer  Customer   = nil")
}

func TestTypesCmd_OnlyAndOverrides(t *testing.T) {
	testutil.IsolateConfig(t)
	path := writeOrders(t)
	t.Setenv("ASYNCGEN_TYPES_UUID", "string")

	stdout, stderr, code := execute(t, "types", path, "--only", "Order", "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	require.Len(t, rep.Types, 1)
	assert.Equal(t, "Order", rep.Types[0].Name)
	assert.Equal(t, "string", rep.Types[0].Fields[0].Type.Name)
}

func TestValidateCmd(t *testing.T) {
	testutil.IsolateConfig(t)
	path := writeOrders(t)

	stdout, stderr, code := execute(t, "validate", path)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "OK "+path+" is valid (2 files)")

	dir := testutil.WriteDocuments(t, map[string]string{"api.yaml": `
asyncapi: 2.6.0
info: {title: x, version: '1'}
channels:
  quiet: {}
`})
	stdout, stderr, code = execute(t, "validate", filepath.Join(dir, "api.yaml"))
	assert.Equal(t, ExitValidationFailed, code)
	assert.Contains(t, stdout, `Error: unsupported asyncapi version "2.6.0"`)
	assert.Contains(t, stdout, "Warning: channel declares no messages")
	assert.Contains(t, stdout, "1 error, 1 warning")
	assert.Contains(t, stderr, "Validation Error")
}

func TestValidateCmd_FailOnWarnings(t *testing.T) {
	testutil.IsolateConfig(t)
	dir := testutil.WriteDocuments(t, map[string]string{"api.yaml": `
asyncapi: 3.0.0
info: {title: x, version: '1'}
channels:
  quiet: {}
`})
	path := filepath.Join(dir, "api.yaml")

	_, _, code := execute(t, "validate", path)
	assert.Equal(t, ExitSuccess, code)

	stdout, _, code := execute(t, "validate", path, "--fail-on-warnings", "--format", "json")
	assert.Equal(t, ExitValidationFailed, code)
	var rep report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Empty(t, rep.Errors)
	require.Len(t, rep.Warnings, 1)
	assert.Equal(t, "Channel 'quiet'", rep.Warnings[0].Context)
}

func TestGraphCmd(t *testing.T) {
	testutil.IsolateConfig(t)
	path := writeOrders(t)

	stdout, stderr, code := execute(t, "graph", path)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Schema Emission Waves")
	assert.Contains(t, stdout, "+- [Order] -> Customer")

	stdout, _, code = execute(t, "graph", path, "--compact")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Wave 1: [Customer]")

	stdout, _, code = execute(t, "graph", path, "--stats")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Total Waves: 2")

	stdout, _, code = execute(t, "graph", path, "--chain", "Order:Customer")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "Order -> Customer\n", stdout)

	_, stderr, code = execute(t, "graph", path, "--chain", "Customer:Order")
	assert.Equal(t, ExitInvalidArguments, code)
	assert.Contains(t, stderr, "Customer does not reference Order")
}

func TestDumpFormat(t *testing.T) {
	testutil.IsolateConfig(t)
	path := writeOrders(t)

	stdout, stderr, code := execute(t, "graph", path, "--format", "dump")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "(*cli.report)")
	assert.Contains(t, stdout, `"Customer"`)
}

func TestCommandErrors(t *testing.T) {
	testutil.IsolateConfig(t)
	path := writeOrders(t)
	unresolved := testutil.WriteDocuments(t, map[string]string{"api.yaml": `
asyncapi: 3.0.0
info: {title: x, version: '1'}
channels:
  orders:
    messages:
      m:
        payload: {$ref: '#/components/schemas/Missing'}
`})

	tests := map[string]struct {
		args     []string
		wantCode int
		wantErr  string
	}{
		"missing document argument": {
			args:     []string{"types"},
			wantCode: ExitInvalidArguments,
			wantErr:  "asyncgen types <document.yaml>",
		},
		"missing document": {
			args:     []string{"analyze", filepath.Join(t.TempDir(), "absent.yaml")},
			wantCode: ExitMissingInput,
			wantErr:  "AsyncAPI document not found",
		},
		"bad format": {
			args:     []string{"analyze", path, "--format", "xml"},
			wantCode: ExitInvalidArguments,
			wantErr:  "valid options: text, json, dump",
		},
		"bad collision policy": {
			args:     []string{"analyze", path, "--collision", "loud"},
			wantCode: ExitInvalidArguments,
			wantErr:  `invalid collision policy "loud"`,
		},
		"unresolved reference": {
			args:     []string{"analyze", filepath.Join(unresolved, "api.yaml")},
			wantCode: ExitValidationFailed,
			wantErr:  "#/components/schemas/Missing",
		},
		"unknown flag": {
			args:     []string{"analyze", path, "--bogus"},
			wantCode: ExitInvalidArguments,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, stderr, code := execute(t, tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestVersionCmd(t *testing.T) {
	testutil.IsolateConfig(t)
	stdout, _, code := execute(t, "version", "--plain")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "asyncgen dev\n")
	assert.Contains(t, stdout, "go: go")

	stdout, _, code = execute(t, "version")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Global config")
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":        {err: nil, want: ExitSuccess},
		"validation": {err: fmt.Errorf("%w: 1 error", generate.ErrValidationFailed), want: ExitValidationFailed},
		"collision":  {err: &asyncapi.CollisionError{Name: "X"}, want: ExitValidationFailed},
		"not found":  {err: &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, want: ExitMissingInput},
		"argument":   {err: clierrors.NewArgumentError("x"), want: ExitInvalidArguments},
		"config":     {err: clierrors.NewConfigError("x"), want: ExitInvalidArguments},
		"internal":   {err: fmt.Errorf("mapping schema A: %w", assert.AnError), want: ExitInternal},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

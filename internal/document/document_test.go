package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/qnexp/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParse_JSON(t *testing.T) {
	t.Parallel()

	// --- Act ---
	doc := Parse(context.Background(), "application.json", []byte(`{"roles": ["Sender"], "inputs": []}`), KindUnknown, Options{})

	// --- Assert ---
	require.True(t, doc.Parsed())
	assert.Empty(t, doc.Findings)
	assert.Equal(t, KindApplication, doc.Kind)
	assert.True(t, doc.Value.GetAttr("roles").Type().IsTupleType())
}

func TestParse_MalformedJSONIsAFinding(t *testing.T) {
	t.Parallel()

	doc := Parse(context.Background(), "application.json", []byte(`{"roles": ["Sender",]`), KindApplication, Options{})

	assert.False(t, doc.Parsed())
	require.Len(t, doc.Findings, 1)
	assert.Equal(t, report.KindMalformedDocument, doc.Findings[0].Kind)
	assert.ErrorIs(t, doc.Findings[0], report.ErrStructural)
}

func TestParse_TopLevelMustBeObject(t *testing.T) {
	t.Parallel()

	doc := Parse(context.Background(), "x.json", []byte(`[1, 2]`), KindApplication, Options{})

	assert.False(t, doc.Parsed())
	require.Len(t, doc.Findings, 1)
	assert.Contains(t, doc.Findings[0].Message, "top level must be an object")
}

func TestParse_RepairIsOptInAndWarns(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`{"roles": ["Sender", "Receiver",], "inputs": []}`)

	// --- Act ---
	doc := Parse(context.Background(), "application.json", src, KindApplication, Options{Repair: true})

	// --- Assert ---
	require.True(t, doc.Parsed())
	require.Len(t, doc.Findings, 1)
	assert.Equal(t, report.KindRepairedDocument, doc.Findings[0].Kind)
	assert.Equal(t, report.SeverityWarning, doc.Findings[0].Severity)
	assert.Equal(t, 2, doc.Value.GetAttr("roles").LengthInt())
}

func TestParse_HCLMatchesJSON(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	jsonSrc := `{"roles": ["Sender", "Receiver"], "inputs": [{"name": "phi", "input_type": "number", "default_value": 3.14, "scale_value": 0.1}]}`
	hclSrc := `
roles = ["Sender", "Receiver"]
inputs = [
  { name = "phi", input_type = "number", default_value = 3.14, scale_value = 0.1 },
]
`

	// --- Act ---
	j := Parse(context.Background(), "application.json", []byte(jsonSrc), KindUnknown, Options{})
	h := Parse(context.Background(), "application.hcl", []byte(hclSrc), KindUnknown, Options{})

	// --- Assert ---
	require.True(t, j.Parsed())
	require.True(t, h.Parsed())
	assert.Equal(t, KindApplication, h.Kind)
	assert.True(t, j.Value.RawEquals(h.Value), "JSON %#v\nHCL  %#v", j.Value, h.Value)
}

func TestParse_MalformedHCL(t *testing.T) {
	t.Parallel()

	doc := Parse(context.Background(), "application.hcl", []byte("roles = [\n"), KindApplication, Options{})

	assert.False(t, doc.Parsed())
	require.NotEmpty(t, doc.Findings)
	assert.Equal(t, report.KindMalformedDocument, doc.Findings[0].Kind)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "networks.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"networks": {}}`), 0o600))

	doc, err := LoadFile(context.Background(), path, KindUnknown, Options{})
	require.NoError(t, err)
	assert.Equal(t, KindNetwork, doc.Kind)
	assert.Equal(t, path, doc.Name)

	_, err = LoadFile(context.Background(), filepath.Join(dir, "missing.json"), KindNetwork, Options{})
	assert.Error(t, err)
}

func TestDetectKind(t *testing.T) {
	t.Parallel()

	obj := func(keys ...string) cty.Value {
		m := map[string]cty.Value{}
		for _, k := range keys {
			m[k] = cty.True
		}
		return cty.ObjectVal(m)
	}

	assert.Equal(t, KindExperiment, DetectKind(obj("meta", "asset")))
	assert.Equal(t, KindNetworkView, DetectKind(obj("networks", "roles")))
	assert.Equal(t, KindNetwork, DetectKind(obj("networks")))
	assert.Equal(t, KindApplication, DetectKind(obj("roles", "inputs")))
	assert.Equal(t, KindUnknown, DetectKind(obj("other")))
	assert.Equal(t, KindUnknown, DetectKind(cty.StringVal("x")))
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("spreadsheet")
	assert.Error(t, err)
}

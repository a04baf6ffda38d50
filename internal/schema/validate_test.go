package schema

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/specialistvlad/qnexp/internal/document"
	"github.com/specialistvlad/qnexp/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func parse(t *testing.T, name, src string) cty.Value {
	t.Helper()
	doc := document.Parse(context.Background(), name, []byte(src), document.KindUnknown, document.Options{})
	require.True(t, doc.Parsed(), "fixture must parse: %v", doc.Findings)
	return doc.Value
}

// paths returns "Kind@path" for each finding, in order.
func paths(fs report.Findings) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, string(f.Kind)+"@"+f.Path)
	}
	return out
}

const validApplication = `{
	"roles": ["Sender", "Receiver"],
	"inputs": [
		{"name": "phi", "input_type": "number", "default_value": 3.14,
		 "minimum_value": 0, "maximum_value": 6.3, "unit": "rad", "scale_value": 0.1, "roles": ["Sender"]},
		{"name": "state", "input_type": "qubit", "default_value": "plus"}
	]
}`

func TestValidate_ValidApplication(t *testing.T) {
	t.Parallel()

	findings := Validate(parse(t, "application.json", validApplication), document.KindApplication)

	assert.Empty(t, findings)
}

func TestValidate_ApplicationShapeErrors(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `{
		"colour": "blue",
		"inputs": [
			{"name": "phi", "input_type": "float", "default_value": 1, "scale_value": "big"},
			{"input_type": "number", "default_value": 1, "roles": ["Sender", 3]}
		]
	}`

	// --- Act ---
	findings := Validate(parse(t, "application.json", src), document.KindApplication)

	// --- Assert ---
	assert.ElementsMatch(t, []string{
		"UnknownField@colour",
		"MissingField@roles",
		"InvalidEnum@inputs[0].input_type",
		"WrongType@inputs[0].scale_value",
		"MissingField@inputs[1].name",
		"WrongType@inputs[1].roles[1]",
	}, paths(findings))
	assert.Len(t, findings.Warnings(), 1, "unknown fields are warnings")
}

func TestValidate_ApplicationCrossField(t *testing.T) {
	t.Parallel()

	src := `{
		"roles": ["Sender", "Sender"],
		"inputs": [
			{"name": "phi", "input_type": "number", "default_value": "pi", "minimum_value": 7, "maximum_value": 6.3},
			{"name": "phi", "input_type": "qubit", "default_value": "plus", "maximum_value": 1}
		]
	}`

	findings := Validate(parse(t, "application.json", src), document.KindApplication)

	assert.ElementsMatch(t, []string{
		"DuplicateName@roles[1]",
		"DuplicateName@inputs[1].name",
		"InvalidBounds@inputs[0].minimum_value",
		"WrongType@inputs[0].default_value",
		"IgnoredField@inputs[1].maximum_value",
	}, paths(findings))

	bounds := findings.OfKind(report.KindInvalidBounds)
	require.Len(t, bounds, 1)
	assert.ErrorIs(t, bounds[0], report.ErrConstraint)
	assert.Contains(t, bounds[0].Message, "7 is greater than maximum_value 6.3")
}

func TestValidate_EmptyRoles(t *testing.T) {
	t.Parallel()

	findings := Validate(parse(t, "application.json", `{"roles": []}`), document.KindApplication)

	assert.Equal(t, []string{"InvalidValue@roles"}, paths(findings))
}

func TestValidate_HCLAndJSONGiveSameFindings(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	jsonSrc := `{"roles": ["Sender"], "inputs": [{"name": "phi", "input_type": "vector", "default_value": 1, "scale_value": "x"}], "extra": 1}`
	hclSrc := `
roles  = ["Sender"]
inputs = [{ name = "phi", input_type = "vector", default_value = 1, scale_value = "x" }]
extra  = 1
`

	// --- Act ---
	fromJSON := Validate(parse(t, "application.json", jsonSrc), document.KindApplication)
	fromHCL := Validate(parse(t, "application.hcl", hclSrc), document.KindApplication)

	// --- Assert ---
	require.NotEmpty(t, fromJSON)
	assert.Equal(t, fromJSON, fromHCL)
}

func TestValidate_Catalog(t *testing.T) {
	t.Parallel()

	src := `{
		"networks": {
			"randstad": {"slug": "randstad", "nodes": [{"slug": "delft", "qubits": [{"name": "t1", "value": 0}]}],
				"channels": [{"slug": "c1", "node1": "delft"}]},
			"nl": {"slug": "netherlands", "nodes": []}
		},
		"templates": [{"name": "t1", "minimum_value": 5, "maximum_value": 1}]
	}`

	findings := Validate(parse(t, "networks.json", src), document.KindNetwork)

	assert.ElementsMatch(t, []string{
		"MissingField@networks.randstad.channels[0].node2",
		"InvalidValue@networks.nl.slug",
		"InvalidBounds@templates[0].minimum_value",
	}, paths(findings))
}

const validExperiment = `{
	"meta": {"name": "exp1", "application": {"slug": "teleport"}, "network": "randstad",
	         "backend": {"location": "local", "type": "local_netsquid"}, "number_of_rounds": 1},
	"asset": {
		"network": {"slug": "randstad", "name": "Randstad", "nodes": [{"slug": "delft"}], "channels": [],
		            "roles": {"Sender": "delft"}},
		"application": [{"name": "phi", "value": 3.14, "scale_value": 0.1}]
	}
}`

func TestValidate_ValidExperiment(t *testing.T) {
	t.Parallel()

	findings := Validate(parse(t, "experiment.json", validExperiment), document.KindExperiment)

	assert.Empty(t, findings)
}

func TestValidate_ExperimentErrors(t *testing.T) {
	t.Parallel()

	src := `{
		"meta": {"application": {"slug": "teleport"}, "network": "amsterdam",
		         "backend": {"location": "cloud"}, "number_of_rounds": 0},
		"asset": {
			"network": {"slug": "randstad", "nodes": [{"slug": "delft"}], "roles": {"Sender": 1}},
			"application": [{"name": "phi"}, {"name": "phi"}]
		}
	}`

	findings := Validate(parse(t, "experiment.json", src), document.KindExperiment)

	assert.ElementsMatch(t, []string{
		"InvalidValue@meta.number_of_rounds",
		"UnsupportedBackend@meta.backend.location",
		"NetworkMismatch@meta.network",
		"WrongType@asset.network.roles.Sender",
		"DuplicateName@asset.application[1].name",
	}, paths(findings))
	assert.Equal(t, report.SeverityWarning, findings.OfKind(report.KindUnsupportedBackend)[0].Severity)
}

func TestValidate_ExperimentRoundsMustBeInteger(t *testing.T) {
	t.Parallel()

	src := `{"meta": {"application": {"slug": "a"}, "backend": {"location": "local"}, "number_of_rounds": 1.5},
	         "asset": {"network": {"slug": "n", "nodes": [], "roles": {}}}}`

	findings := Validate(parse(t, "experiment.json", src), document.KindExperiment)

	assert.Equal(t, []string{"WrongType@meta.number_of_rounds"}, paths(findings))
}

func TestValidate_NotAnObject(t *testing.T) {
	t.Parallel()

	findings := Validate(cty.StringVal("x"), document.KindApplication)

	require.Len(t, findings, 1)
	assert.Equal(t, report.KindMalformedDocument, findings[0].Kind)
	assert.NotEmpty(t, Validate(cty.NilVal, document.KindApplication))
}

func TestJSONSchema(t *testing.T) {
	t.Parallel()

	// --- Act ---
	s, err := JSONSchema(document.KindApplication)
	require.NoError(t, err)
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	// --- Assert ---
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "object", decoded["type"])
	assert.Equal(t, []any{"roles"}, decoded["required"])

	props := decoded["properties"].(map[string]any)
	inputs := props["inputs"].(map[string]any)
	assert.Equal(t, "array", inputs["type"])
	items := inputs["items"].(map[string]any)
	inputType := items["properties"].(map[string]any)["input_type"].(map[string]any)
	assert.Equal(t, []any{"number", "qubit"}, inputType["enum"])

	_, err = JSONSchema(document.KindUnknown)
	assert.Error(t, err)
}

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const applicationJSON = `{
	"name": "teleport",
	"roles": ["Sender", "Receiver"],
	"inputs": [
		{"name": "phi", "input_type": "number", "default_value": 3.14,
		 "minimum_value": 0, "maximum_value": 6.3, "unit": "rad", "scale_value": 0.1, "roles": ["Sender"]},
		{"name": "state", "input_type": "qubit", "default_value": "plus"}
	]
}`

const catalogJSON = `{
	"networks": {
		"randstad": {
			"slug": "randstad", "name": "Randstad",
			"nodes": [
				{"slug": "delft", "name": "Delft"},
				{"slug": "the-hague", "name": "The Hague"},
				{"slug": "leiden", "name": "Leiden"}
			],
			"channels": [
				{"slug": "delft-the-hague", "node1": "delft", "node2": "the-hague",
				 "parameters": [{"name": "fidelity", "value": 0.95, "scale_value": 1, "unit": ""}]},
				{"slug": "the-hague-leiden", "node1": "the-hague", "node2": "leiden",
				 "parameters": [{"name": "fidelity", "value": 0.9, "scale_value": 1, "unit": ""}]}
			]
		},
		"single": {"slug": "single", "name": "Single", "nodes": [{"slug": "a", "name": "A"}], "channels": []}
	}
}`

func experimentJSON(sender, receiver string) string {
	return fmt.Sprintf(`{
	"meta": {"name": "exp", "application": {"slug": "teleport"}, "network": "randstad",
	         "backend": {"location": "local", "type": "local_netsquid"}, "number_of_rounds": 1},
	"asset": {
		"network": {
			"slug": "randstad", "name": "Randstad",
			"nodes": [
				{"slug": "delft", "name": "Delft"},
				{"slug": "the-hague", "name": "The Hague"},
				{"slug": "leiden", "name": "Leiden"}
			],
			"channels": [
				{"slug": "delft-the-hague", "node1": "delft", "node2": "the-hague",
				 "parameters": [{"name": "fidelity", "value": 0.95, "scale_value": 1, "unit": ""}]},
				{"slug": "the-hague-leiden", "node1": "the-hague", "node2": "leiden",
				 "parameters": [{"name": "fidelity", "value": 0.9, "scale_value": 1, "unit": ""}]}
			],
			"roles": {"Sender": %q, "Receiver": %q}
		},
		"application": []
	}
}`, sender, receiver)
}

// workspace lays out an application directory, a catalog and experiments.
type workspace struct {
	root, app, catalog, experiments string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	root := t.TempDir()
	ws := workspace{
		root:        root,
		app:         filepath.Join(root, "app"),
		catalog:     filepath.Join(root, "networks.json"),
		experiments: filepath.Join(root, "experiments"),
	}
	write(t, filepath.Join(ws.app, "application.json"), applicationJSON)
	write(t, ws.catalog, catalogJSON)
	return ws
}

func (ws workspace) experiment(t *testing.T, name, sender, receiver string) string {
	t.Helper()
	path := filepath.Join(ws.experiments, name, "experiment.json")
	write(t, path, experimentJSON(sender, receiver))
	return path
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRun_ValidateAllValid(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ws := newWorkspace(t)
	a := ws.experiment(t, "a", "delft", "the-hague")
	b := ws.experiment(t, "b", "leiden", "delft")
	app, out, logs := SetupAppTest(t, Config{
		Command:     CommandValidate,
		AppPath:     ws.app,
		CatalogPath: ws.catalog,
		Paths:       []string{ws.experiments},
	})

	// --- Act ---
	err := app.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, out.String(), a+": valid")
	assert.Contains(t, out.String(), b+": valid")
	assert.Contains(t, logs.String(), `"run_id":"`+app.RunID()+`"`)
	assert.Contains(t, logs.String(), "Validation finished.")
}

func TestRun_ValidateReportsInvalidExperiment(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ws := newWorkspace(t)
	ws.experiment(t, "good", "delft", "the-hague")
	bad := ws.experiment(t, "bad", "delft", "delft")
	app, out, _ := SetupAppTest(t, Config{
		Command:     CommandValidate,
		AppPath:     ws.app,
		CatalogPath: ws.catalog,
		Paths:       []string{ws.experiments},
		WorkerCount: 1,
	})

	// --- Act ---
	err := app.Run(context.Background())

	// --- Assert ---
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out.String(), bad+": invalid")
	assert.Contains(t, out.String(), "DuplicateNodeAssignment")
	assert.Contains(t, out.String(), "1 error(s), 0 warning(s)")
}

func TestRun_ValidateJSONFormat(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ws := newWorkspace(t)
	path := ws.experiment(t, "a", "delft", "the-hague")
	app, out, _ := SetupAppTest(t, Config{
		Command:     CommandValidate,
		AppPath:     filepath.Join(ws.app, "application.json"),
		CatalogPath: ws.catalog,
		Paths:       []string{path},
		Format:      "json",
	})

	// --- Act ---
	err := app.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	var got []struct {
		Experiment string `json:"experiment"`
		Valid      bool   `json:"valid"`
		Digest     string `json:"digest"`
		Report     struct {
			Errors int `json:"errors"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal([]byte(out.String()), &got))
	require.Len(t, got, 1)
	assert.Equal(t, path, got[0].Experiment)
	assert.True(t, got[0].Valid)
	assert.Len(t, got[0].Digest, 64)
	assert.Zero(t, got[0].Report.Errors)
}

func TestRun_ValidateMissingExperiments(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t)
	require.NoError(t, os.MkdirAll(ws.experiments, 0o755))
	app, _, _ := SetupAppTest(t, Config{
		Command:     CommandValidate,
		AppPath:     ws.app,
		CatalogPath: ws.catalog,
		Paths:       []string{ws.experiments},
	})

	err := app.Run(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, err.Error(), "no experiment documents found")
}

func TestRun_ComposeWritesAsset(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ws := newWorkspace(t)
	path := ws.experiment(t, "a", "delft", "the-hague")
	outPath := filepath.Join(ws.root, "out", "asset.json")
	app, _, _ := SetupAppTest(t, Config{
		Command:     CommandCompose,
		AppPath:     ws.app,
		CatalogPath: ws.catalog,
		Paths:       []string{path},
		OutPath:     outPath,
	})

	// --- Act ---
	err := app.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Sender": 0.314`)
	assert.Contains(t, string(raw), `"Receiver": "the-hague"`)
}

func TestRun_ComposeInvalidWritesReport(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t)
	path := ws.experiment(t, "a", "delft", "utrecht")
	app, out, _ := SetupAppTest(t, Config{
		Command:     CommandCompose,
		AppPath:     ws.app,
		CatalogPath: ws.catalog,
		Paths:       []string{path},
	})

	err := app.Run(context.Background())

	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, out.String(), "UnknownNode")
}

func TestRun_RenderWritesSimulatorInput(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ws := newWorkspace(t)
	path := ws.experiment(t, "a", "delft", "leiden")
	dir := filepath.Join(ws.root, "sim")
	app, out, _ := SetupAppTest(t, Config{
		Command:        CommandRender,
		AppPath:        ws.app,
		CatalogPath:    ws.catalog,
		Paths:          []string{path},
		OutPath:        dir,
		FullyConnected: true,
	})

	// --- Act ---
	err := app.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "network.yaml\nreceiver.yaml\nroles.yaml\nsender.yaml\n", out.String())

	raw, err := os.ReadFile(filepath.Join(dir, "roles.yaml"))
	require.NoError(t, err)
	var roles map[string]string
	require.NoError(t, yaml.Unmarshal(raw, &roles))
	assert.Equal(t, map[string]string{"sender": "delft", "receiver": "leiden"}, roles)
}

func TestRun_CreateAndValidateRoundTrip(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ws := newWorkspace(t)
	created := filepath.Join(ws.experiments, "new", "experiment.json")
	create, _, _ := SetupAppTest(t, Config{
		Command:     CommandCreate,
		AppPath:     ws.app,
		CatalogPath: ws.catalog,
		Network:     "randstad",
		Name:        "first",
		OutPath:     created,
	})

	// --- Act ---
	require.NoError(t, create.Run(context.Background()))
	validate, out, _ := SetupAppTest(t, Config{
		Command:     CommandValidate,
		AppPath:     ws.app,
		CatalogPath: ws.catalog,
		Paths:       []string{created},
	})
	err := validate.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, out.String(), created+": valid")
	raw, err := os.ReadFile(created)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"name": "first"`)
	assert.Contains(t, string(raw), `"type": "local_netsquid"`)
}

func TestRun_CreateUnknownNetwork(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t)
	app, _, _ := SetupAppTest(t, Config{
		Command:     CommandCreate,
		AppPath:     ws.app,
		CatalogPath: ws.catalog,
		Network:     "utrecht",
		Name:        "first",
	})

	err := app.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown network")
}

func TestRun_DeriveListsUsableNetworks(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t)
	app, out, _ := SetupAppTest(t, Config{Command: CommandDerive, AppPath: ws.app, CatalogPath: ws.catalog})

	require.NoError(t, app.Run(context.Background()))

	var view struct {
		Networks []string `json:"networks"`
		Roles    []string `json:"roles"`
	}
	require.NoError(t, json.Unmarshal([]byte(out.String()), &view))
	assert.Equal(t, []string{"randstad"}, view.Networks)
	assert.Equal(t, []string{"Sender", "Receiver"}, view.Roles)
}

func TestRun_DeriveRejectsBrokenApplication(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t)
	write(t, filepath.Join(ws.app, "application.json"), `{"name": "broken", "roles": "Sender"}`)
	app, out, _ := SetupAppTest(t, Config{Command: CommandDerive, AppPath: ws.app, CatalogPath: ws.catalog})

	err := app.Run(context.Background())

	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, out.String(), "WrongType")
}

func TestRun_Networks(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t)
	app, out, _ := SetupAppTest(t, Config{Command: CommandNetworks, CatalogPath: ws.catalog})

	require.NoError(t, app.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "SLUG"))
	assert.Contains(t, lines[1], "randstad")
	assert.Contains(t, lines[2], "single")
}

func TestRun_Schema(t *testing.T) {
	t.Parallel()

	app, out, _ := SetupAppTest(t, Config{Command: CommandSchema, Kind: "experiment"})

	require.NoError(t, app.Run(context.Background()))

	var s map[string]any
	require.NoError(t, json.Unmarshal([]byte(out.String()), &s))
	assert.Equal(t, "object", s["type"])
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	base := Config{Format: "text", LogFormat: "text", LogLevel: "info", WorkerCount: 1}

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid validate",
			mutate: func(c *Config) { c.Command, c.AppPath, c.CatalogPath, c.Paths = CommandValidate, "app", "networks.json", []string{"exp"} },
		},
		{
			name:    "validate needs inputs",
			mutate:  func(c *Config) { c.Command = CommandValidate },
			wantErr: "app is required; catalog is required; EXPERIMENT_PATH is required",
		},
		{
			name: "compose takes one path",
			mutate: func(c *Config) {
				c.Command, c.AppPath, c.CatalogPath, c.Paths = CommandCompose, "app", "networks.json", []string{"a", "b"}
			},
			wantErr: "EXPERIMENT_PATH takes exactly 1 value(s)",
		},
		{
			name:    "create needs network and name",
			mutate:  func(c *Config) { c.Command, c.AppPath, c.CatalogPath = CommandCreate, "app", "networks.json" },
			wantErr: "network is required; name is required",
		},
		{
			name:    "unknown schema kind",
			mutate:  func(c *Config) { c.Command, c.Kind = CommandSchema, "asset" },
			wantErr: "kind must be one of",
		},
		{
			name:    "unknown command",
			mutate:  func(c *Config) { c.Command = "launch" },
			wantErr: `command must be one of [compose create derive networks render schema validate], got "launch"`,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Command, c.Kind, c.LogFormat = CommandSchema, "application", "xml" },
			wantErr: "log-format must be one of [text json]",
		},
		{
			name:    "no workers",
			mutate:  func(c *Config) { c.Command, c.Kind, c.WorkerCount = CommandSchema, "application", 0 },
			wantErr: "workers must be at least 1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := base
			tc.mutate(&cfg)

			got, err := NewConfig(cfg)

			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, cfg, *got)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/modelapi/internal/config"
	"evalgo.org/modelapi/internal/logging"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildRegistry_Builtin(t *testing.T) {
	reg, err := buildRegistry(&config.Config{}, logging.Discard())
	require.NoError(t, err)

	assert.True(t, reg.Exists("organization"))
	assert.True(t, reg.Exists("tags"))
}

func TestBuildRegistry_WithModelsFile(t *testing.T) {
	path := writeFile(t, "models.yaml", `
models:
  - type: projects
    attributes: [title]
    relationships:
      owner:
        type: one
        entity: organization
`)

	reg, err := buildRegistry(&config.Config{Models: config.ModelsConfig{File: path}}, logging.Discard())
	require.NoError(t, err)

	assert.True(t, reg.Exists("projects"))
	assert.True(t, reg.HasRelationship("projects", "owner"))
}

func TestBuildRegistry_MissingFile(t *testing.T) {
	_, err := buildRegistry(&config.Config{Models: config.ModelsConfig{File: "/does/not/exist.yaml"}}, logging.Discard())
	assert.Error(t, err)
}

func TestRunValidate(t *testing.T) {
	cfg = &config.Config{}
	t.Cleanup(func() { validateUpdate = false })

	tests := []struct {
		name    string
		typ     string
		body    string
		update  bool
		wantErr bool
		wantOut string
	}{
		{
			name:    "valid create",
			typ:     "organization",
			body:    `{"data":{"type":"organization","attributes":{"name":"Acme"}}}`,
			wantOut: "✓ Document is valid",
		},
		{
			name:    "client id on create",
			typ:     "organization",
			body:    `{"data":{"type":"organization","id":"1"}}`,
			wantErr: true,
			wantOut: "Client generated identifiers are not supported",
		},
		{
			name:    "update without id",
			typ:     "tags",
			body:    `{"data":{"type":"tags"}}`,
			update:  true,
			wantErr: true,
			wantOut: "All update requests must contain the `id` member.",
		},
		{
			name:    "unknown type",
			typ:     "unicorns",
			body:    `{"data":{"type":"unicorns"}}`,
			wantErr: true,
			wantOut: "No API resource exists for type: unicorns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validateUpdate = tt.update
			path := writeFile(t, "doc.json", tt.body)

			var out bytes.Buffer
			validateCmd.SetOut(&out)

			err := runValidate(validateCmd, []string{tt.typ, path})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func TestRunModels(t *testing.T) {
	cfg = &config.Config{}

	var out bytes.Buffer
	modelsCmd.SetOut(&out)

	require.NoError(t, runModels(modelsCmd, nil))
	assert.Contains(t, out.String(), "type: organization")
	assert.Contains(t, out.String(), "type: tags")
}

func TestAPIURL(t *testing.T) {
	t.Cleanup(func() { queryAPIURL = "" })

	cfg = &config.Config{Server: config.ServerConfig{Host: "0.0.0.0", Port: 8100, BasePath: "/api/rest"}}
	assert.Equal(t, "http://localhost:8100/api/rest", apiURL())

	queryAPIURL = "http://example.test/api"
	assert.Equal(t, "http://example.test/api", apiURL())
}

package rdf

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	config, err := ParseConfig([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)

	level, err := config.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestParseConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown backend", "storage: {backend: bdb}"},
		{"unknown format", "format: rdfxml"},
		{"negative limit", "max_objects: -1"},
		{"bad level", "log_level: loud"},
		{"not yaml", "storage: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestConfigOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rdfstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: sqlite
  name: people
  options: dir='`+dir+`'
format: ntriples
namespaces:
  ex: http://example.org/
max_objects: 100
log_level: debug
`), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/Foo", config.NamespaceTable().Expand("ex:Foo"))

	store, err := config.Open()
	require.NoError(t, err)
	st := triple(t, store.World, "http://example.org/s", "http://example.org/p", `"o"`)
	require.True(t, store.Model.AddStatement(st))
	st.Close()
	assert.Equal(t, 1, store.Model.Size())
	assert.Equal(t, "people", store.Storage.Name())
	assert.True(t, store.Storage.SupportsContexts())
	store.Close()
	assert.FileExists(t, filepath.Join(dir, "people.db"))

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigOpenFailure(t *testing.T) {
	config := DefaultConfig()
	config.Storage.Options = "contexts=yes"
	_, err := config.Open()
	assert.ErrorIs(t, err, ErrAllocation)
}

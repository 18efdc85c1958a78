package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, 1000, c.DefaultRowLimit)
	assert.Equal(t, 32, c.MaxUploadMB)
	assert.Equal(t, 60*time.Minute, c.SessionTTL())
	assert.Equal(t, "sales", c.SampleDataset)
	assert.Equal(t, "info", c.LogLevel)
	assert.True(t, c.LogPretty)
	assert.Equal(t, 50, c.PreviewRows)
	assert.Equal(t, rune(0), c.Delimiter())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\ndefault_row_limit: 25\ncsv_delimiter: \";\"\n"), 0o644))
	t.Setenv("DATALOOM_SAMPLE_DATASET", "students")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.Addr)
	assert.Equal(t, 25, c.DefaultRowLimit)
	assert.Equal(t, ';', c.Delimiter())
	assert.Equal(t, "students", c.SampleDataset)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(path)
	require.NoError(t, err)
	c.PreviewRows = 10
	c.CSVDelimiter = "tab"
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, got.PreviewRows)
	assert.Equal(t, '\t', got.Delimiter())
}

func TestValidate(t *testing.T) {
	base := Global{DefaultRowLimit: 1, MaxUploadMB: 1}
	tests := []struct {
		name   string
		mutate func(*Global)
		ok     bool
	}{
		{"valid", func(*Global) {}, true},
		{"zero row limit", func(g *Global) { g.DefaultRowLimit = 0 }, false},
		{"zero upload", func(g *Global) { g.MaxUploadMB = 0 }, false},
		{"negative ttl", func(g *Global) { g.SessionTTLMin = -1 }, false},
		{"long delimiter", func(g *Global) { g.CSVDelimiter = ";;" }, false},
		{"auto delimiter", func(g *Global) { g.CSVDelimiter = "auto" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := base
			tt.mutate(&g)
			err := g.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

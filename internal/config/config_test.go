package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultExtensions, cfg.Scan.Extensions)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, Default().Log, cfg.Log)
}

func TestLoadFile(t *testing.T) {
	root := t.TempDir()
	content := `scan:
  extensions: [".C", ".h"]
  ignore: ["generated/"]
log:
  level: DEBUG
output:
  format: json
  color: false
`
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName+".yaml"), []byte(content), 0644))

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, []string{".c", ".h"}, cfg.Scan.Extensions)
	assert.Equal(t, []string{"generated/"}, cfg.Scan.Ignore)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Output.Color)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("CRUMBTRAIL_OUTPUT_FORMAT", "yaml")
	t.Setenv("CRUMBTRAIL_LOG_LEVEL", "error")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"extension": "scan:\n  extensions: [\"c\"]\n",
		"level":     "log:\n  level: loud\n",
		"format":    "output:\n  format: xml\n",
		"size":      "log:\n  max_size_mb: 0\n",
		"syntax":    "scan: [\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(root, FileName+".yaml"), []byte(content), 0644))

			_, err := Load(root)
			assert.Error(t, err)
		})
	}
}

func TestLoadErrorNamesConfigKey(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName+".yaml"), []byte("output:\n  format: xml\n"), 0644))
	_, err := Load(root)
	require.Error(t, err)
	assert.Equal(t, "output.format must satisfy oneof=text json yaml jsonl, got: xml", err.Error())

	root = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName+".yaml"), []byte("scan:\n  extensions: [\".c\", \"h\"]\n"), 0644))
	_, err = Load(root)
	require.Error(t, err)
	assert.Equal(t, "scan.extensions[1] must satisfy startswith=., got: h", err.Error())
}

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigShowCmd(t *testing.T) {
	t.Run("Should report values and their sources", func(t *testing.T) {
		t.Setenv("FSLSHIM_PARALLELISM", "4")
		cfgPath := filepath.Join(t.TempDir(), "fslshim.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("translate:\n  sparse_policy: error\n"), 0o600))

		cmd := newRootCmd(afero.NewMemMapFs())
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{
			"config", "show", "--sources", "-o", "json",
			"--config", cfgPath, "--env-file", "", "--log-level", "disabled",
		})
		require.NoError(t, cmd.Execute())

		var got struct {
			Config  map[string]any    `json:"config"`
			Sources map[string]string `json:"sources"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.EqualValues(t, 4, got.Config["translate.parallelism"])
		assert.Equal(t, "error", got.Config["translate.sparse_policy"])
		assert.Equal(t, "env", got.Sources["translate.parallelism"])
		assert.Equal(t, "yaml", got.Sources["translate.sparse_policy"])
		assert.Equal(t, "cli", got.Sources["runtime.log_level"])
		assert.Equal(t, "default", got.Sources["regressors.cache_size"])
	})

	t.Run("Should render a table by default", func(t *testing.T) {
		out, err := execute(t, afero.NewMemMapFs(), "config", "show")
		require.NoError(t, err)
		assert.Contains(t, out, "KEY")
		assert.Contains(t, out, "translate.output_format")
	})
}

func TestSchemaCmd(t *testing.T) {
	t.Run("Should print the batch document schema", func(t *testing.T) {
		out, err := execute(t, afero.NewMemMapFs(), "schema")
		require.NoError(t, err)
		var schema map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &schema))
		assert.Contains(t, schema, "properties")
		assert.Equal(t, "fslshim batch document", schema["title"])
	})

	t.Run("Should print the configuration schema", func(t *testing.T) {
		out, err := execute(t, afero.NewMemMapFs(), "schema", "--kind", "config")
		require.NoError(t, err)
		assert.Contains(t, out, "sparse_policy")
	})

	t.Run("Should write all schemas with --out", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		_, err := execute(t, fs, "schema", "--out", "/schemas")
		require.NoError(t, err)
		for _, name := range []string{"/schemas/batch.json", "/schemas/config.json"} {
			exists, err := afero.Exists(fs, name)
			require.NoError(t, err)
			assert.True(t, exists, name)
		}
	})

	t.Run("Should reject unknown schema kinds", func(t *testing.T) {
		_, err := execute(t, afero.NewMemMapFs(), "schema", "--kind", "nope")
		require.Error(t, err)
	})
}

func TestVersionCmd(t *testing.T) {
	t.Run("Should print build information", func(t *testing.T) {
		out, err := execute(t, afero.NewMemMapFs(), "version")
		require.NoError(t, err)
		assert.Contains(t, out, "fslshim")
	})

	t.Run("Should print build information as JSON", func(t *testing.T) {
		out, err := execute(t, afero.NewMemMapFs(), "version", "--json")
		require.NoError(t, err)
		var info map[string]string
		require.NoError(t, json.Unmarshal([]byte(out), &info))
		assert.Contains(t, info, "version")
	})
}

func TestExtractCLIFlags(t *testing.T) {
	t.Run("Should collect only explicitly set configuration flags", func(t *testing.T) {
		cmd := TranslateCmd(afero.NewMemMapFs())
		require.NoError(t, cmd.Flags().Set("parallelism", "3"))
		require.NoError(t, cmd.Flags().Set("output", "result.json"))
		assert.Equal(t, map[string]any{"parallelism": 3}, extractCLIFlags(cmd))
	})
}

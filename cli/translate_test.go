package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBatch = `
runs:
  - scans: run-1_bold.nii.gz
    session_info:
      repetition_time: 2.0
      dense: run-1.tsv
    contrasts:
      - name: taskA
        type: t
        weights: {condY: -1, condX: 1}
  - scans: run-2_bold.nii.gz
    session_info:
      repetition_time: 2.0
      dense: tables/run-2.tsv
    contrasts:
      - name: taskA
        type: t
        weights: {condX: 1, condY: -1}
`

func newTestFs(t *testing.T, batch string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/batch.yaml", []byte(batch), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/run-1.tsv", []byte("condX\tcondY\n1\t0\n0\t1\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/tables/run-2.tsv", []byte("condX\tcondY\n0\t1\n1\tn/a\n"), 0o644))
	return fs
}

func execute(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(fs)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	base := []string{"--config", "", "--env-file", "", "--log-level", "disabled"}
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTranslateCmd(t *testing.T) {
	t.Run("Should write the aggregate result as JSON", func(t *testing.T) {
		out, err := execute(t, newTestFs(t, testBatch), "translate", "/data/batch.yaml", "--format", "json")
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, 2.0, result["interscan_interval"])
		assert.Equal(t, []any{
			[]any{"taskA", "T", []any{"condX", "condY"}, []any{1.0, -1.0}},
		}, result["contrasts"])

		sessions := result["session_info"].([]any)
		require.Len(t, sessions, 2)
		second := sessions[1].(map[string]any)
		assert.Equal(t, "run-2_bold.nii.gz", second["scans"])
		assert.Equal(t, []any{}, second["cond"])
		assert.Equal(t, []any{
			map[string]any{"name": "condX", "val": []any{0.0, 1.0}},
			map[string]any{"name": "condY", "val": []any{1.0, nil}},
		}, second["regress"])
	})

	t.Run("Should choose YAML from the output file extension", func(t *testing.T) {
		fs := newTestFs(t, testBatch)
		out, err := execute(t, fs, "translate", "/data/batch.yaml", "--output", "/out/result.yml")
		require.NoError(t, err)
		assert.Empty(t, out)

		data, err := afero.ReadFile(fs, "/out/result.yml")
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(data, &decoded))
		assert.EqualValues(t, 2, decoded["interscan_interval"])
		assert.Len(t, decoded["session_info"], 2)
	})

	t.Run("Should render a summary on request", func(t *testing.T) {
		out, err := execute(t, newTestFs(t, testBatch), "translate", "/data/batch.yaml", "--format", "summary")
		require.NoError(t, err)
		assert.Contains(t, out, "FSL level-1 batch")
		assert.Contains(t, out, "run-2_bold.nii.gz")
		assert.Contains(t, out, "condX=+1 condY=-1")
	})

	t.Run("Should produce identical output with parallel workers", func(t *testing.T) {
		serial, err := execute(t, newTestFs(t, testBatch), "translate", "/data/batch.yaml", "--format", "json")
		require.NoError(t, err)
		parallel, err := execute(t, newTestFs(t, testBatch),
			"translate", "/data/batch.yaml", "--format", "json", "--parallelism", "4", "--cache-size", "0")
		require.NoError(t, err)
		assert.Equal(t, serial, parallel)
	})

	t.Run("Should resolve tables against the configured root", func(t *testing.T) {
		fs := newTestFs(t, testBatch)
		require.NoError(t, fs.MkdirAll("/tables/tables", 0o755))
		require.NoError(t, fs.Rename("/data/run-1.tsv", "/tables/run-1.tsv"))
		require.NoError(t, fs.Rename("/data/tables/run-2.tsv", "/tables/tables/run-2.tsv"))

		_, err := execute(t, fs, "translate", "/data/batch.yaml", "--format", "json")
		require.Error(t, err)

		_, err = execute(t, fs, "translate", "/data/batch.yaml", "--format", "json", "--regressors", "/tables")
		require.NoError(t, err)
	})

	t.Run("Should fail on differing inter-scan intervals", func(t *testing.T) {
		batch := `
runs:
  - scans: a
    session_info: {repetition_time: 2.0}
  - scans: b
    session_info: {repetition_time: 2.5}
`
		_, err := execute(t, newTestFs(t, batch), "translate", "/data/batch.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-constant inter-scan interval")
	})

	t.Run("Should fail on sparse regressors under the error policy", func(t *testing.T) {
		batch := `
runs:
  - scans: a
    session_info: {repetition_time: 2.0, sparse: events.tsv}
`
		_, err := execute(t, newTestFs(t, batch), "translate", "/data/batch.yaml", "--format", "json")
		require.NoError(t, err)

		_, err = execute(t, newTestFs(t, batch),
			"translate", "/data/batch.yaml", "--format", "json", "--sparse-policy", "error")
		require.Error(t, err)
	})

	t.Run("Should reject an invalid batch document", func(t *testing.T) {
		batch := "runs:\n  - session_info: {repetition_time: 2}\n"
		_, err := execute(t, newTestFs(t, batch), "translate", "/data/batch.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/data/batch.yaml")
	})

	t.Run("Should reject invalid configuration flags", func(t *testing.T) {
		_, err := execute(t, newTestFs(t, testBatch), "translate", "/data/batch.yaml", "--format", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load configuration")
	})

	t.Run("Should write the metrics textfile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fslshim.prom")
		_, err := execute(t, newTestFs(t, testBatch),
			"translate", "/data/batch.yaml", "--format", "json", "--metrics-file", path)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "fslshim_level1_translations_total")
		assert.Contains(t, string(data), `outcome="success"`)
	})
}

func TestResolveFormat(t *testing.T) {
	t.Run("Should keep explicit formats", func(t *testing.T) {
		format, err := resolveFormat(OutputFormatYAML, "out.json", &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, OutputFormatYAML, format)
	})

	t.Run("Should fall back to JSON for non-terminal writers", func(t *testing.T) {
		format, err := resolveFormat(OutputFormatAuto, "", &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, OutputFormatJSON, format)
	})

	t.Run("Should reject unknown formats", func(t *testing.T) {
		_, err := resolveFormat("xml", "", &bytes.Buffer{})
		assert.Error(t, err)
	})
}

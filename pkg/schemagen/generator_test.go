package schemagen

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	t.Run("Should write every schema to the output directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		paths, err := NewGenerator(fs).Generate(context.Background(), "/schemas")
		require.NoError(t, err)
		assert.Equal(t, []string{"/schemas/batch.json", "/schemas/config.json"}, paths)

		for _, path := range paths {
			data, err := afero.ReadFile(fs, path)
			require.NoError(t, err)
			var schema map[string]any
			require.NoError(t, json.Unmarshal(data, &schema), path)
			assert.Contains(t, schema, "properties")
		}
	})
}

func TestConfigSchema(t *testing.T) {
	t.Run("Should use configuration key names", func(t *testing.T) {
		data, err := ConfigSchema()
		require.NoError(t, err)

		var schema struct {
			Required   []string `json:"required"`
			Properties map[string]struct {
				Properties map[string]any `json:"properties"`
			} `json:"properties"`
		}
		require.NoError(t, json.Unmarshal(data, &schema))
		assert.Empty(t, schema.Required)
		require.Contains(t, schema.Properties, "translate")
		assert.Contains(t, schema.Properties["translate"].Properties, "sparse_policy")
		assert.Contains(t, schema.Properties["regressors"].Properties, "cache_size")
	})
}

func TestNames(t *testing.T) {
	t.Run("Should list schemas in sorted order", func(t *testing.T) {
		assert.Equal(t, []string{"batch", "config"}, Names())
	})
}

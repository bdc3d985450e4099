package monitoring

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	t.Run("Should use a no-op meter when disabled", func(t *testing.T) {
		svc, err := NewService(context.Background(), nil)
		require.NoError(t, err)
		assert.False(t, svc.IsInitialized())
		assert.NotNil(t, svc.Meter())
		assert.NotNil(t, svc.MeterProvider())
		assert.Nil(t, svc.Registry())
		assert.Error(t, svc.WriteTextfile(filepath.Join(t.TempDir(), "m.prom")))
		assert.NoError(t, svc.Shutdown(context.Background()))
	})

	t.Run("Should export instruments through the registry", func(t *testing.T) {
		ctx := context.Background()
		svc, err := NewService(ctx, &Config{Enabled: true})
		require.NoError(t, err)
		require.True(t, svc.IsInitialized())

		counter, err := svc.Meter().Int64Counter("fslshim_test_events_total")
		require.NoError(t, err)
		counter.Add(ctx, 3)

		families, err := svc.Registry().Gather()
		require.NoError(t, err)
		var names []string
		for _, f := range families {
			names = append(names, f.GetName())
		}
		assert.Contains(t, names, "fslshim_test_events_total")
		require.NoError(t, svc.Shutdown(ctx))
	})
}

func TestService_Shutdown(t *testing.T) {
	t.Run("Should write the configured textfile", func(t *testing.T) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "fslshim.prom")
		svc, err := NewService(ctx, &Config{Enabled: true, Textfile: path})
		require.NoError(t, err)

		counter, err := svc.Meter().Int64Counter("fslshim_test_runs_total")
		require.NoError(t, err)
		counter.Add(ctx, 2)

		require.NoError(t, svc.Shutdown(ctx))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "fslshim_test_runs_total")
	})

	t.Run("Should report textfile write failures", func(t *testing.T) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "missing", "dir", "fslshim.prom")
		svc, err := NewService(ctx, &Config{Enabled: true, Textfile: path})
		require.NoError(t, err)
		err = svc.Shutdown(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write metrics textfile")
	})
}

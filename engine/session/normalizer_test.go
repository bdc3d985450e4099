package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitlins-go/fslshim/engine/regressor"
)

func memorySource(t *testing.T, tables map[string]*regressor.Table) regressor.Source {
	t.Helper()
	source := regressor.NewMemorySource()
	for ref, table := range tables {
		require.NoError(t, source.Put(ref, table))
	}
	return source
}

func TestNormalizer_Normalize(t *testing.T) {
	t.Run("Should convert dense columns in table order", func(t *testing.T) {
		source := memorySource(t, map[string]*regressor.Table{
			"run1.tsv": {Columns: []regressor.Column{
				{Name: "trans_x", Values: []float64{0.1, 0.2}},
				{Name: "condA", Values: []float64{1, 0}},
			}},
		})
		n := NewNormalizer(source)

		out, err := n.Normalize(t.Context(), "run-1_bold.nii.gz", RunSessionInfo{RepetitionTime: 2, Dense: "run1.tsv"})

		require.NoError(t, err)
		assert.Equal(t, 2.0, out.InterscanInterval)
		assert.Equal(t, "run-1_bold.nii.gz", out.Info.Scans)
		assert.Empty(t, out.Info.Cond)
		assert.Equal(t, []Regressor{
			{Name: "trans_x", Val: []float64{0.1, 0.2}},
			{Name: "condA", Val: []float64{1, 0}},
		}, out.Info.Regress)
	})

	t.Run("Should copy regressor values out of the source table", func(t *testing.T) {
		table := &regressor.Table{Columns: []regressor.Column{{Name: "condA", Values: []float64{1, 2}}}}
		n := NewNormalizer(regressor.SourceFunc(func(context.Context, string) (*regressor.Table, error) {
			return table, nil
		}))
		info := RunSessionInfo{RepetitionTime: 2, Dense: "run1.tsv"}

		first, err := n.Normalize(t.Context(), "run-1_bold.nii.gz", info)
		require.NoError(t, err)
		first.Info.Regress[0].Val[0] = 99
		second, err := n.Normalize(t.Context(), "run-1_bold.nii.gz", info)

		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2}, table.Columns[0].Values)
		assert.Equal(t, []float64{1, 2}, second.Info.Regress[0].Val)
	})

	t.Run("Should yield an empty regressor list without a dense source", func(t *testing.T) {
		n := NewNormalizer(nil)

		out, err := n.Normalize(t.Context(), "run-1", RunSessionInfo{RepetitionTime: 1.5})

		require.NoError(t, err)
		require.NotNil(t, out.Info.Regress)
		assert.Empty(t, out.Info.Regress)
		assert.NotNil(t, out.Info.Cond)
	})

	t.Run("Should propagate load failures as DataLoadError", func(t *testing.T) {
		n := NewNormalizer(memorySource(t, nil))

		_, err := n.Normalize(t.Context(), "run-1", RunSessionInfo{RepetitionTime: 2, Dense: "missing.tsv"})

		var loadErr *regressor.DataLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "missing.tsv", loadErr.Ref)
	})

	t.Run("Should fail with DataLoadError when no source is configured", func(t *testing.T) {
		n := NewNormalizer(nil)

		_, err := n.Normalize(t.Context(), "run-1", RunSessionInfo{RepetitionTime: 2, Dense: "dense.tsv"})

		assert.ErrorIs(t, err, regressor.ErrTableNotFound)
	})

	t.Run("Should pass the context to the source", func(t *testing.T) {
		type key struct{}
		var seen any
		source := regressor.SourceFunc(func(ctx context.Context, _ string) (*regressor.Table, error) {
			seen = ctx.Value(key{})
			return &regressor.Table{}, nil
		})
		ctx := context.WithValue(t.Context(), key{}, "marker")

		_, err := NewNormalizer(source).Normalize(ctx, "run-1", RunSessionInfo{RepetitionTime: 2, Dense: "d"})

		require.NoError(t, err)
		assert.Equal(t, "marker", seen)
	})
}

func TestNormalizer_Sparse(t *testing.T) {
	t.Run("Should leave sparse sources untranslated under the warn policy", func(t *testing.T) {
		n := NewNormalizer(nil)

		out, err := n.Normalize(t.Context(), "run-1", RunSessionInfo{RepetitionTime: 2, Sparse: "sparse.h5"})

		require.NoError(t, err)
		assert.Empty(t, out.Info.Cond)
		assert.Empty(t, out.Info.Regress)
	})

	t.Run("Should fail under the error policy", func(t *testing.T) {
		n := NewNormalizer(nil, WithSparsePolicy(SparseError))

		_, err := n.Normalize(t.Context(), "run-1", RunSessionInfo{RepetitionTime: 2, Sparse: "sparse.h5"})

		assert.ErrorIs(t, err, ErrSparseUnsupported)
		assert.Contains(t, err.Error(), "sparse.h5")
	})
}

func TestParseSparsePolicy(t *testing.T) {
	t.Run("Should accept known policies", func(t *testing.T) {
		p, err := ParseSparsePolicy("")
		require.NoError(t, err)
		assert.Equal(t, SparseWarn, p)

		p, err = ParseSparsePolicy("ERROR")
		require.NoError(t, err)
		assert.Equal(t, SparseError, p)
	})

	t.Run("Should reject unknown policies", func(t *testing.T) {
		_, err := ParseSparsePolicy("ignore")

		assert.Error(t, err)
	})
}

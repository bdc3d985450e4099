package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fitlins-go/fslshim/engine/regressor"
	"github.com/fitlins-go/fslshim/pkg/logger"
)

// ErrSparseUnsupported is returned under SparseError when a run references
// a sparse regressor source.
var ErrSparseUnsupported = errors.New("sparse regressors are not supported by the FSL level-1 translation")

// SparsePolicy selects what happens when a run carries a sparse source.
type SparsePolicy string

const (
	// SparseWarn logs the untranslated sparse source and continues.
	SparseWarn SparsePolicy = "warn"
	// SparseError fails the run.
	SparseError SparsePolicy = "error"
)

// ParseSparsePolicy validates a policy string.
func ParseSparsePolicy(s string) (SparsePolicy, error) {
	switch p := SparsePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", SparseWarn:
		return SparseWarn, nil
	case SparseError:
		return SparseError, nil
	default:
		return "", fmt.Errorf("unknown sparse policy %q (expected warn or error)", s)
	}
}

type Option func(*Normalizer)

// WithSparsePolicy overrides the default SparseWarn policy.
func WithSparsePolicy(p SparsePolicy) Option {
	return func(n *Normalizer) {
		n.sparse = p
	}
}

// Normalizer builds the backend run block from a run's session info.
type Normalizer struct {
	source regressor.Source
	sparse SparsePolicy
}

func NewNormalizer(source regressor.Source, opts ...Option) *Normalizer {
	n := &Normalizer{source: source, sparse: SparseWarn}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize reads the run's repetition time and converts its dense
// regressor table, column by column, into the regressor list. scans is
// passed through untouched.
func (n *Normalizer) Normalize(ctx context.Context, scans string, info RunSessionInfo) (*Normalized, error) {
	log := logger.FromContext(ctx)
	out := &Normalized{
		InterscanInterval: info.RepetitionTime,
		Info: RunInfo{
			Scans:   scans,
			Cond:    []Condition{},
			Regress: []Regressor{},
		},
	}
	if info.Sparse != "" {
		switch n.sparse {
		case SparseError:
			return nil, fmt.Errorf("%w: %s", ErrSparseUnsupported, info.Sparse)
		default:
			log.Warn("sparse regressors are not translated", "scans", scans, "sparse", info.Sparse)
		}
	}
	if info.Dense == "" {
		return out, nil
	}
	if n.source == nil {
		return nil, &regressor.DataLoadError{
			Ref: info.Dense,
			Err: fmt.Errorf("%w: no regressor source configured", regressor.ErrTableNotFound),
		}
	}
	table, err := n.source.Load(ctx, info.Dense)
	if err != nil {
		return nil, err
	}
	out.Info.Regress = make([]Regressor, len(table.Columns))
	for i, col := range table.Columns {
		out.Info.Regress[i] = Regressor{Name: col.Name, Val: slices.Clone(col.Values)}
	}
	log.Debug("dense regressors loaded", "scans", scans, "columns", len(table.Columns), "rows", table.Rows())
	return out, nil
}

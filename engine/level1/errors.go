package level1

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fitlins-go/fslshim/engine/contrast"
)

var (
	ErrEmptyBatch            = errors.New("no runs supplied")
	ErrInconsistentInterval  = errors.New("non-constant inter-scan interval across runs")
	ErrInconsistentContrasts = errors.New("contrasts varying across runs are not supported")
	ErrInvalidDocument       = errors.New("invalid batch document")
)

// EmptyBatchError is returned when Translate receives no runs.
type EmptyBatchError struct{}

func (e *EmptyBatchError) Error() string {
	return "no runs supplied: at least one run is required"
}

func (e *EmptyBatchError) Is(target error) bool {
	return target == ErrEmptyBatch
}

// InconsistentIntervalError lists the distinct inter-scan intervals found,
// in ascending order.
type InconsistentIntervalError struct {
	Values []float64
}

func (e *InconsistentIntervalError) Error() string {
	values := make([]string, len(e.Values))
	for i, v := range e.Values {
		values[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return fmt.Sprintf(
		"%s: found %d distinct values [%s]",
		ErrInconsistentInterval, len(e.Values), strings.Join(values, ", "),
	)
}

func (e *InconsistentIntervalError) Is(target error) bool {
	return target == ErrInconsistentInterval
}

// InconsistentContrastsError names the first run whose encoded contrasts
// differ from run 0.
type InconsistentContrastsError struct {
	Run       int
	Reference []contrast.Encoded
	Got       []contrast.Encoded
}

func (e *InconsistentContrastsError) Error() string {
	msg := fmt.Sprintf("%s: run %d differs from run 0", ErrInconsistentContrasts, e.Run)
	if detail := describeContrastDiff(e.Reference, e.Got); detail != "" {
		msg += " (" + detail + ")"
	}
	return msg
}

func (e *InconsistentContrastsError) Is(target error) bool {
	return target == ErrInconsistentContrasts
}

func describeContrastDiff(ref, got []contrast.Encoded) string {
	if len(ref) != len(got) {
		return fmt.Sprintf("%d contrasts, expected %d", len(got), len(ref))
	}
	for i := range ref {
		if ref[i].Equal(got[i]) {
			continue
		}
		if ref[i].Name != got[i].Name {
			return fmt.Sprintf("contrast %d is %q, expected %q", i, got[i].Name, ref[i].Name)
		}
		return fmt.Sprintf(
			"contrast %q has conditions %v weights %v, expected conditions %v weights %v",
			ref[i].Name, got[i].Conditions, got[i].Weights, ref[i].Conditions, ref[i].Weights,
		)
	}
	return ""
}

// RunError wraps a failure that happened while translating a single run.
type RunError struct {
	Index int
	Scans string
	Err   error
}

func (e *RunError) Error() string {
	if e.Scans == "" {
		return fmt.Sprintf("run %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("run %d (%s): %v", e.Index, e.Scans, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// DocumentError reports a batch document that cannot be decoded.
type DocumentError struct {
	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInvalidDocument, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func (e *DocumentError) Is(target error) bool {
	return target == ErrInvalidDocument
}

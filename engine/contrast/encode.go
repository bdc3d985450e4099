package contrast

import (
	"encoding/json"
	"fmt"
	"sort"
)

// KindT is the statistic tag the FSL backend expects for t contrasts.
const KindT = "T"

// Encoded is the backend tuple (name, kind, conditions, weights). Conditions
// are sorted by name and Weights[i] belongs to Conditions[i].
type Encoded struct {
	Name       string
	Kind       string
	Conditions []string
	Weights    []float64
}

// Translate encodes specs in order. It fails on the first contrast whose type
// cannot be encoded.
func Translate(specs []Spec) ([]Encoded, error) {
	out := make([]Encoded, 0, len(specs))
	for _, spec := range specs {
		enc, err := Encode(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, enc)
	}
	return out, nil
}

// Encode converts a single contrast.
func Encode(spec Spec) (Encoded, error) {
	switch c := spec.(type) {
	case TContrast:
		return encodeT(c), nil
	case *TContrast:
		if c == nil {
			return Encoded{}, fmt.Errorf("contrast is nil")
		}
		return encodeT(*c), nil
	case FContrast:
		return Encoded{}, &UnsupportedContrastTypeError{Name: c.Name, Type: string(c.ContrastType())}
	case *FContrast:
		if c == nil {
			return Encoded{}, fmt.Errorf("contrast is nil")
		}
		return Encoded{}, &UnsupportedContrastTypeError{Name: c.Name, Type: string(c.ContrastType())}
	case nil:
		return Encoded{}, fmt.Errorf("contrast is nil")
	default:
		return Encoded{}, &UnsupportedContrastTypeError{
			Name: spec.ContrastName(),
			Type: string(spec.ContrastType()),
		}
	}
}

func encodeT(c TContrast) Encoded {
	conditions := make([]string, 0, len(c.Weights))
	for cond := range c.Weights {
		conditions = append(conditions, cond)
	}
	sort.Strings(conditions)
	weights := make([]float64, len(conditions))
	for i, cond := range conditions {
		weights[i] = c.Weights[cond]
	}
	return Encoded{
		Name:       c.Name,
		Kind:       KindT,
		Conditions: conditions,
		Weights:    weights,
	}
}

// Equal reports whether two encoded sequences are structurally identical,
// order included.
func Equal(a, b []Encoded) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Equal compares two encoded contrasts field by field. Weights use float
// equality, so NaN never matches.
func (e Encoded) Equal(other Encoded) bool {
	if e.Name != other.Name || e.Kind != other.Kind {
		return false
	}
	if len(e.Conditions) != len(other.Conditions) || len(e.Weights) != len(other.Weights) {
		return false
	}
	for i := range e.Conditions {
		if e.Conditions[i] != other.Conditions[i] {
			return false
		}
	}
	for i := range e.Weights {
		if e.Weights[i] != other.Weights[i] {
			return false
		}
	}
	return true
}

// MarshalJSON writes the tuple form ["name", "T", [conditions], [weights]].
func (e Encoded) MarshalJSON() ([]byte, error) {
	conditions := e.Conditions
	if conditions == nil {
		conditions = []string{}
	}
	weights := e.Weights
	if weights == nil {
		weights = []float64{}
	}
	return json.Marshal([]any{e.Name, e.Kind, conditions, weights})
}

func (e *Encoded) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("failed to decode contrast tuple: %w", err)
	}
	if len(parts) != 4 {
		return fmt.Errorf("contrast tuple must have 4 elements, got %d", len(parts))
	}
	var out Encoded
	if err := json.Unmarshal(parts[0], &out.Name); err != nil {
		return fmt.Errorf("failed to decode contrast name: %w", err)
	}
	if err := json.Unmarshal(parts[1], &out.Kind); err != nil {
		return fmt.Errorf("failed to decode contrast kind: %w", err)
	}
	if err := json.Unmarshal(parts[2], &out.Conditions); err != nil {
		return fmt.Errorf("failed to decode contrast conditions: %w", err)
	}
	if err := json.Unmarshal(parts[3], &out.Weights); err != nil {
		return fmt.Errorf("failed to decode contrast weights: %w", err)
	}
	if len(out.Conditions) != len(out.Weights) {
		return fmt.Errorf(
			"contrast %q has %d conditions but %d weights",
			out.Name, len(out.Conditions), len(out.Weights),
		)
	}
	*e = out
	return nil
}

// MarshalYAML mirrors the JSON tuple form.
func (e Encoded) MarshalYAML() (any, error) {
	conditions := e.Conditions
	if conditions == nil {
		conditions = []string{}
	}
	weights := e.Weights
	if weights == nil {
		weights = []float64{}
	}
	return []any{e.Name, e.Kind, conditions, weights}, nil
}

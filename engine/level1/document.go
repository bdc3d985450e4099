package level1

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/fitlins-go/fslshim/engine/contrast"
	"github.com/fitlins-go/fslshim/engine/session"
)

// Document is the on-disk batch description: one entry per run, in the
// order the runs should be modeled.
type Document struct {
	Runs []RunDocument `json:"runs" yaml:"runs" mapstructure:"runs" validate:"dive" jsonschema:"description=Runs to combine into one FSL level-1 model"`
}

// RunDocument is the per-run entry of a batch document.
type RunDocument struct {
	Scans       string                 `json:"scans"               yaml:"scans"               mapstructure:"scans"        validate:"required" jsonschema:"description=Opaque identifier of the run's BOLD series"`
	SessionInfo session.RunSessionInfo `json:"session_info"        yaml:"session_info"        mapstructure:"session_info"`
	Contrasts   []contrast.Raw         `json:"contrasts,omitempty" yaml:"contrasts,omitempty" mapstructure:"contrasts"    validate:"dive"`
}

// DecodeDocument parses a YAML or JSON batch document, checks it against the
// batch schema and decodes it into a Document.
func DecodeDocument(data []byte) (*Document, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, &DocumentError{Err: errors.New("document is empty")}
	}
	var parsed any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, &DocumentError{Err: fmt.Errorf("failed to parse document: %w", err)}
	}
	instance, err := toJSONValue(parsed)
	if err != nil {
		return nil, &DocumentError{Err: err}
	}
	if err := validateAgainstSchema(instance); err != nil {
		return nil, &DocumentError{Err: err}
	}
	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "mapstructure",
		Result:  &doc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create document decoder: %w", err)
	}
	if err := decoder.Decode(instance); err != nil {
		return nil, &DocumentError{Err: fmt.Errorf("failed to decode document: %w", err)}
	}
	if err := validator.New().Struct(&doc); err != nil {
		return nil, &DocumentError{Err: fmt.Errorf("document validation failed: %w", err)}
	}
	return &doc, nil
}

// toJSONValue round-trips a YAML value through encoding/json so that the
// schema validator and the decoder only see JSON types.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("document is not representable as JSON: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}
	return out, nil
}

// ToRuns converts the document into translator input, parsing contrast type
// tags into their typed form.
func (d *Document) ToRuns() []Run {
	runs := make([]Run, len(d.Runs))
	for i := range d.Runs {
		runs[i] = Run{
			Scans:     d.Runs[i].Scans,
			Session:   d.Runs[i].SessionInfo,
			Contrasts: contrast.ParseAll(d.Runs[i].Contrasts),
		}
	}
	return runs
}

package session

// RunSessionInfo is the per-run timing and regressor description produced
// by the model-building step.
type RunSessionInfo struct {
	RepetitionTime float64 `json:"repetition_time"  yaml:"repetition_time"  mapstructure:"repetition_time" validate:"gt=0" jsonschema:"exclusiveMinimum=0,description=Inter-scan interval in seconds"`
	Dense          string  `json:"dense,omitempty"  yaml:"dense,omitempty"  mapstructure:"dense"                            jsonschema:"oneof_type=string;null,description=Reference to a dense regressor table"`
	Sparse         string  `json:"sparse,omitempty" yaml:"sparse,omitempty" mapstructure:"sparse"                           jsonschema:"oneof_type=string;null,description=Reference to a sparse regressor source (not translated)"`
}

// Condition is a reserved event-based condition entry. The FSL level-1
// translation never emits conditions; regressors carry the design.
type Condition struct {
	Name      string    `json:"name"      yaml:"name"`
	Onset     []float64 `json:"onset"     yaml:"onset"`
	Duration  []float64 `json:"duration"  yaml:"duration"`
	Amplitude []float64 `json:"amplitude" yaml:"amplitude"`
}

// Regressor is one dense regressor column.
type Regressor struct {
	Name string    `json:"name" yaml:"name"`
	Val  []float64 `json:"val"  yaml:"val"`
}

// RunInfo is the per-run block handed to the FSL backend.
type RunInfo struct {
	Scans   string      `json:"scans"   yaml:"scans"`
	Cond    []Condition `json:"cond"    yaml:"cond"`
	Regress []Regressor `json:"regress" yaml:"regress"`
}

// Normalized pairs a run's inter-scan interval with its backend block.
type Normalized struct {
	InterscanInterval float64
	Info              RunInfo
}

package contrast

// Type is the contrast statistic tag used in model descriptions.
type Type string

const (
	TypeT Type = "t"
	TypeF Type = "f"
)

// Spec is a contrast definition over named conditions. The concrete types
// are TContrast and FContrast.
type Spec interface {
	ContrastName() string
	ContrastType() Type
	isSpec()
}

// TContrast is a simple linear contrast: one weight per condition.
type TContrast struct {
	Name    string
	Weights map[string]float64
}

func (c TContrast) ContrastName() string { return c.Name }
func (c TContrast) ContrastType() Type   { return TypeT }
func (TContrast) isSpec()                {}

// FContrast holds every contrast the FSL backend cannot encode yet: f
// contrasts and any tag other than t. Tag keeps the tag as written; empty
// means f.
type FContrast struct {
	Name    string
	Tag     string
	Weights map[string]float64
}

func (c FContrast) ContrastName() string { return c.Name }
func (FContrast) isSpec()                {}

func (c FContrast) ContrastType() Type {
	if c.Tag == "" {
		return TypeF
	}
	return Type(c.Tag)
}

// Raw is the untyped contrast form produced by the model-building step.
type Raw struct {
	Name    string             `json:"name"              yaml:"name"              mapstructure:"name"    validate:"required"`
	Type    string             `json:"type"              yaml:"type"              mapstructure:"type"    validate:"required" jsonschema:"description=Statistic type; only t is translated"`
	Weights map[string]float64 `json:"weights,omitempty" yaml:"weights,omitempty" mapstructure:"weights"`
}

// Parse maps a raw contrast onto the Spec sum type. Only the exact tag t is a
// TContrast; "T", " t " and everything else land in FContrast with the tag
// unchanged, so Encode rejects them with the string as written.
func Parse(raw Raw) Spec {
	if Type(raw.Type) == TypeT {
		return TContrast{Name: raw.Name, Weights: raw.Weights}
	}
	return FContrast{Name: raw.Name, Tag: raw.Type, Weights: raw.Weights}
}

// ParseAll parses raw contrasts in order.
func ParseAll(raws []Raw) []Spec {
	specs := make([]Spec, 0, len(raws))
	for _, raw := range raws {
		specs = append(specs, Parse(raw))
	}
	return specs
}

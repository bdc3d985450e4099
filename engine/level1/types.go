package level1

import (
	"github.com/fitlins-go/fslshim/engine/contrast"
	"github.com/fitlins-go/fslshim/engine/core"
	"github.com/fitlins-go/fslshim/engine/session"
)

// Run is one run of a batch: its scans identifier, session info and
// contrast definitions.
type Run struct {
	Scans     string
	Session   session.RunSessionInfo
	Contrasts []contrast.Spec
}

// Result is the aggregate FSL level-1 input for a batch of runs.
type Result struct {
	InterscanInterval float64            `json:"interscan_interval" yaml:"interscan_interval"`
	SessionInfo       []session.RunInfo  `json:"session_info"       yaml:"session_info"`
	Contrasts         []contrast.Encoded `json:"contrasts"          yaml:"contrasts"`
}

// Fingerprint returns a stable digest of the result.
func (r *Result) Fingerprint() (string, error) {
	return core.Fingerprint(r)
}

type runOutput struct {
	normalized *session.Normalized
	contrasts  []contrast.Encoded
}

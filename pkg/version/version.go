package version

import "fmt"

// Build variables to be set via ldflags during compilation:
// -X 'github.com/fitlins-go/fslshim/pkg/version.Version=v0.3.0'
// -X 'github.com/fitlins-go/fslshim/pkg/version.CommitHash=abc123'
// -X 'github.com/fitlins-go/fslshim/pkg/version.BuildDate=2024-01-01T00:00:00Z'
var (
	// Version is the semantic version of the binary (e.g., "0.3.0")
	Version = "unknown"
	// CommitHash is the git commit hash used to build the binary
	CommitHash = "unknown"
	// BuildDate is the timestamp when the binary was built (RFC3339 format)
	BuildDate = "unknown"
)

// Info returns build information in a structured format
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
}

// Get returns the current build information
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("fslshim %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildDate)
}

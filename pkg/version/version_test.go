package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_String(t *testing.T) {
	t.Run("Should include every build field", func(t *testing.T) {
		info := Info{Version: "v0.3.0", CommitHash: "abc123", BuildDate: "2024-01-01T00:00:00Z"}
		assert.Equal(t, "fslshim v0.3.0 (commit abc123, built 2024-01-01T00:00:00Z)", info.String())
	})

	t.Run("Should report the linked build variables", func(t *testing.T) {
		assert.Equal(t, Info{Version: Version, CommitHash: CommitHash, BuildDate: BuildDate}, Get())
	})
}

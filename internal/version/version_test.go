package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withBuildVars(t *testing.T, v, commit, built string) {
	t.Helper()
	oldV, oldC, oldB := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = v, commit, built
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldV, oldC, oldB })
}

func TestLdflagsWin(t *testing.T) {
	withBuildVars(t, "v1.2.3", "0123456789abcdef", "2025-01-02T03:04:05Z")

	assert.Equal(t, "v1.2.3", GetVersion())
	assert.Equal(t, "0123456789abcdef", GetGitCommit())
	assert.Equal(t, "v1.2.3 (0123456)", GetShortVersion())
	assert.True(t, IsRelease())

	info := Get()
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), info.BuildTime)
	assert.Contains(t, info.String(), "Version: v1.2.3")
	assert.Contains(t, info.String(), "Built: 2025-01-02T03:04:05Z")
}

func TestInvalidBuildTimeIsOmitted(t *testing.T) {
	withBuildVars(t, "v1.0.0", "unknown", "yesterday")

	info := Get()
	assert.True(t, info.BuildTime.IsZero())
	assert.NotContains(t, info.String(), "Built:")
}

func TestDevBuild(t *testing.T) {
	withBuildVars(t, "dev", "unknown", "unknown")

	v := GetVersion()
	assert.NotEmpty(t, v)
	assert.NotEmpty(t, GetShortVersion())
	assert.NotEmpty(t, Get().Platform)
}

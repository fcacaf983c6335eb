package debug

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogDisabledIsSilent(t *testing.T) {
	Disable()
	assert.False(t, Enabled())
	Log("test", "nothing %d", 1) // must not panic
}

func TestLogWritesCategory(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Log("trainer", "round %d", 3)
	out := buf.String()
	assert.Contains(t, out, "Debug logging started")
	assert.Contains(t, out, `msg="round 3"`)
	assert.Contains(t, out, "cat=trainer")
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	for i := 0; i < 10; i++ {
		LogEvery(5, "midi", "tick")
	}
	assert.Equal(t, 2, strings.Count(buf.String(), "tick (every 5"))
}

func TestEnableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")
	require.NoError(t, Enable(path))
	defer Disable()
	assert.True(t, Enabled())
	assert.FileExists(t, path)
}

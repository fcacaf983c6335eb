package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeNote(t *testing.T) {
	assert.Equal(t, "E4 (64): 1/0 2/5 3/9", describeNote(64, 12))
	assert.Equal(t, "E2 (40): 6/0", describeNote(40, 12))
	assert.Equal(t, "C2 (36): not on the neck", describeNote(36, 12))
}

func TestIsLaunchpad(t *testing.T) {
	assert.True(t, isLaunchpad("Launchpad X LPX MIDI"))
	assert.False(t, isLaunchpad("Launchpad X LPX DAW"))
	assert.False(t, isLaunchpad("Keystation 49"))
}

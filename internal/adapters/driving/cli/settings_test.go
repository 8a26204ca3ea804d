package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsShow(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Window: 1200")
	assert.Contains(t, out, "Overlap: 200")
	assert.Contains(t, out, "Top K: 5")
	assert.Contains(t, out, "Version label: v1")
	assert.Contains(t, out, "chunking.window")
}

func TestSettingsCmd_DefaultsToShow(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsSet(t *testing.T) {
	env := setupTestServices(t)

	out, err := executeCommand(t, "settings", "set", "chunking.window", "800")
	require.NoError(t, err)
	assert.Contains(t, out, "chunking.window = 800")
	window, _ := env.config.Get("chunking.window")
	assert.Equal(t, 800, window)

	out, err = executeCommand(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Window: 800")
}

func TestSettingsSet_Rejected(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "settings", "set", "chunking.overlap", "5000")
	assert.Error(t, err)

	_, err = executeCommand(t, "settings", "set", "no.such.key", "1")
	assert.Error(t, err)

	_, err = executeCommand(t, "settings", "set", "chunking.window")
	assert.Error(t, err)
}

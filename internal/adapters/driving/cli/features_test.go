package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeaturesExtract(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "features", "extract", "--version-label", "v2", "-k", "7", "When is the parking permit deadline?")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:  v2")
	assert.Contains(t, out, "Keywords: parking, permit, deadline")
	assert.Contains(t, out, "Count:    3")
	assert.Contains(t, out, "Top K:    7")
}

func TestFeaturesHistoryAndVersions(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "features", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No feature records.")

	_, err = executeCommand(t, "features", "extract", "parking permit")
	require.NoError(t, err)
	resetFlags()
	_, err = executeCommand(t, "features", "extract", "--version-label", "v2", "housing deposit refund")
	require.NoError(t, err)
	resetFlags()

	out, err = executeCommand(t, "features", "history", "--version-label", "v2")
	require.NoError(t, err)
	assert.Contains(t, out, "housing deposit refund")
	assert.NotContains(t, out, "parking permit")

	out, err = executeCommand(t, "features", "versions")
	require.NoError(t, err)
	assert.Contains(t, out, "v1")
	assert.Contains(t, out, "v2")
}

func TestFeaturesCompare(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "features", "extract", "parking permit")
	require.NoError(t, err)
	resetFlags()
	_, err = executeCommand(t, "features", "extract", "--version-label", "v2", "housing deposit refund")
	require.NoError(t, err)

	out, err := executeCommand(t, "features", "compare", "v1", "v2")
	require.NoError(t, err)
	assert.Contains(t, out, "avg keywords")
	assert.Contains(t, out, "+1.00")

	_, err = executeCommand(t, "features", "compare", "v1", "v9")
	assert.Error(t, err)
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReplybridgeCommand(t *testing.T) {
	cmd := NewReplybridgeCommand()

	require.NotNil(t, cmd)
	assert.Equal(t, "replybridge", cmd.Use)
	assert.True(t, cmd.HasSubCommands())

	for _, name := range []string{"onboard", "gateway", "g", "reply", "send", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.NotEqual(t, cmd, sub, "%s should resolve to a subcommand", name)
	}
}

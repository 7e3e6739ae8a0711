package onboard

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/replybridge/pkg/config"
)

func TestNewOnboardCommand(t *testing.T) {
	cmd := NewOnboardCommand()

	require.NotNil(t, cmd)
	assert.Equal(t, "onboard", cmd.Use)
	assert.Equal(t, []string{"o"}, cmd.Aliases)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
	assert.NotNil(t, cmd.Flags().Lookup("credentials"))
	assert.NotNil(t, cmd.Flags().Lookup("config"))
}

func TestOnboard_WritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cmd := NewOnboardCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path})
	require.NoError(t, cmd.Execute())

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Gateway.Port, cfg.Gateway.Port)
}

func TestOnboard_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"gateway":{"port":1234}}`), 0o600))

	cmd := NewOnboardCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path})
	require.Error(t, cmd.Execute())

	cmd = NewOnboardCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "--force"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "1234")
}

func TestOnboard_PromptsForCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cmd := NewOnboardCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("AC123\n  secret  \n"))
	cmd.SetArgs([]string{"--config", path, "--credentials"})
	require.NoError(t, cmd.Execute())

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	if os.Getenv("ACCOUNT_SID") == "" {
		assert.Equal(t, "AC123", cfg.Provider.AccountSID)
	}
	if os.Getenv("AUTH_TOKEN") == "" {
		assert.Equal(t, "secret", cfg.Provider.AuthToken)
	}
}

func TestReadCredentials_Errors(t *testing.T) {
	var out bytes.Buffer

	_, _, err := readCredentials(strings.NewReader(""), &out)
	assert.EqualError(t, err, "no input received")

	_, _, err = readCredentials(strings.NewReader("AC1\n\n"), &out)
	assert.EqualError(t, err, "Auth token cannot be empty")
}

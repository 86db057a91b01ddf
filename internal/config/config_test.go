package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, DefaultWorkers, cfg.Dispatch.Workers)
	require.Equal(t, DefaultQueueSize, cfg.Dispatch.QueueSize)
	require.False(t, cfg.Dispatch.FirstMatch)
	require.True(t, cfg.Console.Enabled)
	require.Equal(t, DefaultOneBotWSURL, cfg.OneBot.WSURL)
	require.Equal(t, DefaultPollTimeout, cfg.Telegram.PollTimeout)
}

func TestLoadOverridesFromTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[log]
level = "debug"
format = "json"

[dispatch]
first_match = true
workers = 8

[onebot]
enabled = true
ws_reverse = true
listen_addr = ":8080"
access_token = "secret"

[telegram]
enabled = true
token = "tg-token"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.True(t, cfg.Dispatch.FirstMatch)
	require.Equal(t, 8, cfg.Dispatch.Workers)
	// Fields absent from the file keep their defaults.
	require.Equal(t, DefaultQueueSize, cfg.Dispatch.QueueSize)
	require.True(t, cfg.OneBot.Enabled)
	require.True(t, cfg.OneBot.WSReverse)
	require.Equal(t, ":8080", cfg.OneBot.ListenAddr)
	require.Equal(t, "secret", cfg.OneBot.AccessToken)
	require.Equal(t, DefaultOneBotHTTPURL, cfg.OneBot.HTTPURL)
	require.Equal(t, "tg-token", cfg.Telegram.Token)
}

func TestLoadMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("log = ["), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

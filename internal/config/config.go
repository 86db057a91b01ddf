// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath    = "config.toml"
	DefaultWorkers       = 4
	DefaultQueueSize     = 256
	DefaultPollTimeout   = 30
	DefaultOneBotWSURL   = "ws://127.0.0.1:6700"
	DefaultOneBotHTTPURL = "http://127.0.0.1:5700"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Dispatch DispatchConfig `toml:"dispatch"`
	Console  ConsoleConfig  `toml:"console"`
	OneBot   OneBotConfig   `toml:"onebot"`
	Telegram TelegramConfig `toml:"telegram"`
	Discord  DiscordConfig  `toml:"discord"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DispatchConfig tunes the listener dispatch pipeline.
type DispatchConfig struct {
	// FirstMatch stops a dispatch pass at the first listener that fires
	// instead of broadcasting to all matching listeners.
	FirstMatch bool `toml:"first_match"`
	Workers    int  `toml:"workers"`
	QueueSize  int  `toml:"queue_size"`
}

// ConsoleConfig enables the stdin/stdout adapter.
type ConsoleConfig struct {
	Enabled bool `toml:"enabled"`
}

// OneBotConfig holds the OneBot (CQ-code) endpoint settings.
type OneBotConfig struct {
	Enabled     bool   `toml:"enabled"`
	WSURL       string `toml:"ws_url"`
	HTTPURL     string `toml:"http_url"`
	AccessToken string `toml:"access_token"`
	// WSReverse listens for the platform to connect instead of dialing out.
	WSReverse  bool   `toml:"ws_reverse"`
	ListenAddr string `toml:"listen_addr"`
}

// TelegramConfig holds the Telegram bot token and poll timeout in seconds.
type TelegramConfig struct {
	Enabled     bool   `toml:"enabled"`
	Token       string `toml:"token"`
	PollTimeout int    `toml:"poll_timeout"`
}

// DiscordConfig holds the Discord bot token.
type DiscordConfig struct {
	Enabled bool   `toml:"enabled"`
	Token   string `toml:"token"`
}

// Load reads the TOML file at path, falling back to defaults for missing
// fields. A missing file yields the default configuration.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Dispatch: DispatchConfig{
			Workers:   DefaultWorkers,
			QueueSize: DefaultQueueSize,
		},
		Console: ConsoleConfig{
			Enabled: true,
		},
		OneBot: OneBotConfig{
			WSURL:   DefaultOneBotWSURL,
			HTTPURL: DefaultOneBotHTTPURL,
		},
		Telegram: TelegramConfig{
			PollTimeout: DefaultPollTimeout,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

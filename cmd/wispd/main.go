package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/wisphq/wisp/internal/adapter"
	"github.com/wisphq/wisp/internal/adapter/console"
	"github.com/wisphq/wisp/internal/adapter/discord"
	"github.com/wisphq/wisp/internal/adapter/onebot"
	"github.com/wisphq/wisp/internal/adapter/telegram"
	"github.com/wisphq/wisp/internal/bot"
	"github.com/wisphq/wisp/internal/config"
	"github.com/wisphq/wisp/internal/logger"
	"github.com/wisphq/wisp/internal/version"
)

var configPath string

func provideConfig() (config.Config, error) {
	path := configPath
	if env := os.Getenv("CONFIG_PATH"); path == "" && env != "" {
		path = env
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideRegistry(log *slog.Logger, cfg config.Config) *adapter.Registry {
	registry := adapter.NewRegistry()
	if cfg.Console.Enabled {
		registry.MustRegister(console.New(log))
	}
	if cfg.OneBot.Enabled {
		registry.MustRegister(onebot.New(log, cfg.OneBot))
	}
	if cfg.Telegram.Enabled {
		registry.MustRegister(telegram.New(log, cfg.Telegram))
	}
	if cfg.Discord.Enabled {
		registry.MustRegister(discord.New(log, cfg.Discord))
	}
	return registry
}

func provideBot(log *slog.Logger, cfg config.Config, registry *adapter.Registry) *bot.Bot {
	return bot.New(log, registry, cfg.Dispatch)
}

func startBot(lc fx.Lifecycle, b *bot.Bot) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return b.Start(context.WithoutCancel(ctx))
		},
		OnStop: func(ctx context.Context) error {
			return b.Shutdown(ctx)
		},
	})
}

func newApp() *fx.App {
	return fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideRegistry,
			provideBot,
		),
		fx.Invoke(startBot),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),
	)
}

func main() {
	root := &cobra.Command{
		Use:   "wispd",
		Short: "wisp messaging-bot daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			newApp().Run()
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.toml")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.GetInfo())
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

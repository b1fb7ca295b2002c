package main

import (
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pokerroom/client/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	root := &cobra.Command{
		Use:          "pokerroom",
		Short:        "Terminal client for multiplayer poker rooms",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml or toml)")
	if err := config.BindFlags(v, root.PersistentFlags()); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	root.AddCommand(newPlayCmd(v, &cfgFile), newSchemaCmd())
	return root
}

// newLogger routes slog through the pterm logger at the configured level.
func newLogger(level slog.Level) *slog.Logger {
	switch {
	case level <= slog.LevelDebug:
		pterm.DefaultLogger.Level = pterm.LogLevelDebug
	case level <= slog.LevelInfo:
		pterm.DefaultLogger.Level = pterm.LogLevelInfo
	case level <= slog.LevelWarn:
		pterm.DefaultLogger.Level = pterm.LogLevelWarn
	default:
		pterm.DefaultLogger.Level = pterm.LogLevelError
	}
	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	return slog.New(handler)
}

func loadConfig(v *viper.Viper, cfgFile string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, newLogger(cfg.LogLevel), nil
}

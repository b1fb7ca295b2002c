package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "POKERROOM"

const (
	KeyServer      = "server"
	KeyPrefsPath   = "prefs.path"
	KeyPrefsMode   = "prefs.mode"
	KeyLogLevel    = "log.level"
	KeyDialTimeout = "dial.timeout"
	KeyHTTPTimeout = "http.timeout"
)

type Config struct {
	Server      string
	PrefsPath   string
	PrefsMode   string
	LogLevel    slog.Level
	DialTimeout time.Duration
	HTTPTimeout time.Duration
}

// New returns a viper instance with defaults and environment lookup set up.
// Environment variables use the POKERROOM_ prefix with dots replaced by
// underscores, e.g. POKERROOM_PREFS_MODE.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyServer, "http://localhost:8080")
	v.SetDefault(KeyPrefsPath, defaultPrefsPath())
	v.SetDefault(KeyPrefsMode, "sqlite")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDialTimeout, 10*time.Second)
	v.SetDefault(KeyHTTPTimeout, 10*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags declares the config flags on fs and binds them to v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.String(KeyServer, v.GetString(KeyServer), "server base URL")
	fs.String("prefs", v.GetString(KeyPrefsPath), "preferences database path")
	fs.String("prefs-mode", v.GetString(KeyPrefsMode), "preferences store: sqlite or memory")
	fs.String("log-level", v.GetString(KeyLogLevel), "log level: debug, info, warn or error")

	binds := map[string]string{
		KeyServer:    KeyServer,
		KeyPrefsPath: "prefs",
		KeyPrefsMode: "prefs-mode",
		KeyLogLevel:  "log-level",
	}
	for key, flag := range binds {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// Load reads the optional config file and resolves every key.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	cfg := Config{
		Server:      strings.TrimSpace(v.GetString(KeyServer)),
		PrefsPath:   v.GetString(KeyPrefsPath),
		PrefsMode:   strings.ToLower(v.GetString(KeyPrefsMode)),
		LogLevel:    level,
		DialTimeout: v.GetDuration(KeyDialTimeout),
		HTTPTimeout: v.GetDuration(KeyHTTPTimeout),
	}
	if cfg.Server == "" {
		return Config{}, errors.New("server url is empty")
	}
	return cfg, nil
}

func defaultPrefsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".pokerroom", "prefs.db")
	}
	return filepath.Join(home, ".pokerroom", "prefs.db")
}

// Package config loads settings for the sweetshop command line client.
//
// Values are resolved in viper's usual order: flags, SWEETSHOP_* environment
// variables, ~/.sweetshop/config.yaml, then defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyServer      = "server"
	KeySessionFile = "session-file"
	KeyLogLevel    = "log-level"
	KeyTimeout     = "timeout"

	envPrefix = "SWEETSHOP"

	// DefaultServer matches the API's default PORT.
	DefaultServer = "http://localhost:8080"
)

// ClientConfig is the resolved client configuration.
type ClientConfig struct {
	Server      string
	SessionFile string
	LogLevel    string
	TimeoutSec  int
}

// HomeDir returns ~/.sweetshop, where the config and session files live.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sweetshop"
	}
	return filepath.Join(home, ".sweetshop")
}

// New builds a viper instance with defaults, env binding and the given flags.
// configFile may be empty to use the default location.
func New(flags *pflag.FlagSet, configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyServer, DefaultServer)
	v.SetDefault(KeySessionFile, filepath.Join(HomeDir(), "session.json"))
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyTimeout, 15)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(HomeDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(configFile == "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}
	return v, nil
}

// Resolve reads the client settings out of v.
func Resolve(v *viper.Viper) ClientConfig {
	return ClientConfig{
		Server:      strings.TrimRight(v.GetString(KeyServer), "/"),
		SessionFile: v.GetString(KeySessionFile),
		LogLevel:    v.GetString(KeyLogLevel),
		TimeoutSec:  v.GetInt(KeyTimeout),
	}
}

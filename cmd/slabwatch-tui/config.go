package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultServerURL = "http://127.0.0.1:8080"
	defaultSkinName  = "default"
)

// cliConfig is the TUI client configuration.
type cliConfig struct {
	ServerURL  string `mapstructure:"server-url"`
	Skin       string `mapstructure:"skin"`
	SessionDir string `mapstructure:"session-dir"`
	ConfigPath string `mapstructure:"-"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("SLABWATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("server-url", defaultServerURL)
	v.SetDefault("skin", defaultSkinName)
	v.SetDefault("session-dir", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "slabwatch", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if strings.HasPrefix(cfg.SessionDir, "~/") {
		cfg.SessionDir = filepath.Join(home, cfg.SessionDir[2:])
	}

	return cfg, nil
}

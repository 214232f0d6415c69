// Package config is the viper-backed settings store for cmd/vcfx, ported
// from cmd/vibe-vep/config.go's show/get/set trio and given the parsing
// defaults the core driver needs when no VCF header is available to
// derive them from.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Default parsing parameters, installed as viper defaults so "vcfx config
// show" always reports a complete, usable configuration.
const (
	DefaultBufferSize  = 1 << 14
	DefaultChunkLength = 1 << 16
	DefaultPloidy      = 2
)

// Init sets up viper: config file name/type/paths, defaults, and loads an
// existing config file if one is present (a missing file is not an
// error — defaults stand in for it).
func Init(cfgFile string) error {
	viper.SetDefault("parser.buffer_size", DefaultBufferSize)
	viper.SetDefault("parser.chunk_length", DefaultChunkLength)
	viper.SetDefault("parser.ploidy", DefaultPloidy)
	viper.SetDefault("sink.type", "none")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("determine home directory: %w", err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".vcfx")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VCFX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A searched-for file that is absent reports ConfigFileNotFoundError;
		// an explicit path that is absent reports a plain not-exist error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// Show renders every configured setting as YAML.
func Show() (string, error) {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		return "# No configuration set.\n", nil
	}
	out, err := yaml.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return string(out), nil
}

// Get returns the raw value for key, or an error if it is unset.
func Get(key string) (any, error) {
	val := viper.Get(key)
	if val == nil {
		return nil, fmt.Errorf("key %q is not set", key)
	}
	return val, nil
}

// Set assigns value to key (interpreting the usual boolean-like tokens)
// and persists the full settings to the active config file, creating
// ~/.vcfx.yaml if none was already in use.
func Set(key, value string) (string, error) {
	switch value {
	case "true", "yes", "on":
		viper.Set(key, true)
	case "false", "no", "off":
		viper.Set(key, false)
	default:
		viper.Set(key, value)
	}

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".vcfx.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return cfgFile, nil
}

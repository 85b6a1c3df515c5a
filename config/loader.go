package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// searchPaths are the standard locations probed for aopkit.yml.
var searchPaths = []string{
	"./aopkit.yml",
	"./config/aopkit.yml",
	"../aopkit.yml",
	"../config/aopkit.yml",
}

// Load loads aopkit settings from aopkit.yml and the environment.
// Environment variables use the AOPKIT_ prefix with underscores for
// nesting (AOPKIT_PROXY_FROZEN, AOPKIT_LOGGING_LEVEL, ...). Defaults are
// applied and the result validated before returning.
func Load(settings *Settings, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	configFile := lc.ConfigFile
	if configFile == "" {
		for _, path := range searchPaths {
			if lc.FileSystem.Exists(path) {
				configFile = path
				break
			}
		}
	}

	v := viper.New()

	if configFile != "" && lc.FileSystem.Exists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	if lc.EnvFile != "" && lc.FileSystem.Exists(lc.EnvFile) {
		if err := lc.FileSystem.LoadEnv(lc.EnvFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", lc.EnvFile, err)
		}
	}

	v.SetEnvPrefix("AOPKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKnownKeys(v)

	if err := v.Unmarshal(settings); err != nil {
		return fmt.Errorf("failed to unmarshal aopkit settings: %w", err)
	}

	settings.ApplyDefaults()
	return settings.Validate()
}

// bindKnownKeys registers every settings key with viper so AutomaticEnv can
// resolve it even when the key is absent from the config file.
func bindKnownKeys(v *viper.Viper) {
	keys := []string{
		"proxy.frozen",
		"proxy.expose_proxy",
		"proxy.optimize",
		"proxy.opaque",
		"proxy.proxy_target_type",
		"logging.level",
		"logging.format",
		"logging.output",
		"logging.no_color",
		"logging.timestamp",
		"logging.caller",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

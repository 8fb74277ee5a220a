package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/cil/config.yml.
type GlobalConfig struct {
	LibraryPath string `yaml:"library_path,omitempty"` // Default library when not inside one
	UserAgent   string `yaml:"user_agent,omitempty"`
	EnvFile     string `yaml:"env_file,omitempty"` // Dotenv file holding remote credentials
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "cil"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/cil/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.LibraryPath != "" {
		cfg.LibraryPath = ExpandPath(cfg.LibraryPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetLibraryPath returns the configured default library path.
func GetLibraryPath() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.LibraryPath
}

// GetUserAgent returns the configured API user agent override.
func GetUserAgent() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.UserAgent
}

// GetEnvFile returns the configured credentials dotenv path.
func GetEnvFile() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.EnvFile
}

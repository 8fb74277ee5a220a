// Package config handles library and global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents library configuration stored in .citelink/config.yaml.
type Config struct {
	PDFRoot   string `yaml:"pdf_root,omitempty"`   // Absolute path to the PDF folder
	UserAgent string `yaml:"user_agent,omitempty"` // Overrides the default API user agent
	EnvFile   string `yaml:"env_file,omitempty"`   // Dotenv file holding remote credentials
}

const (
	CitelinkDir = ".citelink"
	ConfigFile  = "config.yaml"
	DBFile      = "library.db"
)

// CitelinkPath returns the path to the .citelink directory from a root path.
func CitelinkPath(root string) string {
	return filepath.Join(root, CitelinkDir)
}

// ConfigPath returns the path to config.yaml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, CitelinkDir, ConfigFile)
}

// DBPath returns the path to library.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, CitelinkDir, DBFile)
}

// IsLibrary checks if the given path contains a citelink library.
func IsLibrary(root string) bool {
	info, err := os.Stat(CitelinkPath(root))
	return err == nil && info.IsDir()
}

// FindLibrary walks up from the given path to find a citelink library.
// Returns the library root path or an error if not found.
func FindLibrary(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsLibrary(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a citelink library (no .citelink directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the library at the given root. A missing
// config file yields the zero config, not an error.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the library at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ValidatePDFRoot checks that the PDF root path exists and is a directory.
func ValidatePDFRoot(path string) error {
	if path == "" {
		return nil // Empty is allowed (not yet configured)
	}

	expandedPath := ExpandPath(path)

	info, err := os.Stat(expandedPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", expandedPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", expandedPath)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}

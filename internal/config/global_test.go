package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGlobalConfigPath(t *testing.T) {
	// Save and restore XDG_CONFIG_HOME
	orig := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", orig)

	// Test with custom XDG_CONFIG_HOME
	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path := GlobalConfigPath()
	want := "/custom/config/cil/config.yml"
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}

	// Test with empty XDG_CONFIG_HOME (should use ~/.config)
	os.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	path = GlobalConfigPath()
	want = filepath.Join(home, ".config", "cil", "config.yml")
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	// Save and restore XDG_CONFIG_HOME
	orig := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", orig)

	// Point to a non-existent directory
	tmpDir := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadGlobalConfig() returned nil")
	}

	// Should return empty config
	if cfg.LibraryPath != "" {
		t.Errorf("LibraryPath = %q, want empty", cfg.LibraryPath)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	// Save and restore XDG_CONFIG_HOME
	orig := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", orig)

	// Create config file
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "cil")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}

	body := "library_path: ~/papers\nuser_agent: test-agent/1.0\nenv_file: /etc/cil.env\n"
	configFile := filepath.Join(configDir, "config.yml")
	if err := os.WriteFile(configFile, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	os.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}

	// Check tilde expansion
	home, _ := os.UserHomeDir()
	wantPath := filepath.Join(home, "papers")
	if cfg.LibraryPath != wantPath {
		t.Errorf("LibraryPath = %q, want %q", cfg.LibraryPath, wantPath)
	}

	if cfg.UserAgent != "test-agent/1.0" {
		t.Errorf("UserAgent = %q, want test-agent/1.0", cfg.UserAgent)
	}
	if cfg.EnvFile != "/etc/cil.env" {
		t.Errorf("EnvFile = %q, want /etc/cil.env", cfg.EnvFile)
	}
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	// Save and restore XDG_CONFIG_HOME
	orig := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", orig)

	// Create invalid config file
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "cil")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	configFile := filepath.Join(configDir, "config.yml")
	if err := os.WriteFile(configFile, []byte("library_path: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	os.Setenv("XDG_CONFIG_HOME", tmpDir)

	_, err := LoadGlobalConfig()
	if err == nil {
		t.Error("LoadGlobalConfig() should return error for invalid YAML")
	}
}

func TestGlobalConfigCache(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	// Save and restore XDG_CONFIG_HOME
	orig := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", orig)

	// Create config
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "cil")
	os.MkdirAll(configDir, 0755)
	configFile := filepath.Join(configDir, "config.yml")
	os.WriteFile(configFile, []byte("user_agent: cached-agent\n"), 0644)

	os.Setenv("XDG_CONFIG_HOME", tmpDir)

	// First load
	cfg1, _ := LoadGlobalConfig()
	if cfg1.UserAgent != "cached-agent" {
		t.Errorf("First load: UserAgent = %q, want cached-agent", cfg1.UserAgent)
	}

	// Modify file
	os.WriteFile(configFile, []byte("user_agent: modified-agent\n"), 0644)

	// Second load should return cached value
	cfg2, _ := LoadGlobalConfig()
	if cfg2.UserAgent != "cached-agent" {
		t.Errorf("Second load: UserAgent = %q, want cached-agent (cached)", cfg2.UserAgent)
	}

	// Reset cache
	ResetGlobalConfigCache()

	// Third load should read modified file
	cfg3, _ := LoadGlobalConfig()
	if cfg3.UserAgent != "modified-agent" {
		t.Errorf("Third load: UserAgent = %q, want modified-agent", cfg3.UserAgent)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathFunctions(t *testing.T) {
	root := "/test/library"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"CitelinkPath", CitelinkPath, "/test/library/.citelink"},
		{"ConfigPath", ConfigPath, "/test/library/.citelink/config.yaml"},
		{"DBPath", DBPath, "/test/library/.citelink/library.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(root)
			if got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, root, got, tt.want)
			}
		})
	}
}

func TestIsLibrary(t *testing.T) {
	tmpDir := t.TempDir()

	// Not a library initially
	if IsLibrary(tmpDir) {
		t.Error("IsLibrary() = true for non-library directory")
	}

	// Create .citelink directory
	clDir := filepath.Join(tmpDir, CitelinkDir)
	if err := os.Mkdir(clDir, 0755); err != nil {
		t.Fatalf("Failed to create .citelink: %v", err)
	}

	// Now it should be a library
	if !IsLibrary(tmpDir) {
		t.Error("IsLibrary() = false for library directory")
	}
}

func TestIsLibrary_FileNotDir(t *testing.T) {
	tmpDir := t.TempDir()

	// Create .citelink as a file, not directory
	clPath := filepath.Join(tmpDir, CitelinkDir)
	if err := os.WriteFile(clPath, []byte("not a dir"), 0644); err != nil {
		t.Fatalf("Failed to create .citelink file: %v", err)
	}

	// Should not be considered a library
	if IsLibrary(tmpDir) {
		t.Error("IsLibrary() = true when .citelink is a file")
	}
}

func TestFindLibrary(t *testing.T) {
	// Create nested structure: /tmp/xxx/library/.citelink
	tmpDir := t.TempDir()
	libDir := filepath.Join(tmpDir, "library")
	nestedDir := filepath.Join(libDir, "notes", "drafts")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatalf("Failed to create nested dirs: %v", err)
	}
	if err := os.Mkdir(filepath.Join(libDir, CitelinkDir), 0755); err != nil {
		t.Fatalf("Failed to create .citelink: %v", err)
	}

	// Find from nested dir should return library root
	found, err := FindLibrary(nestedDir)
	if err != nil {
		t.Fatalf("FindLibrary() error = %v", err)
	}
	if found != libDir {
		t.Errorf("FindLibrary() = %q, want %q", found, libDir)
	}

	// Find from library root
	found, err = FindLibrary(libDir)
	if err != nil {
		t.Fatalf("FindLibrary() error = %v", err)
	}
	if found != libDir {
		t.Errorf("FindLibrary() = %q, want %q", found, libDir)
	}
}

func TestFindLibrary_NotFound(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := FindLibrary(tmpDir)
	if err == nil {
		t.Error("FindLibrary() should return error when no library found")
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Create .citelink directory
	clDir := filepath.Join(tmpDir, CitelinkDir)
	if err := os.Mkdir(clDir, 0755); err != nil {
		t.Fatalf("Failed to create .citelink: %v", err)
	}

	// Save config
	cfg := &Config{
		PDFRoot:   "/path/to/pdfs",
		UserAgent: "test-agent/1.0",
	}
	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Load config
	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.PDFRoot != cfg.PDFRoot {
		t.Errorf("PDFRoot = %q, want %q", loaded.PDFRoot, cfg.PDFRoot)
	}
	if loaded.UserAgent != cfg.UserAgent {
		t.Errorf("UserAgent = %q, want %q", loaded.UserAgent, cfg.UserAgent)
	}
}

func TestLoad_Missing(t *testing.T) {
	tmpDir := t.TempDir()

	// Create .citelink directory but no config file
	clDir := filepath.Join(tmpDir, CitelinkDir)
	if err := os.Mkdir(clDir, 0755); err != nil {
		t.Fatalf("Failed to create .citelink: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PDFRoot != "" || cfg.UserAgent != "" {
		t.Errorf("missing config should load as zero config, got %+v", cfg)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()

	// Create .citelink directory
	clDir := filepath.Join(tmpDir, CitelinkDir)
	if err := os.Mkdir(clDir, 0755); err != nil {
		t.Fatalf("Failed to create .citelink: %v", err)
	}

	// Write invalid YAML
	if err := os.WriteFile(ConfigPath(tmpDir), []byte("pdf_root: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write invalid config: %v", err)
	}

	_, err := Load(tmpDir)
	if err == nil {
		t.Error("Load() should return error for invalid YAML")
	}
}

func TestValidatePDFRoot(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(tmpFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"empty path", "", false}, // Empty is allowed
		{"valid directory", tmpDir, false},
		{"non-existent path", "/nonexistent/path", true},
		{"file not directory", tmpFile, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePDFRoot(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePDFRoot(%q) error = %v, wantErr = %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	if got := ExpandPath("~/papers"); got != filepath.Join(home, "papers") {
		t.Errorf("ExpandPath(~/papers) = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath should leave absolute paths alone, got %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}
}

package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File copies a PDF into the root directory under the owning record's key
// and returns the stored path. An existing file for the same key is
// replaced.
func File(root, key, srcPath string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("pdf_root not configured")
	}
	if !strings.EqualFold(filepath.Ext(srcPath), ".pdf") {
		return "", fmt.Errorf("not a PDF file: %s", srcPath)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("opening source: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(root, 0755); err != nil {
		return "", fmt.Errorf("creating pdf root: %w", err)
	}

	destPath := filepath.Join(root, key+".pdf")
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating destination: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("copying PDF: %w", err)
	}

	return destPath, nil
}

// Resolve returns the stored path for a record's PDF, or an error when the
// file is missing.
func Resolve(root, key string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("pdf_root not configured")
	}
	path := filepath.Join(root, key+".pdf")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("PDF not found: %s", path)
		}
		return "", fmt.Errorf("checking PDF: %w", err)
	}
	return path, nil
}

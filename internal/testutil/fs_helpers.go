// Package testutil provides test utilities and helpers for asyncgen tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteDocuments writes files, keyed by slash-separated relative path, below
// a fresh temp directory and returns the directory.
func WriteDocuments(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		WriteFile(t, filepath.Join(dir, filepath.FromSlash(name)), content)
	}
	return dir
}

// WriteFile writes content to a file, creating parent directories if needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile reads file content, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}

	return string(content)
}

// IsolateConfig points HOME at a temp dir and unsets every ASYNCGEN_*
// variable, so neither the user's global config nor their environment leaks
// into a test. Values are restored when the test ends.
// Cannot be used with t.Parallel().
func IsolateConfig(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "ASYNCGEN_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	return home
}

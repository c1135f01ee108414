package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// TestMain isolates tests from the user's own config file.
func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "projmigrate-config-tests-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	_ = os.Setenv("HOME", tmp)
	_ = os.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "xdg-config"))
	_ = os.Unsetenv("GITHUB_TOKEN")
	_ = os.Unsetenv("PROJMIGRATE_GITHUB_TOKEN")

	code := m.Run()

	_ = os.RemoveAll(tmp)
	os.Exit(code)
}

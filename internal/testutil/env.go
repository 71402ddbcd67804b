// Package testutil provides utilities for testing the installer in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env holds the isolated directories created by SetupTestEnv.
type Env struct {
	Home       string
	Temp       string
	InstallDir string
}

// overriddenVars are cleared so a developer's own OPENFANG_* settings never
// leak into a test.
var overriddenVars = []string{
	"OPENFANG_INSTALL_DIR",
	"OPENFANG_VERSION",
	"OPENFANG_REPO",
	"OPENFANG_ARCH",
	"OPENFANG_KEYRING",
	"OPENFANG_TIMEOUT",
	"OPENFANG_DOWNLOAD_RETRIES",
	"OPENFANG_NO_MODIFY_PATH",
	"OPENFANG_API_URL",
	"OPENFANG_DOWNLOAD_URL",
	"OPENFANG_GITHUB_TOKEN",
	"OPENFANG_VERBOSE",
	"GITHUB_TOKEN",
}

// SetupTestEnv creates isolated test directories for each test.
// This ensures installer tests never touch:
// - The user's real ~/.openfang directory
// - The shared system temp directory or the user's cache directory
// - Shell rc files in the real home directory
//
// The cleanup function is automatically handled by t.TempDir(),
// so callers don't need to manually clean up.
func SetupTestEnv(t *testing.T) Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := Env{
		Home:       filepath.Join(tmpDir, "home"),
		Temp:       filepath.Join(tmpDir, "tmp"),
		InstallDir: filepath.Join(tmpDir, "home", ".openfang", "bin"),
	}

	for _, key := range overriddenVars {
		t.Setenv(key, "")
	}

	t.Setenv("HOME", env.Home)
	t.Setenv("USERPROFILE", env.Home)
	t.Setenv("TMPDIR", env.Temp)
	t.Setenv("TMP", env.Temp)
	t.Setenv("TEMP", env.Temp)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(env.Home, ".cache"))
	t.Setenv("LOCALAPPDATA", filepath.Join(env.Home, "AppData", "Local"))

	for _, dir := range []string{env.Home, env.Temp} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return env
}

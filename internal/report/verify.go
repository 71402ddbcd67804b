package report

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// VersionCheckTimeout bounds the post-install "--version" run.
const VersionCheckTimeout = 10 * time.Second

// VerifyInstalled runs "exe --version" and returns the first line of its
// output. The error is informational; callers fall back to printing the path.
func VerifyInstalled(ctx context.Context, exe string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, VersionCheckTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, exe, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("run %s --version: %w", exe, err)
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("%s --version printed nothing", exe)
	}
	return line, nil
}

// InstalledLine is what the summary prints for the installed executable.
func InstalledLine(ctx context.Context, exe string) string {
	version, err := VerifyInstalled(ctx, exe)
	if err != nil {
		return "installed to " + exe
	}
	return version
}

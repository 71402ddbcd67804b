package binary

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Install copies src to installDir/name, replacing any existing file. The copy
// is written to a temp file inside installDir and renamed into place, so the
// target is either the old executable or the complete new one.
func Install(src, installDir, name string) (string, error) {
	if err := os.MkdirAll(installDir, 0755); err != nil {
		return "", fmt.Errorf("create install dir: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open extracted executable: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(installDir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanupNeeded := true
	defer func() {
		tmp.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		return "", fmt.Errorf("copy executable: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := SetExecutable(tmpPath); err != nil {
		return "", err
	}

	target := filepath.Join(installDir, name)
	if err := replaceFile(tmpPath, target); err != nil {
		return "", fmt.Errorf("replace %s: %w", target, err)
	}

	cleanupNeeded = false
	return target, nil
}

// replaceFile renames src over dst. Windows refuses to rename over a file
// that is in use, so a failed rename retries after moving the old file aside.
func replaceFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if _, statErr := os.Stat(dst); statErr != nil {
		return err
	}

	old := dst + ".old"
	_ = os.Remove(old)
	if rerr := os.Rename(dst, old); rerr != nil {
		return err
	}
	if rerr := os.Rename(src, dst); rerr != nil {
		_ = os.Rename(old, dst)
		return rerr
	}
	_ = os.Remove(old)
	return nil
}

// SetExecutable sets executable permissions on a file
func SetExecutable(path string) error {
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}

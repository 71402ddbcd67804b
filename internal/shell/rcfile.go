package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GetRCFilePath returns the path to the shell's RC file under homeDir
func GetRCFilePath(homeDir string, shell ShellType) (string, error) {
	if err := ValidateShell(shell); err != nil {
		return "", err
	}

	if homeDir == "" {
		var err error
		homeDir, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
	}

	switch shell {
	case ShellBash:
		return filepath.Join(homeDir, ".bashrc"), nil
	case ShellZsh:
		return filepath.Join(homeDir, ".zshrc"), nil
	case ShellFish:
		return filepath.Join(homeDir, ".config", "fish", "config.fish"), nil
	case ShellSh:
		return filepath.Join(homeDir, ".profile"), nil
	default:
		return "", &UnsupportedShellError{Shell: shell.String()}
	}
}

// ReadRCFile returns the rc file content, or "" when it does not exist.
func ReadRCFile(rcPath string) (string, error) {
	content, err := os.ReadFile(rcPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", &RCFileError{
			Path:    rcPath,
			Message: "failed to read file",
			Cause:   err,
		}
	}
	return string(content), nil
}

// PathLine returns the line that prepends dir to PATH in the given shell.
func PathLine(shell ShellType, dir string) (string, error) {
	if err := ValidateShell(shell); err != nil {
		return "", err
	}

	switch shell {
	case ShellFish:
		return fmt.Sprintf(`set -gx PATH "%s" $PATH`, fishEscaper.Replace(dir)), nil
	default:
		return fmt.Sprintf(`export PATH="%s:$PATH"`, shEscaper.Replace(dir)), nil
	}
}

// Characters that stay special inside double quotes. fish does not treat
// backticks specially, and a backslash before one would be kept literally.
var (
	shEscaper   = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	fishEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)
	unescaper   = strings.NewReplacer(`\\`, `\`, `\"`, `"`, "\\`", "`", `\$`, `$`)
)

// Unescape decodes the double-quote escapes PathLine writes, so an rc file
// can be searched for the plain directory.
func Unescape(content string) string { return unescaper.Replace(content) }

// Mentions reports whether content refers to dir, either verbatim or in the
// escaped form PathLine writes.
func Mentions(content, dir string) bool {
	return strings.Contains(content, dir) ||
		strings.Contains(content, shEscaper.Replace(dir)) ||
		strings.Contains(content, fishEscaper.Replace(dir))
}

// BackupRCFile creates a backup of the RC file
func BackupRCFile(rcPath string) (string, error) {
	content, err := os.ReadFile(rcPath)
	if err != nil {
		return "", &RCFileError{
			Path:    rcPath,
			Message: "failed to read file for backup",
			Cause:   err,
		}
	}

	backupPath := rcPath + BackupSuffix

	if err := os.WriteFile(backupPath, content, 0644); err != nil {
		return "", &RCFileError{
			Path:    backupPath,
			Message: "failed to write backup file",
			Cause:   err,
		}
	}

	return backupPath, nil
}

// AddLine appends line (preceded by PathMarker) to the rc file, creating it
// and its parent directory if needed. The write goes through a temp file and
// rename. A symlinked rc file is updated at its target.
func AddLine(rcPath, line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return &RCFileError{Path: rcPath, Message: "line must be a single line"}
	}

	if resolved, err := filepath.EvalSymlinks(rcPath); err == nil {
		rcPath = resolved
	}

	existing, err := ReadRCFile(rcPath)
	if err != nil {
		return err
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(rcPath); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(rcPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &RCFileError{
			Path:    rcPath,
			Message: "failed to create parent directory",
			Cause:   err,
		}
	}

	tmpFile, err := os.CreateTemp(dir, ".openfang-tmp-*")
	if err != nil {
		return &RCFileError{
			Path:    rcPath,
			Message: "failed to create temporary file",
			Cause:   err,
		}
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	var b strings.Builder
	b.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n%s\n%s\n", PathMarker, line)

	if _, err := tmpFile.WriteString(b.String()); err != nil {
		tmpFile.Close()
		return &RCFileError{
			Path:    rcPath,
			Message: "failed to write PATH line",
			Cause:   err,
		}
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return &RCFileError{
			Path:    rcPath,
			Message: "failed to sync file",
			Cause:   err,
		}
	}

	if err := tmpFile.Close(); err != nil {
		return &RCFileError{
			Path:    rcPath,
			Message: "failed to close temporary file",
			Cause:   err,
		}
	}

	if err := os.Chmod(tmpPath, mode); err != nil {
		return &RCFileError{
			Path:    rcPath,
			Message: "failed to set file mode",
			Cause:   err,
		}
	}

	if err := os.Rename(tmpPath, rcPath); err != nil {
		return &RCFileError{
			Path:    rcPath,
			Message: "failed to rename temp file",
			Cause:   err,
		}
	}

	return nil
}

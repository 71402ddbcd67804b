package shell

import (
	"fmt"
	"strings"
)

// ShellType represents a supported shell
type ShellType string

const (
	// ShellBash represents the Bash shell
	ShellBash ShellType = "bash"
	// ShellZsh represents the Z shell
	ShellZsh ShellType = "zsh"
	// ShellFish represents the Fish shell
	ShellFish ShellType = "fish"
	// ShellSh represents POSIX sh and compatible login shells (dash, ksh)
	ShellSh ShellType = "sh"
	// ShellUnknown represents an unknown or unsupported shell
	ShellUnknown ShellType = "unknown"
)

// String returns the string representation of the shell type
func (s ShellType) String() string {
	return string(s)
}

// IsValid returns true if the shell type is supported
func (s ShellType) IsValid() bool {
	switch s {
	case ShellBash, ShellZsh, ShellFish, ShellSh:
		return true
	default:
		return false
	}
}

// Config holds configuration for the shell manager
type Config struct {
	// HomeDir overrides the user's home directory (default: os.UserHomeDir)
	HomeDir string
}

// SetupOptions holds options for PATH setup
type SetupOptions struct {
	// Backup creates a backup of the rc file before modification
	Backup bool
}

// SetupResult contains the result of PATH setup
type SetupResult struct {
	// Shell is the detected or specified shell type
	Shell ShellType
	// RCFile is the path to the shell's configuration file
	RCFile string
	// Added indicates if the PATH line was added
	Added bool
	// AlreadyPresent indicates the directory was already mentioned
	AlreadyPresent bool
	// BackupPath is the path to the backup file (if created)
	BackupPath string
	// Line is the PATH line that was (or would be) added
	Line string
}

// DetectionResult contains the result of shell detection
type DetectionResult struct {
	// Shell is the detected shell type
	Shell ShellType
	// Method describes how the shell was detected
	Method string
	// ShellPath is the filesystem path to the shell binary
	ShellPath string
	// Confidence is the confidence level (high, medium, low)
	Confidence string
}

// UnsupportedShellError represents an unsupported shell error
type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	supported := make([]string, 0, 4)
	for _, s := range GetSupportedShells() {
		supported = append(supported, s.String())
	}
	return fmt.Sprintf("unsupported shell: %s (supported: %s)", e.Shell, strings.Join(supported, ", "))
}

// RCFileError represents an error with shell rc file operations
type RCFileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *RCFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rc file error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("rc file error (%s): %s", e.Path, e.Message)
}

func (e *RCFileError) Unwrap() error {
	return e.Cause
}

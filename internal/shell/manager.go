package shell

import "fmt"

// Manager orchestrates PATH setup in shell rc files
type Manager struct {
	homeDir string
	detect  func() (*DetectionResult, error)
}

// NewManager creates a new shell manager
func NewManager(config Config) *Manager {
	return &Manager{
		homeDir: config.HomeDir,
		detect:  DetectShell,
	}
}

// Detect returns the user's shell, falling back to ShellSh when detection
// fails so that ~/.profile still receives the PATH line.
func (m *Manager) Detect() ShellType {
	detection, err := m.detect()
	if err != nil || !detection.Shell.IsValid() {
		return ShellSh
	}
	return detection.Shell
}

// RCFile returns the rc file the manager would edit for shell.
func (m *Manager) RCFile(shell ShellType) (string, error) {
	return GetRCFilePath(m.homeDir, shell)
}

// AddPath makes sure the rc file for shell mentions dir, appending a PATH
// line when it does not. "Mentions" is a substring test on the plain or
// escaped directory.
func (m *Manager) AddPath(shell ShellType, dir string, opts SetupOptions) (*SetupResult, error) {
	if err := ValidateShell(shell); err != nil {
		return nil, err
	}

	rcPath, err := m.RCFile(shell)
	if err != nil {
		return nil, fmt.Errorf("get RC file path: %w", err)
	}

	line, err := PathLine(shell, dir)
	if err != nil {
		return nil, fmt.Errorf("generate PATH line: %w", err)
	}

	content, err := ReadRCFile(rcPath)
	if err != nil {
		return nil, fmt.Errorf("read RC file: %w", err)
	}

	if Mentions(content, dir) {
		return &SetupResult{
			Shell:          shell,
			RCFile:         rcPath,
			AlreadyPresent: true,
			Line:           line,
		}, nil
	}

	var backupPath string
	if opts.Backup && content != "" {
		backupPath, err = BackupRCFile(rcPath)
		if err != nil {
			return nil, fmt.Errorf("backup RC file: %w", err)
		}
	}

	if err := AddLine(rcPath, line); err != nil {
		return nil, fmt.Errorf("add PATH line: %w", err)
	}

	return &SetupResult{
		Shell:      shell,
		RCFile:     rcPath,
		Added:      true,
		BackupPath: backupPath,
		Line:       line,
	}, nil
}

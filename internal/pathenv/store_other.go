//go:build !windows

package pathenv

import (
	"fmt"
	"os"

	"github.com/openfang/installer/internal/shell"
)

// ShellStore persists PATH through the detected shell's rc file.
type ShellStore struct {
	manager *shell.Manager
	shell   shell.ShellType
	getenv  func(string) string
}

// NewShellStore creates a store for the given shell, detecting it when
// sh is ShellUnknown. homeDir may be empty.
func NewShellStore(homeDir string, sh shell.ShellType) *ShellStore {
	manager := shell.NewManager(shell.Config{HomeDir: homeDir})
	if !sh.IsValid() {
		sh = manager.Detect()
	}
	return &ShellStore{manager: manager, shell: sh, getenv: os.Getenv}
}

// NewDefaultStore returns the platform's persistent PATH store.
func NewDefaultStore(homeDir string) Store {
	return NewShellStore(homeDir, shell.ShellUnknown)
}

// Current returns the live $PATH followed by the rc file content, so a
// directory already exported by any means counts as present. Escaped rc
// lines are included in decoded form as well.
func (s *ShellStore) Current() (string, error) {
	rcPath, err := s.manager.RCFile(s.shell)
	if err != nil {
		return "", err
	}
	content, err := shell.ReadRCFile(rcPath)
	if err != nil {
		return "", err
	}
	current := s.getenv("PATH") + "\n" + content
	if plain := shell.Unescape(content); plain != content {
		current += "\n" + plain
	}
	return current, nil
}

// Prepend appends a PATH line for dir to the rc file.
func (s *ShellStore) Prepend(dir string) error {
	result, err := s.manager.AddPath(s.shell, dir, shell.SetupOptions{Backup: true})
	if err != nil {
		return err
	}
	if !result.Added && !result.AlreadyPresent {
		return fmt.Errorf("PATH line was not written to %s", result.RCFile)
	}
	return nil
}

// Describe returns the rc file path.
func (s *ShellStore) Describe() string {
	rcPath, err := s.manager.RCFile(s.shell)
	if err != nil {
		return s.shell.String() + " rc file"
	}
	return rcPath
}

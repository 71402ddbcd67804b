package binary

import (
	"fmt"
	"os"
	"path/filepath"
)

// WorkspaceName is the scratch directory name under the run root.
const WorkspaceName = "workspace"

// rootName is the per-user directory holding the workspace and the lock.
const rootName = "openfang-install"

// Workspace is the scratch directory holding the downloaded archive and its
// extracted contents. It is owned by a single run.
type Workspace struct {
	root string
}

// DefaultRoot returns the per-user directory for the workspace and the
// install lock: the user cache directory when there is one, else a
// uid-suffixed directory under os.TempDir().
func DefaultRoot() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, rootName)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d", rootName, os.Getuid()))
}

// NewWorkspace purges any leftover workspace under tempRoot and creates a
// fresh one with mode 0700. Creation fails if the directory reappears after
// the purge. An empty tempRoot means DefaultRoot().
func NewWorkspace(tempRoot string) (*Workspace, error) {
	if tempRoot == "" {
		tempRoot = DefaultRoot()
	}
	if err := os.MkdirAll(tempRoot, 0700); err != nil {
		return nil, fmt.Errorf("create workspace parent: %w", err)
	}
	root := filepath.Join(tempRoot, WorkspaceName)

	if err := os.RemoveAll(root); err != nil {
		return nil, fmt.Errorf("purge workspace: %w", err)
	}
	if err := os.Mkdir(root, 0700); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	return &Workspace{root: root}, nil
}

// Root returns the workspace directory.
func (w *Workspace) Root() string { return w.root }

// Path returns name joined onto the workspace root.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.root, name)
}

// ExtractDir is where archives are unpacked.
func (w *Workspace) ExtractDir() string {
	return filepath.Join(w.root, "extract")
}

// Close removes the workspace and everything in it. Safe to call twice.
func (w *Workspace) Close() error {
	if w == nil || w.root == "" {
		return nil
	}
	if err := os.RemoveAll(w.root); err != nil {
		return fmt.Errorf("remove workspace: %w", err)
	}
	return nil
}

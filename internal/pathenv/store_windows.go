//go:build windows

package pathenv

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	environmentKey = `Environment`
	pathValue      = "Path"

	hwndBroadcast    = 0xffff
	wmSettingChange  = 0x001A
	smtoAbortIfHung  = 0x0002
	broadcastTimeout = 5000
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSendMessageTimeoutW = user32.NewProc("SendMessageTimeoutW")
)

// RegistryStore persists PATH in HKCU\Environment\Path.
type RegistryStore struct {
	root registry.Key
	path string
}

// NewRegistryStore creates a store over the current user's environment key.
func NewRegistryStore() *RegistryStore {
	return &RegistryStore{root: registry.CURRENT_USER, path: environmentKey}
}

// NewDefaultStore returns the platform's persistent PATH store. homeDir is
// unused on Windows.
func NewDefaultStore(homeDir string) Store {
	return NewRegistryStore()
}

// Current returns the user Path value, or "" when it is unset.
func (s *RegistryStore) Current() (string, error) {
	value, _, err := s.read()
	return value, err
}

func (s *RegistryStore) read() (string, uint32, error) {
	key, err := registry.OpenKey(s.root, s.path, registry.QUERY_VALUE)
	if err != nil {
		return "", 0, fmt.Errorf("open HKCU\\%s: %w", s.path, err)
	}
	defer key.Close()

	value, valType, err := key.GetStringValue(pathValue)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", registry.EXPAND_SZ, nil
		}
		return "", 0, fmt.Errorf("read %s: %w", pathValue, err)
	}
	return value, valType, nil
}

// Prepend writes "dir;old" back with the original value type and notifies
// running programs. A failed notification is ignored.
func (s *RegistryStore) Prepend(dir string) error {
	old, valType, err := s.read()
	if err != nil {
		return err
	}

	updated := dir
	if old != "" {
		updated = dir + ";" + old
	}

	key, err := registry.OpenKey(s.root, s.path, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open HKCU\\%s for writing: %w", s.path, err)
	}
	defer key.Close()

	if valType == registry.SZ {
		err = key.SetStringValue(pathValue, updated)
	} else {
		err = key.SetExpandStringValue(pathValue, updated)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", pathValue, err)
	}

	broadcastEnvironmentChange()
	return nil
}

// Describe names the registry value.
func (s *RegistryStore) Describe() string {
	return `HKCU\` + s.path + `\` + pathValue
}

func broadcastEnvironmentChange() {
	param, err := windows.UTF16PtrFromString("Environment")
	if err != nil {
		return
	}
	var result uintptr
	_, _, _ = procSendMessageTimeoutW.Call(
		hwndBroadcast,
		wmSettingChange,
		0,
		uintptr(unsafe.Pointer(param)),
		smtoAbortIfHung,
		broadcastTimeout,
		uintptr(unsafe.Pointer(&result)),
	)
}

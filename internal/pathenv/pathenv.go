// Package pathenv makes the install directory reachable from future shells by
// prepending it to the user's persistent PATH.
//
// The persistent PATH lives in a Store: the per-user registry value on
// Windows, the shell rc file elsewhere. Updates never abort an install; the
// outcome is reported as a Result.
//
// Presence is decided with a plain substring test against the store's current
// value, so "/opt/bin" is considered present when "/opt/bin2" is on PATH.
// This is a known limitation.
package pathenv

import (
	"fmt"
	"strings"
)

// Status is the outcome of an Ensure call.
type Status int

const (
	// StatusUpdated means dir was prepended to the persistent PATH.
	StatusUpdated Status = iota
	// StatusAlreadyPresent means the persistent PATH already mentions dir.
	StatusAlreadyPresent
	// StatusFailed means reading or writing the store failed.
	StatusFailed
	// StatusSkipped means PATH modification was disabled.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusUpdated:
		return "updated"
	case StatusAlreadyPresent:
		return "already-present"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result reports what Ensure did.
type Result struct {
	Status Status
	// Target describes where PATH is persisted (registry key or rc file).
	Target string
	// Err is set only for StatusFailed.
	Err error
}

// Store reads and extends a persistent PATH.
type Store interface {
	// Current returns the text searched for an existing entry.
	Current() (string, error)
	// Prepend puts dir in front of the persistent PATH.
	Prepend(dir string) error
	// Describe names the location for user-facing messages.
	Describe() string
}

// Updater applies the presence rule against a Store.
type Updater struct {
	store    Store
	disabled bool
}

// NewUpdater creates an Updater. When disabled is true Ensure only reports
// StatusSkipped.
func NewUpdater(store Store, disabled bool) *Updater {
	return &Updater{store: store, disabled: disabled}
}

// Ensure prepends dir to the persistent PATH unless it is already mentioned.
func (u *Updater) Ensure(dir string) Result {
	if u.disabled || u.store == nil {
		return Result{Status: StatusSkipped}
	}

	target := u.store.Describe()

	current, err := u.store.Current()
	if err != nil {
		return Result{Status: StatusFailed, Target: target, Err: fmt.Errorf("read PATH: %w", err)}
	}

	if strings.Contains(current, dir) {
		return Result{Status: StatusAlreadyPresent, Target: target}
	}

	if err := u.store.Prepend(dir); err != nil {
		return Result{Status: StatusFailed, Target: target, Err: fmt.Errorf("update PATH: %w", err)}
	}

	return Result{Status: StatusUpdated, Target: target}
}

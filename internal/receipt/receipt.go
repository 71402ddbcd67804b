// Package receipt records what was installed and guards against concurrent
// installer runs.
package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"
)

// FileName is the receipt written next to the installed executable.
const FileName = ".openfang-install.json"

// Receipt describes one completed install.
type Receipt struct {
	Version     string    `json:"version"`
	ID          string    `json:"id"`
	Repo        string    `json:"repo"`
	Triple      string    `json:"triple"`
	Archive     string    `json:"archive"`
	SHA256      string    `json:"sha256"`
	Verified    string    `json:"verified"`
	InstalledAt time.Time `json:"installed_at"`
}

// New creates a receipt for version with a fresh install ID.
func New(version, repo, triple, archive, sha256, verified string) *Receipt {
	return &Receipt{
		Version:     version,
		ID:          uuid.New().String(),
		Repo:        repo,
		Triple:      triple,
		Archive:     archive,
		SHA256:      sha256,
		Verified:    verified,
		InstalledAt: time.Now().UTC(),
	}
}

// Save writes the receipt to dir/FileName via temp file and rename.
func (r *Receipt) Save(dir string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}

	finalPath := filepath.Join(dir, FileName)
	tmpPath := finalPath + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename receipt: %w", err)
	}

	return nil
}

// Load reads dir/FileName. A missing receipt returns an error matching
// os.ErrNotExist.
func Load(dir string) (*Receipt, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}

	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse receipt: %w", err)
	}

	return &r, nil
}

// LoadIfExists is Load but returns (nil, nil) when there is no receipt.
func LoadIfExists(dir string) (*Receipt, error) {
	r, err := Load(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return r, err
}

// Change classifies an install relative to the previous receipt.
type Change int

const (
	// ChangeFresh means there was no previous install.
	ChangeFresh Change = iota
	// ChangeReinstall means the same version is installed again.
	ChangeReinstall
	// ChangeUpgrade means the new version sorts after the old one.
	ChangeUpgrade
	// ChangeDowngrade means the new version sorts before the old one.
	ChangeDowngrade
	// ChangeSwitch means at least one tag is not semver, so no order is known.
	ChangeSwitch
)

func (c Change) String() string {
	switch c {
	case ChangeFresh:
		return "fresh"
	case ChangeReinstall:
		return "reinstall"
	case ChangeUpgrade:
		return "upgrade"
	case ChangeDowngrade:
		return "downgrade"
	case ChangeSwitch:
		return "switch"
	default:
		return fmt.Sprintf("Change(%d)", int(c))
	}
}

// Compare classifies installing next over previous (which may be nil).
func Compare(previous *Receipt, next string) Change {
	if previous == nil || previous.Version == "" {
		return ChangeFresh
	}
	if previous.Version == next {
		return ChangeReinstall
	}

	a, b := canonical(previous.Version), canonical(next)
	if !semver.IsValid(a) || !semver.IsValid(b) {
		return ChangeSwitch
	}

	switch semver.Compare(a, b) {
	case -1:
		return ChangeUpgrade
	case 1:
		return ChangeDowngrade
	default:
		return ChangeReinstall
	}
}

// canonical adds the "v" prefix semver requires, so "0.1.0" and "v0.1.0" compare equal.
func canonical(tag string) string {
	if strings.HasPrefix(tag, "v") {
		return tag
	}
	return "v" + tag
}

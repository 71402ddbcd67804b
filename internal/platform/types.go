// Package platform resolves the host platform into the release triple used to
// select an OpenFang artifact.
//
// Architecture detection accepts several encodings (symbolic names such as
// "x64" or "arm64", and the numeric codes reported by the Windows API). Every
// encoding normalizes to one of two logical architectures, x86_64 or aarch64.
// Anything else is an UnsupportedPlatformError. On Linux, gopsutil is used to
// detect distribution details for display, with graceful fallback when that
// detection fails.
package platform

import (
	"context"
	"strings"
)

// Linux distribution family constants.
// These represent canonical family names for grouping related distributions.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Arch is a logical CPU architecture supported by the release pipeline.
type Arch int

const (
	// ArchUnknown is the zero value and never a valid detection result.
	ArchUnknown Arch = iota
	// ArchX86_64 is 64-bit x86 (amd64, x64).
	ArchX86_64
	// ArchAArch64 is 64-bit ARM (arm64).
	ArchAArch64
)

// String returns the architecture as it appears in a release triple.
func (a Arch) String() string {
	switch a {
	case ArchX86_64:
		return "x86_64"
	case ArchAArch64:
		return "aarch64"
	default:
		return "unknown"
	}
}

// Triple identifies a release target as <arch>-<vendor>-<os>-<abi>.
type Triple struct {
	Arch   Arch
	Vendor string // "pc", "unknown", "apple"
	OS     string // "windows", "linux", "darwin"
	ABI    string // "msvc", "gnu", or empty
}

// String renders the triple. An empty ABI segment is omitted, so the darwin
// triple renders as "aarch64-apple-darwin".
func (t Triple) String() string {
	parts := []string{t.Arch.String(), t.Vendor, t.OS}
	if t.ABI != "" {
		parts = append(parts, t.ABI)
	}
	return strings.Join(parts, "-")
}

// IsWindows reports whether the triple targets Windows.
func (t Triple) IsWindows() bool {
	return t.OS == "windows"
}

// ArchiveExt returns the archive extension used for release artifacts of this triple.
func (t Triple) ArchiveExt() string {
	if t.IsWindows() {
		return ".zip"
	}
	return ".tar.gz"
}

// ExecutableName returns the on-disk name of the executable for base on this triple.
func (t Triple) ExecutableName(base string) string {
	if t.IsWindows() {
		return base + ".exe"
	}
	return base
}

// Info contains platform detection information.
type Info struct {
	OS       string // runtime.GOOS value: "linux", "darwin", "windows"
	Arch     Arch   // normalized architecture
	ArchRaw  string // raw detected value, e.g. "AMD64", "12", "0xaa64"
	Triple   Triple // release target
	Platform string // distro ID (Linux only, e.g., "ubuntu", "arch")
	Family   string // canonical family (e.g., "debian", "rhel", "arch")
	Version  string // distro version (Linux only, e.g., "22.04")
}

// Distro contains Linux distribution information.
// This is nil on non-Linux platforms.
type Distro struct {
	ID      string // distro ID (e.g., "ubuntu")
	Family  string // canonical family (e.g., "debian")
	Version string // version (e.g., "22.04")
}

// GetDistro returns distro information if this is a Linux platform.
// Returns nil for non-Linux platforms or if distro detection failed.
func (i *Info) GetDistro() *Distro {
	if i.OS != "linux" || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsX86_64 returns true if the architecture is x86_64.
func (i *Info) IsX86_64() bool {
	return i.Arch == ArchX86_64
}

// IsAArch64 returns true if the architecture is aarch64.
func (i *Info) IsAArch64() bool {
	return i.Arch == ArchAArch64
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

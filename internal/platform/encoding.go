package platform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupportedPlatform is wrapped by every UnsupportedPlatformError.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// UnsupportedPlatformError reports a detected value that maps to no release target.
type UnsupportedPlatformError struct {
	Kind string // "architecture" or "operating system"
	Raw  string // value as detected, for diagnostics
}

func (e *UnsupportedPlatformError) Error() string {
	switch e.Kind {
	case "operating system":
		return fmt.Sprintf("unsupported operating system: %s (supported: windows, linux, darwin)", e.Raw)
	default:
		return fmt.Sprintf("unsupported architecture: %s (supported: x86_64, aarch64)", e.Raw)
	}
}

// Unwrap returns ErrUnsupportedPlatform so callers can use errors.Is.
func (e *UnsupportedPlatformError) Unwrap() error {
	return ErrUnsupportedPlatform
}

// Encoding is a raw architecture value as reported by some detection source.
// The set of encodings is closed: Symbolic, ProcessorCode and MachineCode.
type Encoding interface {
	// Raw returns the value as it was reported, for error messages.
	Raw() string
	isEncoding()
}

// Symbolic is a named architecture such as "x64", "AMD64" or "arm64".
type Symbolic string

// ProcessorCode is a Windows SYSTEM_INFO.wProcessorArchitecture value.
type ProcessorCode uint16

// MachineCode is a Windows IMAGE_FILE_MACHINE_* value as returned by IsWow64Process2.
type MachineCode uint16

// Known numeric architecture codes.
const (
	ProcessorAMD64 ProcessorCode = 9
	ProcessorARM64 ProcessorCode = 12

	MachineAMD64 MachineCode = 0x8664
	MachineARM64 MachineCode = 0xAA64
)

func (s Symbolic) Raw() string      { return string(s) }
func (p ProcessorCode) Raw() string { return strconv.Itoa(int(p)) }
func (m MachineCode) Raw() string   { return fmt.Sprintf("0x%04x", uint16(m)) }

func (Symbolic) isEncoding()      {}
func (ProcessorCode) isEncoding() {}
func (MachineCode) isEncoding()   {}

// Normalize maps an encoding to its logical architecture.
func Normalize(e Encoding) (Arch, error) {
	switch v := e.(type) {
	case Symbolic:
		switch strings.ToLower(strings.TrimSpace(string(v))) {
		case "x64", "amd64", "x86_64", "x86-64":
			return ArchX86_64, nil
		case "arm64", "aarch64":
			return ArchAArch64, nil
		}
	case ProcessorCode:
		switch v {
		case ProcessorAMD64:
			return ArchX86_64, nil
		case ProcessorARM64:
			return ArchAArch64, nil
		}
	case MachineCode:
		switch v {
		case MachineAMD64:
			return ArchX86_64, nil
		case MachineARM64:
			return ArchAArch64, nil
		}
	case nil:
		return ArchUnknown, &UnsupportedPlatformError{Kind: "architecture", Raw: "<none>"}
	}
	return ArchUnknown, &UnsupportedPlatformError{Kind: "architecture", Raw: e.Raw()}
}

// ParseEncoding interprets a user-supplied architecture string.
// Decimal numbers are processor codes, "0x"-prefixed hex numbers are machine
// codes, and anything else is a symbolic name.
func ParseEncoding(s string) Encoding {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") {
		if n, err := strconv.ParseUint(lower[2:], 16, 16); err == nil {
			return MachineCode(n)
		}
		return Symbolic(s)
	}
	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		return ProcessorCode(n)
	}
	return Symbolic(s)
}

// TripleFor returns the release triple for goos on arch.
func TripleFor(goos string, arch Arch) (Triple, error) {
	if arch != ArchX86_64 && arch != ArchAArch64 {
		return Triple{}, &UnsupportedPlatformError{Kind: "architecture", Raw: arch.String()}
	}

	switch goos {
	case "windows":
		return Triple{Arch: arch, Vendor: "pc", OS: "windows", ABI: "msvc"}, nil
	case "linux":
		return Triple{Arch: arch, Vendor: "unknown", OS: "linux", ABI: "gnu"}, nil
	case "darwin":
		return Triple{Arch: arch, Vendor: "apple", OS: "darwin"}, nil
	default:
		return Triple{}, &UnsupportedPlatformError{Kind: "operating system", Raw: goos}
	}
}

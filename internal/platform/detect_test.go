package platform

import (
	"context"
	"errors"
	"runtime"
	"testing"
)

func fakeNative(enc Encoding) func(context.Context, func(string) string) Encoding {
	return func(context.Context, func(string) string) Encoding { return enc }
}

func TestRealDetector_Detect(t *testing.T) {
	if runtime.GOARCH != "amd64" && runtime.GOARCH != "arm64" {
		t.Skipf("host architecture %s is not a release target", runtime.GOARCH)
	}

	detector := NewDetector("")
	info, err := detector.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if info.OS != runtime.GOOS {
		t.Errorf("OS = %v, want %v", info.OS, runtime.GOOS)
	}
	if info.Arch != ArchX86_64 && info.Arch != ArchAArch64 {
		t.Errorf("Arch = %v, want x86_64 or aarch64", info.Arch)
	}
	if info.ArchRaw == "" {
		t.Error("ArchRaw should not be empty")
	}
	if info.Triple.Arch != info.Arch {
		t.Errorf("Triple.Arch = %v, want %v", info.Triple.Arch, info.Arch)
	}

	if runtime.GOOS == "linux" && info.Platform != "" && info.Family == "" {
		t.Error("If Platform is set, Family should also be set")
	}
	if runtime.GOOS != "linux" && info.Platform != "" {
		t.Errorf("Platform should be empty on non-Linux, got %v", info.Platform)
	}
}

func TestRealDetector_Native(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		native   Encoding
		want     string
		wantRaw  string
		wantFail bool
	}{
		{"windows_machine_code", "windows", MachineAMD64, "x86_64-pc-windows-msvc", "0x8664", false},
		{"windows_processor_code", "windows", ProcessorARM64, "aarch64-pc-windows-msvc", "12", false},
		{"windows_env_symbolic", "windows", Symbolic("AMD64"), "x86_64-pc-windows-msvc", "AMD64", false},
		{"darwin_arm64", "darwin", Symbolic("arm64"), "aarch64-apple-darwin", "arm64", false},
		{"windows_x86", "windows", Symbolic("x86"), "", "", true},
		{"windows_ia64_code", "windows", ProcessorCode(6), "", "", true},
		{"plan9", "plan9", Symbolic("amd64"), "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &RealDetector{
				goos:   tt.goos,
				getenv: func(string) string { return "" },
				native: fakeNative(tt.native),
			}

			info, err := d.Detect(context.Background())
			if tt.wantFail {
				if !errors.Is(err, ErrUnsupportedPlatform) {
					t.Fatalf("Detect() error = %v, want ErrUnsupportedPlatform", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if got := info.Triple.String(); got != tt.want {
				t.Errorf("Triple = %q, want %q", got, tt.want)
			}
			if info.ArchRaw != tt.wantRaw {
				t.Errorf("ArchRaw = %q, want %q", info.ArchRaw, tt.wantRaw)
			}
		})
	}
}

func TestRealDetector_OverrideWins(t *testing.T) {
	called := false
	d := &RealDetector{
		archOverride: "9",
		goos:         "windows",
		getenv:       func(string) string { return "" },
		native: func(context.Context, func(string) string) Encoding {
			called = true
			return Symbolic("arm64")
		},
	}

	info, err := d.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if called {
		t.Error("native detection ran despite override")
	}
	if info.Arch != ArchX86_64 {
		t.Errorf("Arch = %v, want x86_64", info.Arch)
	}
	if info.ArchRaw != "9" {
		t.Errorf("ArchRaw = %q, want %q", info.ArchRaw, "9")
	}
}

func TestRealDetector_UnsupportedOverrideReportsRawValue(t *testing.T) {
	d := &RealDetector{
		archOverride: "ppc64le",
		goos:         "linux",
		getenv:       func(string) string { return "" },
		native:       fakeNative(Symbolic("x86_64")),
	}

	_, err := d.Detect(context.Background())
	var upe *UnsupportedPlatformError
	if !errors.As(err, &upe) {
		t.Fatalf("Detect() error = %v, want *UnsupportedPlatformError", err)
	}
	if upe.Raw != "ppc64le" {
		t.Errorf("Raw = %q, want %q", upe.Raw, "ppc64le")
	}
}

func TestMapFamily(t *testing.T) {
	tests := map[string]string{
		"debian":   FamilyDebian,
		"Ubuntu":   FamilyDebian,
		" rhel ":   FamilyRHEL,
		"manjaro":  FamilyArch,
		"slackware": FamilyUnknown,
		"":         FamilyUnknown,
	}
	for input, want := range tests {
		if got := mapFamily(input); got != want {
			t.Errorf("mapFamily(%q) = %q, want %q", input, got, want)
		}
	}
}

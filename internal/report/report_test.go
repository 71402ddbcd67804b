package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestPrinter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut)

	p.Title("OpenFang installer")
	p.Step("Detecting platform")
	p.Success("Platform: %s", "x86_64-unknown-linux-gnu")
	p.Warn("checksum unavailable, skipping verification")
	p.Detail("install dir", "/home/me/.openfang/bin")
	p.Command("openfang --help")
	p.Error(errors.New("boom"), "Build from source: cargo install openfang")

	got := out.String()
	for _, want := range []string{
		"OpenFang installer\n\n",
		"→ Detecting platform\n",
		"  ✓ Platform: x86_64-unknown-linux-gnu\n",
		"  ⚠ checksum unavailable, skipping verification\n",
		"    install dir: /home/me/.openfang/bin\n",
		"    openfang --help\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("stdout missing %q\ngot:\n%s", want, got)
		}
	}
	if strings.Contains(got, "boom") {
		t.Error("error went to stdout")
	}

	gotErr := errOut.String()
	if !strings.Contains(gotErr, "✗ Error: boom\n") {
		t.Errorf("stderr = %q, want error line", gotErr)
	}
	if !strings.Contains(gotErr, "  Build from source: cargo install openfang\n") {
		t.Errorf("stderr = %q, want hint line", gotErr)
	}
}

func TestPrinterNoColorOnBuffers(t *testing.T) {
	var out bytes.Buffer
	NewPrinter(&out, &out).Success("done")
	if strings.Contains(out.String(), "\x1b[") {
		t.Errorf("output to non-terminal contains ANSI escapes: %q", out.String())
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "openfang")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVerifyInstalled(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		want    string
		wantErr bool
	}{
		{"prints_version", "echo 'openfang 0.1.0'\n", "openfang 0.1.0", false},
		{"multi_line", "printf 'openfang 0.2.0\\nbuild abc\\n'\n", "openfang 0.2.0", false},
		{"non_zero_exit", "echo nope; exit 3\n", "", true},
		{"silent", "exit 0\n", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exe := writeScript(t, tt.script)

			got, err := VerifyInstalled(context.Background(), exe)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VerifyInstalled() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("VerifyInstalled() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInstalledLineFallback(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "openfang")
	if got := InstalledLine(context.Background(), missing); got != "installed to "+missing {
		t.Errorf("InstalledLine() = %q, want fallback", got)
	}
}

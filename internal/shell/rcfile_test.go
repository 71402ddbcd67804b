package shell

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestGetRCFilePath(t *testing.T) {
	testHome := filepath.Join("home", "testuser")

	tests := []struct {
		name    string
		shell   ShellType
		want    string
		wantErr bool
	}{
		{
			name:  "Bash RC file",
			shell: ShellBash,
			want:  filepath.Join(testHome, ".bashrc"),
		},
		{
			name:  "Zsh RC file",
			shell: ShellZsh,
			want:  filepath.Join(testHome, ".zshrc"),
		},
		{
			name:  "Fish RC file",
			shell: ShellFish,
			want:  filepath.Join(testHome, ".config", "fish", "config.fish"),
		},
		{
			name:  "Sh profile",
			shell: ShellSh,
			want:  filepath.Join(testHome, ".profile"),
		},
		{
			name:    "Unknown shell",
			shell:   ShellUnknown,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetRCFilePath(testHome, tt.shell)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetRCFilePath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("GetRCFilePath() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetRCFilePathUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	got, err := GetRCFilePath("", ShellBash)
	if err != nil {
		t.Fatalf("GetRCFilePath() error = %v", err)
	}
	if got != filepath.Join(home, ".bashrc") {
		t.Errorf("GetRCFilePath() = %s, want under %s", got, home)
	}
}

func TestPathLine(t *testing.T) {
	tests := []struct {
		name  string
		shell ShellType
		dir   string
		want  string
	}{
		{"bash", ShellBash, "/home/me/.openfang/bin", `export PATH="/home/me/.openfang/bin:$PATH"`},
		{"zsh", ShellZsh, "/home/me/.openfang/bin", `export PATH="/home/me/.openfang/bin:$PATH"`},
		{"sh", ShellSh, "/opt/openfang", `export PATH="/opt/openfang:$PATH"`},
		{"fish", ShellFish, "/home/me/.openfang/bin", `set -gx PATH "/home/me/.openfang/bin" $PATH`},
		{"spaces", ShellBash, "/home/my user/bin", `export PATH="/home/my user/bin:$PATH"`},
		{"special_chars", ShellBash, `/tmp/a"b$c`, `export PATH="/tmp/a\"b\$c:$PATH"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PathLine(tt.shell, tt.dir)
			if err != nil {
				t.Fatalf("PathLine() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("PathLine() = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := PathLine(ShellUnknown, "/x"); err == nil {
		t.Error("PathLine(unknown) should fail")
	}
}

func TestAddLine(t *testing.T) {
	tests := []struct {
		name     string
		existing *string
		want     string
	}{
		{
			name: "new_file",
			want: "\n" + PathMarker + "\nexport PATH=x\n",
		},
		{
			name:     "existing_with_newline",
			existing: ptr("alias ll='ls -l'\n"),
			want:     "alias ll='ls -l'\n\n" + PathMarker + "\nexport PATH=x\n",
		},
		{
			name:     "existing_without_newline",
			existing: ptr("alias ll='ls -l'"),
			want:     "alias ll='ls -l'\n\n" + PathMarker + "\nexport PATH=x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rcPath := filepath.Join(t.TempDir(), ".config", "fish", "config.fish")
			if tt.existing != nil {
				if err := os.MkdirAll(filepath.Dir(rcPath), 0755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(rcPath, []byte(*tt.existing), 0600); err != nil {
					t.Fatal(err)
				}
			}

			if err := AddLine(rcPath, "export PATH=x"); err != nil {
				t.Fatalf("AddLine() error = %v", err)
			}

			got, err := os.ReadFile(rcPath)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}

			if tt.existing != nil && runtime.GOOS != "windows" {
				info, _ := os.Stat(rcPath)
				if info.Mode().Perm() != 0600 {
					t.Errorf("mode = %v, want 0600 preserved", info.Mode().Perm())
				}
			}

			entries, _ := os.ReadDir(filepath.Dir(rcPath))
			for _, e := range entries {
				if strings.HasPrefix(e.Name(), ".openfang-tmp-") {
					t.Errorf("temp file %s left behind", e.Name())
				}
			}
		})
	}
}

func TestAddLineRejectsMultiline(t *testing.T) {
	rcPath := filepath.Join(t.TempDir(), ".bashrc")
	if err := AddLine(rcPath, "export PATH=x\nrm -rf ~"); err == nil {
		t.Fatal("AddLine() should reject multi-line input")
	}
	if _, err := os.Stat(rcPath); !os.IsNotExist(err) {
		t.Error("rc file should not be created on rejected input")
	}
}

func TestAddLineFollowsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "dotfiles", "bashrc")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("# managed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, ".bashrc")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	if err := AddLine(link, "export PATH=x"); err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Error("symlink was replaced by a regular file")
	}
	got, _ := os.ReadFile(target)
	if !strings.Contains(string(got), "export PATH=x") {
		t.Errorf("symlink target not updated: %q", got)
	}
}

func TestBackupRCFile(t *testing.T) {
	rcPath := filepath.Join(t.TempDir(), ".zshrc")
	if err := os.WriteFile(rcPath, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := BackupRCFile(rcPath)
	if err != nil {
		t.Fatalf("BackupRCFile() error = %v", err)
	}
	if backup != rcPath+BackupSuffix {
		t.Errorf("backup path = %s", backup)
	}
	if got, _ := os.ReadFile(backup); string(got) != "original" {
		t.Errorf("backup content = %q", got)
	}

	if _, err := BackupRCFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("BackupRCFile(missing) should fail")
	}
}

func ptr(s string) *string { return &s }

func TestMentions(t *testing.T) {
	tests := []struct {
		name    string
		shell   ShellType
		dir     string
		content string
		want    bool
	}{
		{"plain", ShellBash, "/opt/openfang/bin", "", true},
		{"dollar", ShellBash, "/home/u/my$apps/bin", "", true},
		{"quote_and_backslash", ShellZsh, `/tmp/a"b\c`, "", true},
		{"backtick_fish", ShellFish, "/tmp/a`b", "", true},
		{"absent", ShellBash, "/opt/openfang/bin", "# nothing here\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := tt.content
			if content == "" {
				line, err := PathLine(tt.shell, tt.dir)
				if err != nil {
					t.Fatalf("PathLine() error = %v", err)
				}
				content = "# openfang\n" + line + "\n"
			}
			if got := Mentions(content, tt.dir); got != tt.want {
				t.Errorf("Mentions() = %v, want %v", got, tt.want)
			}
			if tt.want && !strings.Contains(Unescape(content), tt.dir) {
				t.Errorf("Unescape(%q) does not contain %q", content, tt.dir)
			}
		})
	}
}

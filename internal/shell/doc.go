// Package shell puts the install directory on PATH for Unix shells by editing
// the user's shell rc file.
//
// This package handles:
//   - Detecting the user's shell (bash, zsh, fish, or a POSIX sh fallback)
//   - Locating shell configuration files (rc files)
//   - Generating the PATH line for each shell
//   - Safely appending that line to the rc file
//
// # Shell Detection
//
// Shell detection tries multiple methods:
//  1. $SHELL environment variable (most reliable)
//  2. Parent process name via gopsutil (fallback)
//
// # RC File Management
//
//   - bash: ~/.bashrc
//   - zsh: ~/.zshrc
//   - fish: ~/.config/fish/config.fish
//   - sh and anything unrecognized: ~/.profile
//
// All modifications are:
//   - Idempotent (the directory is only added when not already mentioned)
//   - Optionally backed up before changes
//   - Atomic (using temp file + rename)
//
// # Example Usage
//
//	manager := shell.NewManager(shell.Config{})
//	result, err := manager.AddPath(manager.Detect(), "/home/me/.openfang/bin", shell.SetupOptions{Backup: true})
package shell

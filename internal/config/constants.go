package config

import "time"

const (
	// EnvPrefix is prepended to every configuration key when read from the environment.
	EnvPrefix = "OPENFANG"

	// BinaryName is the executable shipped in every release archive.
	BinaryName = "openfang"

	DefaultRepo        = "RightNow-AI/openfang"
	DefaultAPIURL      = "https://api.github.com"
	DefaultDownloadURL = "https://github.com"
	DefaultTimeout     = 5 * time.Minute

	// DefaultConfigDir is relative to the home directory.
	DefaultConfigDir = ".openfang"

	// DefaultLuaFile is looked up in DefaultConfigDir when --config is not given.
	DefaultLuaFile = "install.lua"

	// DefaultInstallSubdir is relative to DefaultConfigDir.
	DefaultInstallSubdir = "bin"
)

// Configuration keys shared by viper, mapstructure and the Lua install table.
const (
	keyInstallDir      = "install_dir"
	keyVersion         = "version"
	keyRepo            = "repo"
	keyArch            = "arch"
	keyKeyring         = "keyring"
	keyTimeout         = "timeout"
	keyDownloadRetries = "download_retries"
	keyNoModifyPath    = "no_modify_path"
	keyAPIURL          = "api_url"
	keyDownloadURL     = "download_url"
	keyGitHubToken     = "github_token"
	keyVerbose         = "verbose"
)

// Lua schema
const (
	luaGlobalInstall   = "install"
	luaFieldModifyPath = "modify_path"
)

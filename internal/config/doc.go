// Package config assembles the installer's single Config value from four
// layers, lowest precedence first:
//
//  1. built-in defaults
//  2. an optional Lua file (--config, or ~/.openfang/install.lua)
//  3. OPENFANG_* environment variables (plus GITHUB_TOKEN)
//  4. command-line flags that were explicitly set
//
// The layers are merged with viper. The result is validated once and then
// passed by pointer through the install pipeline; nothing downstream reads
// the environment.
//
// # Lua Files
//
// A Lua file sets a global install table:
//
//	install = {
//	  install_dir = "/opt/openfang/bin",
//	  version     = platform.when(platform.is_macos, "v0.3.1"),
//	  modify_path = false,
//	  timeout     = 120, -- seconds, or a duration string such as "2m"
//	}
//
// A read-only platform table describing the detected host is injected before
// the file runs, so values can branch per OS or architecture. Fields that
// evaluate to nil are ignored. Unknown fields are rejected.
//
// # Security Model
//
// The file runs in a sandboxed gopher-lua VM: the os, io and debug
// libraries and every code-loading function are removed, execution is bounded
// by a deadline, and files larger than MaxLuaFileSize are refused. The source
// is also scanned for hardcoded tokens; findings are reported as warnings
// with the secret redacted.
package config

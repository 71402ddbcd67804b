package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/openfang/installer/internal/platform"
)

const (
	// MaxLuaFileSize bounds the size of a Lua config file.
	MaxLuaFileSize = 64 * 1024

	// luaExecTimeout bounds Lua execution so a runaway loop cannot hang the installer.
	luaExecTimeout = 5 * time.Second
)

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	File    string // empty for in-memory sources
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// luaStringFields are copied verbatim from the install table.
var luaStringFields = map[string]bool{
	keyInstallDir:  true,
	keyVersion:     true,
	keyRepo:        true,
	keyArch:        true,
	keyKeyring:     true,
	keyAPIURL:      true,
	keyDownloadURL: true,
}

// readLuaFile reads path, refusing files over MaxLuaFileSize.
func readLuaFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxLuaFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read config file: %w", err)
	}
	if len(data) > MaxLuaFileSize {
		return "", &ParseError{
			File:    path,
			Message: "config file too large",
			Detail:  fmt.Sprintf("limit is %d bytes", MaxLuaFileSize),
		}
	}
	return string(data), nil
}

// parseLua runs src in a sandboxed VM and returns the install table as a
// map keyed like Config's mapstructure tags, ready for viper.MergeConfigMap.
// info may be nil, in which case no platform table is injected.
func parseLua(ctx context.Context, src string, info *platform.Info) (map[string]any, error) {
	L := newSandboxedVM()
	defer L.Close()

	ctx, cancel := context.WithTimeout(ctx, luaExecTimeout)
	defer cancel()
	L.SetContext(ctx)

	if info != nil {
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(src); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ParseError{Message: "config evaluation aborted", Detail: ctxErr.Error()}
		}
		return nil, &ParseError{Message: "Lua error", Detail: err.Error()}
	}

	return extractInstallTable(L)
}

// extractInstallTable converts the global install table. A missing table
// yields an empty map so that a file containing only comments is valid.
func extractInstallTable(L *lua.LState) (map[string]any, error) {
	global := L.GetGlobal(luaGlobalInstall)
	switch global.Type() {
	case lua.LTNil:
		return map[string]any{}, nil
	case lua.LTTable:
	default:
		return nil, &ParseError{
			Message: "invalid 'install' table",
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	out := make(map[string]any)
	var errs []error

	global.(*lua.LTable).ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTString {
			errs = append(errs, fmt.Errorf("unexpected key %s", k.String()))
			return
		}
		key := k.String()

		val, err := convertField(key, v)
		if err != nil {
			errs = append(errs, err)
			return
		}
		if key == luaFieldModifyPath {
			out[keyNoModifyPath] = !val.(bool)
			return
		}
		out[key] = val
	})

	if err := errors.Join(errs...); err != nil {
		return nil, &ParseError{
			Message: "invalid 'install' table",
			Detail:  strings.ReplaceAll(err.Error(), "\n", "; "),
		}
	}
	return out, nil
}

// convertField validates the Lua type of one install field.
func convertField(key string, v lua.LValue) (any, error) {
	switch {
	case luaStringFields[key]:
		s, ok := v.(lua.LString)
		if !ok {
			return nil, fmt.Errorf("%s: expected string, got %s", key, v.Type())
		}
		return string(s), nil

	case key == luaFieldModifyPath:
		b, ok := v.(lua.LBool)
		if !ok {
			return nil, fmt.Errorf("%s: expected boolean, got %s", key, v.Type())
		}
		return bool(b), nil

	case key == keyTimeout:
		switch tv := v.(type) {
		case lua.LString:
			d, err := time.ParseDuration(string(tv))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			return d.String(), nil
		case lua.LNumber:
			secs := float64(tv)
			if secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
				return nil, fmt.Errorf("%s: must be a non-negative number of seconds", key)
			}
			return time.Duration(secs * float64(time.Second)).String(), nil
		default:
			return nil, fmt.Errorf("%s: expected string or number, got %s", key, v.Type())
		}

	case key == keyDownloadRetries:
		n, ok := v.(lua.LNumber)
		if !ok || float64(n) != math.Trunc(float64(n)) || n < 0 {
			return nil, fmt.Errorf("%s: expected a non-negative integer", key)
		}
		return int(n), nil

	default:
		return nil, fmt.Errorf("unknown field %q", key)
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return err.Error()
	}

	prefix := parseErr.Message
	if parseErr.File != "" {
		prefix = parseErr.File + ": " + prefix
	}
	if verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s", prefix, parseErr.Detail)
	}

	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", prefix, detail)
}

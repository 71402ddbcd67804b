package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM removes every global that reaches outside the VM: the os, io
// and debug libraries and all code-loading functions. string, table, math and
// the basic functions (type, tostring, pairs, ...) stay available.
func sandboxLuaVM(L *lua.LState) {
	for _, name := range []string{
		"os",
		"io",
		"debug",
		"package",
		"require",
		"module",
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"collectgarbage",
	} {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a Lua state with sandboxing applied. Callers must Close it.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize:       120,
		RegistrySize:        1024 * 20,
		IncludeGoStackTrace: false,
	})
	sandboxLuaVM(L)
	return L
}

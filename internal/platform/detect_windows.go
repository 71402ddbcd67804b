//go:build windows

package platform

import (
	"context"

	"golang.org/x/sys/windows"
)

// nativeEncoding asks the OS for the native machine type. A 32-bit or
// emulated process still sees the host architecture through IsWow64Process2.
// Older Windows builds without that API fall back to the PROCESSOR_*
// environment variables.
func nativeEncoding(_ context.Context, getenv func(string) string) Encoding {
	var processMachine, nativeMachine uint16
	if err := windows.IsWow64Process2(windows.CurrentProcess(), &processMachine, &nativeMachine); err == nil && nativeMachine != 0 {
		return MachineCode(nativeMachine)
	}

	if v := getenv("PROCESSOR_ARCHITEW6432"); v != "" {
		return Symbolic(v)
	}
	if v := getenv("PROCESSOR_ARCHITECTURE"); v != "" {
		return Symbolic(v)
	}
	return kernelArch()
}

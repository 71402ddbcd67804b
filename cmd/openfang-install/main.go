// Command openfang-install downloads, verifies and installs the OpenFang
// binary for the current platform.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Version information, set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

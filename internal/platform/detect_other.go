//go:build !windows

package platform

import "context"

func nativeEncoding(_ context.Context, _ func(string) string) Encoding {
	return kernelArch()
}

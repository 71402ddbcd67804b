package platform

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct {
	archOverride string
	goos         string
	getenv       func(string) string
	native       func(ctx context.Context, getenv func(string) string) Encoding
}

// NewDetector creates a new platform detector. A non-empty archOverride is
// parsed with ParseEncoding and replaces native architecture detection.
func NewDetector(archOverride string) Detector {
	return &RealDetector{
		archOverride: archOverride,
		goos:         runtime.GOOS,
		getenv:       os.Getenv,
		native:       nativeEncoding,
	}
}

// Detect performs platform detection and returns platform information.
//
// The architecture comes from the override when one was given, otherwise from
// the native source for the running OS (see nativeEncoding). On Linux, if
// gopsutil fails to detect the distribution, the distro fields stay empty and
// detection continues.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	enc := d.encoding(ctx)

	arch, err := Normalize(enc)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}

	triple, err := TripleFor(d.goos, arch)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}

	info := &Info{
		OS:      d.goos,
		Arch:    arch,
		ArchRaw: enc.Raw(),
		Triple:  triple,
	}

	if d.goos == "linux" {
		platform, family, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
			}
			return info, nil
		}

		platform = normalizePlatform(platform)
		if platform != "" {
			info.Platform = platform
			info.Family = mapFamily(family)
			info.Version = normalizePlatform(version)
		}
	}

	return info, nil
}

func (d *RealDetector) encoding(ctx context.Context) Encoding {
	if d.archOverride != "" {
		return ParseEncoding(d.archOverride)
	}
	return d.native(ctx, d.getenv)
}

// kernelArch reports the kernel architecture through gopsutil, falling back
// to the architecture the installer itself was compiled for.
func kernelArch() Encoding {
	if arch, err := host.KernelArch(); err == nil && arch != "" {
		return Symbolic(arch)
	}
	return Symbolic(runtime.GOARCH)
}

package main

import (
	"errors"
	"fmt"

	"github.com/openfang/installer/internal/binary"
	"github.com/openfang/installer/internal/installer"
	"github.com/openfang/installer/internal/platform"
	"github.com/openfang/installer/internal/receipt"
	"github.com/openfang/installer/internal/release"
)

// Process exit codes.
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitUnsupported      = 2
	ExitVersion          = 3
	ExitDownload         = 4
	ExitVerification     = 5
	ExitExecutableAbsent = 6
)

// ExitError carries the exit code for an error that was already reported.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, platform.ErrUnsupportedPlatform):
		return ExitUnsupported
	case errors.Is(err, release.ErrVersionResolutionFailed):
		return ExitVersion
	case errors.Is(err, binary.ErrArtifactDownloadFailed):
		return ExitDownload
	case errors.Is(err, binary.ErrChecksumMismatch), errors.Is(err, binary.ErrSignatureInvalid):
		return ExitVerification
	case errors.Is(err, binary.ErrExecutableNotFound):
		return ExitExecutableAbsent
	default:
		return ExitFailure
	}
}

// hintsFor returns follow-up advice printed under the error.
func hintsFor(err error, repo string) []string {
	var hints []string
	if installer.NeedsSourceHint(err) {
		hints = append(hints, installer.SourceBuildHint(repo))
	}
	switch {
	case errors.Is(err, receipt.ErrLockExists):
		hints = append(hints, "Wait for the other install to finish, then run again.")
	case errors.Is(err, release.ErrReleaseNotFound):
		hints = append(hints, "Pin a tag with --version or OPENFANG_VERSION if the repository has no published release.")
	case errors.Is(err, platform.ErrUnsupportedPlatform):
		hints = append(hints, "Prebuilt binaries exist for x86_64 and aarch64 on Linux, macOS and Windows.")
	}
	var rl *release.RateLimitError
	if errors.As(err, &rl) {
		hints = append(hints, "Set GITHUB_TOKEN to raise the API rate limit.")
	}
	return hints
}

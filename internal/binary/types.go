package binary

import (
	"errors"
	"fmt"
)

var (
	// ErrArtifactDownloadFailed is wrapped by every DownloadError.
	ErrArtifactDownloadFailed = errors.New("artifact download failed")
	// ErrChecksumMismatch is wrapped by every ChecksumError.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrSignatureInvalid means a required OpenPGP signature was missing or did not verify.
	ErrSignatureInvalid = errors.New("signature verification failed")
	// ErrExecutableNotFound is wrapped by every NotFoundError.
	ErrExecutableNotFound = errors.New("executable not found")
)

// VerificationMethod indicates how an archive was verified
type VerificationMethod int

const (
	// VerificationNone means no checksum was published; the archive was used unverified
	VerificationNone VerificationMethod = iota
	// VerificationGPG indicates an OpenPGP signature was checked in addition to any checksum
	VerificationGPG
	// VerificationSHA256 indicates SHA256 checksum verification was used
	VerificationSHA256
)

// String returns the string representation of the verification method
func (v VerificationMethod) String() string {
	switch v {
	case VerificationGPG:
		return "GPG"
	case VerificationSHA256:
		return "SHA256"
	case VerificationNone:
		return "None"
	default:
		return "Unknown"
	}
}

// VerificationResult contains the outcome of a verification attempt
type VerificationResult struct {
	Method VerificationMethod
	// Digest is the lower-case hex SHA-256 of the archive, computed even
	// when no checksum file was available.
	Digest string
}

// DownloadError reports a failed fetch of the release archive.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

// Unwrap exposes both ErrArtifactDownloadFailed and the underlying cause.
func (e *DownloadError) Unwrap() []error {
	return []error{ErrArtifactDownloadFailed, e.Err}
}

// ChecksumError reports a digest mismatch. Both digests are in the message.
type ChecksumError struct {
	File     string
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	expected := e.Expected
	if expected == "" {
		expected = "<empty checksum file>"
	}
	return fmt.Sprintf("checksum mismatch for %s:\n  expected: %s\n  actual:   %s",
		e.File, expected, e.Actual)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// SignatureError reports a missing or invalid detached signature.
type SignatureError struct {
	File string
	Err  error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("verify signature of %s: %v", e.File, e.Err)
}

// Unwrap exposes both ErrSignatureInvalid and the underlying cause.
func (e *SignatureError) Unwrap() []error {
	return []error{ErrSignatureInvalid, e.Err}
}

// NotFoundError reports that the extracted archive has no executable of the
// expected name.
type NotFoundError struct {
	Name string
	Root string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in extracted archive %s", e.Name, e.Root)
}

func (e *NotFoundError) Unwrap() error { return ErrExecutableNotFound }

package binary

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// Verifier handles cryptographic verification of release archives
type Verifier struct {
	keyring openpgp.EntityList
}

// NewVerifier creates a verifier. keyringPath may be empty, in which case only
// checksums are verified.
func NewVerifier(keyringPath string) (*Verifier, error) {
	if keyringPath == "" {
		return &Verifier{}, nil
	}
	if !keyringExists(keyringPath) {
		return nil, fmt.Errorf("keyring %s is missing or empty", keyringPath)
	}
	keyring, err := LoadKeyring(keyringPath)
	if err != nil {
		return nil, err
	}
	return &Verifier{keyring: keyring}, nil
}

// RequiresSignature reports whether a keyring is configured.
func (v *Verifier) RequiresSignature() bool {
	return len(v.keyring) > 0
}

// VerifyFile checks archivePath against checksumPath (when non-empty) and, if a
// keyring is configured, against signaturePath. A missing checksum yields
// VerificationNone; a missing signature with a keyring configured is an error.
func (v *Verifier) VerifyFile(archivePath, checksumPath, signaturePath string) (*VerificationResult, error) {
	actual, err := calculateSHA256(archivePath)
	if err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	result := &VerificationResult{Method: VerificationNone, Digest: actual}

	if checksumPath != "" {
		if err := VerifyChecksum(archivePath, actual, checksumPath); err != nil {
			return nil, err
		}
		result.Method = VerificationSHA256
	}

	if v.RequiresSignature() {
		if signaturePath == "" {
			return nil, &SignatureError{
				File: filepath.Base(archivePath),
				Err:  errors.New("keyring configured but no signature available"),
			}
		}
		if err := v.verifyGPG(archivePath, signaturePath); err != nil {
			return nil, &SignatureError{File: filepath.Base(archivePath), Err: err}
		}
		result.Method = VerificationGPG
	}

	return result, nil
}

// VerifyChecksum compares actual against the first whitespace-delimited token
// of the checksum file, ignoring case. An empty file is a mismatch.
func VerifyChecksum(archivePath, actual, checksumPath string) error {
	data, err := os.ReadFile(checksumPath)
	if err != nil {
		return fmt.Errorf("read checksum file: %w", err)
	}

	expected := parseChecksum(data)
	if expected == "" || !strings.EqualFold(actual, expected) {
		return &ChecksumError{
			File:     filepath.Base(archivePath),
			Expected: expected,
			Actual:   actual,
		}
	}

	return nil
}

// parseChecksum returns the first token of a "<hex>  <filename>" line.
func parseChecksum(data []byte) string {
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// verifyGPG verifies a file using a detached OpenPGP signature
func (v *Verifier) verifyGPG(archivePath, signaturePath string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	sigFile, err := os.Open(signaturePath)
	if err != nil {
		return fmt.Errorf("open signature: %w", err)
	}
	defer sigFile.Close()

	// Try armored first, then binary.
	_, err = openpgp.CheckArmoredDetachedSignature(v.keyring, archiveFile, sigFile, nil)
	if err != nil {
		if _, serr := archiveFile.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("rewind archive: %w", serr)
		}
		if _, serr := sigFile.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("rewind signature: %w", serr)
		}
		_, err = openpgp.CheckDetachedSignature(v.keyring, archiveFile, sigFile, nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}

	return nil
}

// calculateSHA256 calculates the SHA256 checksum of a file
func calculateSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Package binary fetches, verifies, unpacks, and installs the openfang release
// archive.
//
// # Security Model
//
// Nothing reaches the install directory before verification succeeds:
//   - Archives are downloaded into a private Workspace under the OS temp dir
//   - The SHA-256 checksum published next to the archive is compared against
//     the downloaded bytes when it is available
//   - When a keyring is configured, a detached OpenPGP signature is required
//     and must verify against it
//
// # Verification Strategy
//
// 1. SHA-256 Checksum (default)
//   - Downloads <archive>.sha256
//   - The first whitespace-delimited token is the expected digest
//   - A missing checksum file is a warning, a wrong one is fatal
//
// 2. OpenPGP Signature (opt-in)
//   - Downloads <archive>.asc
//   - Verifies against the armored or binary keyring at OPENFANG_KEYRING
//
// # Usage
//
//	ws, err := binary.NewWorkspace("")
//	if err != nil {
//	    return err
//	}
//	defer ws.Close()
//
//	d := binary.NewDownloader(binary.DownloaderOptions{})
//	archive, err := d.FetchArtifact(ctx, ref.DownloadURL, ws.Path(ref.ArchiveName))
//	...
//	exe, err := binary.FindExecutable(ws.ExtractDir(), "openfang")
//	...
//	target, err := binary.Install(exe, installDir, "openfang")
//
// # Architecture
//
// The package is organized into several components:
//   - Workspace: scratch directory lifecycle
//   - Downloader: HTTP download with optional retries
//   - Verifier: SHA-256 and OpenPGP verification
//   - Extract/FindExecutable: archive unpacking (zip, tar.gz)
//   - Install: atomic placement into the install directory
package binary

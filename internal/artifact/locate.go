// Package artifact builds release artifact URLs from a repository, a version
// tag and a platform triple. It performs no I/O.
package artifact

import (
	"fmt"
	"strings"

	"github.com/openfang/installer/internal/platform"
)

// DefaultDownloadBase is the host serving release downloads.
const DefaultDownloadBase = "https://github.com"

// Source identifies where releases are published.
type Source struct {
	DownloadBase string // e.g. "https://github.com"
	Repo         string // "owner/name"
	Name         string // artifact prefix, e.g. "openfang"
}

// Reference holds the URLs for one release artifact and its companions.
type Reference struct {
	ArchiveName  string // e.g. "openfang-x86_64-pc-windows-msvc.zip"
	DownloadURL  string
	ChecksumURL  string // DownloadURL + ".sha256"
	SignatureURL string // DownloadURL + ".asc"
}

// Locate returns the artifact reference for version on triple.
// The version tag is used verbatim.
func Locate(src Source, version string, triple platform.Triple) Reference {
	base := strings.TrimRight(src.DownloadBase, "/")
	if base == "" {
		base = DefaultDownloadBase
	}

	archive := fmt.Sprintf("%s-%s%s", src.Name, triple, triple.ArchiveExt())
	download := fmt.Sprintf("%s/%s/releases/download/%s/%s", base, strings.Trim(src.Repo, "/"), version, archive)

	return Reference{
		ArchiveName:  archive,
		DownloadURL:  download,
		ChecksumURL:  download + ".sha256",
		SignatureURL: download + ".asc",
	}
}

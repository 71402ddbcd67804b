// Package installer runs the install pipeline: platform detection, version
// resolution, artifact location, download, verification, extraction,
// installation, PATH update and reporting. Stages run strictly in order and
// each stage's output is the next stage's input.
package installer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/openfang/installer/internal/artifact"
	"github.com/openfang/installer/internal/binary"
	"github.com/openfang/installer/internal/config"
	"github.com/openfang/installer/internal/pathenv"
	"github.com/openfang/installer/internal/platform"
	"github.com/openfang/installer/internal/receipt"
	"github.com/openfang/installer/internal/release"
	"github.com/openfang/installer/internal/report"
)

// VersionResolver picks the release tag to install.
type VersionResolver interface {
	Resolve(ctx context.Context, override string) (release.Resolution, error)
}

// Fetcher downloads the release archive and its companion files.
type Fetcher interface {
	FetchArtifact(ctx context.Context, url, destPath string) (string, error)
	FetchChecksum(ctx context.Context, url, destPath string) (string, error)
	FetchSignature(ctx context.Context, url, destPath string) (string, error)
}

// Pipeline installs one OpenFang release per Run.
type Pipeline struct {
	cfg       *config.Config
	detector  platform.Detector
	resolver  VersionResolver
	fetcher   Fetcher
	pathStore pathenv.Store
	printer   *report.Printer
	logger    config.Logger
	clock     Clock
	tempRoot  string
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithDetector replaces platform detection.
func WithDetector(d platform.Detector) Option { return func(p *Pipeline) { p.detector = d } }

// WithResolver replaces the GitHub-backed version resolver.
func WithResolver(r VersionResolver) Option { return func(p *Pipeline) { p.resolver = r } }

// WithFetcher replaces the HTTP downloader.
func WithFetcher(f Fetcher) Option { return func(p *Pipeline) { p.fetcher = f } }

// WithPathStore replaces the platform's persistent PATH store.
func WithPathStore(s pathenv.Store) Option { return func(p *Pipeline) { p.pathStore = s } }

// WithPrinter sets the progress printer.
func WithPrinter(pr *report.Printer) Option { return func(p *Pipeline) { p.printer = pr } }

// WithLogger sets the structured logger.
func WithLogger(l config.Logger) Option { return func(p *Pipeline) { p.logger = l } }

// WithClock sets the clock used for timing.
func WithClock(c Clock) Option { return func(p *Pipeline) { p.clock = c } }

// WithTempRoot sets the directory holding the workspace and the lock file.
// The default is binary.DefaultRoot().
func WithTempRoot(dir string) Option { return func(p *Pipeline) { p.tempRoot = dir } }

// New creates a Pipeline for cfg. Collaborators not supplied through options
// are built from cfg.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = config.NopLogger()
	}
	if p.clock == nil {
		p.clock = RealClock{}
	}
	if p.tempRoot == "" {
		p.tempRoot = binary.DefaultRoot()
	}
	if p.printer == nil {
		p.printer = report.NewPrinter(os.Stdout, os.Stderr)
	}
	if p.detector == nil {
		p.detector = platform.NewDetector(cfg.Arch)
	}
	if p.resolver == nil {
		client := release.NewClient(
			release.WithBaseURL(cfg.APIURL),
			release.WithToken(cfg.GitHubToken),
			release.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			release.WithUserAgent(binary.DefaultUserAgent),
		)
		p.resolver = release.NewResolver(client, cfg.Repo)
	}
	if p.fetcher == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = -1
		}
		p.fetcher = binary.NewDownloader(binary.DownloaderOptions{
			Timeout: timeout,
			Retries: cfg.DownloadRetries,
		})
	}
	if p.pathStore == nil && !cfg.NoModifyPath {
		p.pathStore = pathenv.NewDefaultStore(cfg.HomeDir)
	}

	return p
}

// Result summarizes a successful run.
type Result struct {
	Version      release.Resolution
	Triple       platform.Triple
	Archive      string
	Executable   string
	Verification *binary.VerificationResult
	Path         pathenv.Result
	Change       receipt.Change
	Previous     string // previously installed tag, empty on a fresh install
	VersionLine  string
	Duration     time.Duration
}

// Run executes the pipeline. The workspace is removed and the lock released
// on every return path. Fatal errors are *StageError.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := p.clock.Now()
	cfg := p.cfg
	res := &Result{}

	p.printer.Title("OpenFang installer")

	lock, err := receipt.AcquireLock(ctx, p.tempRoot)
	if err != nil {
		return nil, stageErr(StagePrepare, err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			p.logger.Warn("release install lock", "error", err)
		}
	}()

	// 1. Platform
	p.printer.Step("Detecting platform")
	info, err := p.detector.Detect(ctx)
	if err != nil {
		return nil, stageErr(StagePlatform, err)
	}
	res.Triple = info.Triple
	p.printer.Success("Platform: %s", info.Triple)
	if d := info.GetDistro(); d != nil {
		p.printer.Detail("distribution", fmt.Sprintf("%s %s", d.ID, d.Version))
	}
	p.logger.Debug("platform detected", "os", info.OS, "arch", info.Arch, "raw", info.ArchRaw)

	// Keyring problems should surface before anything is downloaded.
	verifier, err := binary.NewVerifier(cfg.Keyring)
	if err != nil {
		return nil, stageErr(StageVerify, err)
	}

	// 2. Version
	p.printer.Step("Resolving version")
	resolution, err := p.resolver.Resolve(ctx, cfg.Version)
	if err != nil {
		return nil, stageErr(StageVersion, err)
	}
	res.Version = resolution
	p.printer.Success("Version: %s (%s)", resolution.Tag, resolution.Source)

	// 3. Locate
	ref := artifact.Locate(artifact.Source{
		DownloadBase: cfg.DownloadURL,
		Repo:         cfg.Repo,
		Name:         config.BinaryName,
	}, resolution.Tag, info.Triple)
	res.Archive = ref.ArchiveName
	p.logger.Debug("artifact located", "url", ref.DownloadURL)

	ws, err := binary.NewWorkspace(p.tempRoot)
	if err != nil {
		return nil, stageErr(StagePrepare, err)
	}
	defer func() {
		if err := ws.Close(); err != nil {
			p.logger.Warn("remove workspace", "path", ws.Root(), "error", err)
		}
	}()

	// 4. Fetch
	p.printer.Step("Downloading %s", ref.ArchiveName)
	archivePath, err := p.fetcher.FetchArtifact(ctx, ref.DownloadURL, ws.Path(ref.ArchiveName))
	if err != nil {
		return nil, stageErr(StageDownload, err)
	}

	checksumPath, err := p.fetcher.FetchChecksum(ctx, ref.ChecksumURL, ws.Path(ref.ArchiveName+".sha256"))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, stageErr(StageDownload, ctxErr)
	}
	if err != nil {
		checksumPath = ""
		p.printer.Warn("Checksum unavailable: %s", ref.ChecksumURL)
		p.logger.Warn("checksum unavailable", "url", ref.ChecksumURL, "error", err)
	}

	var signaturePath string
	if verifier.RequiresSignature() {
		signaturePath, err = p.fetcher.FetchSignature(ctx, ref.SignatureURL, ws.Path(ref.ArchiveName+".asc"))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, stageErr(StageDownload, ctxErr)
		}
		if err != nil {
			signaturePath = ""
			p.logger.Warn("signature unavailable", "url", ref.SignatureURL, "error", err)
		}
	}

	// 5. Verify
	verification, err := verifier.VerifyFile(archivePath, checksumPath, signaturePath)
	if err != nil {
		return nil, stageErr(StageVerify, err)
	}
	res.Verification = verification
	switch verification.Method {
	case binary.VerificationGPG:
		p.printer.Success("Signature verified")
	case binary.VerificationSHA256:
		p.printer.Success("Checksum verified")
	default:
		p.printer.Warn("Skipping verification")
	}
	p.printer.Detail("sha256", verification.Digest)

	// 6. Extract and install
	p.printer.Step("Installing")
	if err := binary.Extract(archivePath, ws.ExtractDir()); err != nil {
		return nil, stageErr(StageExtract, err)
	}
	exeName := info.Triple.ExecutableName(config.BinaryName)
	extracted, err := binary.FindExecutable(ws.ExtractDir(), exeName)
	if err != nil {
		return nil, stageErr(StageExtract, err)
	}

	previous, err := receipt.LoadIfExists(cfg.InstallDir)
	if err != nil {
		p.logger.Warn("ignoring unreadable install receipt", "error", err)
		previous = nil
	}
	res.Change = receipt.Compare(previous, resolution.Tag)
	if previous != nil {
		res.Previous = previous.Version
	}

	// Nothing has touched the install dir yet; an interrupt stops here.
	if err := ctx.Err(); err != nil {
		return nil, stageErr(StageInstall, err)
	}
	installed, err := binary.Install(extracted, cfg.InstallDir, exeName)
	if err != nil {
		return nil, stageErr(StageInstall, err)
	}
	res.Executable = installed
	p.printer.Success("Installed %s", installed)
	if res.Change == receipt.ChangeUpgrade || res.Change == receipt.ChangeDowngrade {
		p.printer.Detail(res.Change.String(), fmt.Sprintf("%s -> %s", res.Previous, resolution.Tag))
	}

	rec := receipt.New(resolution.Tag, cfg.Repo, info.Triple.String(), ref.ArchiveName,
		verification.Digest, verification.Method.String())
	if err := rec.Save(cfg.InstallDir); err != nil {
		p.logger.Warn("write install receipt", "error", err)
	}

	// 7. PATH
	res.Path = pathenv.NewUpdater(p.pathStore, cfg.NoModifyPath).Ensure(cfg.InstallDir)
	p.reportPath(res.Path, info.Triple)

	// 8. Report
	res.VersionLine = report.InstalledLine(ctx, installed)
	res.Duration = p.clock.Now().Sub(start)

	p.printer.Blank()
	p.printer.Success("%s", res.VersionLine)
	p.logger.Info("install complete", "version", resolution.Tag, "path", installed, "duration", res.Duration)

	return res, nil
}

func (p *Pipeline) reportPath(r pathenv.Result, triple platform.Triple) {
	switch r.Status {
	case pathenv.StatusUpdated:
		p.printer.Success("Added %s to PATH (%s)", p.cfg.InstallDir, r.Target)
		if triple.IsWindows() {
			p.printer.Detail("next", "restart your terminal to pick up the new PATH")
		} else {
			p.printer.Detail("next", "restart your shell, or run:")
			p.printer.Command(fmt.Sprintf(". %q", r.Target))
		}
	case pathenv.StatusAlreadyPresent:
		p.printer.Success("%s is already on PATH", p.cfg.InstallDir)
	case pathenv.StatusFailed:
		p.printer.Warn("Could not update PATH: %v", r.Err)
		p.printer.Detail("add manually", p.cfg.InstallDir)
		p.logger.Warn("update PATH", "target", r.Target, "error", r.Err)
	case pathenv.StatusSkipped:
		p.printer.Detail("PATH", "not modified; add "+p.cfg.InstallDir+" yourself")
	}
}

// SourceBuildHint is printed when no prebuilt release can be installed.
func SourceBuildHint(repo string) string {
	return fmt.Sprintf("Build from source instead: https://github.com/%s", repo)
}

// NeedsSourceHint reports whether err means no prebuilt release could be
// obtained, so building from source is the way forward.
func NeedsSourceHint(err error) bool {
	return errors.Is(err, release.ErrVersionResolutionFailed) ||
		errors.Is(err, binary.ErrArtifactDownloadFailed)
}

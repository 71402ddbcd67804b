package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/openfang/installer/internal/config"
	"github.com/openfang/installer/internal/installer"
	"github.com/openfang/installer/internal/platform"
	"github.com/openfang/installer/internal/report"
)

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	cmd := newRootCmd(out, errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	// Flag parsing and other cobra errors have not been printed yet.
	report.NewPrinter(out, errOut).Error(err, "Run 'openfang-install --help' for usage.")
	return ExitFailure
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "openfang-install",
		Short: "Install the OpenFang binary for this machine",
		Long: `openfang-install detects the platform, resolves the release to install,
downloads and verifies the release archive, installs the openfang executable
and adds the install directory to PATH.

Settings are read from, lowest precedence first: built-in defaults,
~/.openfang/install.lua (or --config), OPENFANG_* environment variables,
and flags.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstall(cmd, configFile, out, errOut)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.Flags()
	flags.String("install-dir", "", "install directory (default ~/.openfang/bin)")
	flags.String("version", "", "OpenFang release tag to install, e.g. v0.1.0 (default latest); run 'openfang-install version' for the installer's own version")
	flags.String("repo", "", "GitHub repository as owner/name (default "+config.DefaultRepo+")")
	flags.String("arch", "", "architecture override, e.g. x86_64, arm64, 9, 0xaa64")
	flags.String("keyring", "", "armored OpenPGP keyring; requires a valid .asc signature")
	flags.StringVar(&configFile, "config", "", "Lua config file (default ~/.openfang/install.lua)")
	flags.Bool("no-modify-path", false, "do not add the install directory to PATH")
	flags.Duration("timeout", config.DefaultTimeout, "per-request network timeout, 0 disables")
	flags.Int("download-retries", 0, "retries for failed downloads")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newVersionCmd(out))

	return cmd
}

func runInstall(cmd *cobra.Command, configFile string, out, errOut io.Writer) error {
	ctx := cmd.Context()
	printer := report.NewPrinter(out, errOut)

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := config.NewLogger(errOut, verbose)

	// The Lua file may branch on the host platform. Detection failures are
	// reported by the pipeline, so a nil table is fine here.
	var hostInfo *platform.Info
	if info, err := platform.NewDetector("").Detect(ctx); err == nil {
		hostInfo = info
	}

	cfg, err := config.Load(ctx, config.LoadOptions{
		ConfigFilePath: configFile,
		Flags:          cmd.Flags(),
		Platform:       hostInfo,
		Logger:         logger,
	})
	if err != nil {
		printer.Error(errors.New(config.FormatError(err, verbose)))
		return &ExitError{Code: ExitFailure, Err: err}
	}
	if cfg.Verbose && !verbose {
		logger = config.NewLogger(errOut, true)
	}
	for _, w := range cfg.Warnings {
		printer.Warn("%s", w)
	}

	pipeline := installer.New(cfg,
		installer.WithPrinter(printer),
		installer.WithLogger(logger),
	)
	if _, err := pipeline.Run(ctx); err != nil {
		printer.Error(err, hintsFor(err, cfg.Repo)...)
		return &ExitError{Code: exitCode(err), Err: err}
	}
	return nil
}

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the installer version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintf(out, "openfang-install %s (commit %s)\n", Version, Commit)
			return err
		},
	}
}

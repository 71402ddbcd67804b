package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/openfang/installer/internal/platform"
)

// Config is the complete, validated installer configuration.
type Config struct {
	InstallDir      string        `mapstructure:"install_dir"`
	Version         string        `mapstructure:"version"`
	Repo            string        `mapstructure:"repo"`
	Arch            string        `mapstructure:"arch"`
	Keyring         string        `mapstructure:"keyring"`
	Timeout         time.Duration `mapstructure:"timeout"` // 0 disables
	DownloadRetries int           `mapstructure:"download_retries"`
	APIURL          string        `mapstructure:"api_url"`
	DownloadURL     string        `mapstructure:"download_url"`
	GitHubToken     string        `mapstructure:"github_token"`
	Verbose         bool          `mapstructure:"verbose"`

	// NoModifyPath accepts any non-empty value other than 0/false/no.
	NoModifyPath bool `mapstructure:"-"`

	// HomeDir is the home directory defaults were derived from.
	HomeDir string `mapstructure:"-"`
	// ConfigFile is the Lua file that was loaded, empty if none.
	ConfigFile string `mapstructure:"-"`
	// Warnings are non-fatal findings, such as hardcoded tokens.
	Warnings []string `mapstructure:"-"`
}

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// ConfigFilePath is an explicit Lua file. It must exist when set.
	ConfigFilePath string
	// Flags are bound for every flag the user changed. May be nil.
	Flags *pflag.FlagSet
	// Platform is exposed to the Lua file. May be nil.
	Platform *platform.Info
	// HomeDir overrides os.UserHomeDir.
	HomeDir string
	Logger  Logger
}

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"install-dir":      keyInstallDir,
	"version":          keyVersion,
	"repo":             keyRepo,
	"arch":             keyArch,
	"keyring":          keyKeyring,
	"timeout":          keyTimeout,
	"download-retries": keyDownloadRetries,
	"no-modify-path":   keyNoModifyPath,
	"verbose":          keyVerbose,
}

var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// Load merges defaults, the Lua file, the environment and flags into one Config.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NopLogger()
	}

	home := opts.HomeDir
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("determine home directory: %w", err)
		}
		home = h
	}

	v := viper.New()
	setDefaults(v, home)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if err := v.BindEnv(keyGitHubToken, EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("bind token environment: %w", err)
	}

	cfg := &Config{HomeDir: home}

	luaPath, explicit := opts.ConfigFilePath, opts.ConfigFilePath != ""
	if !explicit {
		luaPath = filepath.Join(home, DefaultConfigDir, DefaultLuaFile)
	}
	if err := mergeLuaFile(ctx, v, cfg, luaPath, explicit, opts.Platform, logger); err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.NoModifyPath = truthy(v.GetString(keyNoModifyPath))

	cfg.InstallDir = expandHome(strings.TrimSpace(cfg.InstallDir), home)
	cfg.Keyring = expandHome(strings.TrimSpace(cfg.Keyring), home)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("configuration loaded",
		"install_dir", cfg.InstallDir,
		"repo", cfg.Repo,
		"version", cfg.Version,
		"config_file", cfg.ConfigFile,
		"token", cfg.GitHubToken != "")

	return cfg, nil
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault(keyInstallDir, filepath.Join(home, DefaultConfigDir, DefaultInstallSubdir))
	v.SetDefault(keyVersion, "")
	v.SetDefault(keyRepo, DefaultRepo)
	v.SetDefault(keyArch, "")
	v.SetDefault(keyKeyring, "")
	v.SetDefault(keyTimeout, DefaultTimeout)
	v.SetDefault(keyDownloadRetries, 0)
	v.SetDefault(keyNoModifyPath, "")
	v.SetDefault(keyAPIURL, DefaultAPIURL)
	v.SetDefault(keyDownloadURL, DefaultDownloadURL)
	v.SetDefault(keyGitHubToken, "")
	v.SetDefault(keyVerbose, false)
}

// mergeLuaFile evaluates path and merges its install table into v. A missing
// default file is not an error; a missing explicit file is.
func mergeLuaFile(ctx context.Context, v *viper.Viper, cfg *Config, path string, explicit bool, info *platform.Info, logger Logger) error {
	src, err := readLuaFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			logger.Debug("no config file", "path", path)
			return nil
		}
		var pe *ParseError
		if errors.As(err, &pe) {
			return err
		}
		return fmt.Errorf("load config file %s: %w", path, err)
	}

	for _, finding := range DetectSensitiveData(src) {
		cfg.Warnings = append(cfg.Warnings, path+": "+finding.String())
		logger.Warn("sensitive data in config file", "path", path, "line", finding.Line, "kind", finding.PatternName)
	}

	values, err := parseLua(ctx, src, info)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return err
	}

	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("merge config file %s: %w", path, err)
	}
	cfg.ConfigFile = path
	logger.Debug("config file loaded", "path", path, "keys", len(values))
	return nil
}

// Validate checks values that later stages rely on.
func (c *Config) Validate() error {
	var errs []error

	if c.InstallDir == "" {
		errs = append(errs, errors.New("install_dir must not be empty"))
	}
	if c.Version != "" && strings.TrimSpace(c.Version) != c.Version {
		errs = append(errs, fmt.Errorf("version %q must not contain leading or trailing whitespace", c.Version))
	}
	if !repoPattern.MatchString(c.Repo) {
		errs = append(errs, fmt.Errorf("repo %q must have the form owner/name", c.Repo))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout %s must not be negative", c.Timeout))
	}
	if c.DownloadRetries < 0 {
		errs = append(errs, fmt.Errorf("download_retries %d must not be negative", c.DownloadRetries))
	}
	for key, raw := range map[string]string{keyAPIURL: c.APIURL, keyDownloadURL: c.DownloadURL} {
		if err := validateBaseURL(raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must be an http(s) URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

// expandHome replaces a leading ~ with home.
func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(home, path[2:])
	}
	return path
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

// Package cli implements the pip-browse command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/MohammadRaziei/pip-browse/pkg/buildinfo"
	"github.com/MohammadRaziei/pip-browse/pkg/httputil"
	"github.com/MohammadRaziei/pip-browse/pkg/pypi"
)

const (
	// appName is the application name used for directories and display.
	appName = "pip-browse"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	// Persistent flags, bound once on the root command.
	jsonOut bool
	timeout int
	refresh bool
	noCache bool
}

// New creates a new CLI instance with a default logger and the on-disk
// configuration, when one exists.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: LoadConfigOrDefault(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "pip-browse explores PyPI packages without installing them",
		Long:         `pip-browse is a CLI tool for exploring PyPI packages: release tags, wheel contents, METADATA files, and dependency listings, all fetched straight from pypi.org and pypi-browser.org.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "emit JSON instead of styled output")
	root.PersistentFlags().IntVar(&c.timeout, "timeout", 0, "HTTP timeout in seconds (default from config, then 15)")
	root.PersistentFlags().BoolVar(&c.refresh, "refresh", false, "bypass the HTTP cache")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching entirely")

	root.AddCommand(c.tagsCommand())
	root.AddCommand(c.wheelsCommand())
	root.AddCommand(c.metadataCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newClient builds the PyPI client for a command invocation, honoring the
// persistent flags and the configuration file. Flags win over config.
func (c *CLI) newClient() (*pypi.Client, error) {
	timeout := c.Config.Timeout()
	if c.timeout > 0 {
		timeout = time.Duration(c.timeout) * time.Second
	}

	var cache *httputil.Cache
	if !c.noCache {
		dir := c.Config.CacheDir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				c.Logger.Warnf("Cache disabled: %v", err)
			}
		}
		if dir != "" {
			var err error
			cache, err = httputil.NewCache(dir, c.Config.CacheTTL())
			if err != nil {
				c.Logger.Warnf("Cache disabled: %v", err)
				cache = nil
			}
		}
	}

	client := pypi.NewClient(cache, timeout)
	if c.Config.JSONBaseURL != "" {
		client.JSONBaseURL = c.Config.JSONBaseURL
	}
	if c.Config.BrowserBaseURL != "" {
		client.BrowserBaseURL = c.Config.BrowserBaseURL
	}
	return client, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/pip-browse/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

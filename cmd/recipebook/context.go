package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebook/internal/config"
	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/fetch"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

type commandContext struct {
	configFlag string
	verbose    bool
	quiet      bool
	remote     bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logOnce sync.Once
	log     *logger.Logger
	logFile *os.File

	// stderr receives log output when no log file is configured.
	stderr io.Writer
}

func newCommandContext() *commandContext {
	return &commandContext{stderr: os.Stderr}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger builds the application logger once. Flags override the
// configured level; a configured log file replaces stderr.
func (c *commandContext) logger() *logger.Logger {
	c.logOnce.Do(func() {
		level := logger.LevelNormal
		var out io.Writer = c.stderr

		if cfg := c.config; cfg != nil {
			if l, err := logger.ParseLevel(cfg.Logging.Level); err == nil {
				level = l
			}
			if cfg.Logging.File != "" && cfg.Logging.File != "stderr" {
				f, err := openLogFile(cfg.Logging.File)
				if err != nil {
					fmt.Fprintf(c.stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.Logging.File, err)
				} else {
					out = f
					c.logFile = f
				}
			}
		}
		if c.verbose {
			level = logger.LevelVerbose
		}
		if c.quiet {
			level = logger.LevelOff
		}
		c.log = logger.New(level, out)
	})
	return c.log
}

// openLogFile opens path for appending, creating its directory first.
func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// interactiveLogger is the logger for commands that own the terminal:
// without a log file nothing may be written to it.
func (c *commandContext) interactiveLogger() *logger.Logger {
	log := c.logger()
	if c.logFile == nil {
		log.SetLevel(logger.LevelOff)
	}
	return log
}

// fetcher returns where view models read documents from.
func (c *commandContext) fetcher() domain.Fetcher {
	cfg := c.config
	if c.remote {
		return fetch.NewHTTPFetcher(cfg.Site.BaseURL, c.logger().Named("fetch"),
			fetch.WithTimeout(time.Duration(cfg.Site.FetchTimeout)*time.Second))
	}
	return fetch.NewDirFetcher(cfg.Paths.DistDir, c.logger().Named("fetch"))
}

func (c *commandContext) close() {
	if c.log != nil {
		_ = c.log.Sync()
	}
	if c.logFile != nil {
		c.logFile.Close()
		c.logFile = nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

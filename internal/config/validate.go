package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSite(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateNeocities(); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DistDir == "" {
		return errors.New("paths.dist_dir must be set")
	}
	if c.Paths.RecipeDir == c.Paths.DistDir {
		return errors.New("paths.recipe_dir and paths.dist_dir must differ")
	}
	return nil
}

func (c *Config) validateSite() error {
	if c.Site.BaseURL != "" {
		if err := validateHTTPURL(c.Site.BaseURL); err != nil {
			return fmt.Errorf("site.base_url: %w", err)
		}
	}
	if c.Site.DetailPrefix == c.Site.CookPrefix {
		return errors.New("site.detail_prefix and site.cook_prefix must differ")
	}
	if c.Site.FetchTimeout <= 0 {
		return errors.New("site.fetch_timeout must be positive")
	}
	if _, err := filepath.Match(c.Site.RecipePattern, "x"); err != nil {
		return fmt.Errorf("site.recipe_pattern: %w", err)
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind: %w", err)
	}
	if c.Server.ReadTimeout <= 0 {
		return errors.New("server.read_timeout must be positive")
	}
	return nil
}

func (c *Config) validateNeocities() error {
	if err := validateHTTPURL(c.Neocities.Endpoint); err != nil {
		return fmt.Errorf("neocities.endpoint: %w", err)
	}
	if strings.Contains(c.Neocities.RemoteDir, "..") {
		return errors.New("neocities.remote_dir must not contain ..")
	}
	if c.Neocities.Timeout <= 0 {
		return errors.New("neocities.timeout must be positive")
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

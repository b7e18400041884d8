package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSite()
	c.normalizeNeocities()
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.RecipeDir, err = expandPath(c.Paths.RecipeDir); err != nil {
		return fmt.Errorf("paths.recipe_dir: %w", err)
	}
	if c.Paths.ClientDir, err = expandPath(c.Paths.ClientDir); err != nil {
		return fmt.Errorf("paths.client_dir: %w", err)
	}
	if c.Paths.DistDir, err = expandPath(c.Paths.DistDir); err != nil {
		return fmt.Errorf("paths.dist_dir: %w", err)
	}
	if c.Neocities.APIKeyFile, err = expandPath(c.Neocities.APIKeyFile); err != nil {
		return fmt.Errorf("neocities.api_key_file: %w", err)
	}
	if c.Logging.File != "" && c.Logging.File != "stderr" {
		if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeSite() {
	c.Site.BaseURL = strings.TrimSpace(c.Site.BaseURL)
	if c.Site.BaseURL != "" && !strings.HasSuffix(c.Site.BaseURL, "/") {
		c.Site.BaseURL += "/"
	}
	c.Site.DetailPrefix = normalizePrefix(c.Site.DetailPrefix)
	c.Site.CookPrefix = normalizePrefix(c.Site.CookPrefix)
	if strings.TrimSpace(c.Site.RecipePattern) == "" {
		c.Site.RecipePattern = defaultRecipePattern
	}
}

func (c *Config) normalizeNeocities() {
	c.Neocities.APIKey = strings.TrimSpace(c.Neocities.APIKey)
	c.Neocities.Endpoint = strings.TrimSuffix(strings.TrimSpace(c.Neocities.Endpoint), "/")
	c.Neocities.RemoteDir = strings.Trim(strings.TrimSpace(c.Neocities.RemoteDir), "/")
}

// normalizePrefix turns "recipes", "/recipes/" and "recipes/" into
// "recipes/", and "" or "/" into "".
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

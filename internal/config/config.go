package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directories the site is built from and into.
type Paths struct {
	RecipeDir string `toml:"recipe_dir"`
	ClientDir string `toml:"client_dir"`
	DistDir   string `toml:"dist_dir"`
}

// Site contains the URLs and document layout the view models use.
type Site struct {
	BaseURL       string `toml:"base_url"`
	RecipeAPI     string `toml:"recipe_api"`
	DetailPrefix  string `toml:"detail_prefix"`
	CookPrefix    string `toml:"cook_prefix"`
	FetchTimeout  int    `toml:"fetch_timeout"`
	WriteDetail   bool   `toml:"write_detail"`
	ValidateDocs  bool   `toml:"validate_documents"`
	RecipePattern string `toml:"recipe_pattern"`
}

// Server contains the preview server settings.
type Server struct {
	Bind           string   `toml:"bind"`
	AllowedOrigins []string `toml:"allowed_origins"`
	ReadTimeout    int      `toml:"read_timeout"`
	AllowWrites    bool     `toml:"allow_writes"`
}

// Neocities contains the credentials and target of the sync command.
type Neocities struct {
	APIKey     string `toml:"api_key"`
	APIKeyFile string `toml:"api_key_file"`
	Endpoint   string `toml:"endpoint"`
	RemoteDir  string `toml:"remote_dir"`
	Delete     bool   `toml:"delete"`
	Timeout    int    `toml:"timeout"`
}

// Logging contains log output settings.
type Logging struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Config is the root configuration.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Site      Site      `toml:"site"`
	Server    Server    `toml:"server"`
	Neocities Neocities `toml:"neocities"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/recipebook/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded. A missing file is not an error; the
// defaults are used and exists is false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("recipebook.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// RecipeOutputDir is where cook documents are written.
func (c *Config) RecipeOutputDir() string {
	return filepath.Join(c.Paths.DistDir, filepath.FromSlash(strings.TrimSuffix(c.Site.CookPrefix, "/")))
}

// DetailOutputDir is where detail documents are written and saved.
func (c *Config) DetailOutputDir() string {
	return filepath.Join(c.Paths.DistDir, filepath.FromSlash(strings.TrimSuffix(c.Site.DetailPrefix, "/")))
}

// NeocitiesKey returns the API key from the config, the environment, or
// the key file, in that order. The key file holds the key on its first
// line.
func (c *Config) NeocitiesKey() (string, error) {
	if c.Neocities.APIKey != "" {
		return c.Neocities.APIKey, nil
	}
	if v := strings.TrimSpace(os.Getenv("NEOCITIES_API_KEY")); v != "" {
		return v, nil
	}
	if c.Neocities.APIKeyFile == "" {
		return "", errors.New("neocities api key not configured")
	}
	data, err := os.ReadFile(c.Neocities.APIKeyFile)
	if err != nil {
		return "", fmt.Errorf("reading neocities key file: %w", err)
	}
	first, _, _ := strings.Cut(string(data), "\n")
	key := strings.TrimSpace(first)
	if key == "" {
		return "", fmt.Errorf("neocities key file %s is empty", c.Neocities.APIKeyFile)
	}
	return key, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return "", nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		pathValue = filepath.Join(home, strings.TrimPrefix(pathValue, "~"))
	}
	return filepath.Abs(pathValue)
}

// ExpandPath expands a leading ~ and returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the sample configuration to path. An existing file is
// never overwritten.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config %s already exists", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

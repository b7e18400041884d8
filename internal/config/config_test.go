package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/hammamikhairi/recipebook/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent")
	}
	if resolved != filepath.Join(tempHome, ".config", "recipebook", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if !filepath.IsAbs(cfg.Paths.DistDir) || filepath.Base(cfg.Paths.DistDir) != "dist" {
		t.Fatalf("expected absolute dist dir, got %q", cfg.Paths.DistDir)
	}
	if cfg.Site.CookPrefix != "recipes/" || cfg.Site.DetailPrefix != "" {
		t.Fatalf("unexpected prefixes %q / %q", cfg.Site.DetailPrefix, cfg.Site.CookPrefix)
	}
	if cfg.RecipeOutputDir() != filepath.Join(cfg.Paths.DistDir, "recipes") {
		t.Fatalf("unexpected recipe output dir %q", cfg.RecipeOutputDir())
	}
	if cfg.DetailOutputDir() != cfg.Paths.DistDir {
		t.Fatalf("unexpected detail output dir %q", cfg.DetailOutputDir())
	}
}

func TestLoadFileOverridesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipebook.toml")

	raw := map[string]any{
		"paths": map[string]any{"dist_dir": filepath.Join(dir, "out")},
		"site": map[string]any{
			"base_url":    "https://cook.example.org",
			"cook_prefix": "/cook",
		},
		"neocities": map[string]any{
			"endpoint":   "https://neocities.org/",
			"remote_dir": "/site/recipes/",
		},
		"logging": map[string]any{"level": " Verbose "},
	}
	data, err := toml.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected config to exist")
	}
	if cfg.Site.BaseURL != "https://cook.example.org/" {
		t.Fatalf("expected trailing slash on base url, got %q", cfg.Site.BaseURL)
	}
	if cfg.Site.CookPrefix != "cook/" {
		t.Fatalf("unexpected cook prefix %q", cfg.Site.CookPrefix)
	}
	if cfg.Neocities.Endpoint != "https://neocities.org" || cfg.Neocities.RemoteDir != "site/recipes" {
		t.Fatalf("unexpected neocities config %+v", cfg.Neocities)
	}
	if cfg.Logging.Level != "verbose" {
		t.Fatalf("unexpected log level %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad bind", "[server]\nbind = \"nope\"\n", "server.bind"},
		{"bad endpoint", "[neocities]\nendpoint = \"ftp://x\"\n", "neocities.endpoint"},
		{"same prefixes", "[site]\ndetail_prefix = \"recipes\"\n", "detail_prefix"},
		{"bad level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"unknown key", "[site]\ncolour = \"red\"\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestNeocitiesKeySources(t *testing.T) {
	t.Setenv("NEOCITIES_API_KEY", "")
	cfg := config.Default()

	keyFile := filepath.Join(t.TempDir(), "NEOCITIES_API_KEY")
	if err := os.WriteFile(keyFile, []byte("from-file\nignored\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg.Neocities.APIKeyFile = keyFile

	key, err := cfg.NeocitiesKey()
	if err != nil || key != "from-file" {
		t.Fatalf("expected key from file, got %q, %v", key, err)
	}

	t.Setenv("NEOCITIES_API_KEY", "from-env")
	if key, _ := cfg.NeocitiesKey(); key != "from-env" {
		t.Fatalf("expected env key, got %q", key)
	}

	cfg.Neocities.APIKey = "from-config"
	if key, _ := cfg.NeocitiesKey(); key != "from-config" {
		t.Fatalf("expected config key, got %q", key)
	}

	t.Setenv("NEOCITIES_API_KEY", "")
	cfg.Neocities.APIKey = ""
	cfg.Neocities.APIKeyFile = filepath.Join(t.TempDir(), "missing")
	if _, err := cfg.NeocitiesKey(); err == nil {
		t.Fatal("expected error for missing key file")
	}
}

func TestCreateSampleLoads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	if err := config.CreateSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}
	t.Chdir(dir)
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}

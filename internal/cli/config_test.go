package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "easel.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfigFull(t *testing.T) {
	path := writeConfig(t, `
[gateway]
url = "https://gateway.example.com"
token = "file-token"

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/0"

[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"

[policy]
min_spacing = 30
text_gap = 50

[[policy.allow]]
under = "rect"
over = "textbox"

[repair]
min_text_spacing = 60
bottom_margin = 40
font_scale = 0.8
min_font_size = 24
min_width = 50
min_height = 20
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Gateway.URL != "https://gateway.example.com" {
		t.Errorf("Gateway.URL = %q", cfg.Gateway.URL)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisURL == "" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Store.Backend != "mongo" {
		t.Errorf("Store = %+v", cfg.Store)
	}

	policy := cfg.Validator().Policy()
	if policy.MinSpacing != 30 || policy.TextGap != 50 {
		t.Errorf("policy = %+v", policy)
	}
	if !policy.Allows("rect", "textbox") {
		t.Error("configured allow pair missing")
	}
	if policy.Allows("image", "textbox") {
		t.Error("explicit policy should replace the default allow-list")
	}

	if cfg.RepairOptions().MinTextSpacing != 60 {
		t.Errorf("repair options = %+v", cfg.RepairOptions())
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	// File absent at a non-default path would be an error; ask for the
	// default location inside an empty HOME instead.
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("EASEL_GATEWAY_URL", "")
	t.Setenv("EASEL_GATEWAY_TOKEN", "")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Gateway.URL != "" {
		t.Errorf("Gateway.URL = %q, want empty", cfg.Gateway.URL)
	}

	// Defaults apply when sections are absent
	if cfg.Validator().Policy().MinSpacing != 20 {
		t.Errorf("default MinSpacing = %v, want 20", cfg.Validator().Policy().MinSpacing)
	}
	if cfg.RepairOptions().MinFontSize != 24 {
		t.Errorf("default MinFontSize = %v, want 24", cfg.RepairOptions().MinFontSize)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[gateway]
url = "https://file.example.com"
token = "file-token"
`)
	t.Setenv("EASEL_GATEWAY_URL", "https://env.example.com")
	t.Setenv("EASEL_GATEWAY_TOKEN", "env-token")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Gateway.URL != "https://env.example.com" {
		t.Errorf("Gateway.URL = %q, want env override", cfg.Gateway.URL)
	}
	if cfg.Gateway.Token != "env-token" {
		t.Errorf("Gateway.Token = %q, want env override", cfg.Gateway.Token)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadConfig() succeeded for a missing explicit file")
	}
}

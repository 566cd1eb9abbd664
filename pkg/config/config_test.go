package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.AI.Provider != "openai" {
		t.Errorf("AI.Provider = %q", cfg.AI.Provider)
	}
	if cfg.Cache.TTL.D() != 24*time.Hour {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaigncanvas.toml")
	writeFile(t, path, `
[server]
addr = ":9090"
request_timeout = "5s"

[ai]
provider = "gemini"
model = "gemini-2.5-flash"

[store]
backend = "sqlite"
dsn = "boards.db"

[cache]
backend = "memory"
ttl = "10m"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.RequestTimeout.D() != 5*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.AI.Provider != "gemini" || cfg.AI.Model != "gemini-2.5-flash" {
		t.Errorf("ai = %+v", cfg.AI)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.DSN != "boards.db" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Cache.TTL.D() != 10*time.Minute {
		t.Errorf("cache ttl = %v", cfg.Cache.TTL)
	}
	// Untouched sections keep defaults.
	if cfg.Functions.MaxImageURLs != 5 {
		t.Errorf("functions = %+v", cfg.Functions)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaigncanvas.yaml")
	writeFile(t, path, `
ai:
  provider: anthropic
  model: claude-sonnet-4-5
store:
  backend: redis
  redis:
    addr: localhost:6379
    db: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AI.Provider != "anthropic" {
		t.Errorf("ai = %+v", cfg.AI)
	}
	if cfg.Store.Redis.Addr != "localhost:6379" || cfg.Store.Redis.DB != 2 {
		t.Errorf("store = %+v", cfg.Store)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unknown toml key", "a.toml", "[server]\nport = 1\n", "unknown key"},
		{"unknown yaml key", "a.yaml", "server:\n  port: 1\n", "port"},
		{"bad duration", "b.toml", "[cache]\nttl = \"forever\"\n", "parse"},
		{"bad provider", "c.toml", "[ai]\nprovider = \"llama\"\n", "unknown provider"},
		{"bad store", "d.toml", "[store]\nbackend = \"postgres\"\n", "unknown backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CAMPAIGNCANVAS_ADDR":      ":7000",
		"CAMPAIGNCANVAS_STORE":     "memory",
		"CAMPAIGNCANVAS_CACHE_TTL": "90s",
		"CAMPAIGNCANVAS_REDIS_DB":  "3",
		"OPENAI_API_KEY":           "sk-test",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7000" || cfg.Store.Backend != "memory" {
		t.Errorf("overrides not applied: %+v %+v", cfg.Server, cfg.Store)
	}
	if cfg.Cache.TTL.D() != 90*time.Second || cfg.Store.Redis.DB != 3 {
		t.Errorf("typed overrides not applied: ttl %v db %d", cfg.Cache.TTL, cfg.Store.Redis.DB)
	}
	if cfg.AI.APIKey != "sk-test" {
		t.Errorf("provider key fallback not applied: %q", cfg.AI.APIKey)
	}

	env["CAMPAIGNCANVAS_AI_API_KEY"] = "explicit"
	cfg = Default()
	_ = cfg.ApplyEnv(lookup)
	if cfg.AI.APIKey != "explicit" {
		t.Errorf("explicit key should win, got %q", cfg.AI.APIKey)
	}

	env["CAMPAIGNCANVAS_CACHE_TTL"] = "soon"
	if err := Default().ApplyEnv(lookup); err == nil {
		t.Error("invalid duration should fail")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			in := Default()
			in.AI.Model = "custom"
			in.Cache.TTL = Duration(time.Minute)

			data, err := Encode(in, format)
			if err != nil {
				t.Fatal(err)
			}
			out := &Config{}
			if err := Decode(out, data, format); err != nil {
				t.Fatalf("Decode: %v\n%s", err, data)
			}
			if out.AI.Model != "custom" || out.Cache.TTL.D() != time.Minute {
				t.Errorf("round trip lost values: %+v", out)
			}
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

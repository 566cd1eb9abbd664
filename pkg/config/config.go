// Package config loads campaigncanvas configuration.
//
// Values are layered: built-in defaults, then a TOML or YAML file (chosen by
// extension), then CAMPAIGNCANVAS_* environment variables. Command-line flags
// are applied last by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CAMPAIGNCANVAS_"

// Config is the full configuration document.
type Config struct {
	Server    Server    `toml:"server" yaml:"server"`
	AI        AI        `toml:"ai" yaml:"ai"`
	Store     Store     `toml:"store" yaml:"store"`
	Cache     Cache     `toml:"cache" yaml:"cache"`
	Functions Functions `toml:"functions" yaml:"functions"`
}

// Server configures the HTTP server.
type Server struct {
	Addr            string   `toml:"addr" yaml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout" yaml:"write_timeout"`
	RequestTimeout  Duration `toml:"request_timeout" yaml:"request_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	AllowOrigin     string   `toml:"allow_origin" yaml:"allow_origin"`
}

// AI selects and configures the model provider.
type AI struct {
	Provider string   `toml:"provider" yaml:"provider"` // openai, gemini, anthropic
	Model    string   `toml:"model" yaml:"model"` // empty picks the provider default
	BaseURL  string   `toml:"base_url" yaml:"base_url"` // OpenAI-compatible gateway endpoint
	APIKey   string   `toml:"api_key" yaml:"api_key"`
	Timeout  Duration `toml:"timeout" yaml:"timeout"`
}

// Store selects the board persistence backend.
type Store struct {
	Backend string `toml:"backend" yaml:"backend"` // memory, file, sqlite, redis, mongo
	Dir     string `toml:"dir" yaml:"dir"`         // file backend
	DSN     string `toml:"dsn" yaml:"dsn"`         // sqlite path or mongo URI
	Redis   Redis  `toml:"redis" yaml:"redis"`
	// Database names the mongo database.
	Database string `toml:"database" yaml:"database"`
}

// Redis holds connection settings shared by the redis store and cache.
type Redis struct {
	Addr     string `toml:"addr" yaml:"addr"`
	Password string `toml:"password" yaml:"password"`
	DB       int    `toml:"db" yaml:"db"`
}

// Cache configures the function response cache.
type Cache struct {
	Backend string   `toml:"backend" yaml:"backend"` // file, redis, memory, none
	Dir     string   `toml:"dir" yaml:"dir"`
	TTL     Duration `toml:"ttl" yaml:"ttl"`
	Redis   Redis    `toml:"redis" yaml:"redis"`
}

// Functions tunes the edge function handlers.
type Functions struct {
	MaxBodyBytes  int64    `toml:"max_body_bytes" yaml:"max_body_bytes"`
	MaxPageBytes  int64    `toml:"max_page_bytes" yaml:"max_page_bytes"`
	FetchTimeout  Duration `toml:"fetch_timeout" yaml:"fetch_timeout"`
	MaxImageURLs  int      `toml:"max_image_urls" yaml:"max_image_urls"`
	OEmbedBaseURL string   `toml:"oembed_base_url" yaml:"oembed_base_url"`

	// AllowPrivateNetworks lets scrape-url reach loopback and private
	// addresses. Only for local development.
	AllowPrivateNetworks bool `toml:"allow_private_networks" yaml:"allow_private_networks"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dir := defaultDataDir()
	return &Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(90 * time.Second),
			RequestTimeout:  Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
			AllowOrigin:     "*",
		},
		AI: AI{
			Provider: "openai",
			Timeout:  Duration(60 * time.Second),
		},
		Store: Store{
			Backend:  "file",
			Dir:      filepath.Join(dir, "boards"),
			Database: "campaigncanvas",
		},
		Cache: Cache{
			Backend: "file",
			Dir:     filepath.Join(dir, "cache"),
			TTL:     Duration(24 * time.Hour),
		},
		Functions: Functions{
			MaxBodyBytes:  8 << 20,
			MaxPageBytes:  2 << 20,
			FetchTimeout:  Duration(15 * time.Second),
			MaxImageURLs:  5,
			OEmbedBaseURL: "https://www.youtube.com/oembed",
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "campaigncanvas")
	}
	return ".campaigncanvas"
}

// Load reads path on top of the defaults and applies environment overrides.
// An empty path skips the file; a missing file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := Decode(cfg, data, formatOf(path)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Format is a config file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Decode merges data in the given format into cfg.
func Decode(cfg *Config, data []byte, format Format) error {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return fmt.Errorf("unknown key %q", undec[0].String())
		}
		return nil
	}
}

// Encode writes cfg in the given format.
func Encode(cfg *Config, format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(cfg)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ApplyEnv applies CAMPAIGNCANVAS_* overrides using lookup. Provider API keys
// fall back to the conventional OPENAI_API_KEY, GEMINI_API_KEY and
// ANTHROPIC_API_KEY variables when no explicit key is configured.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("ADDR", &c.Server.Addr)
	str("ALLOW_ORIGIN", &c.Server.AllowOrigin)
	str("AI_PROVIDER", &c.AI.Provider)
	str("AI_MODEL", &c.AI.Model)
	str("AI_BASE_URL", &c.AI.BaseURL)
	str("AI_API_KEY", &c.AI.APIKey)
	str("STORE", &c.Store.Backend)
	str("STORE_DIR", &c.Store.Dir)
	str("STORE_DSN", &c.Store.DSN)
	str("REDIS_ADDR", &c.Store.Redis.Addr)
	str("REDIS_PASSWORD", &c.Store.Redis.Password)
	str("CACHE", &c.Cache.Backend)
	str("CACHE_DIR", &c.Cache.Dir)
	str("CACHE_REDIS_ADDR", &c.Cache.Redis.Addr)

	if v, ok := lookup(EnvPrefix + "CACHE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sCACHE_TTL: %w", EnvPrefix, err)
		}
		c.Cache.TTL = Duration(d)
	}
	if v, ok := lookup(EnvPrefix + "REDIS_DB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sREDIS_DB: %w", EnvPrefix, err)
		}
		c.Store.Redis.DB = n
	}

	if c.AI.APIKey == "" {
		if v, ok := lookup(providerKeyEnv[c.AI.Provider]); ok {
			c.AI.APIKey = v
		}
	}
	return nil
}

var providerKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// Validate rejects unknown backend and provider names.
func (c *Config) Validate() error {
	if _, ok := providerKeyEnv[c.AI.Provider]; !ok {
		return fmt.Errorf("ai.provider: unknown provider %q", c.AI.Provider)
	}
	switch c.Store.Backend {
	case "memory", "file", "sqlite", "redis", "mongo":
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	switch c.Cache.Backend {
	case "file", "redis", "memory", "none":
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Functions.MaxBodyBytes <= 0 || c.Functions.MaxPageBytes <= 0 {
		return fmt.Errorf("functions: body limits must be positive")
	}
	return nil
}

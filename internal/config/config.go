package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures all tunable settings for the skill builder server.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Browser BrowserConfig `yaml:"browser"`
	Search  SearchConfig  `yaml:"search"`
	Skills  SkillsConfig  `yaml:"skills"`
	Traces  TracesConfig  `yaml:"traces"`
	MCP     MCPConfig     `yaml:"mcp"`
}

type ServerConfig struct {
	Name       string `yaml:"name"`
	Version    string `yaml:"version"`
	ListenAddr string `yaml:"listen_addr"`
}

// BrowserConfig configures how we attach to or launch Chrome for Rod.
type BrowserConfig struct {
	// Control endpoint for Rod (e.g., ws://localhost:9222). When empty, launch is used.
	DebuggerURL string `yaml:"debugger_url"`
	// Optional launch command to start Chrome (e.g., ["chrome", "--remote-debugging-port=9222"]).
	// When both debugger_url and launch are empty, Rod launches its managed browser.
	Launch []string `yaml:"launch"`
	// AutoStart controls whether the server launches/attaches to Chrome at startup.
	AutoStart bool `yaml:"auto_start"`
	// Headless controls whether Chrome runs in headless mode (default: true).
	Headless *bool `yaml:"headless"`
	// Navigation timeout for page loads (e.g., "20s").
	NavigationTimeout string `yaml:"navigation_timeout"`
	// Settle wait after navigation before inspecting a page (e.g., "2s").
	SettleInterval string `yaml:"settle_interval"`
	// Wait after submitting a query to an embedded assistant before capturing text (e.g., "8s").
	ResponseSettle string `yaml:"response_settle"`
	// Viewport dimensions for analysis pages (default: 1280x900).
	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`
}

// SearchConfig controls the search backend ladder.
type SearchConfig struct {
	// MaxResults caps how many candidates a search presents (default: 5).
	MaxResults int `yaml:"max_results"`
	// UseBrowser enables the browser-driven primary backend (default: true).
	UseBrowser *bool `yaml:"use_browser"`
	// HTTPEndpoint is the fallback HTML search endpoint.
	HTTPEndpoint string `yaml:"http_endpoint"`
	// HTTPTimeout bounds the fallback HTTP search (e.g., "10s").
	HTTPTimeout string `yaml:"http_timeout"`
}

type SkillsConfig struct {
	// Dir is where generated skill documents are written.
	Dir string `yaml:"dir"`
}

// TracesConfig controls the session flight recorder.
type TracesConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

type MCPConfig struct {
	// When set, the MCP binary serves SSE on this port instead of stdio.
	SSEPort int `yaml:"sse_port"`
}

// DefaultConfig provides reasonable defaults for local development.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Name:       "askai-skillbuilder",
			Version:    "0.2.0",
			ListenAddr: ":8074",
		},
		Browser: BrowserConfig{
			AutoStart:         true,
			NavigationTimeout: "20s",
			SettleInterval:    "2s",
			ResponseSettle:    "8s",
			ViewportWidth:     1280,
			ViewportHeight:    900,
		},
		Search: SearchConfig{
			MaxResults:   5,
			HTTPEndpoint: "https://lite.duckduckgo.com/lite/",
			HTTPTimeout:  "10s",
		},
		Skills: SkillsConfig{
			Dir: "skills",
		},
		Traces: TracesConfig{
			Enabled: true,
			Dir:     "data/traces",
		},
		MCP: MCPConfig{
			SSEPort: 0,
		},
	}
}

// Load reads YAML config from disk and overlays defaults.
// An empty path returns the defaults untouched.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, cfg.Validate()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Validate ensures required fields exist so the server can start deterministically.
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return errors.New("server.name is required")
	}
	if c.Server.ListenAddr == "" {
		return errors.New("server.listen_addr is required")
	}
	if c.Skills.Dir == "" {
		return errors.New("skills.dir is required")
	}
	if c.Search.MaxResults <= 0 {
		return errors.New("search.max_results must be positive")
	}
	return nil
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

// GetNavigationTimeout returns the parsed navigation timeout with a sane default.
func (b BrowserConfig) GetNavigationTimeout() time.Duration {
	return parseDuration(b.NavigationTimeout, 20*time.Second)
}

// GetSettleInterval returns the post-navigation settle wait.
func (b BrowserConfig) GetSettleInterval() time.Duration {
	return parseDuration(b.SettleInterval, 2*time.Second)
}

// GetResponseSettle returns how long to wait for an assistant answer to render.
func (b BrowserConfig) GetResponseSettle() time.Duration {
	return parseDuration(b.ResponseSettle, 8*time.Second)
}

// IsHeadless returns whether Chrome should run in headless mode (default: true).
func (b BrowserConfig) IsHeadless() bool {
	if b.Headless == nil {
		return true
	}
	return *b.Headless
}

// GetViewportWidth returns the viewport width with a sane default.
func (b BrowserConfig) GetViewportWidth() int {
	if b.ViewportWidth <= 0 {
		return 1280
	}
	return b.ViewportWidth
}

// GetViewportHeight returns the viewport height with a sane default.
func (b BrowserConfig) GetViewportHeight() int {
	if b.ViewportHeight <= 0 {
		return 900
	}
	return b.ViewportHeight
}

// BrowserEnabled returns whether the browser-driven search backend is active (default: true).
func (s SearchConfig) BrowserEnabled() bool {
	if s.UseBrowser == nil {
		return true
	}
	return *s.UseBrowser
}

// GetHTTPTimeout bounds the HTTP fallback search backend.
func (s SearchConfig) GetHTTPTimeout() time.Duration {
	return parseDuration(s.HTTPTimeout, 10*time.Second)
}

// Package config loads the blogbuilder configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	foundationerrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when no --config is given.
const DefaultPath = "blogbuilder.yaml"

// Config holds every setting for one build. It is created once per
// invocation and never mutated by the builder.
type Config struct {
	Site  SiteConfig  `yaml:"site"`
	Paths PathsConfig `yaml:"paths"`
	Build BuildConfig `yaml:"build"`
}

// SiteConfig describes the published site.
type SiteConfig struct {
	Title        string  `yaml:"title"`
	BaseURL      string  `yaml:"base_url"`
	Author       string  `yaml:"author"`
	Domain       string  `yaml:"domain,omitempty"` // written to CNAME; empty skips the file
	Description  string  `yaml:"description,omitempty"`
	Language     string  `yaml:"language,omitempty"`      // <html lang>
	FeedLanguage string  `yaml:"feed_language,omitempty"` // RSS <language>
	Profile      Profile `yaml:"profile"`
}

// PathsConfig locates inputs and the output directory.
type PathsConfig struct {
	Posts  string `yaml:"posts"`
	About  string `yaml:"about"`
	Static string `yaml:"static"`
	Output string `yaml:"output"`
}

// BuildConfig toggles optional build steps.
type BuildConfig struct {
	VerifyLinks bool   `yaml:"verify_links"`
	MetricsFile string `yaml:"metrics_file,omitempty"` // Prometheus textfile output
	HeadingIDs  bool   `yaml:"heading_ids"`
}

// Load reads configuration from path. A missing file at DefaultPath yields the
// built-in defaults; any other missing file is an error. `.env` files are
// loaded first and ${VAR} references in the YAML are expanded.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && filepath.Clean(path) == DefaultPath:
		// Bare invocation without a config file builds with defaults.
	case err != nil:
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "read configuration file").
			Fatal().
			WithContext("path", path).
			Build()
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "parse configuration file").
				Fatal().
				WithContext("path", path).
				Build()
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			Title:        "@trevoragilbert",
			BaseURL:      "https://trevoragilbert.com",
			Author:       "Trevor Gilbert",
			Domain:       "trevoragilbert.com",
			Description:  "Personal blog — Trevor Gilbert",
			Language:     "en",
			FeedLanguage: "en-us",
			Profile:      ProfileBio,
		},
		Paths: PathsConfig{
			Posts:  filepath.Join("content", "posts"),
			About:  filepath.Join("content", "about.md"),
			Static: "static",
			Output: "docs",
		},
	}
}

// applyDefaults fills fields a partial configuration file left empty.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Site.Language == "" {
		c.Site.Language = def.Site.Language
	}
	if c.Site.FeedLanguage == "" {
		c.Site.FeedLanguage = def.Site.FeedLanguage
	}
	c.Site.Profile = NormalizeProfile(string(c.Site.Profile))
	c.Site.BaseURL = strings.TrimRight(strings.TrimSpace(c.Site.BaseURL), "/")
	if c.Paths.Posts == "" {
		c.Paths.Posts = def.Paths.Posts
	}
	if c.Paths.About == "" {
		c.Paths.About = def.Paths.About
	}
	if c.Paths.Static == "" {
		c.Paths.Static = def.Paths.Static
	}
	if c.Paths.Output == "" {
		c.Paths.Output = def.Paths.Output
	}
}

// String summarizes the configuration for debug logging.
func (c *Config) String() string {
	return fmt.Sprintf("site=%q base_url=%s profile=%s output=%s", c.Site.Title, c.Site.BaseURL, c.Site.Profile, c.Paths.Output)
}

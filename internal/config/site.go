package config

import (
	"fmt"
	"time"
)

// SiteConfig holds site-specific configuration for one wiki edition.
// Some editions are served from a host that differs from the
// <code>.<project>.org convention, and mirrors or test wikis expose their
// API under a different path.
type SiteConfig struct {
	// Host overrides the host name serving the site.
	Host string `yaml:"host,omitempty"`

	// APIURL overrides the Action API endpoint of the site.
	APIURL string `yaml:"api_url,omitempty"`
}

// File represents the structure of the .wikistats configuration file.
// Empty values leave the corresponding default untouched.
type File struct {
	Lang              string `yaml:"lang,omitempty"`
	Site              string `yaml:"site,omitempty"`
	HomeLang          string `yaml:"home_lang,omitempty"`
	Separator         string `yaml:"separator,omitempty"`
	Format            string `yaml:"format,omitempty"`
	UserAgent         string `yaml:"user_agent,omitempty"`
	Timeout           string `yaml:"timeout,omitempty"`
	PageviewsEndpoint string `yaml:"pageviews_endpoint,omitempty"`
	AccessToken       string `yaml:"access_token,omitempty"`

	// Sites maps site keys ("<code>.<project>", e.g. "be-x-old.wikipedia")
	// to their site-specific configurations.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`
}

// GetSiteConfig returns the configuration for a site key.
func (cf *File) GetSiteConfig(key string) (SiteConfig, bool) {
	sc, ok := cf.Sites[key]
	return sc, ok
}

// Apply copies the values set in the file onto cfg and keeps cfg's
// per-site overrides pointing at the file.
// Flags are applied after the file, so they take precedence.
func (cf *File) Apply(cfg *Config) error {
	if cf.Lang != "" {
		cfg.Lang = cf.Lang
	}
	if cf.Site != "" {
		cfg.Site = cf.Site
	}
	if cf.HomeLang != "" {
		cfg.HomeLang = cf.HomeLang
	}
	if cf.Separator != "" {
		cfg.Separator = cf.Separator
	}
	if cf.Format != "" {
		cfg.Format = cf.Format
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if cf.Timeout != "" {
		d, err := time.ParseDuration(cf.Timeout)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidConfigTimeout, cf.Timeout, err)
		}
		cfg.Timeout = d
	}
	if cf.PageviewsEndpoint != "" {
		cfg.PageviewsEndpoint = cf.PageviewsEndpoint
	}
	if cf.AccessToken != "" {
		cfg.AccessToken = cf.AccessToken
	}
	if cf.Sites == nil {
		cf.Sites = make(map[string]SiteConfig)
	}
	cfg.SiteConfigs = cf
	return nil
}

package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/wikistats/internal/model"
	"github.com/nao1215/wikistats/internal/report"
	"github.com/nao1215/wikistats/internal/target"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "wikistats"

	// DefaultLang is the site code articles, categories and input files
	// are resolved on.
	DefaultLang = "de"

	// DefaultSite is the project name of every site.
	DefaultSite = model.DefaultProject

	// DefaultHomeLang is the site code cross-language mode starts from.
	// Starting from the English edition keeps "en" and "simple" apart;
	// other editions may label both as English.
	DefaultHomeLang = "en"

	// DefaultSeparator is the column separator of TSV output.
	DefaultSeparator = report.DefaultSeparator

	// DefaultFormat is the report format.
	DefaultFormat = string(report.FormatTSV)

	// DefaultTimeout is the HTTP timeout of each API request.
	// Revision and backlink queries on large articles can take a while.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent identifies wikistats in API requests.
	// Wikimedia asks clients to send a descriptive User-Agent with contact
	// information and may block generic ones.
	DefaultUserAgent = "wikistats/1.0 (+https://github.com/nao1215/wikistats)"

	// DefaultPageviewsEndpoint is the base URL of the Wikimedia REST API.
	DefaultPageviewsEndpoint = "https://wikimedia.org/api/rest_v1"
)

// Config holds all configuration options for wikistats.
// This struct is populated from the configuration file and CLI flags and
// passed through the application via dependency injection rather than
// global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable.
type Config struct {
	// Lang is the site code of the configured site (e.g. "de").
	Lang string

	// Site is the project name (e.g. "wikipedia").
	Site string

	// HomeLang is the site code cross-language mode starts from.
	HomeLang string

	// Separator is the column separator of TSV output.
	Separator string

	// Format is the report format: tsv, markdown, json or table.
	Format string

	// OutputFile is the report file path. Empty means stdout.
	OutputFile string

	// Timeout is the HTTP timeout of each API request.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every API request.
	UserAgent string

	// PageviewsEndpoint is the base URL of the pageviews REST API.
	PageviewsEndpoint string

	// AccessToken is an optional Wikimedia API access token. It is sent as
	// a bearer token to the pageviews API and never logged.
	AccessToken string

	// Start and End bound the page-view date range (YYYYMMDD, inclusive).
	// Both empty means no pageviews column.
	Start string
	End   string

	// Article selects single-article mode.
	Article string

	// Category selects category mode.
	Category string

	// Languages selects cross-language mode.
	Languages string

	// InputFile selects file-driven mode.
	InputFile string

	// TestArticle selects the revision listing diagnostic.
	TestArticle string

	// FailFast aborts the run on the first failed target. When false, a
	// failed target is logged and skipped and the run exits non-zero at
	// the end.
	FailFast bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches the default locations.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Lang:              DefaultLang,
		Site:              DefaultSite,
		HomeLang:          DefaultHomeLang,
		Separator:         DefaultSeparator,
		Format:            DefaultFormat,
		Timeout:           DefaultTimeout,
		UserAgent:         DefaultUserAgent,
		PageviewsEndpoint: DefaultPageviewsEndpoint,
		SiteConfigs:       &File{Sites: make(map[string]SiteConfig)},
	}
}

// XDGConfigDir returns the XDG config directory for wikistats.
// On Linux: ~/.config/wikistats
// On macOS: ~/Library/Application Support/wikistats
// On Windows: %APPDATA%\wikistats
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ContentSite returns the configured site, used by article, category and
// file modes and by the diagnostic.
func (c *Config) ContentSite() model.Site {
	return c.ResolveSite(model.NewSite(c.Lang, c.Site))
}

// HomeSite returns the site cross-language mode starts from.
func (c *Config) HomeSite() model.Site {
	return c.ResolveSite(model.NewSite(c.HomeLang, c.Site))
}

// ResolveSite applies the host override configured for site, if any.
func (c *Config) ResolveSite(site model.Site) model.Site {
	if sc, ok := c.siteConfig(site); ok && sc.Host != "" {
		site.Host = sc.Host
	}
	return site
}

// APIURL returns the Action API endpoint of site, honoring api_url
// overrides from the config file.
func (c *Config) APIURL(site model.Site) string {
	if sc, ok := c.siteConfig(site); ok && sc.APIURL != "" {
		return sc.APIURL
	}
	return site.APIURL()
}

func (c *Config) siteConfig(site model.Site) (SiteConfig, bool) {
	if c.SiteConfigs == nil {
		return SiteConfig{}, false
	}
	return c.SiteConfigs.GetSiteConfig(site.Key())
}

// DateRange returns the configured page-view range, or nil when no range
// is configured.
func (c *Config) DateRange() (*model.DateRange, error) {
	if c.Start == "" && c.End == "" {
		return nil, nil
	}
	dr, err := model.ParseDateRange(c.Start, c.End)
	if err != nil {
		return nil, err
	}
	return &dr, nil
}

// Modes returns the names of the selected run modes in run order.
func (c *Config) Modes() []string {
	var modes []string
	if c.Article != "" {
		modes = append(modes, target.ModeArticle)
	}
	if c.Category != "" {
		modes = append(modes, target.ModeCategory)
	}
	if c.Languages != "" {
		modes = append(modes, target.ModeLanguages)
	}
	if c.InputFile != "" {
		modes = append(modes, target.ModeFile)
	}
	return modes
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any request is sent.
func (c *Config) Validate() error {
	// We must have something to do
	if len(c.Modes()) == 0 && c.TestArticle == "" {
		return ErrNoTarget
	}

	if strings.TrimSpace(c.Lang) == "" || strings.TrimSpace(c.HomeLang) == "" {
		return ErrInvalidLang
	}

	if strings.TrimSpace(c.Site) == "" {
		return ErrInvalidSite
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Separator == "" {
		return ErrInvalidSeparator
	}

	if _, err := report.ParseFormat(c.Format); err != nil {
		return ErrInvalidFormat
	}

	// Start and End come as a pair
	if (c.Start == "") != (c.End == "") {
		return ErrIncompleteDateRange
	}
	if _, err := c.DateRange(); err != nil {
		return err
	}

	return nil
}

package model

import "strings"

// DefaultProject is the project name used when none is given.
const DefaultProject = "wikipedia"

// Site identifies one wiki edition.
//
// The identity of a site is its canonical site code together with the
// project, never the display language of the edition. Two editions can share
// a display language ("en" and "simple" are both English Wikipedias) while
// having different codes.
type Site struct {
	// Code is the canonical site code, e.g. "de", "simple" or "be-x-old".
	Code string `json:"code" yaml:"code"`

	// Project is the project name, e.g. "wikipedia" or "wiktionary".
	Project string `json:"project" yaml:"project"`

	// Host is the host name serving the site, e.g. "de.wikipedia.org".
	// Some codes are served from a host that differs from <code>.<project>.org,
	// so the host is taken from the content service when it is known.
	Host string `json:"host" yaml:"host"`
}

// WikidataSite is the site hosting the Wikidata items linked to pages.
var WikidataSite = Site{Code: "wikidata", Project: "wikidata", Host: "www.wikidata.org"}

// NewSite creates a Site with the conventional <code>.<project>.org host.
func NewSite(code, project string) Site {
	if project == "" {
		project = DefaultProject
	}
	return Site{
		Code:    code,
		Project: project,
		Host:    code + "." + project + ".org",
	}
}

// Key returns the identity key of the site ("<code>.<project>").
// It is used for deduplication and lookups.
func (s Site) Key() string {
	return s.Code + "." + s.Project
}

// String implements fmt.Stringer.
func (s Site) String() string {
	return s.Key()
}

// HostName returns Host, falling back to the conventional host name.
func (s Site) HostName() string {
	if s.Host != "" {
		return s.Host
	}
	return s.Code + "." + s.Project + ".org"
}

// APIURL returns the MediaWiki Action API endpoint of the site.
func (s Site) APIURL() string {
	return "https://" + s.HostName() + "/w/api.php"
}

// ArticleURLPrefix returns the URL prefix under which articles are served.
// Stripping it from an article URL yields the page title.
func (s Site) ArticleURLPrefix() string {
	return "https://" + s.HostName() + "/wiki/"
}

// WithHostFromURL returns a copy of s whose Host is taken from rawURL.
// rawURL is expected to be an article or API URL of the site, e.g.
// "https://be-tarask.wikipedia.org/wiki/Foo". If no host can be found,
// s is returned unchanged.
func (s Site) WithHostFromURL(rawURL string) Site {
	rest, ok := strings.CutPrefix(rawURL, "https://")
	if !ok {
		rest, ok = strings.CutPrefix(rawURL, "http://")
		if !ok {
			rest, ok = strings.CutPrefix(rawURL, "//")
		}
	}
	if !ok {
		return s
	}
	host, _, _ := strings.Cut(rest, "/")
	if host == "" {
		return s
	}
	s.Host = host
	return s
}

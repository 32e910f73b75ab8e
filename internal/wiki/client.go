package wiki

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	mwclient "cgt.name/pkg/go-mwclient"
	"cgt.name/pkg/go-mwclient/params"
	"github.com/antonholmquist/jason"

	"github.com/nao1215/wikistats/internal/model"
)

// DefaultTimeout is the HTTP timeout used for API requests when none is set.
const DefaultTimeout = 60 * time.Second

// DefaultUserAgent identifies wikistats to the Wikimedia APIs.
// Wikimedia requires a descriptive User-Agent with contact information.
const DefaultUserAgent = "wikistats/1.0 (+https://github.com/nao1215/wikistats)"

// Client is the wiki content service adapter.
// It keeps one go-mwclient API client per site and creates them on first use.
//
// Client is not safe for concurrent use; wikistats queries the service
// strictly sequentially.
type Client struct {
	// userAgent is sent with every request.
	userAgent string

	// timeout is the HTTP timeout applied to every API client.
	timeout time.Duration

	// endpoint maps a site to its API URL.
	endpoint func(model.Site) string

	// logger is used for debug output of API calls.
	logger *slog.Logger

	// apis caches API clients by site key.
	apis map[string]*mwclient.Client
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent string.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the HTTP timeout of API requests.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithEndpoint overrides how a site's API URL is derived.
// By default model.Site.APIURL is used.
func WithEndpoint(endpoint func(model.Site) string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
		endpoint:  model.Site.APIURL,
		apis:      make(map[string]*mwclient.Client),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// api returns the API client for site, creating it if needed.
func (c *Client) api(site model.Site) (*mwclient.Client, error) {
	key := site.Key()
	if api, ok := c.apis[key]; ok {
		return api, nil
	}

	api, err := mwclient.New(c.endpoint(site), c.userAgent)
	if err != nil {
		return nil, fmt.Errorf("create API client for %s: %w", key, err)
	}
	if c.timeout > 0 {
		api.SetHTTPTimeout(c.timeout)
	}
	c.apis[key] = api
	return api, nil
}

// get performs a single API request.
// API warnings are logged and otherwise ignored; every other failure wraps
// model.ErrUpstreamUnavailable.
func (c *Client) get(ctx context.Context, site model.Site, p params.Values) (*jason.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	api, err := c.api(site)
	if err != nil {
		return nil, err
	}

	p["formatversion"] = "2"
	c.logger.Debug("api request", "site", site.Key(), "params", p)

	resp, err := api.Get(p)
	if err != nil {
		var warnings mwclient.APIWarnings
		if errors.As(err, &warnings) && resp != nil {
			c.logger.Debug("api warnings", "site", site.Key(), "warnings", warnings.Error())
			return resp, nil
		}
		return nil, upstream(site, err)
	}
	return resp, nil
}

// query runs a continued query and calls fn for every batch of results.
// Iteration stops early when fn returns false.
//
// A batch carrying API warnings ends Query.Next but still holds results
// and the continuation; it is passed to fn and the query goes on.
func (c *Client) query(ctx context.Context, site model.Site, p params.Values, fn func(*jason.Object) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	api, err := c.api(site)
	if err != nil {
		return err
	}

	p["formatversion"] = "2"
	c.logger.Debug("api query", "site", site.Key(), "params", p)

	q := api.NewQuery(p)
	var last *jason.Object
	for {
		if !q.Next() {
			resp := q.Resp()
			err := q.Err()
			if err == nil {
				return nil
			}
			var warnings mwclient.APIWarnings
			if !errors.As(err, &warnings) || resp == nil {
				return upstream(site, err)
			}
			if resp == last {
				// Next found no continuation after a warning batch.
				return nil
			}
			c.logger.Warn("api warnings", "site", site.Key(), "warnings", warnings.Error())
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		last = q.Resp()
		if !fn(last) {
			return nil
		}
		if _, err := last.GetObject("continue"); err != nil {
			return nil
		}
	}
}

// upstream wraps a service error with model.ErrUpstreamUnavailable.
func upstream(site model.Site, err error) error {
	return fmt.Errorf("%w: %s: %w", model.ErrUpstreamUnavailable, site.Key(), err)
}

// pageParams returns the parameters selecting page.
func pageParams(page model.Page) params.Values {
	if page.PageID > 0 {
		return params.Values{"pageids": strconv.FormatInt(page.PageID, 10)}
	}
	return params.Values{"titles": page.Title}
}

// firstPage returns the first page object of a query response.
func firstPage(resp *jason.Object) (*jason.Object, error) {
	pages, err := resp.GetObjectArray("query", "pages")
	if err != nil || len(pages) == 0 {
		return nil, fmt.Errorf("%w: response contains no pages", model.ErrUpstreamUnavailable)
	}
	page := pages[0]
	if invalid, _ := page.GetBoolean("invalid"); invalid {
		reason, _ := page.GetString("invalidreason")
		return nil, fmt.Errorf("%w: %s", ErrInvalidTitle, reason)
	}
	if missing, _ := page.GetBoolean("missing"); missing {
		title, _ := page.GetString("title")
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, title)
	}
	return page, nil
}

// eachPageEntry runs a continued prop query for page and calls fn for every
// entry of the list stored under key in the page object.
func (c *Client) eachPageEntry(ctx context.Context, page model.Page, p params.Values, key string, fn func(*jason.Object) error) error {
	var inner error
	err := c.query(ctx, page.Site, p, func(resp *jason.Object) bool {
		obj, err := firstPage(resp)
		if err != nil {
			inner = err
			return false
		}
		// Continuation batches may not carry the list at all.
		entries, err := obj.GetObjectArray(key)
		if err != nil {
			return true
		}
		for _, entry := range entries {
			if err := fn(entry); err != nil {
				inner = err
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}
	return inner
}

// namespaceParam joins namespace numbers with "|".
func namespaceParam(namespaces []int) string {
	parts := make([]string, len(namespaces))
	for i, ns := range namespaces {
		parts[i] = strconv.Itoa(ns)
	}
	return strings.Join(parts, "|")
}

// ResolvePage looks up title on site.
// A title that does not exist yields a page with Missing set, not an error,
// so callers can decide whether a missing page is acceptable.
func (c *Client) ResolvePage(ctx context.Context, site model.Site, title string) (model.Page, error) {
	resp, err := c.get(ctx, site, params.Values{
		"action": "query",
		"prop":   "info",
		"titles": title,
	})
	if err != nil {
		return model.Page{}, err
	}

	pages, err := resp.GetObjectArray("query", "pages")
	if err != nil || len(pages) == 0 {
		return model.Page{}, fmt.Errorf("%w: no page returned for %q", model.ErrUpstreamUnavailable, title)
	}
	obj := pages[0]
	if invalid, _ := obj.GetBoolean("invalid"); invalid {
		reason, _ := obj.GetString("invalidreason")
		return model.Page{}, fmt.Errorf("%w: %q: %s", ErrInvalidTitle, title, reason)
	}

	page := model.Page{Site: site, Title: title}
	if normalized, err := obj.GetString("title"); err == nil {
		page.Title = normalized
	}
	if ns, err := obj.GetInt64("ns"); err == nil {
		page.Namespace = int(ns)
	}
	if id, err := obj.GetInt64("pageid"); err == nil {
		page.PageID = id
	}
	page.Missing, _ = obj.GetBoolean("missing")
	return page, nil
}

// Text returns the raw markup of the current revision of page.
func (c *Client) Text(ctx context.Context, page model.Page) (string, error) {
	p := pageParams(page)
	p["action"] = "query"
	p["prop"] = "revisions"
	p["rvprop"] = "content"
	p["rvslots"] = "main"

	resp, err := c.get(ctx, page.Site, p)
	if err != nil {
		return "", err
	}
	obj, err := firstPage(resp)
	if err != nil {
		return "", err
	}
	revisions, err := obj.GetObjectArray("revisions")
	if err != nil || len(revisions) == 0 {
		return "", nil
	}
	text, err := revisions[0].GetString("slots", "main", "content")
	if err != nil {
		// Revisions with hidden content have no content field.
		return "", nil
	}
	return text, nil
}

// Contributors returns the user name of every revision of page, oldest
// first. Names repeat; callers deduplicate. Revisions whose user has been
// hidden are left out.
func (c *Client) Contributors(ctx context.Context, page model.Page) ([]string, error) {
	p := pageParams(page)
	p["prop"] = "revisions"
	p["rvprop"] = "user"
	p["rvlimit"] = "max"
	p["rvdir"] = "newer"

	var users []string
	err := c.eachPageEntry(ctx, page, p, "revisions", func(rev *jason.Object) error {
		if hidden, _ := rev.GetBoolean("userhidden"); hidden {
			return nil
		}
		user, err := rev.GetString("user")
		if err != nil || user == "" {
			return nil
		}
		users = append(users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Revisions returns the full revision history of page in the order the
// service delivers it.
func (c *Client) Revisions(ctx context.Context, page model.Page) ([]Revision, error) {
	p := pageParams(page)
	p["prop"] = "revisions"
	p["rvprop"] = "ids|timestamp|user"
	p["rvlimit"] = "max"

	var revisions []Revision
	err := c.eachPageEntry(ctx, page, p, "revisions", func(obj *jason.Object) error {
		var rev Revision
		rev.ID, _ = obj.GetInt64("revid")
		rev.User, _ = obj.GetString("user")
		ts, err := obj.GetString("timestamp")
		if err != nil {
			return fmt.Errorf("%w: revision %d has no timestamp", model.ErrUpstreamUnavailable, rev.ID)
		}
		rev.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return fmt.Errorf("%w: revision %d: %w", model.ErrUpstreamUnavailable, rev.ID, err)
		}
		revisions = append(revisions, rev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return revisions, nil
}

// ExternalLinks returns the external (non-wiki) links of page.
func (c *Client) ExternalLinks(ctx context.Context, page model.Page) ([]string, error) {
	p := pageParams(page)
	p["prop"] = "extlinks"
	p["ellimit"] = "max"

	var links []string
	err := c.eachPageEntry(ctx, page, p, "extlinks", func(obj *jason.Object) error {
		link, _ := obj.GetString("url")
		links = append(links, link)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// InterwikiLinks returns the interwiki links of page.
// Entries without a prefix or with an unparsable target URL are reported
// as ErrMalformedInterwiki.
func (c *Client) InterwikiLinks(ctx context.Context, page model.Page) ([]InterwikiLink, error) {
	p := pageParams(page)
	p["prop"] = "iwlinks"
	p["iwlimit"] = "max"
	p["iwprop"] = "url"

	var links []InterwikiLink
	err := c.eachPageEntry(ctx, page, p, "iwlinks", func(obj *jason.Object) error {
		prefix, err := obj.GetString("prefix")
		if err != nil || prefix == "" {
			return fmt.Errorf("%w: link without prefix on %s", ErrMalformedInterwiki, page)
		}
		title, _ := obj.GetString("title")
		if target, err := obj.GetString("url"); err == nil {
			if _, err := url.Parse(target); err != nil {
				return fmt.Errorf("%w: %s:%s: %w", ErrMalformedInterwiki, prefix, title, err)
			}
		}
		links = append(links, InterwikiLink{Prefix: prefix, Title: title})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// LanguageLinks returns the language-link siblings of page.
// The origin site itself is never part of the result.
func (c *Client) LanguageLinks(ctx context.Context, page model.Page) ([]LanguageLink, error) {
	p := pageParams(page)
	p["prop"] = "langlinks"
	p["lllimit"] = "max"
	p["llprop"] = "url"

	var links []LanguageLink
	err := c.eachPageEntry(ctx, page, p, "langlinks", func(obj *jason.Object) error {
		code, err := obj.GetString("lang")
		if err != nil || code == "" {
			return fmt.Errorf("%w: language link without site code on %s", model.ErrUpstreamUnavailable, page)
		}
		title, _ := obj.GetString("title")
		site := model.NewSite(code, page.Site.Project)
		if link, err := obj.GetString("url"); err == nil {
			site = site.WithHostFromURL(link)
		}
		links = append(links, LanguageLink{Site: site, Title: title})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// LinkedPages returns the titles of pages linked from page, restricted to
// the given namespaces (all namespaces when none are given).
func (c *Client) LinkedPages(ctx context.Context, page model.Page, namespaces ...int) ([]string, error) {
	p := pageParams(page)
	p["prop"] = "links"
	p["pllimit"] = "max"
	if len(namespaces) > 0 {
		p["plnamespace"] = namespaceParam(namespaces)
	}

	var titles []string
	err := c.eachPageEntry(ctx, page, p, "links", func(obj *jason.Object) error {
		title, _ := obj.GetString("title")
		titles = append(titles, title)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return titles, nil
}

// Backlinks returns the titles of pages linking to page, restricted to the
// given namespaces (all namespaces when none are given).
func (c *Client) Backlinks(ctx context.Context, page model.Page, namespaces ...int) ([]string, error) {
	p := params.Values{
		"list":    "backlinks",
		"bltitle": page.Title,
		"bllimit": "max",
	}
	if len(namespaces) > 0 {
		p["blnamespace"] = namespaceParam(namespaces)
	}

	var titles []string
	err := c.query(ctx, page.Site, p, func(resp *jason.Object) bool {
		entries, err := resp.GetObjectArray("query", "backlinks")
		if err != nil {
			return true
		}
		for _, entry := range entries {
			title, _ := entry.GetString("title")
			titles = append(titles, title)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return titles, nil
}

// Categories returns the titles of the categories page belongs to,
// hidden categories included.
func (c *Client) Categories(ctx context.Context, page model.Page) ([]string, error) {
	p := pageParams(page)
	p["prop"] = "categories"
	p["cllimit"] = "max"

	var titles []string
	err := c.eachPageEntry(ctx, page, p, "categories", func(obj *jason.Object) error {
		title, _ := obj.GetString("title")
		titles = append(titles, title)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return titles, nil
}

// ItemID returns the id of the Wikidata item linked to page, or an empty
// string when the page has no linked item.
func (c *Client) ItemID(ctx context.Context, page model.Page) (string, error) {
	p := pageParams(page)
	p["action"] = "query"
	p["prop"] = "pageprops"
	p["ppprop"] = "wikibase_item"

	resp, err := c.get(ctx, page.Site, p)
	if err != nil {
		return "", err
	}
	obj, err := firstPage(resp)
	if err != nil {
		return "", err
	}
	id, err := obj.GetString("pageprops", "wikibase_item")
	if err != nil {
		return "", nil
	}
	return id, nil
}

// Claims returns the claims of the Wikidata item linked to page.
// A page without a linked item has no claims.
func (c *Client) Claims(ctx context.Context, page model.Page) (Claims, error) {
	id, err := c.ItemID(ctx, page)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return Claims{}, nil
	}

	resp, err := c.get(ctx, model.WikidataSite, params.Values{
		"action": "wbgetentities",
		"ids":    id,
		"props":  "claims",
	})
	if err != nil {
		return nil, err
	}

	claims := Claims{}
	obj, err := resp.GetObject("entities", id, "claims")
	if err != nil {
		// Items without statements come back without a claims object.
		return claims, nil
	}
	for property, value := range obj.Map() {
		statements, err := value.Array()
		if err != nil {
			return nil, fmt.Errorf("%w: claims of %s/%s are not a list", model.ErrUpstreamUnavailable, id, property)
		}
		claims[property] = len(statements)
	}
	return claims, nil
}

// CategoryMembers streams the members of category, restricted to the given
// namespaces, in the service's native enumeration order.
// Members are fetched batch by batch as the sequence is consumed.
func (c *Client) CategoryMembers(ctx context.Context, category model.Page, namespaces ...int) iter.Seq2[model.Page, error] {
	return func(yield func(model.Page, error) bool) {
		p := params.Values{
			"list":    "categorymembers",
			"cmtitle": category.Title,
			"cmprop":  "ids|title",
			"cmlimit": "max",
		}
		if len(namespaces) > 0 {
			p["cmnamespace"] = namespaceParam(namespaces)
		}

		stopped := false
		err := c.query(ctx, category.Site, p, func(resp *jason.Object) bool {
			members, err := resp.GetObjectArray("query", "categorymembers")
			if err != nil {
				return true
			}
			for _, member := range members {
				page := model.Page{Site: category.Site}
				page.Title, _ = member.GetString("title")
				page.PageID, _ = member.GetInt64("pageid")
				if ns, err := member.GetInt64("ns"); err == nil {
					page.Namespace = int(ns)
				}
				if !yield(page, nil) {
					stopped = true
					return false
				}
			}
			return true
		})
		if err != nil && !stopped {
			yield(model.Page{}, err)
		}
	}
}

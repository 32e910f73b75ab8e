package pageviews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nao1215/wikistats/internal/model"
)

// DefaultEndpoint is the base URL of the Wikimedia REST API.
const DefaultEndpoint = "https://wikimedia.org/api/rest_v1"

// defaultTimeout is the HTTP timeout used when no client is provided.
const defaultTimeout = 60 * time.Second

// maxErrorBody limits how much of an error response is read.
const maxErrorBody = 64 * 1024

// timestampLayout is the hourly timestamp form used by the API.
const timestampLayout = "2006010215"

// RESTSource reads view counts from the Wikimedia REST API.
type RESTSource struct {
	endpoint    string
	userAgent   string
	accessToken string
	httpClient  *http.Client
	logger      *slog.Logger
}

// RESTOption configures a RESTSource.
type RESTOption func(*RESTSource)

// WithEndpoint sets the API base URL.
func WithEndpoint(endpoint string) RESTOption {
	return func(s *RESTSource) {
		s.endpoint = strings.TrimSuffix(endpoint, "/")
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) RESTOption {
	return func(s *RESTSource) {
		s.userAgent = userAgent
	}
}

// WithAccessToken sets a Wikimedia API access token, sent as a bearer token.
func WithAccessToken(token string) RESTOption {
	return func(s *RESTSource) {
		s.accessToken = token
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) RESTOption {
	return func(s *RESTSource) {
		s.httpClient = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) RESTOption {
	return func(s *RESTSource) {
		s.logger = logger
	}
}

// NewRESTSource creates a RESTSource.
func NewRESTSource(opts ...RESTOption) *RESTSource {
	s := &RESTSource{
		endpoint: DefaultEndpoint,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// articleResponse is the body of a successful per-article request.
type articleResponse struct {
	Items []struct {
		Timestamp string `json:"timestamp"`
		Views     int64  `json:"views"`
	} `json:"items"`
}

// problem is the body of a failed request.
type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// requestURL builds the per-article URL for q.
func (s *RESTSource) requestURL(q Query) string {
	title := strings.ReplaceAll(q.Title, " ", "_")
	return strings.Join([]string{
		s.endpoint,
		"metrics", "pageviews", "per-article",
		q.Site.HostName(),
		q.Access,
		q.Agent,
		url.PathEscape(title),
		q.Granularity,
		q.Range.StartString() + "00",
		q.Range.EndString() + "00",
	}, "/")
}

// Views implements Source.
func (s *RESTSource) Views(ctx context.Context, q Query) ([]DailyViews, error) {
	reqURL := s.requestURL(q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build pageviews request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	if s.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.accessToken)
	}

	s.logger.Debug("pageviews request", "url", reqURL, "authenticated", s.accessToken != "")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: pageviews: %w", model.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return decodeViews(resp.Body)
	case resp.StatusCode == http.StatusNotFound:
		p := readProblem(resp.Body)
		if strings.HasSuffix(p.Type, "not_found") {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("%w: pageviews: %s: %s", model.ErrUpstreamUnavailable, resp.Status, p.Detail)
	default:
		p := readProblem(resp.Body)
		return nil, fmt.Errorf("%w: pageviews: %s: %s", model.ErrUpstreamUnavailable, resp.Status, p.Detail)
	}
}

// decodeViews parses a successful response body.
func decodeViews(body io.Reader) ([]DailyViews, error) {
	var ar articleResponse
	if err := json.NewDecoder(body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("%w: decode pageviews: %w", model.ErrUpstreamUnavailable, err)
	}

	days := make([]DailyViews, 0, len(ar.Items))
	for _, item := range ar.Items {
		date, err := time.Parse(timestampLayout, item.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: pageviews timestamp %q: %w", model.ErrUpstreamUnavailable, item.Timestamp, err)
		}
		days = append(days, DailyViews{Date: date, Views: item.Views})
	}
	return days, nil
}

// readProblem decodes an error body. Undecodable bodies yield a zero problem.
func readProblem(body io.Reader) problem {
	var p problem
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return p
	}
	if err := json.Unmarshal(data, &p); err != nil {
		p.Detail = strings.TrimSpace(string(data))
	}
	return p
}

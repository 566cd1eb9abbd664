// Package fetch is the outbound HTTP client used by the scraping and oEmbed
// functions. It adds default headers, a body size limit, retry on transient
// failures and an optional response cache in front of net/http.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/campaigncanvas/pkg/buildinfo"
	"github.com/matzehuels/campaigncanvas/pkg/cache"
	"github.com/matzehuels/campaigncanvas/pkg/httputil"
	"github.com/matzehuels/campaigncanvas/pkg/observability"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxBody caps how much of a response body is read.
	DefaultMaxBody = 2 << 20
)

var (
	// ErrNotFound is returned for 404 and 410 responses.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for connection failures and non-2xx responses.
	ErrNetwork = errors.New("network error")
)

// Response is a fetched document.
type Response struct {
	URL         string `json:"url"`          // Final URL after redirects
	StatusCode  int    `json:"status"`       // HTTP status of the final response
	ContentType string `json:"content_type"` // Content-Type header
	Body        []byte `json:"body"`         // Body, truncated to the client's limit
	Truncated   bool   `json:"truncated,omitempty"`
}

// Client performs GET requests with retry and caching.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	maxBody int64
	headers map[string]string
	retry   func(context.Context, func() error) error

	allowPrivate bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithPrivateNetworks lets the default client connect to loopback and
// private addresses. Without it such requests fail with ErrBlockedAddress.
// It has no effect together with WithHTTPClient.
func WithPrivateNetworks() Option { return func(c *Client) { c.allowPrivate = true } }

// WithCache caches successful responses in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.ttl = ttl
	}
}

// WithMaxBody overrides DefaultMaxBody.
func WithMaxBody(n int64) Option { return func(c *Client) { c.maxBody = n } }

// WithHeader adds a default request header.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithRetry overrides the retry policy. Tests use it to avoid backoff delays.
func WithRetry(fn func(context.Context, func() error) error) Option {
	return func(c *Client) { c.retry = fn }
}

// New creates a Client. Without WithCache responses are not cached.
func New(opts ...Option) *Client {
	c := &Client{
		cache:   cache.NewNullCache(),
		maxBody: DefaultMaxBody,
		headers: map[string]string{
			"User-Agent": "campaigncanvas/" + buildinfo.Version + " (+https://github.com/matzehuels/campaigncanvas)",
			"Accept":     "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8",
		},
		retry: httputil.RetryWithBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: DefaultTimeout}
		if !c.allowPrivate {
			c.http.Transport = guardedTransport()
		}
	}
	return c
}

// Get fetches rawURL, serving from cache when possible unless refresh is set.
func (c *Client) Get(ctx context.Context, rawURL string, refresh bool) (*Response, error) {
	key := cache.Key("get", rawURL)
	if !refresh {
		var cached Response
		if ok, _ := cache.GetJSON(ctx, c.cache, key, &cached); ok {
			return &cached, nil
		}
	}

	var resp *Response
	err := c.retry(ctx, func() error {
		r, err := c.do(ctx, rawURL)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = cache.SetJSON(ctx, c.cache, key, resp, c.ttl)
	return resp, nil
}

// GetJSON fetches rawURL and decodes the body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	resp, err := c.Get(ctx, rawURL, false)
	if err != nil {
		return err
	}
	if resp.Truncated {
		return fmt.Errorf("%w: response from %s exceeds %d bytes", ErrNetwork, rawURL, c.maxBody)
	}
	return json.Unmarshal(resp.Body, v)
}

func (c *Client) do(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	res, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if errors.Is(err, ErrBlockedAddress) {
			return nil, fmt.Errorf("%w: %s", ErrBlockedAddress, host)
		}
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer res.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, res.StatusCode, time.Since(start))

	if err := checkStatus(res); err != nil {
		return nil, err
	}

	body, truncated, err := httputil.ReadLimited(res.Body, c.maxBody)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: read body: %v", ErrNetwork, err)}
	}
	return &Response{
		URL:         finalURL(res, rawURL),
		StatusCode:  res.StatusCode,
		ContentType: res.Header.Get("Content-Type"),
		Body:        body,
		Truncated:   truncated,
	}, nil
}

func checkStatus(res *http.Response) error {
	switch res.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		return fmt.Errorf("%w: %s", ErrNotFound, res.Request.URL)
	}
	err := httputil.CheckStatus(res)
	if err == nil {
		return nil
	}
	var re *httputil.RetryableError
	if errors.As(err, &re) {
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, re.Err)}
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func finalURL(res *http.Response, fallback string) string {
	if res.Request != nil && res.Request.URL != nil {
		return res.Request.URL.String()
	}
	return fallback
}

// Resolve turns href into an absolute URL relative to base. It returns ""
// for unparseable references and non-http(s) schemes.
func Resolve(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	u := b.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Fragment = ""
	return u.String()
}

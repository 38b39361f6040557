// Package httpclient provides the site-tuned HTTP client used by the crawl
// engines. It is the only layer that retries; everything above treats a
// returned error as final.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Harvester-LALA/CrawlerV2/internal/logger"
)

// Client defaults.
const (
	// DefaultTimeout is the per-attempt request timeout.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxRedirects bounds transparent redirect following. DCInside
	// redirects between board variants, so some slack is needed.
	DefaultMaxRedirects = 5
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultBackoffBase is the unit of the exponential backoff schedule.
	DefaultBackoffBase = time.Second

	// maxResponseBodyBytes limits the size of fetched responses.
	maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	Timeout      time.Duration
	MaxRedirects int
	MaxRetries   int
	BackoffBase  time.Duration
	// Referer is sent on POST requests: the configured run URL, or the
	// site root when no run URL applies.
	Referer string
	Logger  logger.Interface
}

// Client issues requests with rotating desktop headers, classifies
// responses, and applies bounded exponential backoff.
type Client struct {
	httpClient  *http.Client
	log         logger.Interface
	postReferer string
	maxRetries  int
	backoffBase time.Duration
}

// New creates a Client from the given options.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = DefaultBackoffBase
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOp()
	}

	maxRedirects := opts.MaxRedirects
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return ErrTooManyRedirects
				}
				return nil
			},
		},
		log:         opts.Logger,
		postReferer: opts.Referer,
		maxRetries:  opts.MaxRetries,
		backoffBase: opts.BackoffBase,
	}
}

// Get fetches rawURL and returns the response body.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	return c.send(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		c.setCommonHeaders(req)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
		req.Header.Set("Upgrade-Insecure-Requests", "1")
		if origin := requestOrigin(req.URL); origin != "" {
			req.Header.Set("Referer", origin)
		}
		return req, nil
	})
}

// PostForm submits a form-url-encoded POST to rawURL and returns the
// response body. Shaped for the DCInside comment API: JSON/JS Accept plus
// the XMLHttpRequest marker.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error) {
	encoded := form.Encode()
	return c.send(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(encoded))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		c.setCommonHeaders(req)
		req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		referer := c.postReferer
		if referer == "" {
			referer = requestOrigin(req.URL)
		}
		if referer != "" {
			req.Header.Set("Referer", referer)
		}
		return req, nil
	})
}

// setCommonHeaders applies the headers shared by every request.
func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")
}

// send runs the attempt loop. The request is rebuilt per attempt so POST
// bodies can be replayed. Retry state is local to this call.
func (c *Client) send(ctx context.Context, build func() (*http.Request, error)) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries+1; attempt++ {
		req, err := build()
		if err != nil {
			return nil, err
		}

		body, err := c.attempt(req)
		if err == nil {
			return body, nil
		}
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		lastErr = err

		if attempt > c.maxRetries {
			break
		}

		delay := c.backoffBase << attempt // 2^k * base for attempt k
		c.log.Warn("request failed, backing off",
			"url", req.URL.String(),
			"attempt", attempt,
			"delay", delay,
			"error", err)
		if sleepErr := sleepContext(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
	}

	return nil, lastErr
}

// attempt issues one request and classifies the response.
func (c *Client) attempt(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, req.URL)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, req.URL)
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: req.URL.String()}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// requestOrigin returns "scheme://host" for the request URL.
func requestOrigin(u *url.URL) string {
	if u == nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// sleepContext sleeps for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

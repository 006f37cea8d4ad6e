package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Serg1oA/news-now-quick/config"
	"github.com/Serg1oA/news-now-quick/metrics"
	"github.com/Serg1oA/news-now-quick/model"
)

type Kind int

const (
	KindUpstreamUnavailable Kind = iota + 1
	KindInternal
)

const (
	MsgUpstreamUnavailable = "Failed to fetch news from API"
	MsgInternal            = "An unexpected error occurred"
)

func (k Kind) String() string {
	switch k {
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a classified fetch failure. Err holds the raw cause and must
// only be logged; Message is safe to return to clients.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Message() string {
	if e.Kind == KindUpstreamUnavailable {
		return MsgUpstreamUnavailable
	}
	return MsgInternal
}

type Fetcher struct {
	config *config.Config
	client *http.Client
}

func NewFetcher(cfg *config.Config) *Fetcher {
	timeout := cfg.UpstreamTimeout
	if timeout <= 0 {
		timeout = config.UpstreamTimeout
	}
	return &Fetcher{
		config: cfg,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch performs a single top-headlines request. Search and category
// browsing share the endpoint; the q parameter changes upstream behaviour.
func (f *Fetcher) Fetch(ctx context.Context, q model.UpstreamQuery) (*model.UpstreamResponse, error) {
	start := time.Now()
	resp, err := f.fetch(ctx, q)

	outcome := "success"
	var fe *Error
	if errors.As(err, &fe) {
		outcome = fe.Kind.String()
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(outcome).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return resp, err
}

func (f *Fetcher) fetch(ctx context.Context, q model.UpstreamQuery) (*model.UpstreamResponse, error) {
	endpoint, err := f.buildURL(q)
	if err != nil {
		log.Printf("[ERROR] Failed to build upstream URL: %v", err)
		return nil, &Error{Kind: KindInternal, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		log.Printf("[ERROR] Failed to create upstream request: %v", err)
		return nil, &Error{Kind: KindInternal, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	log.Printf("[DEBUG] Upstream request URL: %s", redact(endpoint))

	resp, err := f.client.Do(req)
	if err != nil {
		scrubURLError(err)
		log.Printf("[ERROR] API request failed: %s", redactErr(err, f.config.GNewsAPIKey))
		return nil, &Error{Kind: KindUpstreamUnavailable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[ERROR] News API returned status: %d", resp.StatusCode)
		return nil, &Error{Kind: KindUpstreamUnavailable, Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)}
	}

	var result model.UpstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("[ERROR] Failed to decode upstream response: %v", err)
		return nil, &Error{Kind: KindInternal, Err: fmt.Errorf("decode upstream response: %w", err)}
	}

	return &result, nil
}

func (f *Fetcher) buildURL(q model.UpstreamQuery) (*url.URL, error) {
	u, err := url.Parse(f.config.GNewsBaseURL + "/top-headlines")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	params := url.Values{}
	params.Set("lang", q.Language)
	params.Set("max", strconv.Itoa(q.Max))
	params.Set("apikey", f.config.GNewsAPIKey)

	if q.Search == "" && q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Search != "" {
		params.Set("q", q.Search)
	}
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	if q.From != "" {
		params.Set("from", q.From)
	}

	u.RawQuery = params.Encode()
	return u, nil
}

func redact(u *url.URL) string {
	c := *u
	params := c.Query()
	if params.Has("apikey") {
		params.Set("apikey", "REDACTED")
	}
	c.RawQuery = params.Encode()
	return c.String()
}

// redactErr strips the key from transport errors, which embed the full URL.
func redactErr(err error, key string) string {
	var ue *url.Error
	if errors.As(err, &ue) {
		if u, perr := url.Parse(ue.URL); perr == nil {
			return fmt.Sprintf("%s %s: %v", ue.Op, redact(u), ue.Err)
		}
	}
	if key == "" {
		return err.Error()
	}
	return strings.ReplaceAll(err.Error(), key, "REDACTED")
}

// scrubURLError rewrites the URL held by a transport error so the key
// cannot reach logs through the wrapped error chain.
func scrubURLError(err error) {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return
	}
	if u, perr := url.Parse(ue.URL); perr == nil {
		ue.URL = redact(u)
	}
}

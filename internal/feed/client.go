// Package feed downloads and normalizes the vendor provider feed and keeps
// the normalized list in an explicitly owned, mutex-guarded cache.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ferro-labs/carefinder/internal/metrics"
	"github.com/ferro-labs/carefinder/providers"
	"github.com/tidwall/gjson"
)

// DefaultURL is the vendor feed of Florida providers.
const DefaultURL = "https://www22.anthem.com/CMS/PROVIDERS_FL.json"

// maxFeedBytes bounds how much of a feed response is read.
const maxFeedBytes = 64 << 20

var (
	// ErrUnexpectedStatus is returned when the feed answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("feed: unexpected status")
	// ErrMalformedFeed is returned when the feed body is not the expected JSON.
	ErrMalformedFeed = errors.New("feed: malformed JSON")
)

// Client fetches the vendor feed over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a feed client for url. A zero timeout leaves requests
// bounded only by the caller's context.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// URL returns the feed location.
func (c *Client) URL() string { return c.url }

// FetchRaw downloads the feed and returns the body verbatim. It fails on
// transport errors, non-2xx statuses and bodies that are not valid JSON.
func (c *Client) FetchRaw(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedFeed
	}
	return body, nil
}

// Fetch downloads and normalizes the feed.
func (c *Client) Fetch(ctx context.Context) ([]providers.Provider, error) {
	body, err := c.FetchRaw(ctx)
	if err != nil {
		metrics.FeedFetchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	list, err := Parse(body)
	if err != nil {
		metrics.FeedFetchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.FeedFetchesTotal.WithLabelValues("success").Inc()
	return list, nil
}

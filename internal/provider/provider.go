// Package provider talks to the external movie metadata API. The sync
// engine only depends on the Client interface, so tests and local
// setups can swap in a stub without any HTTP traffic.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrExternal marks any provider failure: unreachable host, non-2xx
// status or a malformed response body. The sync engine records it
// per movie and continues the batch.
var ErrExternal = errors.New("external service error")

// Metadata is the partial record a provider returns for one movie.
// Nil/empty fields mean the provider had nothing for them.
type Metadata struct {
	PosterURL *string
	Runtime   *int
	Cast      []string
}

// Empty reports whether the provider returned nothing usable.
func (m Metadata) Empty() bool {
	return m.PosterURL == nil && m.Runtime == nil && len(m.Cast) == 0
}

// Client fetches metadata for a movie title.
type Client interface {
	FetchMetadata(ctx context.Context, title string) (Metadata, error)
}

// HTTPClient queries an OMDb-style HTTP API. Every call carries a
// bounded timeout; a timeout is an ErrExternal for that call only.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client for the given base URL and key.
// timeout bounds each individual fetch.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchMetadata requests metadata by title and maps the remote fields
// into our schema. Both lower-case and OMDb-style capitalized field
// names are accepted.
func (c *HTTPClient) FetchMetadata(ctx context.Context, title string) (Metadata, error) {
	q := url.Values{}
	q.Set("title", title)
	q.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrExternal, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrExternal, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Metadata{}, fmt.Errorf("%w: status %d", ErrExternal, resp.StatusCode)
	}

	var body struct {
		PosterURL *string         `json:"poster_url"`
		Poster    *string         `json:"Poster"`
		Runtime   json.RawMessage `json:"runtime"`
		RuntimeC  json.RawMessage `json:"Runtime"`
		Cast      []string        `json:"cast"`
		Actors    *string         `json:"Actors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Metadata{}, fmt.Errorf("%w: decode: %v", ErrExternal, err)
	}

	var md Metadata
	switch {
	case body.PosterURL != nil && *body.PosterURL != "":
		md.PosterURL = body.PosterURL
	case body.Poster != nil && *body.Poster != "":
		md.PosterURL = body.Poster
	}
	if n, ok := parseRuntime(body.Runtime); ok {
		md.Runtime = &n
	} else if n, ok := parseRuntime(body.RuntimeC); ok {
		md.Runtime = &n
	}
	switch {
	case len(body.Cast) > 0:
		md.Cast = body.Cast
	case body.Actors != nil && *body.Actors != "":
		for _, name := range strings.Split(*body.Actors, ",") {
			if name = strings.TrimSpace(name); name != "" {
				md.Cast = append(md.Cast, name)
			}
		}
	}
	return md, nil
}

// parseRuntime accepts a JSON number of minutes or a string such as
// "142" or "142 min".
func parseRuntime(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil && n > 0 {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

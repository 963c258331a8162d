package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Fetcher retrieves the raw text of a resource document. A single call makes
// a single attempt; failures are reported as *FetchError.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

type fetchOptions struct {
	client  *http.Client
	timeout time.Duration
}

// FetchOption configures a Fetcher built by NewFetcher.
type FetchOption func(*fetchOptions)

// WithHTTPClient sets the client used for http and https locations.
func WithHTTPClient(c *http.Client) FetchOption {
	return func(o *fetchOptions) {
		o.client = c
	}
}

// WithTimeout bounds each HTTP fetch. Zero leaves the client's own timeout.
func WithTimeout(d time.Duration) FetchOption {
	return func(o *fetchOptions) {
		o.timeout = d
	}
}

// NewFetcher selects a Fetcher for location. http and https URLs are read
// with a GET request; file URLs and plain paths are read from the local
// filesystem, e.g. a static asset shipped next to the binary.
//
// Precondition: location must be non-empty.
// Postcondition: Returns a non-nil Fetcher, or a *FetchError for an empty
// location or an unsupported scheme.
func NewFetcher(location string, opts ...FetchOption) (Fetcher, error) {
	o := fetchOptions{client: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}
	if strings.TrimSpace(location) == "" {
		return nil, &FetchError{Location: location, Err: errors.New("source location is empty")}
	}

	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" {
		return &FileFetcher{path: location}, nil
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		client := o.client
		if o.timeout > 0 {
			c := *client
			c.Timeout = o.timeout
			client = &c
		}
		return &HTTPFetcher{url: location, client: client}, nil
	case "file":
		return &FileFetcher{path: fileURLPath(u)}, nil
	default:
		return nil, &FetchError{Location: location, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
}

// fileURLPath maps file:///abs and file://localhost/abs to /abs. Any other
// host is kept as a leading path element so file://./rel stays relative.
func fileURLPath(u *url.URL) string {
	if u.Host == "" || strings.EqualFold(u.Host, "localhost") {
		return u.Path
	}
	return u.Host + u.Path
}

// HTTPFetcher reads a document with an HTTP GET.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// Fetch performs one GET request. Any non-2xx status is a failure.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, http.NoBody)
	if err != nil {
		return nil, &FetchError{Location: f.url, Err: fmt.Errorf("creating request: %w", err)}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Location: f.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &FetchError{Location: f.url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Location: f.url, Err: fmt.Errorf("reading body: %w", err)}
	}
	return body, nil
}

// FileFetcher reads a document from the local filesystem.
type FileFetcher struct {
	path string
}

// Fetch reads the whole file.
func (f *FileFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Location: f.path, Err: err}
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, &FetchError{Location: f.path, Err: err}
	}
	return data, nil
}

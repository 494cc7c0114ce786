// Package fetch defines the transport boundary the search engines sit behind.
// Engines declare where and how to fetch; the Fetcher owns connections,
// retries and timeouts.
package fetch

import (
	"context"
	"net/url"
)

// Request describes a single upstream search request.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Params  url.Values
}

// Response is a raw upstream response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Fetcher executes upstream requests.
type Fetcher interface {
	Fetch(ctx context.Context, req *Request) (*Response, error)
}

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPFetcher is the production Fetcher backed by a pooled http.Client with
// retry and exponential backoff.
type HTTPFetcher struct {
	client     *http.Client
	maxRetries int
}

// NewHTTPFetcher creates an HTTPFetcher. timeout bounds a single attempt at
// the transport level; callers additionally enforce per-fetch deadlines via
// context.
func NewHTTPFetcher(timeout time.Duration, maxRetries int) *HTTPFetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if maxRetries == 0 {
		maxRetries = 3
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		maxRetries: maxRetries,
	}
}

// Fetch executes the request, retrying transport failures with exponential
// backoff. Non-2xx statuses are errors; upstream bodies are not included in
// error messages.
func (f *HTTPFetcher) Fetch(ctx context.Context, req *Request) (*Response, error) {
	var lastErr error
	for i := 0; i < f.maxRetries; i++ {
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		// Rebuild per attempt: a POST body reader is consumed by the previous attempt.
		httpReq, err := f.buildRequest(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := f.client.Do(httpReq)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
		}

		return &Response{StatusCode: resp.StatusCode, Body: body}, nil
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", f.maxRetries, lastErr)
}

func (f *HTTPFetcher) buildRequest(ctx context.Context, req *Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var httpReq *http.Request
	var err error

	if method == http.MethodPost {
		httpReq, err = http.NewRequestWithContext(ctx, method, req.URL,
			strings.NewReader(req.Params.Encode()))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		target := req.URL
		if len(req.Params) > 0 {
			target = req.URL + "?" + req.Params.Encode()
		}
		httpReq, err = http.NewRequestWithContext(ctx, method, target, nil)
		if err != nil {
			return nil, err
		}
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

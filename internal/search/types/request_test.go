package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRequest_Normalize(t *testing.T) {
	req := &SearchRequest{Query: "q"}
	req.Normalize()

	assert.Equal(t, "us-en", req.Region)
	assert.Equal(t, SafeSearchModerate, req.SafeSearch)
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, BackendAuto, req.Backend)
}

func TestSearchRequest_Normalize_KeepsExplicitValues(t *testing.T) {
	req := &SearchRequest{
		Query:      "q",
		Region:     "de-de",
		SafeSearch: SafeSearchOff,
		Page:       7,
		Backend:    "duckduckgo",
	}
	req.Normalize()

	assert.Equal(t, "de-de", req.Region)
	assert.Equal(t, SafeSearchOff, req.SafeSearch)
	assert.Equal(t, 7, req.Page)
	assert.Equal(t, "duckduckgo", req.Backend)
}

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  SearchRequest
		want error
	}{
		{"valid minimal", SearchRequest{Query: "q", SafeSearch: SafeSearchModerate, Page: 1}, nil},
		{"valid day window", SearchRequest{Query: "q", SafeSearch: SafeSearchOn, Page: 1, TimeLimit: "d"}, nil},
		{"valid custom range", SearchRequest{Query: "q", SafeSearch: SafeSearchOff, Page: 1, TimeLimit: "2024-01-01..2024-12-31"}, nil},
		{"empty query", SearchRequest{Query: "", SafeSearch: SafeSearchModerate, Page: 1}, ErrEmptyQuery},
		{"whitespace query", SearchRequest{Query: " \t ", SafeSearch: SafeSearchModerate, Page: 1}, ErrEmptyQuery},
		{"zero page", SearchRequest{Query: "q", SafeSearch: SafeSearchModerate, Page: 0}, ErrInvalidPage},
		{"negative page", SearchRequest{Query: "q", SafeSearch: SafeSearchModerate, Page: -2}, ErrInvalidPage},
		{"bad safesearch", SearchRequest{Query: "q", SafeSearch: "strict", Page: 1}, ErrInvalidSafeSearch},
		{"bad timelimit", SearchRequest{Query: "q", SafeSearch: SafeSearchModerate, Page: 1, TimeLimit: "h"}, ErrInvalidTimeLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), "category %s", c)
	}
	assert.False(t, Category("music").Valid())
	assert.False(t, Category("").Valid())
}

func TestBackendError(t *testing.T) {
	upstream := errors.New("upstream returned status 500")
	err := &BackendError{Backend: "duckduckgo", Err: upstream}

	assert.Equal(t, "backend duckduckgo: upstream returned status 500", err.Error())
	assert.ErrorIs(t, err, upstream)

	var backendErr *BackendError
	require.ErrorAs(t, error(err), &backendErr)
	assert.Equal(t, "duckduckgo", backendErr.Backend)
}

func TestResult_ContentURL(t *testing.T) {
	results := []Result{
		&TextResult{Provider: "a", Content: "https://x/1"},
		&ImagesResult{Provider: "b", Content: "https://x/2"},
		&NewsResult{Provider: "c", Content: "https://x/3"},
		&VideosResult{Provider: "d", Content: "https://x/4"},
		&BooksResult{Provider: "e", Content: "https://x/5"},
	}

	for i, r := range results {
		assert.Equal(t, "https://x/"+string(rune('1'+i)), r.ContentURL())
	}
	assert.Equal(t, "a", results[0].ProviderName())
	assert.Equal(t, "e", results[4].ProviderName())
}

package biz

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lk2023060901/metasearch-backend/internal/pkg/workerpool"
	"github.com/lk2023060901/metasearch-backend/internal/search/engine"
	"github.com/lk2023060901/metasearch-backend/internal/search/fetch"
	"github.com/lk2023060901/metasearch-backend/internal/search/types"
)

// fakeEngine returns canned results regardless of the response body. The
// fetcher decides whether the fetch itself succeeds.
type fakeEngine struct {
	*engine.BaseEngine
	results []types.Result
}

func (f *fakeEngine) BuildPayload(req *types.SearchRequest) url.Values {
	return url.Values{"q": {req.Query}}
}

func (f *fakeEngine) ExtractResults(body []byte) []types.Result {
	return f.results
}

func newFakeEngine(name string, priority float64, results ...types.Result) *fakeEngine {
	return &fakeEngine{
		BaseEngine: engine.NewBaseEngine(engine.Descriptor{
			Name:         name,
			Category:     types.CategoryText,
			Provider:     name,
			Priority:     priority,
			SearchURL:    "https://" + name + ".test/search",
			SearchMethod: "GET",
		}),
		results: results,
	}
}

func textResult(provider, link string) *types.TextResult {
	return &types.TextResult{Provider: provider, Title: link, Content: link}
}

// stubFetcher fails or delays per engine URL and records every fetch.
type stubFetcher struct {
	mu     sync.Mutex
	calls  []string
	errs   map[string]error
	delays map[string]time.Duration
}

func (s *stubFetcher) Fetch(ctx context.Context, req *fetch.Request) (*fetch.Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req.URL)
	s.mu.Unlock()

	if d := s.delays[req.URL]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := s.errs[req.URL]; err != nil {
		return nil, err
	}
	return &fetch.Response{StatusCode: 200, Body: []byte("{}")}, nil
}

func (s *stubFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestUseCase(t *testing.T, fetcher fetch.Fetcher, engines ...engine.Engine) *SearchUseCase {
	t.Helper()

	registry := engine.NewRegistry()
	registry.MustRegister(engines...)

	pool, err := workerpool.New(8, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Shutdown)

	return NewSearchUseCase(registry, fetcher, pool, time.Second, zap.NewNop())
}

func contentURLs(results []types.Result) []string {
	urls := make([]string, 0, len(results))
	for _, r := range results {
		urls = append(urls, r.ContentURL())
	}
	return urls
}

func TestSearch_AutoPriorityOrder(t *testing.T) {
	high := newFakeEngine("high", 3.0, textResult("high", "https://a/1"), textResult("high", "https://a/2"))
	mid := newFakeEngine("mid", 2.0, textResult("mid", "https://b/1"))
	low := newFakeEngine("low", 1.0, textResult("low", "https://c/1"))

	// The highest-priority backend is the slowest; merge order must not
	// depend on completion order.
	fetcher := &stubFetcher{delays: map[string]time.Duration{
		"https://high.test/search": 50 * time.Millisecond,
	}}
	uc := newTestUseCase(t, fetcher, low, high, mid)

	results, err := uc.Text(context.Background(), &types.SearchRequest{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a/1", "https://a/2", "https://b/1", "https://c/1"}, contentURLs(results))
}

func TestSearch_AutoDedupFirstWins(t *testing.T) {
	high := newFakeEngine("high", 2.0, textResult("high", "https://shared/page"))
	low := newFakeEngine("low", 1.0, textResult("low", "https://shared/page"), textResult("low", "https://only/low"))

	uc := newTestUseCase(t, &stubFetcher{}, high, low)

	results, err := uc.Text(context.Background(), &types.SearchRequest{Query: "q"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// The higher-priority backend keeps the shared URL.
	first := results[0].(*types.TextResult)
	assert.Equal(t, "https://shared/page", first.Content)
	assert.Equal(t, "high", first.Provider)
	assert.Equal(t, "https://only/low", results[1].ContentURL())
}

func TestSearch_AutoTruncation(t *testing.T) {
	var firstBatch, secondBatch []types.Result
	for i := 0; i < 8; i++ {
		firstBatch = append(firstBatch, textResult("high", fmt.Sprintf("https://a/%d", i)))
	}
	for i := 0; i < 4; i++ {
		secondBatch = append(secondBatch, textResult("low", fmt.Sprintf("https://b/%d", i)))
	}

	high := newFakeEngine("high", 2.0, firstBatch...)
	low := newFakeEngine("low", 1.0, secondBatch...)
	uc := newTestUseCase(t, &stubFetcher{}, high, low)

	results, err := uc.Text(context.Background(), &types.SearchRequest{Query: "q", MaxResults: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a/0", "https://a/1", "https://a/2", "https://a/3", "https://a/4"}, contentURLs(results))
}

func TestSearch_AutoNoCap(t *testing.T) {
	var batch []types.Result
	for i := 0; i < 30; i++ {
		batch = append(batch, textResult("high", fmt.Sprintf("https://a/%d", i)))
	}

	uc := newTestUseCase(t, &stubFetcher{}, newFakeEngine("high", 1.0, batch...))

	results, err := uc.Text(context.Background(), &types.SearchRequest{Query: "q", MaxResults: 0})
	require.NoError(t, err)
	assert.Len(t, results, 30)
}

func TestSearch_AutoPartialFailure(t *testing.T) {
	high := newFakeEngine("high", 2.0)
	low := newFakeEngine("low", 1.0, textResult("low", "https://c/1"))

	fetcher := &stubFetcher{errs: map[string]error{
		"https://high.test/search": errors.New("upstream returned status 503"),
	}}
	uc := newTestUseCase(t, fetcher, high, low)

	results, err := uc.Text(context.Background(), &types.SearchRequest{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://c/1"}, contentURLs(results))
}

func TestSearch_AutoAllBackendsFailed(t *testing.T) {
	high := newFakeEngine("high", 2.0, textResult("high", "https://a/1"))
	low := newFakeEngine("low", 1.0, textResult("low", "https://b/1"))

	fetcher := &stubFetcher{errs: map[string]error{
		"https://high.test/search": errors.New("connection refused"),
		"https://low.test/search":  errors.New("upstream returned status 429"),
	}}
	uc := newTestUseCase(t, fetcher, high, low)

	results, err := uc.Text(context.Background(), &types.SearchRequest{Query: "q"})
	require.ErrorIs(t, err, types.ErrAllBackendsFailed)
	assert.Nil(t, results)
}

func TestSearch_AutoEmptyIsNotAnError(t *testing.T) {
	uc := newTestUseCase(t, &stubFetcher{}, newFakeEngine("high", 1.0))

	results, err := uc.Text(context.Background(), &types.SearchRequest{Query: "nothing matches"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_AutoResultsWithoutURLDropped(t *testing.T) {
	eng := newFakeEngine("high", 1.0,
		textResult("high", "https://a/1"),
		&types.TextResult{Provider: "high", Title: "no link"},
		textResult("high", "https://a/2"),
	)
	uc := newTestUseCase(t, &stubFetcher{}, eng)

	results, err := uc.Text(context.Background(), &types.SearchRequest{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a/1", "https://a/2"}, contentURLs(results))
}

func TestSearch_ExplicitBackend(t *testing.T) {
	high := newFakeEngine("high", 2.0, textResult("high", "https://a/1"))
	low := newFakeEngine("low", 1.0, textResult("low", "https://b/1"))

	fetcher := &stubFetcher{}
	uc := newTestUseCase(t, fetcher, high, low)

	results, err := uc.Text(context.Background(), &types.SearchRequest{Query: "q", Backend: "low"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://b/1"}, contentURLs(results))
	assert.Equal(t, 1, fetcher.callCount())
}

func TestSearch_ExplicitUnknownBackend(t *testing.T) {
	fetcher := &stubFetcher{}
	uc := newTestUseCase(t, fetcher, newFakeEngine("high", 1.0))

	_, err := uc.Text(context.Background(), &types.SearchRequest{Query: "q", Backend: "nosuch"})
	require.ErrorIs(t, err, types.ErrUnknownBackend)
	assert.Zero(t, fetcher.callCount())
}

func TestSearch_ExplicitFailurePropagates(t *testing.T) {
	upstreamErr := errors.New("upstream returned status 500")
	fetcher := &stubFetcher{errs: map[string]error{"https://high.test/search": upstreamErr}}
	uc := newTestUseCase(t, fetcher, newFakeEngine("high", 1.0, textResult("high", "https://a/1")))

	_, err := uc.Text(context.Background(), &types.SearchRequest{Query: "q", Backend: "high"})
	require.Error(t, err)

	var backendErr *types.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "high", backendErr.Backend)
	assert.ErrorIs(t, err, upstreamErr)
}

func TestSearch_ExplicitDedupAndTruncation(t *testing.T) {
	eng := newFakeEngine("high", 1.0,
		textResult("high", "https://a/1"),
		textResult("high", "https://a/1"),
		textResult("high", "https://a/2"),
		textResult("high", "https://a/3"),
	)
	uc := newTestUseCase(t, &stubFetcher{}, eng)

	results, err := uc.Text(context.Background(), &types.SearchRequest{Query: "q", Backend: "high", MaxResults: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a/1", "https://a/2"}, contentURLs(results))
}

func TestSearch_ParameterValidation(t *testing.T) {
	fetcher := &stubFetcher{}
	uc := newTestUseCase(t, fetcher, newFakeEngine("high", 1.0))

	tests := []struct {
		name string
		req  *types.SearchRequest
		want error
	}{
		{"empty query", &types.SearchRequest{Query: ""}, types.ErrEmptyQuery},
		{"whitespace query", &types.SearchRequest{Query: "   "}, types.ErrEmptyQuery},
		{"negative page", &types.SearchRequest{Query: "q", Page: -1}, types.ErrInvalidPage},
		{"bad safesearch", &types.SearchRequest{Query: "q", SafeSearch: "strict"}, types.ErrInvalidSafeSearch},
		{"bad timelimit", &types.SearchRequest{Query: "q", TimeLimit: "h"}, types.ErrInvalidTimeLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Text(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.want)
		})
	}

	// Validation failures never reach the fetcher.
	assert.Zero(t, fetcher.callCount())
}

func TestSearch_PageZeroNormalizedToOne(t *testing.T) {
	uc := newTestUseCase(t, &stubFetcher{}, newFakeEngine("high", 1.0, textResult("high", "https://a/1")))

	req := &types.SearchRequest{Query: "q", Page: 0}
	_, err := uc.Text(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, types.BackendAuto, req.Backend)
	assert.Equal(t, "us-en", req.Region)
	assert.Equal(t, types.SafeSearchModerate, req.SafeSearch)
}

func TestSearch_CategoryWrappers(t *testing.T) {
	registry := engine.NewRegistry()
	for _, category := range types.Categories() {
		registry.MustRegister(&fakeEngine{
			BaseEngine: engine.NewBaseEngine(engine.Descriptor{
				Name:         "stub-" + string(category),
				Category:     category,
				Provider:     "stub",
				Priority:     1.0,
				SearchURL:    "https://stub.test/" + string(category),
				SearchMethod: "GET",
			}),
			results: []types.Result{textResult("stub", "https://stub.test/" + string(category) + "/r")},
		})
	}

	pool, err := workerpool.New(4, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Shutdown)

	uc := NewSearchUseCase(registry, &stubFetcher{}, pool, time.Second, zap.NewNop())

	calls := []struct {
		name string
		fn   func(context.Context, *types.SearchRequest) ([]types.Result, error)
	}{
		{"text", uc.Text},
		{"images", uc.Images},
		{"news", uc.News},
		{"videos", uc.Videos},
		{"books", uc.Books},
	}

	for _, call := range calls {
		t.Run(call.name, func(t *testing.T) {
			results, err := call.fn(context.Background(), &types.SearchRequest{Query: "q"})
			require.NoError(t, err)
			assert.Equal(t, []string{"https://stub.test/" + call.name + "/r"}, contentURLs(results))
		})
	}
}

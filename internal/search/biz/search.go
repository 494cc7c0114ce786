// Package biz implements the dispatch orchestrator: it resolves candidate
// engines for a request, runs fetch+extract against them, and merges the
// normalized results.
package biz

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/metasearch-backend/internal/pkg/workerpool"
	"github.com/lk2023060901/metasearch-backend/internal/search/engine"
	"github.com/lk2023060901/metasearch-backend/internal/search/fetch"
	"github.com/lk2023060901/metasearch-backend/internal/search/types"
)

// SearchUseCase is the query-facing entry point for all categories.
type SearchUseCase struct {
	registry     *engine.Registry
	fetcher      fetch.Fetcher
	pool         *workerpool.Pool
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewSearchUseCase creates the orchestrator. fetchTimeout bounds each
// upstream fetch so a single unresponsive backend cannot stall a dispatch.
func NewSearchUseCase(
	registry *engine.Registry,
	fetcher fetch.Fetcher,
	pool *workerpool.Pool,
	fetchTimeout time.Duration,
	logger *zap.Logger,
) *SearchUseCase {
	if fetchTimeout == 0 {
		fetchTimeout = 10 * time.Second
	}
	return &SearchUseCase{
		registry:     registry,
		fetcher:      fetcher,
		pool:         pool,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// Text searches the text category.
func (uc *SearchUseCase) Text(ctx context.Context, req *types.SearchRequest) ([]types.Result, error) {
	return uc.Search(ctx, types.CategoryText, req)
}

// Images searches the images category.
func (uc *SearchUseCase) Images(ctx context.Context, req *types.SearchRequest) ([]types.Result, error) {
	return uc.Search(ctx, types.CategoryImages, req)
}

// News searches the news category.
func (uc *SearchUseCase) News(ctx context.Context, req *types.SearchRequest) ([]types.Result, error) {
	return uc.Search(ctx, types.CategoryNews, req)
}

// Videos searches the videos category.
func (uc *SearchUseCase) Videos(ctx context.Context, req *types.SearchRequest) ([]types.Result, error) {
	return uc.Search(ctx, types.CategoryVideos, req)
}

// Books searches the books category.
func (uc *SearchUseCase) Books(ctx context.Context, req *types.SearchRequest) ([]types.Result, error) {
	return uc.Search(ctx, types.CategoryBooks, req)
}

// Search validates the request, resolves the candidate engines and dispatches
// to them. Under "auto" selection candidates are queried in parallel, merged
// strictly in priority order, deduplicated by content URL (first occurrence
// wins) and truncated to MaxResults. Under explicit selection any failure
// from the single engine propagates as a BackendError.
func (uc *SearchUseCase) Search(ctx context.Context, category types.Category, req *types.SearchRequest) ([]types.Result, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	candidates, err := uc.registry.Resolve(category, req.Backend)
	if err != nil {
		return nil, err
	}

	if req.Backend != types.BackendAuto {
		return uc.searchExplicit(ctx, candidates[0], req)
	}

	return uc.searchAuto(ctx, candidates, req)
}

func (uc *SearchUseCase) searchExplicit(ctx context.Context, eng engine.Engine, req *types.SearchRequest) ([]types.Result, error) {
	results, err := uc.query(ctx, eng, req)
	if err != nil {
		return nil, &types.BackendError{Backend: eng.Name(), Err: err}
	}
	return dedupe(results, req.MaxResults), nil
}

type candidateOutcome struct {
	results []types.Result
	err     error
}

func (uc *SearchUseCase) searchAuto(ctx context.Context, candidates []engine.Engine, req *types.SearchRequest) ([]types.Result, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	// In-flight fetches are cancelled once enough results have accumulated.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make([]chan candidateOutcome, len(candidates))
	for i, eng := range candidates {
		ch := make(chan candidateOutcome, 1)
		outcomes[i] = ch

		eng := eng
		if err := uc.pool.Submit(func() {
			results, err := uc.query(ctx, eng, req)
			ch <- candidateOutcome{results: results, err: err}
		}); err != nil {
			ch <- candidateOutcome{err: err}
		}
	}

	// Merge in priority order regardless of completion order.
	seen := make(map[string]struct{})
	var merged []types.Result
	failed := 0

	for i, ch := range outcomes {
		if req.MaxResults > 0 && len(merged) >= req.MaxResults {
			break
		}

		outcome := <-ch
		if outcome.err != nil {
			failed++
			uc.logger.Warn("backend failed, advancing to next candidate",
				zap.String("engine", candidates[i].Name()),
				zap.Error(outcome.err),
			)
			continue
		}

		for _, r := range outcome.results {
			link := r.ContentURL()
			if link == "" {
				continue
			}
			if _, dup := seen[link]; dup {
				continue
			}
			seen[link] = struct{}{}
			merged = append(merged, r)
			if req.MaxResults > 0 && len(merged) >= req.MaxResults {
				break
			}
		}
	}

	if len(merged) == 0 && failed == len(candidates) {
		return nil, fmt.Errorf("%w: %d candidates", types.ErrAllBackendsFailed, failed)
	}

	return merged, nil
}

// query runs one fetch+extract unit against a single engine under the
// per-fetch timeout.
func (uc *SearchUseCase) query(ctx context.Context, eng engine.Engine, req *types.SearchRequest) ([]types.Result, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, uc.fetchTimeout)
	defer cancel()

	resp, err := uc.fetcher.Fetch(fetchCtx, &fetch.Request{
		URL:     eng.SearchURL(),
		Method:  eng.SearchMethod(),
		Headers: eng.SearchHeaders(),
		Params:  eng.BuildPayload(req),
	})
	if err != nil {
		return nil, err
	}

	return eng.ExtractResults(resp.Body), nil
}

// dedupe drops duplicate content URLs preserving order, then truncates to max
// (0 means no cap).
func dedupe(results []types.Result, max int) []types.Result {
	seen := make(map[string]struct{}, len(results))
	out := make([]types.Result, 0, len(results))
	for _, r := range results {
		link := r.ContentURL()
		if link == "" {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		out = append(out, r)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

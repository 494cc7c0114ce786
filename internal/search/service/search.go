// Package service exposes the search orchestrator over HTTP. Each category
// gets a GET and a POST endpoint accepting the same parameters.
package service

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lk2023060901/metasearch-backend/internal/pkg/response"
	"github.com/lk2023060901/metasearch-backend/internal/search/biz"
	"github.com/lk2023060901/metasearch-backend/internal/search/data"
	"github.com/lk2023060901/metasearch-backend/internal/search/types"
)

// SearchService handles the per-category search endpoints.
type SearchService struct {
	useCase *biz.SearchUseCase
	cache   *data.SearchCache // nil when caching is disabled
	logger  *zap.Logger
}

// NewSearchService creates the service. cache may be nil.
func NewSearchService(useCase *biz.SearchUseCase, cache *data.SearchCache, logger *zap.Logger) *SearchService {
	return &SearchService{
		useCase: useCase,
		cache:   cache,
		logger:  logger,
	}
}

// RegisterRoutes registers the search endpoints on the router group.
func (s *SearchService) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/search/text", s.SearchText)
	r.POST("/search/text", s.SearchText)
	r.GET("/search/images", s.SearchImages)
	r.POST("/search/images", s.SearchImages)
	r.GET("/search/news", s.SearchNews)
	r.POST("/search/news", s.SearchNews)
	r.GET("/search/videos", s.SearchVideos)
	r.POST("/search/videos", s.SearchVideos)
	r.GET("/search/books", s.SearchBooks)
	r.POST("/search/books", s.SearchBooks)
}

// SearchText handles text search requests.
func (s *SearchService) SearchText(c *gin.Context) {
	var params searchParams
	if !s.bind(c, &params) {
		return
	}
	s.dispatch(c, types.CategoryText, params.toRequest())
}

// SearchImages handles image search requests.
func (s *SearchService) SearchImages(c *gin.Context) {
	var params imagesParams
	if !s.bind(c, &params) {
		return
	}
	s.dispatch(c, types.CategoryImages, params.toRequest())
}

// SearchNews handles news search requests.
func (s *SearchService) SearchNews(c *gin.Context) {
	var params searchParams
	if !s.bind(c, &params) {
		return
	}
	s.dispatch(c, types.CategoryNews, params.toRequest())
}

// SearchVideos handles video search requests.
func (s *SearchService) SearchVideos(c *gin.Context) {
	var params videosParams
	if !s.bind(c, &params) {
		return
	}
	s.dispatch(c, types.CategoryVideos, params.toRequest())
}

// SearchBooks handles book search requests.
func (s *SearchService) SearchBooks(c *gin.Context) {
	var params searchParams
	if !s.bind(c, &params) {
		return
	}
	s.dispatch(c, types.CategoryBooks, params.toRequest())
}

// bind decodes parameters from the query string (GET) or JSON body (POST).
func (s *SearchService) bind(c *gin.Context, params interface{}) bool {
	var err error
	if c.Request.Method == http.MethodGet {
		err = c.ShouldBindQuery(params)
	} else {
		err = c.ShouldBindJSON(params)
	}
	if err != nil {
		response.BadRequest(c, "invalid request parameters: "+err.Error())
		return false
	}
	return true
}

func (s *SearchService) dispatch(c *gin.Context, category types.Category, req *types.SearchRequest) {
	ctx := c.Request.Context()
	req.Normalize()

	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.Key(category, req)
		if payload, ok := s.cache.Get(ctx, cacheKey); ok {
			response.Success(c, gin.H{"results": json.RawMessage(payload)})
			return
		}
	}

	results, err := s.useCase.Search(ctx, category, req)
	if err != nil {
		s.respondError(c, category, err)
		return
	}
	if results == nil {
		results = []types.Result{}
	}

	if s.cache != nil {
		if payload, err := json.Marshal(results); err == nil {
			s.cache.Set(ctx, cacheKey, payload)
		}
	}

	response.Success(c, gin.H{"results": results})
}

// respondError maps the orchestrator's error taxonomy onto HTTP statuses.
// Upstream response bodies are never included.
func (s *SearchService) respondError(c *gin.Context, category types.Category, err error) {
	switch {
	case errors.Is(err, types.ErrEmptyQuery),
		errors.Is(err, types.ErrInvalidPage),
		errors.Is(err, types.ErrInvalidSafeSearch),
		errors.Is(err, types.ErrInvalidTimeLimit),
		errors.Is(err, types.ErrUnknownBackend):
		response.BadRequest(c, err.Error())
	default:
		s.logger.Warn("search failed",
			zap.String("category", string(category)),
			zap.Error(err),
		)
		response.InternalError(c, "search failed: "+err.Error())
	}
}

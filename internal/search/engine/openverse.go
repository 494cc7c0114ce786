package engine

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/lk2023060901/metasearch-backend/internal/pkg/logger"
	"github.com/lk2023060901/metasearch-backend/internal/search/types"
)

// Openverse searches the Openverse image API. The API returns plain JSON, so
// extraction skips the script-blob steps entirely.
type Openverse struct {
	*BaseEngine
}

// NewOpenverse creates the Openverse images engine.
func NewOpenverse() *Openverse {
	return &Openverse{
		BaseEngine: NewBaseEngine(Descriptor{
			Name:         "openverse",
			Category:     types.CategoryImages,
			Provider:     "openverse",
			Priority:     1.0,
			SearchURL:    "https://api.openverse.org/v1/images/",
			SearchMethod: http.MethodGet,
			SearchHeaders: map[string]string{
				"Accept":     "application/json",
				"User-Agent": defaultUserAgent,
			},
		}),
	}
}

// BuildPayload maps the generic and image-specific parameters onto the
// Openverse API. Color and layout have no equivalent and are ignored;
// safesearch off disables the mature-content filter.
func (e *Openverse) BuildPayload(req *types.SearchRequest) url.Values {
	v := url.Values{
		"q":         {req.Query},
		"page":      {strconv.Itoa(req.Page)},
		"page_size": {"20"},
	}

	if req.SafeSearch == types.SafeSearchOff {
		v.Set("mature", "true")
	}

	switch strings.ToLower(req.Size) {
	case "small", "medium", "large":
		v.Set("size", strings.ToLower(req.Size))
	}

	switch strings.ToLower(req.TypeImage) {
	case "photo":
		v.Set("category", "photograph")
	case "clipart":
		v.Set("category", "illustration")
	}

	if req.LicenseImage != "" {
		v.Set("license", strings.ToLower(req.LicenseImage))
	}

	return v
}

// ExtractResults parses the JSON result list. Records without a landing or
// image URL are dropped.
func (e *Openverse) ExtractResults(body []byte) []types.Result {
	if !gjson.ValidBytes(body) {
		logger.Debug("openverse: response is not valid JSON")
		return nil
	}

	var results []types.Result
	gjson.GetBytes(body, "results").ForEach(func(_, item gjson.Result) bool {
		content := item.Get("foreign_landing_url").String()
		image := item.Get("url").String()
		if content == "" {
			content = image
		}
		if content == "" {
			return true
		}

		results = append(results, &types.ImagesResult{
			Provider:  e.Provider(),
			Title:     item.Get("title").String(),
			Content:   content,
			Image:     image,
			Thumbnail: item.Get("thumbnail").String(),
			Width:     int(item.Get("width").Int()),
			Height:    int(item.Get("height").Int()),
			Type:      item.Get("category").String(),
			License:   item.Get("license").String(),
		})
		return true
	})

	return results
}

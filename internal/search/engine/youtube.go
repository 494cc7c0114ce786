package engine

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lk2023060901/metasearch-backend/internal/pkg/logger"
	"github.com/lk2023060901/metasearch-backend/internal/search/extract"
	"github.com/lk2023060901/metasearch-backend/internal/search/types"
)

var ytInitialDataRe = extract.ScriptVarPattern("ytInitialData")

// YouTube searches YouTube videos by scraping the results page and parsing
// the ytInitialData JSON blob embedded in it.
type YouTube struct {
	*BaseEngine
}

// NewYouTube creates the YouTube videos engine.
func NewYouTube() *YouTube {
	return &YouTube{
		BaseEngine: NewBaseEngine(Descriptor{
			Name:         "youtube",
			Category:     types.CategoryVideos,
			Provider:     "youtube",
			Priority:     1.0,
			SearchURL:    "https://www.youtube.com/results",
			SearchMethod: http.MethodGet,
			SearchHeaders: map[string]string{
				"Accept-Language": "en-US,en;q=0.9",
				"User-Agent":      defaultUserAgent,
			},
		}),
	}
}

// BuildPayload builds the results-page query. YouTube ignores region,
// safesearch, timelimit and page.
func (e *YouTube) BuildPayload(req *types.SearchRequest) url.Values {
	return url.Values{"search_query": {req.Query}}
}

// ExtractResults parses video results out of the embedded ytInitialData JSON.
func (e *YouTube) ExtractResults(body []byte) []types.Result {
	data, ok := extract.ScriptVar(body, ytInitialDataRe)
	if !ok {
		logger.Debug("youtube: no parsable ytInitialData in response")
		return nil
	}

	var results []types.Result
	for _, item := range extract.Renderers(data, "videoRenderer") {
		videoID := item.Get("videoId").String()
		if videoID == "" {
			// No identifier means no canonical link; the item is dropped.
			continue
		}

		r := &types.VideosResult{
			Provider:    e.Provider(),
			Title:       extract.Text(item.Get("title")),
			Description: extract.Text(item.Get("descriptionSnippet")),
			Duration:    extract.Text(item.Get("lengthText")),
			Published:   extract.Text(item.Get("publishedTimeText")),
			Uploader:    extract.Text(item.Get("ownerText")),
			Content:     "https://www.youtube.com/watch?v=" + videoID,
			EmbedURL:    "https://www.youtube.com/embed/" + videoID,
			Images:      map[string]string{},
		}
		r.Publisher = r.Uploader
		r.Statistics = map[string]string{"views": extract.Text(item.Get("viewCountText"))}

		for i, thumb := range item.Get("thumbnail.thumbnails").Array() {
			if !thumb.IsObject() {
				continue
			}
			if u := thumb.Get("url").String(); u != "" {
				r.Images[strconv.Itoa(i)] = u
			}
		}

		// Trailing comment carries a URL-encoded fallback query for consumers
		// that cannot render the iframe.
		fallback := r.Title
		if fallback == "" {
			fallback = videoID
		}
		encoded := url.Values{"q": {fallback}}.Encode()
		r.EmbedHTML = fmt.Sprintf(
			`<iframe src="%s" title="%s" loading="lazy"></iframe><!-- search:%s -->`,
			r.EmbedURL, r.Title, encoded,
		)

		results = append(results, r)
	}

	return results
}

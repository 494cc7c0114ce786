package engine

import (
	"bytes"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lk2023060901/metasearch-backend/internal/pkg/logger"
	"github.com/lk2023060901/metasearch-backend/internal/search/types"
)

// BingNews searches Bing's news vertical and extracts articles from the
// news-card markup.
type BingNews struct {
	*BaseEngine
}

// NewBingNews creates the Bing news engine.
func NewBingNews() *BingNews {
	return &BingNews{
		BaseEngine: NewBaseEngine(Descriptor{
			Name:         "bing_news",
			Category:     types.CategoryNews,
			Provider:     "bing",
			Priority:     1.0,
			SearchURL:    "https://www.bing.com/news/search",
			SearchMethod: http.MethodGet,
			SearchHeaders: map[string]string{
				"Accept-Language": "en-US,en;q=0.9",
				"User-Agent":      defaultUserAgent,
			},
		}),
	}
}

// BuildPayload maps the generic parameters onto Bing news: first for the
// result offset, qft for the freshness interval. Region maps onto setlang
// via the language half of the region token.
func (e *BingNews) BuildPayload(req *types.SearchRequest) url.Values {
	v := url.Values{"q": {req.Query}}

	if req.Page > 1 {
		v.Set("first", strconv.Itoa((req.Page-1)*10+1))
	}

	switch req.TimeLimit {
	case "d":
		v.Set("qft", `interval="7"`)
	case "w":
		v.Set("qft", `interval="8"`)
	case "m":
		v.Set("qft", `interval="9"`)
	}

	if parts := strings.SplitN(req.Region, "-", 2); len(parts) == 2 {
		v.Set("setlang", parts[1])
	}

	return v
}

// ExtractResults parses article cards out of the HTML response.
func (e *BingNews) ExtractResults(body []byte) []types.Result {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		logger.Debug("bing_news: unparsable response body")
		return nil
	}

	var results []types.Result
	doc.Find("div.news-card").Each(func(_ int, s *goquery.Selection) {
		link := s.AttrOr("url", "")
		if link == "" {
			link, _ = s.Find("a.title").Attr("href")
		}
		if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
			return
		}

		source := s.AttrOr("data-author", "")
		if source == "" {
			source = strings.TrimSpace(s.Find(".source").First().Text())
		}

		results = append(results, &types.NewsResult{
			Provider: e.Provider(),
			Title:    strings.TrimSpace(s.Find("a.title").Text()),
			Content:  link,
			Date:     s.Find("span[aria-label]").First().AttrOr("aria-label", ""),
			Source:   source,
			Excerpt:  strings.TrimSpace(s.Find(".snippet").Text()),
		})
	})

	return results
}

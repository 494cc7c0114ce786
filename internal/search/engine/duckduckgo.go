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

// DuckDuckGo searches the DuckDuckGo HTML endpoint for text results.
type DuckDuckGo struct {
	*BaseEngine
}

// NewDuckDuckGo creates the DuckDuckGo text engine.
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		BaseEngine: NewBaseEngine(Descriptor{
			Name:         "duckduckgo",
			Category:     types.CategoryText,
			Provider:     "duckduckgo",
			Priority:     1.0,
			SearchURL:    "https://html.duckduckgo.com/html",
			SearchMethod: http.MethodGet,
			SearchHeaders: map[string]string{
				"User-Agent": defaultUserAgent,
			},
		}),
	}
}

// BuildPayload maps the generic parameters onto DuckDuckGo's HTML endpoint:
// kl for region, kp for safesearch, df for timelimit, s for the result offset.
func (e *DuckDuckGo) BuildPayload(req *types.SearchRequest) url.Values {
	v := url.Values{"q": {req.Query}}

	if req.Region != "" {
		v.Set("kl", req.Region)
	}

	switch req.SafeSearch {
	case types.SafeSearchOn:
		v.Set("kp", "1")
	case types.SafeSearchOff:
		v.Set("kp", "-2")
	default:
		v.Set("kp", "-1")
	}

	if req.TimeLimit != "" {
		v.Set("df", req.TimeLimit)
	}

	if req.Page > 1 {
		v.Set("s", strconv.Itoa((req.Page-1)*30))
	}

	return v
}

// ExtractResults parses the result blocks out of the HTML response.
// Redirect links are unwrapped via the uddg parameter.
func (e *DuckDuckGo) ExtractResults(body []byte) []types.Result {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		logger.Debug("duckduckgo: unparsable response body")
		return nil
	}

	var results []types.Result
	doc.Find(".result__body").Each(func(_ int, s *goquery.Selection) {
		titleSel := s.Find(".result__title a")
		href, ok := titleSel.Attr("href")
		if !ok {
			return
		}

		link := unwrapRedirect(href)
		if link == "" {
			return
		}

		results = append(results, &types.TextResult{
			Provider:    e.Provider(),
			Title:       strings.TrimSpace(titleSel.Text()),
			Content:     link,
			Description: strings.TrimSpace(s.Find(".result__snippet").Text()),
		})
	})

	return results
}

// unwrapRedirect resolves DuckDuckGo's /l/?uddg=<target> redirect links to
// the target URL. Direct http(s) links pass through unchanged.
func unwrapRedirect(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		href = target
	}
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return ""
	}
	return href
}

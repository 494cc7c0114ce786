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

// OpenLibrary searches the Open Library JSON API for books.
type OpenLibrary struct {
	*BaseEngine
}

// NewOpenLibrary creates the Open Library books engine.
func NewOpenLibrary() *OpenLibrary {
	return &OpenLibrary{
		BaseEngine: NewBaseEngine(Descriptor{
			Name:         "openlibrary",
			Category:     types.CategoryBooks,
			Provider:     "openlibrary",
			Priority:     1.0,
			SearchURL:    "https://openlibrary.org/search.json",
			SearchMethod: http.MethodGet,
			SearchHeaders: map[string]string{
				"Accept":     "application/json",
				"User-Agent": defaultUserAgent,
			},
		}),
	}
}

// BuildPayload maps query and page onto the API. Books have no additional
// generic filters; region, safesearch and timelimit are ignored.
func (e *OpenLibrary) BuildPayload(req *types.SearchRequest) url.Values {
	return url.Values{
		"q":     {req.Query},
		"page":  {strconv.Itoa(req.Page)},
		"limit": {"20"},
	}
}

// ExtractResults parses the docs list. Records without a work key have no
// canonical link and are dropped.
func (e *OpenLibrary) ExtractResults(body []byte) []types.Result {
	if !gjson.ValidBytes(body) {
		logger.Debug("openlibrary: response is not valid JSON")
		return nil
	}

	var results []types.Result
	gjson.GetBytes(body, "docs").ForEach(func(_, doc gjson.Result) bool {
		key := doc.Get("key").String()
		if key == "" {
			return true
		}

		var authors []string
		doc.Get("author_name").ForEach(func(_, a gjson.Result) bool {
			if a.Type == gjson.String {
				authors = append(authors, a.String())
			}
			return true
		})

		description := doc.Get("subtitle").String()
		if description == "" {
			description = doc.Get("first_sentence.0").String()
		}

		results = append(results, &types.BooksResult{
			Provider:    e.Provider(),
			Title:       doc.Get("title").String(),
			Content:     "https://openlibrary.org" + key,
			Author:      strings.Join(authors, ", "),
			Description: description,
		})
		return true
	})

	return results
}

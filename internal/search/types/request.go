package types

import "strings"

// BackendAuto selects all registered engines for a category in priority order.
const BackendAuto = "auto"

// SafeSearch levels.
const (
	SafeSearchOn       = "on"
	SafeSearchModerate = "moderate"
	SafeSearchOff      = "off"
)

// SearchRequest carries the generic and category-specific search parameters.
// Engines honor the subset they support and silently ignore the rest.
type SearchRequest struct {
	Query      string
	Region     string
	SafeSearch string
	TimeLimit  string // "", "d", "w", "m", "y" or a custom "start..end" range
	Page       int
	MaxResults int // 0 means no cap
	Backend    string

	// Images filters
	Size         string
	Color        string
	TypeImage    string
	Layout       string
	LicenseImage string

	// Videos filters
	Resolution    string
	Duration      string
	LicenseVideos string
}

// Normalize fills in default values for unset fields.
func (r *SearchRequest) Normalize() {
	if r.Region == "" {
		r.Region = "us-en"
	}
	if r.SafeSearch == "" {
		r.SafeSearch = SafeSearchModerate
	}
	if r.Page == 0 {
		r.Page = 1
	}
	if r.Backend == "" {
		r.Backend = BackendAuto
	}
}

// Validate checks the enumerated parameters. It returns a parameter error
// before any fetch is attempted.
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	if r.Page < 1 {
		return ErrInvalidPage
	}
	switch r.SafeSearch {
	case SafeSearchOn, SafeSearchModerate, SafeSearchOff:
	default:
		return ErrInvalidSafeSearch
	}
	if !validTimeLimit(r.TimeLimit) {
		return ErrInvalidTimeLimit
	}
	return nil
}

// validTimeLimit accepts the fixed windows plus a custom "start..end" range.
func validTimeLimit(tl string) bool {
	switch tl {
	case "", "d", "w", "m", "y":
		return true
	}
	return strings.Contains(tl, "..")
}

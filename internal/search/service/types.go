package service

import "github.com/lk2023060901/metasearch-backend/internal/search/types"

// searchParams carries the generic parameters shared by every category
// endpoint. max_results is nullable: absent means the default of 10, an
// explicit value <= 0 means no cap.
type searchParams struct {
	Query      string `form:"query" json:"query" binding:"required"`
	Region     string `form:"region" json:"region"`
	SafeSearch string `form:"safesearch" json:"safesearch"`
	TimeLimit  string `form:"timelimit" json:"timelimit"`
	MaxResults *int   `form:"max_results" json:"max_results"`
	Page       int    `form:"page" json:"page"`
	Backend    string `form:"backend" json:"backend"`
}

type imagesParams struct {
	searchParams
	Size         string `form:"size" json:"size"`
	Color        string `form:"color" json:"color"`
	TypeImage    string `form:"type_image" json:"type_image"`
	Layout       string `form:"layout" json:"layout"`
	LicenseImage string `form:"license_image" json:"license_image"`
}

type videosParams struct {
	searchParams
	Resolution    string `form:"resolution" json:"resolution"`
	Duration      string `form:"duration" json:"duration"`
	LicenseVideos string `form:"license_videos" json:"license_videos"`
}

const defaultMaxResults = 10

func (p *searchParams) toRequest() *types.SearchRequest {
	maxResults := defaultMaxResults
	if p.MaxResults != nil {
		maxResults = *p.MaxResults
		if maxResults < 0 {
			maxResults = 0
		}
	}

	return &types.SearchRequest{
		Query:      p.Query,
		Region:     p.Region,
		SafeSearch: p.SafeSearch,
		TimeLimit:  p.TimeLimit,
		Page:       p.Page,
		MaxResults: maxResults,
		Backend:    p.Backend,
	}
}

func (p *imagesParams) toRequest() *types.SearchRequest {
	req := p.searchParams.toRequest()
	req.Size = p.Size
	req.Color = p.Color
	req.TypeImage = p.TypeImage
	req.Layout = p.Layout
	req.LicenseImage = p.LicenseImage
	return req
}

func (p *videosParams) toRequest() *types.SearchRequest {
	req := p.searchParams.toRequest()
	req.Resolution = p.Resolution
	req.Duration = p.Duration
	req.LicenseVideos = p.LicenseVideos
	return req
}

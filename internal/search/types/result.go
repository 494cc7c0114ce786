package types

// Result is implemented by every category-specific result record.
// ContentURL is the canonical link identifying the record; extraction drops
// records without one. ProviderName is the backend that produced the record.
type Result interface {
	ContentURL() string
	ProviderName() string
}

// TextResult is a single web page result.
type TextResult struct {
	Provider    string `json:"provider"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

func (r *TextResult) ContentURL() string   { return r.Content }
func (r *TextResult) ProviderName() string { return r.Provider }

// ImagesResult is a single image result.
type ImagesResult struct {
	Provider  string `json:"provider"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Image     string `json:"image,omitempty"`
	Thumbnail string `json:"thumbnail"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Type      string `json:"type,omitempty"`
	Layout    string `json:"layout,omitempty"`
	License   string `json:"license,omitempty"`
}

func (r *ImagesResult) ContentURL() string   { return r.Content }
func (r *ImagesResult) ProviderName() string { return r.Provider }

// NewsResult is a single news article result.
type NewsResult struct {
	Provider string `json:"provider"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Date     string `json:"date"`
	Source   string `json:"source"`
	Excerpt  string `json:"excerpt"`
}

func (r *NewsResult) ContentURL() string   { return r.Content }
func (r *NewsResult) ProviderName() string { return r.Provider }

// VideosResult is a single video result. Images maps stringified positional
// index to thumbnail URL, preserving upstream thumbnail order; Statistics maps
// metric name to a free-text value and always carries a "views" key.
type VideosResult struct {
	Provider    string            `json:"provider"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Duration    string            `json:"duration"`
	Published   string            `json:"published"`
	Uploader    string            `json:"uploader"`
	Publisher   string            `json:"publisher"`
	Content     string            `json:"content"`
	EmbedURL    string            `json:"embed_url"`
	EmbedHTML   string            `json:"embed_html"`
	Images      map[string]string `json:"images"`
	Statistics  map[string]string `json:"statistics"`
}

func (r *VideosResult) ContentURL() string   { return r.Content }
func (r *VideosResult) ProviderName() string { return r.Provider }

// BooksResult is a single book result.
type BooksResult struct {
	Provider    string `json:"provider"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

func (r *BooksResult) ContentURL() string   { return r.Content }
func (r *BooksResult) ProviderName() string { return r.Provider }

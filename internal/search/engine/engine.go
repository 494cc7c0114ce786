// Package engine implements the per-backend search engines and the registry
// that holds them. Each engine translates generic search parameters into the
// upstream's query format and extracts normalized results from the raw
// response body.
package engine

import (
	"net/url"

	"github.com/lk2023060901/metasearch-backend/internal/search/types"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Engine is the contract every backend implements. BuildPayload and
// ExtractResults are pure: no I/O, deterministic for identical inputs.
// ExtractResults never fails; malformed upstream content yields an empty
// slice, which callers treat as zero results from this backend.
type Engine interface {
	Name() string
	Category() types.Category
	Provider() string
	Priority() float64

	SearchURL() string
	SearchMethod() string
	SearchHeaders() map[string]string

	BuildPayload(req *types.SearchRequest) url.Values
	ExtractResults(body []byte) []types.Result
}

// Descriptor holds the static configuration of an engine.
type Descriptor struct {
	Name          string
	Category      types.Category
	Provider      string
	Priority      float64
	SearchURL     string
	SearchMethod  string
	SearchHeaders map[string]string
}

// BaseEngine provides the descriptor accessors shared by all engines.
// Engines are stateless aside from this configuration and are safe for
// concurrent use.
type BaseEngine struct {
	desc Descriptor
}

// NewBaseEngine creates a BaseEngine from a descriptor.
func NewBaseEngine(desc Descriptor) *BaseEngine {
	return &BaseEngine{desc: desc}
}

func (b *BaseEngine) Name() string             { return b.desc.Name }
func (b *BaseEngine) Category() types.Category { return b.desc.Category }
func (b *BaseEngine) Provider() string         { return b.desc.Provider }
func (b *BaseEngine) Priority() float64        { return b.desc.Priority }
func (b *BaseEngine) SearchURL() string        { return b.desc.SearchURL }
func (b *BaseEngine) SearchMethod() string     { return b.desc.SearchMethod }

func (b *BaseEngine) SearchHeaders() map[string]string { return b.desc.SearchHeaders }

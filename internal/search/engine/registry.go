package engine

import (
	"fmt"
	"sort"

	"github.com/lk2023060901/metasearch-backend/internal/search/types"
)

// Registry holds all known engines indexed by category. It is populated once
// at startup and read-only afterwards, so request handling needs no locking.
type Registry struct {
	engines map[types.Category][]Engine // registration order per category
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[types.Category][]Engine),
	}
}

// Register adds an engine under its category. Duplicate names within a
// category are a configuration error.
func (r *Registry) Register(e Engine) error {
	category := e.Category()
	for _, existing := range r.engines[category] {
		if existing.Name() == e.Name() {
			return fmt.Errorf("engine %q already registered for category %q", e.Name(), category)
		}
	}
	r.engines[category] = append(r.engines[category], e)
	return nil
}

// MustRegister registers a batch of engines and panics on a duplicate. Meant
// for process startup only.
func (r *Registry) MustRegister(engines ...Engine) {
	for _, e := range engines {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the candidate engines for a category. An explicit backend
// name resolves to a single engine or ErrUnknownBackend; BackendAuto resolves
// to all engines for the category ordered by descending priority, ties broken
// by registration order.
func (r *Registry) Resolve(category types.Category, backend string) ([]Engine, error) {
	registered := r.engines[category]

	if backend != types.BackendAuto {
		for _, e := range registered {
			if e.Name() == backend {
				return []Engine{e}, nil
			}
		}
		return nil, fmt.Errorf("%w: %q for category %q", types.ErrUnknownBackend, backend, category)
	}

	candidates := make([]Engine, len(registered))
	copy(candidates, registered)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority() > candidates[j].Priority()
	})
	return candidates, nil
}

// Names returns the registered engine names for a category, in registration order.
func (r *Registry) Names(category types.Category) []string {
	names := make([]string, 0, len(r.engines[category]))
	for _, e := range r.engines[category] {
		names = append(names, e.Name())
	}
	return names
}

// Package extract maps raw product-page HTML into the canonical schema.
// Each source site gets its own Extractor implementation; the registry
// selects one by site identifier so callers never inspect HTML structure
// to pick a parser.
package extract

import (
	"fmt"

	"github.com/vladimir/product-scraper/internal/schema"
)

// Extractor parses one site's product page HTML into the canonical schema.
// Implementations are tolerant of missing nodes: absent fields stay
// null/empty and are never an error.
type Extractor interface {
	// Site returns the identifier this extractor is registered under.
	Site() string

	// Extract parses HTML and returns the canonical product. Empty input
	// yields the all-null base structure, not an error.
	Extract(html string) (*schema.Product, error)
}

// UnknownSiteError is returned when no extractor is registered for a site.
type UnknownSiteError struct {
	Site string
}

func (e *UnknownSiteError) Error() string {
	return fmt.Sprintf("no extractor registered for site %q", e.Site)
}

// Registry holds the available site extractors.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry builds a registry from the given extractors.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{extractors: make(map[string]Extractor, len(extractors))}
	for _, e := range extractors {
		r.extractors[e.Site()] = e
	}
	return r
}

// Get returns the extractor for a site identifier.
func (r *Registry) Get(site string) (Extractor, error) {
	e, ok := r.extractors[site]
	if !ok {
		return nil, &UnknownSiteError{Site: site}
	}
	return e, nil
}

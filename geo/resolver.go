// Package geo maps free-text locations to the numeric geographic codes the
// people search accepts in its geoUrn facet.
package geo

import (
	"strings"

	"github.com/fwojciec/leadscout"
)

var _ leadscout.LocationResolver = (*Resolver)(nil)

// DefaultCode is the code for the United States, the broadest entry in the table.
const DefaultCode = "103644278"

// Place is a named location and its search code.
type Place struct {
	Name string
	Code string
}

// Resolver resolves locations against an ordered table of places.
// Table order breaks ties between equally specific substring matches.
type Resolver struct {
	places      []Place
	index       map[string]string
	defaultCode string
}

// NewResolver creates a Resolver over places. An empty places uses DefaultPlaces.
func NewResolver(places []Place, defaultCode string) *Resolver {
	if len(places) == 0 {
		places = DefaultPlaces
	}
	if defaultCode == "" {
		defaultCode = DefaultCode
	}
	index := make(map[string]string, len(places))
	for _, p := range places {
		if _, ok := index[p.Name]; !ok {
			index[p.Name] = p.Code
		}
	}
	return &Resolver{places: places, index: index, defaultCode: defaultCode}
}

// Resolve returns the code for text.
//
// Resolution is exact match first, then substring match in either direction.
// Among substring matches the longest overlap wins, so "west virginia" beats
// "virginia" and "austin, tx" resolves to Austin rather than to "us".
// Unmatched and empty input resolve to the default code.
func (r *Resolver) Resolve(text string) string {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return r.defaultCode
	}
	if code, ok := r.index[q]; ok {
		return code
	}

	best, bestLen := "", 0
	for _, p := range r.places {
		var overlap int
		switch {
		case strings.Contains(q, p.Name):
			overlap = len(p.Name)
		case strings.Contains(p.Name, q):
			overlap = len(q)
		default:
			continue
		}
		if overlap > bestLen {
			best, bestLen = p.Code, overlap
		}
	}
	if best == "" {
		return r.defaultCode
	}
	return best
}

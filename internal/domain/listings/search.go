package listings

import (
	"sort"
	"strings"
)

// SortKey selects the catalog ordering. The empty key keeps input order.
type SortKey string

const (
	SortNone      SortKey = ""
	SortRating    SortKey = "rating"
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortPopular   SortKey = "popular"
	SortNewest    SortKey = "newest"
)

// ParseSortKey maps a raw value to a known key; anything else means no reordering.
func ParseSortKey(raw string) SortKey {
	switch key := SortKey(strings.TrimSpace(strings.ToLower(raw))); key {
	case SortRating, SortPriceLow, SortPriceHigh, SortPopular, SortNewest:
		return key
	default:
		return SortNone
	}
}

// PriceRange is an inclusive price bound. An inverted range matches nothing.
type PriceRange struct {
	Min float64
	Max float64
}

func (r PriceRange) Contains(price float64) bool {
	return r.Min <= price && price <= r.Max
}

// FilterSpec holds the constraints of one catalog query. Zero values impose no
// restriction.
type FilterSpec struct {
	// Location is a comma-separated list of terms matched against location, state and name.
	Location      string
	PropertyTypes []PropertyType
	Views         []View
	Themes        []Theme
	// MaxGuests is the party size the traveler needs to fit: listings must host at least
	// this many guests.
	MaxGuests  int
	PriceRange *PriceRange
	SortBy     SortKey
}

// LocationTerms returns the lowercased, trimmed, non-empty sub-terms of Location.
func (s FilterSpec) LocationTerms() []string {
	if strings.TrimSpace(s.Location) == "" {
		return nil
	}
	parts := strings.Split(strings.ToLower(s.Location), ",")
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			terms = append(terms, part)
		}
	}
	return terms
}

// Empty reports whether the spec imposes no constraint and no ordering.
func (s FilterSpec) Empty() bool {
	return len(s.LocationTerms()) == 0 &&
		len(s.PropertyTypes) == 0 &&
		len(s.Views) == 0 &&
		len(s.Themes) == 0 &&
		s.MaxGuests <= 0 &&
		s.PriceRange == nil &&
		s.SortBy == SortNone
}

type predicate func(*Listing) bool

// Query returns the listings matching every constraint of spec, ordered by spec.SortBy.
// The result is a new slice; neither the input slice nor the listings are modified.
func Query(items []*Listing, spec FilterSpec) []*Listing {
	preds := spec.predicates()
	out := make([]*Listing, 0, len(items))
	for _, listing := range items {
		if listing == nil {
			continue
		}
		if matchesAll(listing, preds) {
			out = append(out, listing)
		}
	}
	if less := spec.SortBy.less(); less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

// Matches reports whether a single listing satisfies the filter part of spec.
func (s FilterSpec) Matches(listing *Listing) bool {
	if listing == nil {
		return false
	}
	return matchesAll(listing, s.predicates())
}

func matchesAll(listing *Listing, preds []predicate) bool {
	for _, p := range preds {
		if !p(listing) {
			return false
		}
	}
	return true
}

func (s FilterSpec) predicates() []predicate {
	var preds []predicate
	if terms := s.LocationTerms(); len(terms) > 0 {
		preds = append(preds, locationPredicate(terms))
	}
	if len(s.PropertyTypes) > 0 {
		allowed := toSet(s.PropertyTypes)
		preds = append(preds, func(l *Listing) bool {
			_, ok := allowed[l.PropertyType]
			return ok
		})
	}
	if len(s.Views) > 0 {
		wanted := toSet(s.Views)
		preds = append(preds, func(l *Listing) bool { return intersects(l.Views, wanted) })
	}
	if len(s.Themes) > 0 {
		wanted := toSet(s.Themes)
		preds = append(preds, func(l *Listing) bool { return intersects(l.Themes, wanted) })
	}
	if s.MaxGuests > 0 {
		guests := s.MaxGuests
		preds = append(preds, func(l *Listing) bool { return l.MaxGuests >= guests })
	}
	if s.PriceRange != nil {
		bounds := *s.PriceRange
		preds = append(preds, func(l *Listing) bool { return bounds.Contains(l.Price) })
	}
	return preds
}

func locationPredicate(terms []string) predicate {
	return func(l *Listing) bool {
		fields := [...]string{
			strings.ToLower(l.Location),
			strings.ToLower(l.State),
			strings.ToLower(l.Name),
		}
		for _, term := range terms {
			for _, field := range fields {
				if strings.Contains(field, term) {
					return true
				}
			}
		}
		return false
	}
}

func (k SortKey) less() func(a, b *Listing) bool {
	switch k {
	case SortRating:
		return func(a, b *Listing) bool { return a.Rating > b.Rating }
	case SortPriceLow:
		return func(a, b *Listing) bool { return a.Price < b.Price }
	case SortPriceHigh:
		return func(a, b *Listing) bool { return a.Price > b.Price }
	case SortPopular:
		return func(a, b *Listing) bool { return a.ReviewCount > b.ReviewCount }
	case SortNewest:
		return func(a, b *Listing) bool { return a.CreatedAt.After(b.CreatedAt) }
	default:
		return nil
	}
}

func toSet[T comparable](values []T) map[T]struct{} {
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func intersects[T comparable](values []T, wanted map[T]struct{}) bool {
	for _, v := range values {
		if _, ok := wanted[v]; ok {
			return true
		}
	}
	return false
}

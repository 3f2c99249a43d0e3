package ginserver

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	domainlistings "vibestays/internal/domain/listings"
)

// catalogParams is the parsed catalog query string.
type catalogParams struct {
	Spec   domainlistings.FilterSpec
	Limit  int
	Offset int
}

// parseCatalogParams builds a filter spec from the catalog query string. Values
// that cannot be parsed are treated as absent.
func parseCatalogParams(values url.Values) catalogParams {
	spec := domainlistings.FilterSpec{
		Location:      firstNonEmpty(values, "search", "location"),
		PropertyTypes: domainlistings.ParsePropertyTypes(listParam(values, "type", "property_type")),
		Views:         domainlistings.ParseViews(listParam(values, "view", "views")),
		Themes:        domainlistings.ParseThemes(listParam(values, "theme", "themes")),
		MaxGuests:     parseInt(firstNonEmpty(values, "guests", "max_guests")),
		PriceRange:    parsePriceRange(values.Get("price_min"), values.Get("price_max")),
		SortBy:        domainlistings.ParseSortKey(values.Get("sort")),
	}
	return catalogParams{
		Spec:   spec,
		Limit:  parseInt(values.Get("limit")),
		Offset: parseInt(values.Get("offset")),
	}
}

func parsePriceRange(minRaw, maxRaw string) *domainlistings.PriceRange {
	lo, hasMin := parseFloat(minRaw)
	hi, hasMax := parseFloat(maxRaw)
	if !hasMin && !hasMax {
		return nil
	}
	if !hasMin {
		lo = 0
	}
	if !hasMax {
		hi = math.Inf(1)
	}
	return &domainlistings.PriceRange{Min: lo, Max: hi}
}

func firstNonEmpty(values url.Values, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(values.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

// listParam collects repeated and comma separated values of every alias.
func listParam(values url.Values, keys ...string) []string {
	var out []string
	for _, key := range keys {
		for _, raw := range values[key] {
			out = append(out, splitCSV(raw)...)
		}
	}
	return out
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInt(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return 0
	}
	return value
}

func parseFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

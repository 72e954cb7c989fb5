package client

import (
	"net/url"
	"strconv"
	"strings"
)

// SearchPath is the catalog search endpoint.
const SearchPath = "/api/sweets/search"

// Filter holds optional search constraints. Blank strings and nil prices are
// left out of the query.
type Filter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// BuildSearchPath renders f as a search path. Parameters always appear in the
// order name, category, min_price, max_price.
func BuildSearchPath(f Filter) string {
	params := make([]string, 0, 4)
	add := func(key, value string) {
		params = append(params, key+"="+url.QueryEscape(value))
	}

	if name := strings.TrimSpace(f.Name); name != "" {
		add("name", name)
	}
	if category := strings.TrimSpace(f.Category); category != "" {
		add("category", category)
	}
	if f.MinPrice != nil {
		add("min_price", formatPrice(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		add("max_price", formatPrice(*f.MaxPrice))
	}

	if len(params) == 0 {
		return SearchPath
	}
	return SearchPath + "?" + strings.Join(params, "&")
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

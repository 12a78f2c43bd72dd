package domain

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// legacyFilterNames maps historical filter names to the category-agnostic
// names the dataset API expects.
var legacyFilterNames = map[string]string{
	"mass_min": "value_min",
	"mass_max": "value_max",
}

// BuildQuery turns a category and user-entered filter values into the query
// for GET /datasets. Values are stringified and trimmed; blank, nil, or
// unsupported values are omitted. Legacy names are remapped for every
// category, and when both a legacy name and its canonical name carry a value
// the canonical one wins. The category is always sent as "type" and cannot be
// overridden by a filter.
func BuildQuery(category Category, filters map[string]any) url.Values {
	q := url.Values{}
	q.Set("type", string(category))

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var aliased []string
	for _, k := range keys {
		name := strings.TrimSpace(k)
		if name == "" || name == "type" {
			continue
		}
		if _, ok := legacyFilterNames[name]; ok {
			aliased = append(aliased, k)
			continue
		}
		if v, ok := filterValue(filters[k]); ok {
			q.Set(name, v)
		}
	}

	for _, k := range aliased {
		canonical := legacyFilterNames[strings.TrimSpace(k)]
		if q.Has(canonical) {
			continue
		}
		if v, ok := filterValue(filters[k]); ok {
			q.Set(canonical, v)
		}
	}

	return q
}

func filterValue(v any) (string, bool) {
	var s string
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		s = x
	case bool:
		s = strconv.FormatBool(x)
	case fmt.Stringer:
		s = x.String()
	default:
		f, ok := asFloat(v)
		if !ok {
			return "", false
		}
		s = formatNumber(f)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

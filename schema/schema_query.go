package schema

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// QueryKey returns the query parameter name of a field for a build.
func QueryKey(build BuildID, key string) string {
	return string(build) + "_" + key
}

// ParseQueryKey splits a query parameter name into its build and field.
// It reports false for names that do not address a known build and field.
func ParseQueryKey(name string) (BuildID, Field, bool) {
	prefix, key, found := strings.Cut(name, "_")
	if !found {
		return "", Field{}, false
	}
	build := BuildID(prefix)
	if _, ok := ValidBuilds[build]; !ok {
		return "", Field{}, false
	}
	f, ok := LookupField(key)
	if !ok {
		return "", Field{}, false
	}
	return build, f, true
}

// FormatValue renders a parameter value the way it appears in a query string.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EncodeOrdered encodes values as a query string. Known build keys come first
// in build order then schema order; any other keys follow sorted by name.
func EncodeOrdered(values url.Values) string {
	var sb strings.Builder
	seen := make(map[string]struct{}, len(values))
	write := func(k string, vs []string) {
		for _, v := range vs {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(k))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(v))
		}
		seen[k] = struct{}{}
	}
	for _, b := range AllBuilds {
		for _, f := range Fields {
			k := QueryKey(b, f.Key)
			if vs, ok := values[k]; ok {
				write(k, vs)
			}
		}
	}
	rest := make([]string, 0, len(values))
	for k := range values {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	for _, k := range rest {
		write(k, values[k])
	}
	return sb.String()
}

package providers

import "strings"

// DefaultSearchLimit is the number of providers a search returns and geocodes.
const DefaultSearchLimit = 10

// Filter returns the providers whose trimmed postal code starts with prefix,
// in input order. An empty prefix matches everything. The match is a plain
// string prefix, not a numeric or distance comparison. When limit > 0 the
// result is truncated to at most limit entries.
//
// The returned slice holds copies; list is never modified.
func Filter(list []Provider, prefix string, limit int) []Provider {
	out := make([]Provider, 0, capacity(len(list), limit))
	for _, p := range list {
		if limit > 0 && len(out) >= limit {
			break
		}
		if prefix != "" && !strings.HasPrefix(strings.TrimSpace(p.ZipCode), prefix) {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}

func capacity(n, limit int) int {
	if limit > 0 && limit < n {
		return limit
	}
	return n
}

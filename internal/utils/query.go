package utils

import "strings"

// ParseQueryList handles both repeated and comma-separated query params, in any
// mix. Blank entries are dropped.
// Example:
//
//	?circuit=a,b            → ["a","b"]
//	?circuit=a&circuit=b,c  → ["a","b","c"]
func ParseQueryList(q map[string][]string, key string) []string {
	values := q[key]
	if len(values) == 0 {
		return nil
	}

	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

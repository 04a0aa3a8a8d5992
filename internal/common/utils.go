package common

import "strings"

// HasAnySuffix returns true if s ends with any of the suffixes, ignoring case.
func HasAnySuffix(s string, suffixes ...string) bool {
	lower := strings.ToLower(s)
	for _, suf := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(suf)) {
			return true
		}
	}
	return false
}

// CutAnyPrefix strips the first matching prefix and reports which one matched.
func CutAnyPrefix(s string, prefixes ...string) (prefix, rest string, ok bool) {
	for _, p := range prefixes {
		if after, found := strings.CutPrefix(s, p); found {
			return p, after, true
		}
	}
	return "", s, false
}

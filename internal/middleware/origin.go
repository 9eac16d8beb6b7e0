package middleware

import (
	"net/http"
	"strings"
)

// OriginChecker matches the Origin header against patterns with at most one "*",
// e.g. "chrome-extension://*". Requests without an Origin header pass.
func OriginChecker(patterns []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, p := range patterns {
			if matchOrigin(strings.ToLower(p), strings.ToLower(origin)) {
				return true
			}
		}
		return false
	}
}

func matchOrigin(pattern, origin string) bool {
	prefix, suffix, wild := strings.Cut(pattern, "*")
	if !wild {
		return pattern == origin
	}
	return len(origin) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(origin, prefix) &&
		strings.HasSuffix(origin, suffix)
}

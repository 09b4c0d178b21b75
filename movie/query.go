package movie

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxQueryLength = 100

var (
	allowedQuery = regexp.MustCompile(`^[\p{L}\p{N} .,:!?&'\-]+$`)

	blockedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`<\s*script`),
		regexp.MustCompile(`javascript:`),
		regexp.MustCompile(`--`),
		regexp.MustCompile(`\b(select|insert|update|delete|drop|union)\b.*\b(from|into|table|set|select)\b`),
		regexp.MustCompile(`\$(where|ne|gt|lt|regex|or|and)\b`),
	}
)

// NormalizeQuery lower-cases and trims a user query and validates it against
// the allow-list and the blocklist. The result is the cache and store key.
func NormalizeQuery(raw string) (string, error) {
	q := queryKey(raw)
	if q == "" {
		return "", ErrInvalidQuery
	}
	if utf8.RuneCountInString(q) > maxQueryLength {
		return "", ErrQueryTooLong
	}
	if !allowedQuery.MatchString(q) {
		return "", ErrQueryNotAllowed
	}
	for _, p := range blockedPatterns {
		if p.MatchString(q) {
			return "", ErrQueryNotAllowed
		}
	}
	return q, nil
}

// queryKey is the form under which search terms and daily names are cached and recorded.
func queryKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

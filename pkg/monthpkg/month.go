// Package monthpkg parses YYYY-MM month tokens into half-open date ranges.
package monthpkg

import (
	"regexp"
	"strings"
	"time"
)

// Layout is the accepted month format.
const Layout = "2006-01"

var pattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Range is the half-open interval [Start, End) covering one or more months.
type Range struct {
	Start time.Time
	End   time.Time
}

// Parse returns the range of the month s or false when s is not a strict YYYY-MM token.
func Parse(s string) (Range, bool) {
	if !pattern.MatchString(s) {
		return Range{}, false
	}

	start, err := time.Parse(Layout, s)
	if err != nil {
		return Range{}, false
	}

	return Range{Start: start, End: start.AddDate(0, 1, 0)}, true
}

// Tokens merges repeated month values and comma separated lists into one slice.
func Tokens(repeated []string, lists ...string) []string {
	tokens := make([]string, 0, len(repeated))

	for _, m := range repeated {
		if m = strings.TrimSpace(m); m != "" {
			tokens = append(tokens, m)
		}
	}

	for _, list := range lists {
		for _, m := range strings.Split(list, ",") {
			if m = strings.TrimSpace(m); m != "" {
				tokens = append(tokens, m)
			}
		}
	}

	return tokens
}

// ParseAll parses every valid token and silently drops the malformed ones.
func ParseAll(tokens []string) []Range {
	var ranges []Range

	for _, t := range tokens {
		if r, ok := Parse(t); ok {
			ranges = append(ranges, r)
		}
	}

	return ranges
}

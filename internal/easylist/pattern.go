package easylist

import (
	"regexp"
	"strings"
)

// Separator character class. In AdBlock Plus syntax "^" matches any character
// that is not alphanumeric, underscore, dot, percent, or hyphen, or the end
// of the URL. WebKit's url-filter dialect has no such shorthand, so the
// translator expands it to an explicit class.
const separatorClass = "[^a-zA-Z0-9_.%-]"

// degenerate lists translated expressions that would match every URL.
// Emitting one of these would block the entire web, so the pattern is
// rejected instead.
var degenerate = map[string]struct{}{
	"":    {},
	".*":  {},
	"^.*": {},
	".*$": {},
}

// TranslatePattern converts one AdBlock Plus URL pattern into a url-filter
// regular expression. The pattern must already be stripped of surrounding
// whitespace and of any trailing $options suffix.
//
// It returns ok=false when the pattern is not representable: an empty
// pattern, a domain anchor with no domain, or a pattern that reduces to a
// match-everything expression.
//
// Escaping uses regexp.QuoteMeta as the canonical dialect, so literal text
// is escaped identically regardless of which regex engine consumes the
// output (WebKit compiles url-filter with its own matcher).
func TranslatePattern(pattern string) (string, bool) {
	if pattern == "" {
		return "", false
	}

	// Domain anchor: ||domain.com^ matches the domain and all subdomains.
	// This case has top priority and returns without wildcard/separator
	// substitution: a wildcard inside the domain portion stays literal.
	if strings.HasPrefix(pattern, "||") {
		domain := strings.TrimRight(pattern[2:], "^*")
		if domain == "" {
			return "", false
		}
		return `^https?://([^/]+\.)?` + regexp.QuoteMeta(domain), true
	}

	var translated string
	switch {
	case strings.HasPrefix(pattern, "|"):
		// Start anchor: |http matches URLs beginning with the text.
		translated = "^" + regexp.QuoteMeta(pattern[1:])
	case strings.HasSuffix(pattern, "|"):
		// End anchor: pattern| matches URLs ending with the text.
		translated = regexp.QuoteMeta(pattern[:len(pattern)-1]) + "$"
	default:
		translated = regexp.QuoteMeta(pattern)
	}

	// Wildcard substitution first, then separator expansion.
	translated = strings.ReplaceAll(translated, `\*`, ".*")
	translated = strings.ReplaceAll(translated, `\^`, separatorClass)

	if _, ok := degenerate[translated]; ok {
		return "", false
	}
	return translated, true
}

package pubcontent

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Slugify converts a title or file name to a slug. Letters and digits of any
// script are kept; every other run of runes becomes a single hyphen.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r):
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// normalizeTag folds case so tag lookups ignore capitalization.
func normalizeTag(t string) string {
	// Casers are stateful, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(t))
}

// HasTag reports whether tags contains tag, ignoring case.
func HasTag(tags []string, tag string) bool {
	want := normalizeTag(tag)
	for _, t := range tags {
		if normalizeTag(t) == want {
			return true
		}
	}
	return false
}

func isRemoteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

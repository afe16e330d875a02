package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var reSpaces = regexp.MustCompile(`\s+`)

// NormalizeHeader folds a header into its loose comparison key: NFKC,
// lower case, with every whitespace and punctuation rune removed.
// "Enq. No.", "ENQ NO" and "enq_no" all become "enqno".
func NormalizeHeader(input string) string {
	s := norm.NFKC.String(input)
	out := strings.Builder{}
	out.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		out.WriteRune(unicode.ToLower(r))
	}
	return out.String()
}

// CollapseSpaces trims input and squeezes inner whitespace runs (including
// newlines inside header cells) to a single space.
func CollapseSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// DotJoin lower-cases input and replaces whitespace runs with ".".
func DotJoin(input string) string {
	return reSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(input)), ".")
}

func StringPtr(v string) *string { return &v }

func IntPtr(v int) *int { return &v }

// OptionalString returns nil for a blank value and a pointer to the trimmed
// value otherwise.
func OptionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func DerefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

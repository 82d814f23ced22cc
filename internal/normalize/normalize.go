// Package normalize cleans up user-submitted text before it is stored or indexed.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	// Matches runs of characters that cannot appear in a slug.
	nonSlugRe = regexp.MustCompile(`[^a-z0-9_]+`)
	// Matches multiple hyphens.
	multipleHyphensRe = regexp.MustCompile(`-+`)
	// Matches any whitespace run.
	whitespaceRe = regexp.MustCompile(`\s+`)
)

var folder = cases.Fold()

// Fold returns the caseless, compatibility-normalized form of s used for
// case-insensitive comparisons such as ingredient prefix search.
// "  Сахар " and "САХАР" fold to the same value.
func Fold(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	return folder.String(s)
}

// Name trims s and collapses internal whitespace.
func Name(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Slug converts a display name to a tag slug matching ^[a-z0-9_-]+$.
// Accented Latin letters are decomposed to ASCII; other scripts are dropped,
// so the result may be empty.
//
//	"Gluten Free" -> "gluten-free"
//	"Crème brûlée" -> "creme-brulee"
//	"low_calorie" -> "low_calorie"
func Slug(s string) string {
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
	s = strings.ToLower(s)
	s = nonSlugRe.ReplaceAllString(s, "-")
	s = multipleHyphensRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

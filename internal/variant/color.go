package variant

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Standard is the implicit option used when a product declares no sizes or
// colors and the stock feed carries none either.
const Standard = "Standard"

// colorAliases merges spellings that name the same color. Keys and values are
// lower-cased with single spaces.
var colorAliases = map[string]string{
	"off-white":  "off white",
	"offf white": "off white",
	"offwhite":   "off white",
	"grey":       "gray",
	"navy-blue":  "navy blue",
}

// NormalizeColor canonicalizes a raw color name: trimmed, inner whitespace
// collapsed, lower-cased, aliases merged, then title-cased per word.
// NormalizeColor(NormalizeColor(s)) == NormalizeColor(s).
func NormalizeColor(raw string) string {
	s := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if s == "" {
		return ""
	}
	if alias, ok := colorAliases[s]; ok {
		s = alias
	}
	// A Caser is stateful, so one is built per call.
	return cases.Title(language.English).String(s)
}

// colorKey is the stock map key for a color. Empty colors share the
// Standard bucket.
func colorKey(raw string) string {
	if c := NormalizeColor(raw); c != "" {
		return c
	}
	return Standard
}

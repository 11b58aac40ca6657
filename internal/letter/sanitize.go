package letter

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// Placeholder replaces any character the letter font cannot draw.
const Placeholder = '?'

var punctuation = strings.NewReplacer(
	"\u2013", "-", // en dash
	"\u2014", "-", // em dash
	"\u2018", "'",
	"\u2019", "'",
	"\u201c", `"`,
	"\u201d", `"`,
	"\u2022", "*",
	"\u2026", "...",
	"\u00a0", " ",
	"\r\n", "\n",
	"\r", "\n",
	"\t", " ",
)

// Sanitize maps s onto the printable Latin-1 subset understood by the PDF
// core fonts. Smart punctuation gets a plain equivalent; anything else that
// cannot be encoded becomes Placeholder. It never fails.
func Sanitize(s string) string {
	s = punctuation.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' {
			b.WriteRune(r)
			continue
		}
		if r == unicode.ReplacementChar || unicode.IsControl(r) {
			b.WriteRune(Placeholder)
			continue
		}
		if _, ok := charmap.ISO8859_1.EncodeRune(r); !ok {
			b.WriteRune(Placeholder)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

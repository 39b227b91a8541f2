// Package normalize computes the persisted display form and the merge key
// for a headword: NFC normalization, whitespace collapse, optional
// Serbian-mode transliteration, and (for the key) case folding and
// punctuation stripping.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/heartmarshall/dictforge/internal/translit"
)

// keyAllowed is the set of non-ASCII-alnum runes kept in a merge key.
var keyAllowed = map[rune]bool{
	'š': true, 'đ': true, 'č': true, 'ć': true, 'ž': true,
	' ': true, '-': true,
}

// Display normalizes word to its persisted display form: NFC normalize,
// trim outer whitespace, collapse internal whitespace, and (if
// serbianMode) transliterate Cyrillic to Latin.
func Display(word string, serbianMode bool) string {
	w := norm.NFC.String(word)
	w = collapseSpace(strings.TrimSpace(w))
	if serbianMode {
		w = translit.ToLatin(w)
	}
	return w
}

// Key computes the merge key for word: Display(...) lowercased, with any
// character outside [0-9a-z] and {š, đ, č, ć, ž, space, -} removed, then
// whitespace-collapsed and trimmed. An empty result means the entry must
// be rejected by the caller.
func Key(word string, serbianMode bool) string {
	d := strings.ToLower(Display(word, serbianMode))

	var b strings.Builder
	for _, r := range d {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case keyAllowed[r]:
			b.WriteRune(r)
		}
	}
	return collapseSpace(strings.TrimSpace(b.String()))
}

func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

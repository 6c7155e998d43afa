package search

import (
	"strings"
	"unicode"
)

// Segmenter splits text into tokens for the scorer. Implementations must
// lower-case Latin text and drop digits, punctuation and whitespace.
type Segmenter interface {
	Segment(text string) []string
}

// ScriptSegmenter splits text on script boundaries without a dictionary.
// Every contiguous run of Han ideographs becomes one token and every
// contiguous run of ASCII letters becomes one lower-cased token.
type ScriptSegmenter struct{}

// Segment implements Segmenter.
func (ScriptSegmenter) Segment(text string) []string {
	return Segment(text)
}

// Segment splits text into script-homogeneous tokens in first-occurrence
// order. A long CJK run is never split into smaller words.
func Segment(text string) []string {
	tokens := []string{}
	var cjk, latin strings.Builder

	flush := func(b *strings.Builder, lower bool) {
		if b.Len() == 0 {
			return
		}
		tok := b.String()
		if lower {
			tok = strings.ToLower(tok)
		}
		tokens = append(tokens, tok)
		b.Reset()
	}

	for _, r := range text {
		switch {
		case isCJK(r):
			flush(&latin, true)
			cjk.WriteRune(r)
		case isLatinLetter(r):
			flush(&cjk, false)
			latin.WriteRune(r)
		default:
			flush(&cjk, false)
			flush(&latin, true)
		}
	}
	flush(&cjk, false)
	flush(&latin, true)

	return tokens
}

// isCJK reports whether r is a CJK ideograph.
func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

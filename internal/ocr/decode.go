package ocr

import (
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Decode turns tool output into a string, dropping byte sequences that are not valid UTF-8.
// OCR output is noisy; losing a stray byte is preferable to failing the document.
func Decode(b []byte) string {
	t := transform.Chain(
		runes.ReplaceIllFormed(),
		runes.Remove(runes.Predicate(func(r rune) bool { return r == utf8.RuneError })),
	)
	out, _, err := transform.Bytes(t, b)
	if err != nil {
		return string(runesOnly(b))
	}
	return string(out)
}

func runesOnly(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r != utf8.RuneError {
			out = append(out, b[:size]...)
		}
		b = b[size:]
	}
	return out
}

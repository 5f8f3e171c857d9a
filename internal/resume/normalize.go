package resume

import (
	"regexp"
	"strings"
)

// Text is resume text that has already been through Normalize.
// Extractors only accept Text so that raw OCR output cannot reach them by accident.
type Text string

// bullet-like glyphs tesseract tends to emit for list markers
var glyphReplacer = strings.NewReplacer(
	"\u00a2", "-", // cent sign
	"\u2022", "-", // bullet
	"\u2013", "-", // en dash
)

var reMultiSpace = regexp.MustCompile(` {2,}`)

// Normalize maps bullets and dashes to '-', converts CRLF to LF and collapses runs of spaces.
// Tabs and newlines are left alone. Invalid UTF-8 is dropped. Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) Text {
	if raw == "" {
		return ""
	}
	s := strings.ToValidUTF8(raw, "")
	s = glyphReplacer.Replace(s)
	// "\r\r\n" -> "\r\n" after a single pass, so keep going until none is left
	for strings.Contains(s, "\r\n") {
		s = strings.ReplaceAll(s, "\r\n", "\n")
	}
	s = reMultiSpace.ReplaceAllString(s, " ")
	return Text(s)
}

func (t Text) String() string { return string(t) }

package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Text
	}{
		{name: "empty", in: "", want: ""},
		{name: "bullets and dashes", in: "• Go\n¢ SQL\n2019 – 2021", want: "- Go\n- SQL\n2019 - 2021"},
		{name: "crlf", in: "line one\r\nline two\r\n", want: "line one\nline two\n"},
		{name: "double cr before lf", in: "a\r\r\nb", want: "a\nb"},
		{name: "lone cr kept", in: "a\rb", want: "a\rb"},
		{name: "space runs", in: "Jane    Doe  Engineer", want: "Jane Doe Engineer"},
		{name: "tabs and newlines untouched", in: "a\t\tb\n\n\nc", want: "a\t\tb\n\n\nc"},
		{name: "invalid utf8 dropped", in: "caf\xffe", want: "cafe"},
		{name: "bullet followed by spaces", in: "•  Led  team", want: "- Led team"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"  leading and trailing  ",
		"••  \r\n\r\r\n  –¢",
		"a \r\n b\r\n\r\n  c",
		"Experience:\r\n•  Built   systems\r\n• Led team",
		"\xff\xfe  bad \xc3 bytes",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(string(once)), "input %q", in)
		assert.NotContains(t, string(once), "\r\n", "input %q", in)
		assert.NotContains(t, string(once), "  ", "input %q", in)
		assert.False(t, strings.ContainsAny(string(once), "¢•–"), "input %q", in)
	}
}

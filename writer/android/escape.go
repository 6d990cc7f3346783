package android

import (
	"regexp"
	"strings"

	"github.com/bleeding182/localizator/writer"
)

var iosStringFormat = regexp.MustCompile(`%(\d\$)?@`)

var replacer = strings.NewReplacer(
	`'`, `\'`,
	"\n", `\n`,
)

// EscapeValue escapes v for a <string> element. Values containing markup are
// wrapped in CDATA instead of being inlined.
func EscapeValue(v string) string {
	s := strings.ReplaceAll(v, `"`, `\"`)
	s = writer.CollapseEscapedNewlines(s)
	s = replacer.Replace(s)
	s = normalize(s)
	s = strings.ReplaceAll(s, "&", "&amp;")

	if strings.ContainsAny(v, "<>") {
		return "<![CDATA[" + s + "]]>"
	}
	return s
}

// normalize converts iOS %@ placeholders, positional ones included, to %s.
func normalize(s string) string {
	return iosStringFormat.ReplaceAllStringFunc(s, func(s string) string {
		return strings.Replace(s, "@", "s", 1)
	})
}

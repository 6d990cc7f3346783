package ios

import (
	"strings"

	"github.com/bleeding182/localizator/writer"
)

// EscapeValue quotes v for a Localizable.strings value.
func EscapeValue(v string) string {
	return writer.CollapseEscapedNewlines(strings.ReplaceAll(v, `"`, `\"`))
}

package web

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bleeding182/localizator/table"
	"github.com/bleeding182/localizator/writer"
)

func readModule(t *testing.T, root, locale string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(root, locale+FileExt))
	require.NoError(t, err)
	return string(data)
}

func TestEscapeValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `one\ntwo`, EscapeValue(`one\\ntwo`))
	assert.Equal(t, "Hello %@!", EscapeValue("Hello %@!"))
	assert.Equal(t, `it's "quoted" & <b>`, EscapeValue(`it's "quoted" & <b>`))
}

func TestExportName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "en", ExportName("en"))
	assert.Equal(t, "zh_TW", ExportName("zh_TW"))

	name := ExportName("pt-BR")
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`), name)
	assert.NotContains(t, name, "-")
}

func TestExport(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "i18n")
	tbl := &table.Table{Rows: []table.Row{
		{"greeting", "Hello", "Bonjour"},
		{"missing", "Only english", ""},
		{"", "no key", "pas de clé"},
		{"short", "Short"},
		{"multiline", `one\\ntwo`, "un"},
	}}

	require.NoError(t, New(writer.Options{}).Export(tbl, []string{"en", "fr"}, root))

	assert.Equal(t, "export const en = {\n"+
		"  greeting: `Hello`,\n"+
		"  missing: `Only english`,\n"+
		"  short: `Short`,\n"+
		"  multiline: `one\\ntwo`,\n"+
		"}", readModule(t, root, "en"))

	assert.Equal(t, "export const fr = {\n"+
		"  greeting: `Bonjour`,\n"+
		"  missing: `TODO`,\n"+
		"  short: `TODO`,\n"+
		"  multiline: `un`,\n"+
		"}", readModule(t, root, "fr"))
}

func TestExportEmptyTableAndHeaders(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	opts := writer.Options{Headers: []string{"Generated file"}}

	require.NoError(t, New(opts).Export(&table.Table{}, []string{"en"}, root))

	assert.Equal(t, "// Generated file\nexport const en = {\n}", readModule(t, root, "en"))
}

func TestExportSingleLineHeaders(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	opts := writer.Options{Headers: []string{"Generated\nexport const broken = 1\r\nfile"}}

	require.NoError(t, New(opts).Export(&table.Table{}, []string{"en"}, root))

	assert.Equal(t, "// Generated export const broken = 1 file\nexport const en = {\n}", readModule(t, root, "en"))
}

func TestExportIsIdempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	tbl := &table.Table{Rows: []table.Row{{"greeting", "Hello", "Bonjour"}}}
	w := New(writer.Options{})

	require.NoError(t, w.Export(tbl, []string{"en", "fr"}, root))
	first := readModule(t, root, "fr")
	require.NoError(t, w.Export(tbl, []string{"en", "fr"}, root))

	assert.Equal(t, first, readModule(t, root, "fr"))
}

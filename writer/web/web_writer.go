// Package web exports one TypeScript module per language.
package web

import (
	"regexp"
	"text/template"

	"github.com/iancoleman/strcase"
	"golang.org/x/sync/errgroup"

	"github.com/bleeding182/localizator/table"
	"github.com/bleeding182/localizator/writer"
)

const (
	tagWeb = "web"

	// FileExt of the generated modules.
	FileExt = ".ts"

	// Placeholder is exported for keys without a translation.
	Placeholder = "TODO"
)

const webTemplate = `{{range $header := $.Headers -}}
// {{$header}}
{{end -}}
export const {{$.Name}} = {
{{range $s := $.Strings -}}
{{"  "}}{{.Key}}: ` + "`{{.Value}}`" + `,
{{end -}}
}`

var moduleTemplate = template.Must(template.New("module").Parse(webTemplate))

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Writer exports <locale>.ts modules.
type Writer struct {
	opts writer.Options
}

// New returns a web writer.
func New(opts writer.Options) *Writer {
	return &Writer{opts: opts}
}

// Tag of the writer.
func (w *Writer) Tag() string {
	return tagWeb
}

type module struct {
	Name string
	writer.LocalizationModel
}

// EscapeValue prepares v for a template literal.
func EscapeValue(v string) string {
	return writer.CollapseEscapedNewlines(v)
}

// ExportName is the constant a locale's module exports, the locale itself
// unless it is not a valid identifier.
func ExportName(locale string) string {
	if identifier.MatchString(locale) {
		return locale
	}
	return strcase.ToLowerCamel(locale)
}

// Export writes <root>/<locale>.ts for every language.
func (w *Writer) Export(t *table.Table, languages []string, root string) error {
	var g errgroup.Group
	for i, locale := range languages {
		i, locale := i, locale
		g.Go(func() error {
			return writer.Render(root, locale+FileExt, moduleTemplate, w.model(t, locale, i+1))
		})
	}
	return g.Wait()
}

func (w *Writer) model(t *table.Table, locale string, column int) *module {
	m := &module{
		Name: ExportName(locale),
		LocalizationModel: writer.LocalizationModel{
			Headers: make([]string, len(w.opts.Headers)),
			Strings: make([]writer.LocalizedString, 0, len(t.Rows)),
		},
	}
	for i, header := range w.opts.Headers {
		m.Headers[i] = writer.SingleLine(header)
	}
	for _, row := range t.Rows {
		key := row.Key()
		if key == "" {
			continue
		}
		value, _ := row.Value(column)
		value = EscapeValue(value)
		if value == "" {
			value = Placeholder
		}
		m.Strings = append(m.Strings, writer.LocalizedString{Key: key, Value: value})
	}
	return m
}

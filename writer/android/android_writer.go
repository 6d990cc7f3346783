// Package android exports strings.xml files into values-* folders.
package android

import (
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/bleeding182/localizator/table"
	"github.com/bleeding182/localizator/writer"
)

const (
	tagAndroid = "android"

	// StringsFile is the file written into every values folder.
	StringsFile = "strings.xml"
)

const androidTemplate = `<?xml version="1.0" encoding="utf-8"?>
{{range $header := $.Headers -}}
<!-- {{$header}} -->
{{end -}}
<resources>
{{range $s := $.Strings -}}
{{"    "}}<string name="{{.Key}}">{{.Value}}</string>
{{end -}}
</resources>`

var stringsTemplate = template.Must(template.New("file").Parse(androidTemplate))

// Writer exports one strings.xml per language.
type Writer struct {
	opts writer.Options
}

// New returns an Android writer.
func New(opts writer.Options) *Writer {
	return &Writer{opts: opts}
}

// Tag of the writer.
func (w *Writer) Tag() string {
	return tagAndroid
}

// Folder returns the resource folder of locale: values for the base
// language, values-<qualifier> otherwise.
func Folder(locale, base string) string {
	if locale == base {
		return "values"
	}
	return "values-" + qualifier(locale)
}

// qualifier converts a BCP 47 locale to Android's resource qualifier, e.g.
// pt-BR to pt-rBR and zh-Hans to b+zh+Hans. Unparseable locales are used as-is.
func qualifier(locale string) string {
	if !strings.ContainsAny(locale, "-_") {
		return locale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return locale
	}
	base, script, region := tag.Raw()
	if script == (language.Script{}) && region != (language.Region{}) && len(region.String()) == 2 && len(tag.Variants()) == 0 {
		return base.String() + "-r" + region.String()
	}
	return "b+" + strings.ReplaceAll(tag.String(), "-", "+")
}

// commentText makes header safe inside <!-- -->: no "--" and no trailing "-".
func commentText(header string) string {
	header = writer.SingleLine(header)
	for strings.Contains(header, "--") {
		header = strings.ReplaceAll(header, "--", "- -")
	}
	if strings.HasSuffix(header, "-") {
		header += " "
	}
	return header
}

// Export writes values[-<qualifier>]/strings.xml for every language. Rows
// with invalid keys are logged and left out.
func (w *Writer) Export(t *table.Table, languages []string, root string) error {
	if len(languages) == 0 {
		return writer.ErrNoLanguages
	}
	base := w.opts.BaseLanguage
	if base == "" {
		base = languages[0]
	}

	var g errgroup.Group
	for i, locale := range languages {
		i, locale := i, locale
		folder := filepath.Join(root, Folder(locale, base))
		g.Go(func() error {
			return writer.Render(folder, StringsFile, stringsTemplate, w.model(t, locale, i+1))
		})
	}
	return g.Wait()
}

func (w *Writer) model(t *table.Table, locale string, column int) *writer.LocalizationModel {
	model := &writer.LocalizationModel{
		Headers: make([]string, len(w.opts.Headers)),
		Strings: make([]writer.LocalizedString, 0, len(t.Rows)),
	}
	for i, header := range w.opts.Headers {
		model.Headers[i] = commentText(header)
	}

	for _, row := range t.Rows {
		key := row.Key()
		if key == "" {
			continue
		}
		if !IsValidKey(key) {
			w.opts.Logger.Warn().
				Str("key", key).
				Str("language", locale).
				Msg("Invalid android key provided")
			continue
		}
		value, _ := row.Value(column)
		model.Strings = append(model.Strings, writer.LocalizedString{Key: key, Value: EscapeValue(value)})
	}
	return model
}

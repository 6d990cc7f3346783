// Package ios exports Localizable.strings files into *.lproj folders.
package ios

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/sync/errgroup"

	"github.com/bleeding182/localizator/table"
	"github.com/bleeding182/localizator/writer"
)

const (
	tagIos = "ios"

	baseFolder = "Base"
	folderExt  = ".lproj"

	// StringsFile is the file written into every *.lproj folder.
	StringsFile = "Localizable.strings"
)

const iosStringsTemplate = `{{range $header := $.Headers -}}
/* {{$header}} */
{{end -}}
{{range $s := $.Strings -}}
"{{.Key}}"="{{.Value}}";
{{end -}}`

var stringsTemplate = template.Must(template.New("strings").Parse(iosStringsTemplate))

// Writer exports one Localizable.strings per language plus Base.
type Writer struct {
	opts writer.Options
}

// New returns an iOS writer.
func New(opts writer.Options) *Writer {
	return &Writer{opts: opts}
}

// Tag of the writer.
func (w *Writer) Tag() string {
	return tagIos
}

type lproj struct {
	folder string
	column int
}

// Export writes Base.lproj from the first language column and
// <language>.lproj for every language. Rows without a value for a folder
// are left out of that folder's file.
func (w *Writer) Export(t *table.Table, languages []string, root string) error {
	folders := make([]lproj, 0, len(languages)+1)
	folders = append(folders, lproj{folder: baseFolder + folderExt, column: 1})
	for i, language := range languages {
		if language == baseFolder {
			return fmt.Errorf("%w: %s collides with the base folder", writer.ErrDuplicateLanguage, language)
		}
		folders = append(folders, lproj{folder: language + folderExt, column: i + 1})
	}

	for _, f := range folders {
		if err := writer.MkdirAll(filepath.Join(root, f.folder)); err != nil {
			return err
		}
	}

	var g errgroup.Group
	for _, f := range folders {
		f := f
		g.Go(func() error {
			return writer.Render(filepath.Join(root, f.folder), StringsFile, stringsTemplate, w.model(t, f.column))
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if w.opts.SwiftUtil {
		return w.exportSwiftUtil(t, root)
	}
	return nil
}

// headers returns the headers as single line block comment bodies.
func (w *Writer) headers() []string {
	headers := make([]string, len(w.opts.Headers))
	for i, header := range w.opts.Headers {
		header = writer.SingleLine(header)
		for strings.Contains(header, "*/") {
			header = strings.ReplaceAll(header, "*/", "* /")
		}
		headers[i] = header
	}
	return headers
}

func (w *Writer) model(t *table.Table, column int) *writer.LocalizationModel {
	model := &writer.LocalizationModel{
		Headers: w.headers(),
		Strings: make([]writer.LocalizedString, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		key := row.Key()
		if key == "" {
			continue
		}
		value, _ := row.Value(column)
		if value == "" {
			continue
		}
		model.Strings = append(model.Strings, writer.LocalizedString{Key: key, Value: EscapeValue(value)})
	}
	return model
}

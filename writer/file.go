package writer

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// MkdirAll creates folder and its parents, leaving existing ones untouched.
func MkdirAll(folder string) error {
	if err := os.MkdirAll(folder, os.ModePerm); err != nil {
		return fmt.Errorf("create folder %s: %w", folder, err)
	}
	return nil
}

// OpenFile creates folder if needed and truncates or creates name inside it.
func OpenFile(folder string, name string) (*os.File, error) {
	if err := MkdirAll(folder); err != nil {
		return nil, err
	}
	f, err := os.Create(filepath.Join(folder, name))
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	return f, nil
}

// Render executes tmpl with data into folder/name. The file is closed on
// every path; a failed close is reported when nothing else failed first.
func Render(folder string, name string, tmpl *template.Template, data any) (err error) {
	f, err := OpenFile(folder, name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", f.Name(), cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render %s: %w", f.Name(), err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", f.Name(), err)
	}
	return nil
}

// CollapseEscapedNewlines turns a doubly escaped `\\n` back into `\n`.
func CollapseEscapedNewlines(s string) string {
	return strings.ReplaceAll(s, `\\n`, `\n`)
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\u2028", " ", "\u2029", " ")

// SingleLine replaces line breaks in s with spaces so it fits a line comment.
func SingleLine(s string) string {
	return lineBreaks.Replace(s)
}

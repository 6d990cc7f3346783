// Package writer defines the export targets that turn a parsed translation
// table into platform resource files, and the registry that picks one by
// platform tag.
package writer

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bleeding182/localizator/table"
)

// DefaultPlatform is used when no platform tag is given.
const DefaultPlatform = "web"

var (
	// ErrUnknownPlatform is returned by Lookup for tags without a writer.
	ErrUnknownPlatform = errors.New("unknown platform")
	// ErrNoLanguages is returned when the language ordering is empty.
	ErrNoLanguages = errors.New("no languages given")
	// ErrDuplicateLanguage is returned when a language is listed twice or is blank.
	ErrDuplicateLanguage = errors.New("duplicate language")
)

// Writer exports a translation table for one platform.
type Writer interface {
	Tag() string

	// Export writes one resource file per language below root. Column i+1 of
	// every row holds the value for languages[i].
	Export(t *table.Table, languages []string, root string) error
}

// Options are shared by all writers.
type Options struct {
	Logger zerolog.Logger

	// Headers are emitted as comments at the top of every generated file.
	Headers []string

	// BaseLanguage is exported without a locale qualifier on Android.
	// Defaults to the first language.
	BaseLanguage string

	// SwiftUtil enables the Strings.swift accessor file on iOS.
	SwiftUtil bool
}

// LocalizationModel is the template input of a single generated file.
type LocalizationModel struct {
	Headers []string
	Strings []LocalizedString
}

// LocalizedString is an escaped key/value pair ready to be rendered.
type LocalizedString struct {
	Key   string
	Value string
}

// CheckLanguages rejects empty orderings, blank entries and duplicates.
func CheckLanguages(languages []string) error {
	if len(languages) == 0 {
		return ErrNoLanguages
	}
	seen := make(map[string]struct{}, len(languages))
	for _, language := range languages {
		if strings.TrimSpace(language) == "" {
			return fmt.Errorf("%w: blank entry in %q", ErrDuplicateLanguage, languages)
		}
		if _, ok := seen[language]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateLanguage, language)
		}
		seen[language] = struct{}{}
	}
	return nil
}

// Registry maps platform tags to writers.
type Registry struct {
	writers map[string]Writer
}

// NewRegistry registers every writer under its Tag. Later writers replace
// earlier ones with the same tag.
func NewRegistry(writers ...Writer) *Registry {
	r := &Registry{writers: make(map[string]Writer, len(writers))}
	for _, w := range writers {
		r.writers[w.Tag()] = w
	}
	return r
}

// Tags lists the registered platforms in alphabetical order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.writers))
	for tag := range r.writers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Lookup returns the writer for platform, DefaultPlatform if it is empty.
func (r *Registry) Lookup(platform string) (Writer, error) {
	if platform == "" {
		platform = DefaultPlatform
	}
	w, ok := r.writers[platform]
	if !ok {
		return nil, fmt.Errorf("%w %q, expected one of %s", ErrUnknownPlatform, platform, strings.Join(r.Tags(), ", "))
	}
	return w, nil
}

// Run parses the CSV export in src and hands it to the writer registered for
// platform. Nothing is written if the platform, the languages or the CSV are
// invalid.
func (r *Registry) Run(platform string, src io.Reader, languages []string, root string) error {
	w, err := r.Lookup(platform)
	if err != nil {
		return err
	}
	if err := CheckLanguages(languages); err != nil {
		return err
	}
	t, err := table.Parse(src)
	if err != nil {
		return err
	}
	if err := w.Export(t, languages, root); err != nil {
		return fmt.Errorf("export %s: %w", w.Tag(), err)
	}
	return nil
}

package writer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bleeding182/localizator/table"
)

type recordingWriter struct {
	tag       string
	calls     int
	table     *table.Table
	languages []string
	root      string
	err       error
}

func (w *recordingWriter) Tag() string {
	return w.tag
}

func (w *recordingWriter) Export(t *table.Table, languages []string, root string) error {
	w.calls++
	w.table = t
	w.languages = languages
	w.root = root
	return w.err
}

func TestCheckLanguages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		languages []string
		wantErr   error
	}{
		{name: "single", languages: []string{"en"}},
		{name: "ordered", languages: []string{"en", "fr", "pt-BR"}},
		{name: "empty", languages: nil, wantErr: ErrNoLanguages},
		{name: "duplicate", languages: []string{"en", "fr", "en"}, wantErr: ErrDuplicateLanguage},
		{name: "blank", languages: []string{"en", " "}, wantErr: ErrDuplicateLanguage},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckLanguages(tt.languages)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	ios := &recordingWriter{tag: "ios"}
	web := &recordingWriter{tag: "web"}
	registry := NewRegistry(ios, web)

	w, err := registry.Lookup("ios")
	require.NoError(t, err)
	assert.Same(t, ios, w)

	w, err = registry.Lookup("")
	require.NoError(t, err)
	assert.Same(t, web, w, "empty platform selects the default")

	_, err = registry.Lookup("windows")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
	assert.Contains(t, err.Error(), "ios, web")

	assert.Equal(t, []string{"ios", "web"}, registry.Tags())
}

func TestRegistryRun(t *testing.T) {
	t.Parallel()

	t.Run("exports parsed table", func(t *testing.T) {
		t.Parallel()

		web := &recordingWriter{tag: "web"}
		err := NewRegistry(web).Run("web", strings.NewReader("key,en\ngreeting,Hello\n"), []string{"en"}, "out")
		require.NoError(t, err)

		assert.Equal(t, 1, web.calls)
		assert.Equal(t, []table.Row{{"greeting", "Hello"}}, web.table.Rows)
		assert.Equal(t, []string{"en"}, web.languages)
		assert.Equal(t, "out", web.root)
	})

	t.Run("unknown platform writes nothing", func(t *testing.T) {
		t.Parallel()

		web := &recordingWriter{tag: "web"}
		err := NewRegistry(web).Run("desktop", strings.NewReader("key,en\n"), []string{"en"}, "out")
		assert.ErrorIs(t, err, ErrUnknownPlatform)
		assert.Zero(t, web.calls)
	})

	t.Run("parse error aborts", func(t *testing.T) {
		t.Parallel()

		web := &recordingWriter{tag: "web"}
		err := NewRegistry(web).Run("web", strings.NewReader("key,en\n\"broken\n"), []string{"en"}, "out")
		assert.Error(t, err)
		assert.Zero(t, web.calls)
	})

	t.Run("duplicate languages abort", func(t *testing.T) {
		t.Parallel()

		web := &recordingWriter{tag: "web"}
		err := NewRegistry(web).Run("web", strings.NewReader("key,en\n"), []string{"en", "en"}, "out")
		assert.ErrorIs(t, err, ErrDuplicateLanguage)
		assert.Zero(t, web.calls)
	})

	t.Run("export error is wrapped", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		web := &recordingWriter{tag: "web", err: boom}
		err := NewRegistry(web).Run("web", strings.NewReader("key,en\n"), []string{"en"}, "out")
		assert.ErrorIs(t, err, boom)
	})
}

func TestRender(t *testing.T) {
	t.Parallel()

	folder := filepath.Join(t.TempDir(), "nested", "values")
	tmpl := template.Must(template.New("test").Parse("{{range .}}{{.}}\n{{end}}"))

	require.NoError(t, Render(folder, "out.txt", tmpl, []string{"a", "b", "c"}))
	require.NoError(t, Render(folder, "out.txt", tmpl, []string{"a"}))

	data, err := os.ReadFile(filepath.Join(folder, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(data), "files are truncated, never appended")
}

func TestRenderFailsOnFileAsFolder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	tmpl := template.Must(template.New("test").Parse("x"))
	assert.Error(t, Render(filepath.Join(blocker, "child"), "out.txt", tmpl, nil))
}

func TestCollapseEscapedNewlines(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		`line\\nbreak`:  `line\nbreak`,
		`line\nbreak`:   `line\nbreak`,
		"plain":         "plain",
		`a\\nb\\nc`:     `a\nb\nc`,
		`three\\\nback`: `three\\nback`,
	}

	for in, want := range tests {
		assert.Equal(t, want, CollapseEscapedNewlines(in), in)
	}
}

func TestCompositeKeyOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key        string
		group      string
		identifier string
	}{
		{key: "main_greeting", group: "main", identifier: "greeting"},
		{key: "settings__dark_mode", group: "settings", identifier: "dark_mode"},
		{key: "greeting", group: "", identifier: "greeting"},
		{key: "_hidden", group: "", identifier: "_hidden"},
	}

	for _, tt := range tests {
		key := CompositeKeyOf(tt.key)
		assert.Equal(t, tt.key, key.Original())
		assert.Equal(t, tt.group, key.Group(), tt.key)
		assert.Equal(t, tt.identifier, key.Identifier(), tt.key)
	}
}

func TestSingleLine(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"plain":               "plain",
		"one\ntwo":            "one two",
		"one\r\ntwo\rthree":   "one two three",
		"one\u2028two\u2029": "one two ",
	}

	for in, want := range tests {
		assert.Equal(t, want, SingleLine(in), in)
	}
}

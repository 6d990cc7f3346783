// Package source fetches the translation spreadsheet as CSV, either from a
// local file or from Google Drive.
package source

import (
	"context"
	"fmt"
	"os"
)

// Provider yields the raw CSV export of the translation table.
type Provider interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// File reads an already downloaded CSV export.
type File struct {
	Path string
}

// Fetch reads the file.
func (f File) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return data, nil
}

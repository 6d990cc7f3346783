package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	spreadsheetQuery = "mimeType='application/vnd.google-apps.spreadsheet' and trashed=false"
	csvMimeType      = "text/csv"
)

var (
	// ErrNoFiles is returned when the account has no spreadsheets.
	ErrNoFiles = errors.New("no files found")
	// ErrFileNotFound is returned when --id does not match a listed file.
	ErrFileNotFound = errors.New("file not found in files list")
	// ErrTabNotFound is returned when --gid does not match a tab of the file.
	ErrTabNotFound = errors.New("tab not found")
)

// Drive downloads a spreadsheet the user has access to. The file is picked
// by FileID or interactively; GID selects a tab other than the first one.
type Drive struct {
	Auth   Authorizer
	FileID string
	GID    string

	// In and Out are used for the interactive file selection.
	In  io.Reader
	Out io.Writer

	Logger zerolog.Logger

	// ClientOptions are appended to the options of the API services.
	ClientOptions []option.ClientOption
}

// Fetch authorizes, selects the file and returns its CSV export.
func (d *Drive) Fetch(ctx context.Context) ([]byte, error) {
	d.Logger.Info().Msg("Authorizing...")
	client, err := d.Auth.Client(ctx)
	if err != nil {
		return nil, err
	}
	opts := append([]option.ClientOption{option.WithHTTPClient(client)}, d.ClientOptions...)

	driveSrv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create drive client: %w", err)
	}

	d.Logger.Info().Msg("Listing files...")
	files, err := listSpreadsheets(ctx, driveSrv)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	file, err := selectFile(files, d.FileID, d.In, d.Out)
	if err != nil {
		return nil, err
	}

	d.Logger.Info().Str("id", file.Id).Str("name", file.Name).Msg("Downloading")
	if d.GID == "" {
		return exportCSV(ctx, driveSrv, file.Id)
	}

	sheetsSrv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets client: %w", err)
	}
	return exportTab(ctx, sheetsSrv, file.Id, d.GID)
}

func listSpreadsheets(ctx context.Context, srv *drive.Service) ([]*drive.File, error) {
	var files []*drive.File
	err := srv.Files.List().
		Q(spreadsheetQuery).
		Fields("nextPageToken, files(id, name)").
		Pages(ctx, func(page *drive.FileList) error {
			files = append(files, page.Files...)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("unable to list files: %w", err)
	}
	return files, nil
}

// exportCSV downloads the first tab of the file.
func exportCSV(ctx context.Context, srv *drive.Service, fileID string) ([]byte, error) {
	resp, err := srv.Files.Export(fileID, csvMimeType).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("unable to export %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read export of %s: %w", fileID, err)
	}
	return data, nil
}

// exportTab reads the values of the tab with the given gid and renders them
// as CSV.
func exportTab(ctx context.Context, srv *sheets.Service, fileID, gid string) ([]byte, error) {
	id, err := strconv.ParseInt(gid, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid gid %q, maybe --gid is wrong?", ErrTabNotFound, gid)
	}

	spreadsheet, err := srv.Spreadsheets.Get(fileID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read sheets information: %w", err)
	}

	title := ""
	found := false
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.SheetId == id {
			title, found = sheet.Properties.Title, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: gid %d, maybe --gid is wrong?", ErrTabNotFound, id)
	}

	values, err := srv.Spreadsheets.Values.Get(fileID, quoteSheetName(title)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", title, err)
	}
	return valuesToCSV(values.Values)
}

// quoteSheetName makes a tab title usable as an A1 range.
func quoteSheetName(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// valuesToCSV writes rows padded to the widest row, since the Sheets API
// drops trailing empty cells.
func valuesToCSV(values [][]interface{}) ([]byte, error) {
	width := 0
	for _, row := range values {
		width = max(width, len(row))
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range values {
		record := make([]string, width)
		for i, cell := range row {
			if cell != nil {
				record[i] = fmt.Sprint(cell)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

package source

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"google.golang.org/api/drive/v3"
)

// selectFile returns the file with fileID, or asks for an index when fileID
// is empty.
func selectFile(files []*drive.File, fileID string, in io.Reader, out io.Writer) (*drive.File, error) {
	if fileID != "" {
		for _, file := range files {
			if file.Id == fileID {
				return file, nil
			}
		}
		return nil, fmt.Errorf("%w: file with id '%s' not found. Notice: you need to load the file at least once in your browser, so it's visible in your files list",
			ErrFileNotFound, fileID)
	}

	for i, file := range files {
		fmt.Fprintf(out, "[%d] %s - %s\n", i, file.Name, file.Id)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Select a file index: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("read file index: %w", err)
			}
			return nil, fmt.Errorf("read file index: %w", io.ErrUnexpectedEOF)
		}

		index, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err == nil && index >= 0 && index < len(files) {
			return files[index], nil
		}
		fmt.Fprintln(out, "Invalid index supplied. Try again")
	}
}

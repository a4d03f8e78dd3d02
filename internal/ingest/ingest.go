// Package ingest turns uploaded scheduling sheets into task records.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one sheet line keyed by column header.
type Row map[string]any

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Parse reads rows from an uploaded file. The file name decides the format:
// .xlsx goes through the workbook reader, anything else is read as a JSON
// array of objects.
func Parse(filename string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ParseExcel(r)
	case ".json", "":
		return ParseJSON(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

func ParseJSON(r io.Reader) ([]Row, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows []Row
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return rows, nil
}

// ParseExcel reads the first worksheet. The first row holds the headers;
// empty header cells are skipped.
func ParseExcel(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	lines, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(lines) == 0 {
		return []Row{}, nil
	}

	headers := lines[0]
	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		row := make(Row, len(headers))
		empty := true
		for i, h := range headers {
			if h == "" || i >= len(line) {
				continue
			}
			if line[i] != "" {
				empty = false
			}
			row[h] = line[i]
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

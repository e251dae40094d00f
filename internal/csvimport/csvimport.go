// Package csvimport reads lead spreadsheets from disk for bulk upload.
//
// CSV files are passed through as text. XLSX workbooks have their first sheet
// converted to CSV, since the backend only ingests CSV. Parsing here is only
// for previews and column checks; the server does the real ingestion.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RequiredColumns must be present in every upload.
var RequiredColumns = []string{"first_name", "last_name", "email", "mobile_phone"}

// OptionalColumns are recognized but not required.
var OptionalColumns = []string{"company", "notes"}

// ErrUnsupported is returned for files that are neither CSV nor XLSX.
var ErrUnsupported = errors.New("unsupported file type (want .csv or .xlsx)")

// File is a loaded spreadsheet ready to send as csv_data.
type File struct {
	Path   string
	Text   string
	Header []string
	Rows   int // data rows, header excluded
}

// Load reads path and returns its contents as CSV text.
func Load(path string) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("load spreadsheet: path is empty")
	}

	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		text, err = readCSV(path)
	case ".xlsx", ".xlsm":
		text, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), ErrUnsupported)
	}
	if err != nil {
		return nil, err
	}

	p, err := Preview(text, 0)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return &File{Path: path, Text: text, Header: p.Header, Rows: p.Total}, nil
}

func readCSV(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read csv: %w", err)
	}
	// Spreadsheet exports often carry a UTF-8 BOM.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return string(data), nil
}

func readXLSX(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("sheet %q is empty", sheets[0])
	}

	width := len(rows[0])
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		// excelize trims trailing empty cells; pad so every record has the header's width.
		if len(row) < width {
			row = append(row, make([]string, width-len(row))...)
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return buf.String(), nil
}

// Sample is the head of a CSV document.
type Sample struct {
	Header []string
	Rows   [][]string
	Total  int // all data rows, not just those in Rows
}

// Preview parses text and returns the header, the first n data rows and the
// total data row count. Blank lines are skipped.
func Preview(text string, n int) (Sample, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var s Sample
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Sample{}, fmt.Errorf("parse csv: %w", err)
		}
		if isBlank(rec) {
			continue
		}
		if s.Header == nil {
			s.Header = rec
			continue
		}
		s.Total++
		if len(s.Rows) < n {
			s.Rows = append(s.Rows, rec)
		}
	}
	if s.Header == nil {
		return Sample{}, fmt.Errorf("parse csv: no header row")
	}
	return s, nil
}

// MissingColumns returns the required columns absent from header, comparing
// case-insensitively and ignoring surrounding whitespace. mapping renames
// source columns to their target names first.
func MissingColumns(header []string, mapping map[string]string) []string {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		name := normalize(h)
		if target, ok := mapping[strings.TrimSpace(h)]; ok && target != "" {
			name = normalize(target)
		}
		have[name] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

var aliases = map[string]string{
	"firstname":     "first_name",
	"first":         "first_name",
	"given_name":    "first_name",
	"lastname":      "last_name",
	"last":          "last_name",
	"surname":       "last_name",
	"family_name":   "last_name",
	"e-mail":        "email",
	"email_address": "email",
	"phone":         "mobile_phone",
	"mobile":        "mobile_phone",
	"cell":          "mobile_phone",
	"phone_number":  "mobile_phone",
	"mobilephone":   "mobile_phone",
	"organization":  "company",
	"company_name":  "company",
}

// SuggestMapping proposes a column_mapping for headers that use a common
// alias of a known column. Headers that already match are left out.
func SuggestMapping(header []string) map[string]string {
	known := make(map[string]bool)
	for _, c := range append(append([]string{}, RequiredColumns...), OptionalColumns...) {
		known[c] = true
	}
	present := make(map[string]bool)
	for _, h := range header {
		present[normalize(h)] = true
	}

	mapping := map[string]string{}
	for _, h := range header {
		name := normalize(h)
		if known[name] {
			// "First Name" still needs renaming to first_name.
			if raw := strings.TrimSpace(h); raw != name {
				mapping[raw] = name
			}
			continue
		}
		target, ok := aliases[name]
		if !ok || present[target] {
			continue
		}
		mapping[strings.TrimSpace(h)] = target
		present[target] = true
	}
	if len(mapping) == 0 {
		return nil
	}
	return mapping
}

func normalize(col string) string {
	col = strings.ToLower(strings.TrimSpace(col))
	return strings.ReplaceAll(col, " ", "_")
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

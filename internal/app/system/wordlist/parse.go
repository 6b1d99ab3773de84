// internal/app/system/wordlist/parse.go
package wordlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Upload limits for bulk word-list imports.
const (
	MaxUploadSize = 5 << 20 // 5 MB
	MaxEntries    = 20000
)

// ParseDelimited parses pasted or uploaded delimited text (CSV in the
// general case, one word per line in the simple case) into a flat ordered
// list. Only the first field of each record is taken; it is trimmed and
// dropped when empty. Windows and Unix line endings, trailing blank lines,
// and stray quoting are all tolerated. The function is pure: the same
// input always yields the same sequence.
func ParseDelimited(raw string) []string {
	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	var entries []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) == 0 {
			// Skip malformed records rather than abandoning the import.
			continue
		}
		w := strings.TrimSpace(rec[0])
		if w == "" {
			continue
		}
		entries = append(entries, w)
		if len(entries) >= MaxEntries {
			break
		}
	}
	return entries
}

// ParseWorkbook reads an XLSX workbook and returns the first cell of each
// row on the first sheet, with the same trimming rules as ParseDelimited.
// Operators routinely keep their word lists in spreadsheets, so the import
// dialog accepts those directly.
func ParseWorkbook(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var entries []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		w := strings.TrimSpace(row[0])
		if w == "" {
			continue
		}
		entries = append(entries, w)
		if len(entries) >= MaxEntries {
			break
		}
	}
	return entries, nil
}

package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var errUnsupportedFile = errors.New("only .csv and .xlsx files can be imported")

// table is an uploaded sheet: a header row followed by data rows. Blank
// rows are dropped; lines keeps the 1-based file line of every kept row.
type table struct {
	columns map[string]int
	rows    [][]string
	lines   []int
}

// readUpload opens the multipart file and reads it by extension.
func readUpload(fh *multipart.FileHeader) (*table, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".csv":
		return readCSV(f)
	case ".xlsx":
		return readXLSX(f)
	default:
		return nil, errUnsupportedFile
	}
}

func readCSV(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	// The reader skips empty lines, so each record's file line comes from
	// FieldPos rather than its index.
	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	return newTable(records, lines)
}

// readXLSX reads the first sheet of the workbook.
func readXLSX(r io.Reader) (*table, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = i + 1
	}
	return newTable(rows, lines)
}

// newTable splits off the header row. lines[i] is the file line of
// records[i].
func newTable(records [][]string, lines []int) (*table, error) {
	if len(records) == 0 {
		return nil, errors.New("file is empty")
	}

	t := &table{columns: make(map[string]int)}
	for i, name := range records[0] {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if name == "" {
			continue
		}
		if _, dup := t.columns[name]; dup {
			return nil, fmt.Errorf("column %q appears twice in the header", name)
		}
		t.columns[name] = i
	}

	for i := 1; i < len(records); i++ {
		if blank(records[i]) {
			continue
		}
		t.rows = append(t.rows, records[i])
		t.lines = append(t.lines, lines[i])
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// require checks that every named column is in the header.
func (t *table) require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if _, ok := t.columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing column(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

func (t *table) row(i int) row {
	return row{line: t.lines[i], cells: t.rows[i], columns: t.columns}
}

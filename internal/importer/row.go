package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"foodcost-backend/internal/httpx"
)

// RowError pins a rejected value to its place in the file.
type RowError struct {
	Line   int
	Column string
	Msg    string
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d, column %s: %s", e.Line, e.Column, e.Msg)
}

type row struct {
	line    int
	cells   []string
	columns map[string]int
}

func (r row) fail(col, format string, args ...any) error {
	return &RowError{Line: r.line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

// invalid wraps a model validation failure.
func (r row) invalid(err error) error {
	return &RowError{Line: r.line, Msg: err.Error()}
}

// str returns the trimmed cell, or "" when the column is absent or the row
// is short.
func (r row) str(col string) string {
	i, ok := r.columns[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r row) text(col string) (string, error) {
	v := r.str(col)
	if v == "" {
		return "", r.fail(col, "value is required")
	}
	return v, nil
}

func (r row) id(col string) (uint, error) {
	v, err := r.optID(col)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, r.fail(col, "value is required")
	}
	return *v, nil
}

func (r row) optID(col string) (*uint, error) {
	v := r.str(col)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil || n == 0 {
		return nil, r.fail(col, "%q is not a valid id", v)
	}
	id := uint(n)
	return &id, nil
}

func (r row) integer(col string) (int, error) {
	v := r.str(col)
	if v == "" {
		return 0, r.fail(col, "value is required")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, r.fail(col, "%q is not an integer", v)
	}
	return n, nil
}

func (r row) number(col string) (float64, error) {
	v, err := r.optNumber(col)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, r.fail(col, "value is required")
	}
	return *v, nil
}

// optNumber accepts a decimal comma as well as a decimal point.
func (r row) optNumber(col string) (*float64, error) {
	v := r.str(col)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
	if err != nil {
		return nil, r.fail(col, "%q is not a number", v)
	}
	return &f, nil
}

func (r row) optTime(col string) (time.Time, error) {
	v := r.str(col)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := httpx.ParseTime(v)
	if err != nil {
		return time.Time{}, r.fail(col, "%v", err)
	}
	return t, nil
}

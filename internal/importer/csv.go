// Package importer reads expense rows from CSV files.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/fincoach/internal/model"
)

// ErrNoValidData is returned when a file has no usable rows.
var ErrNoValidData = errors.New("importer: no valid data")

// DefaultCategory receives rows with an empty category cell.
const DefaultCategory = "Others"

// Mapping names the CSV columns holding each field. Date is optional.
type Mapping struct {
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date,omitempty"`
}

// Row is one imported expense.
type Row struct {
	Line     int       `json:"line"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date,omitempty"`
	// RawDate keeps the original text when the date could not be parsed.
	RawDate string `json:"raw_date,omitempty"`
}

// Skipped records a dropped row.
type Skipped struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result is the outcome of an import.
type Result struct {
	Rows    []Row     `json:"rows"`
	Skipped []Skipped `json:"skipped"`
}

// Dropped returns how many rows were skipped.
func (r Result) Dropped() int { return len(r.Skipped) }

// Breakdown sums amounts per category in order of first appearance.
func (r Result) Breakdown() model.ExpenseBreakdown {
	var b model.ExpenseBreakdown
	for _, row := range r.Rows {
		prev, _ := b.Get(row.Category)
		_ = b.Set(row.Category, prev+row.Amount)
	}
	return b
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Columns returns the header row so callers can offer a column mapping.
func Columns(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoValidData
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	return header, nil
}

// Import reads a CSV with a header row. Rows whose amount is not a
// non-negative number are dropped and counted. Dates that do not parse are
// kept as raw text.
func Import(r io.Reader, m Mapping) (Result, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, ErrNoValidData
		}
		return Result{}, fmt.Errorf("reading header: %w", err)
	}
	idx := indexColumns(header)

	amountCol, ok := idx[strings.ToLower(strings.TrimSpace(m.Amount))]
	if !ok {
		return Result{}, model.Invalid("amount column %q not found", m.Amount)
	}
	categoryCol, ok := idx[strings.ToLower(strings.TrimSpace(m.Category))]
	if !ok {
		return Result{}, model.Invalid("category column %q not found", m.Category)
	}
	dateCol := -1
	if strings.TrimSpace(m.Date) != "" {
		c, ok := idx[strings.ToLower(strings.TrimSpace(m.Date))]
		if !ok {
			return Result{}, model.Invalid("date column %q not found", m.Date)
		}
		dateCol = c
	}

	var res Result
	line := 1
	for {
		rec, err := cr.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Line: line, Reason: err.Error()})
			continue
		}
		if blank(rec) {
			continue
		}

		amount, err := ParseAmount(cell(rec, amountCol))
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Line: line, Reason: err.Error()})
			continue
		}
		row := Row{Line: line, Category: strings.TrimSpace(cell(rec, categoryCol)), Amount: amount}
		if row.Category == "" {
			row.Category = DefaultCategory
		}
		if dateCol >= 0 {
			raw := strings.TrimSpace(cell(rec, dateCol))
			if t, ok := ParseDate(raw); ok {
				row.Date = t
			} else {
				row.RawDate = raw
			}
		}
		res.Rows = append(res.Rows, row)
	}

	if len(res.Rows) == 0 {
		return res, ErrNoValidData
	}
	return res, nil
}

// ParseAmount accepts plain numbers with optional currency symbols,
// thousands separators and surrounding whitespace.
func ParseAmount(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	for _, sym := range []string{"₹", "$", "€", "£", "Rs.", "Rs", "INR", ","} {
		clean = strings.ReplaceAll(clean, sym, "")
	}
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a number", s)
	}
	if err := model.ValidateAmount("amount", v); err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	return v, nil
}

// ParseDate tries the known layouts in order.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func indexColumns(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

func cell(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

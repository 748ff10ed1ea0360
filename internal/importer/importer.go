// Package importer reads delimited entry files into import rows.
//
// The first line is a header naming the columns: date, description,
// transfer and exactly one of amount or -amount. A -amount column holds
// values to be negated before they are booked.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leonschreuder/gnucsh/internal/model"
)

var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing column")
	// ErrAmountColumns is returned unless exactly one of amount and -amount is present.
	ErrAmountColumns = errors.New("need exactly one of the amount and -amount columns")
)

const (
	colDate          = "date"
	colDescription   = "description"
	colTransfer      = "transfer"
	colAmount        = "amount"
	colNegatedAmount = "-amount"
)

// Options controls how a file is read.
type Options struct {
	Delimiter  rune
	DateFormat string
}

// DefaultOptions reads ';' separated files with ISO dates.
func DefaultOptions() Options {
	return Options{Delimiter: ';', DateFormat: model.DateFormat}
}

type columns struct {
	date, description, transfer, amount int
	negate                              bool
}

// ParseFile opens path and parses it.
func ParseFile(path string, opts Options) ([]model.ImportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	rows, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Parse reads every row of r. Nothing is returned unless all rows parse.
func Parse(r io.Reader, opts Options) ([]model.ImportRow, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}
	if opts.DateFormat == "" {
		opts.DateFormat = model.DateFormat
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.Delimiter
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file is empty", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []model.ImportRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		row, err := parseRow(rec, cols, opts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func mapColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var cols columns
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{colDate, &cols.date},
		{colDescription, &cols.description},
		{colTransfer, &cols.transfer},
	} {
		i, ok := index[c.name]
		if !ok {
			return columns{}, fmt.Errorf("%w %q", ErrMissingColumn, c.name)
		}
		*c.dst = i
	}

	plain, hasPlain := index[colAmount]
	negated, hasNegated := index[colNegatedAmount]
	switch {
	case hasPlain && !hasNegated:
		cols.amount = plain
	case hasNegated && !hasPlain:
		cols.amount, cols.negate = negated, true
	default:
		return columns{}, ErrAmountColumns
	}
	return cols, nil
}

func parseRow(rec []string, cols columns, opts Options) (model.ImportRow, error) {
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	date, err := time.Parse(opts.DateFormat, field(cols.date))
	if err != nil {
		return model.ImportRow{}, fmt.Errorf("parsing date %q: %w", field(cols.date), err)
	}

	amount, err := decimal.NewFromString(field(cols.amount))
	if err != nil {
		return model.ImportRow{}, fmt.Errorf("parsing amount %q: %w", field(cols.amount), err)
	}
	if cols.negate {
		amount = amount.Neg()
	}

	transfer := field(cols.transfer)
	if transfer == "" {
		return model.ImportRow{}, errors.New("transfer account is empty")
	}

	return model.ImportRow{
		Date:        date,
		Description: field(cols.description),
		Transfer:    transfer,
		Amount:      amount,
	}, nil
}

package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitbook-dev/splitbook/internal/model"
)

// Row is one parsed line of an expenses.csv file. Payer and the share keys
// are participant names; resolution to IDs happens against a group.
type Row struct {
	Date        time.Time
	Payer       string
	Amount      decimal.Decimal
	SplitType   model.SplitType
	Shares      map[string]decimal.Decimal // name -> amount or percentage; nil for equal splits
	Description string
}

// Header is the CSV header for expenses.csv.
const Header = "date,payer,amount,split_type,shares,description"

const (
	numFields  = 6
	dateFormat = "2006-01-02"
	colDate    = 0
	colPayer   = 1
	colAmount  = 2
	colSplit   = 3
	colShares  = 4
	colDesc    = 5
)

// ReadFile reads all rows from an expenses.csv on disk. A missing file is
// not an error; it reads as no rows.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening expenses %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("reading expenses %s: %w", path, err)
	}
	return rows, nil
}

// ReadRows reads all rows from an expenses.csv reader.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading expenses CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var rows []Row
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteRows writes rows to an expenses.csv writer (including header).
func WriteRows(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(row Row) []string {
	rec := make([]string, numFields)
	rec[colDate] = row.Date.Format(dateFormat)
	rec[colPayer] = row.Payer
	rec[colAmount] = row.Amount.String()
	rec[colSplit] = string(row.SplitType)
	rec[colShares] = formatShares(row.Shares)
	rec[colDesc] = row.Description
	return rec
}

// UnmarshalRow converts a CSV record to a Row.
func UnmarshalRow(record []string) (Row, error) {
	if len(record) != numFields {
		return Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return Row{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Row{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	shares, err := parseShares(record[colShares])
	if err != nil {
		return Row{}, err
	}

	return Row{
		Date:        date,
		Payer:       record[colPayer],
		Amount:      amount,
		SplitType:   model.SplitType(strings.ToLower(record[colSplit])),
		Shares:      shares,
		Description: record[colDesc],
	}, nil
}

// parseShares decodes "Alice=100;Bob=200" into a name -> value map. An empty
// field means no custom shares.
func parseShares(s string) (map[string]decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	shares := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid share %q, want name=value", pair)
		}
		amt, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("parsing share %q: %w", pair, err)
		}
		if _, ok := shares[name]; ok {
			return nil, fmt.Errorf("duplicate share for %q", name)
		}
		shares[name] = amt
	}
	return shares, nil
}

// formatShares encodes shares sorted by name for deterministic output.
func formatShares(shares map[string]decimal.Decimal) string {
	if len(shares) == 0 {
		return ""
	}
	names := make([]string, 0, len(shares))
	for name := range shares {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = name + "=" + shares[name].String()
	}
	return strings.Join(pairs, ";")
}

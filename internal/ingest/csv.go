// Package ingest reads transactions from CSV exports.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/eshaffer321/recurscan/internal/domain/transaction"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Column names. id is optional.
const (
	ColumnID     = "id"
	ColumnUserID = "user_id"
	ColumnName   = "name"
	ColumnAmount = "amount"
	ColumnDate   = "date"
)

var requiredColumns = []string{ColumnUserID, ColumnName, ColumnAmount, ColumnDate}

// ReadCSVFile opens path and reads it with ReadCSV.
func ReadCSVFile(path string) ([]transaction.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	txs, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txs, nil
}

// ReadCSV parses a header-driven CSV. Columns are matched by name, case
// insensitively; unknown columns are ignored. Dates are kept verbatim so
// malformed ones reach the engine and are excluded there.
func ReadCSV(r io.Reader) ([]transaction.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var txs []transaction.Transaction
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		amount, err := strconv.ParseFloat(field(record, ColumnAmount), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q: %w", line, field(record, ColumnAmount), err)
		}

		txs = append(txs, transaction.Transaction{
			ID:     field(record, ColumnID),
			UserID: field(record, ColumnUserID),
			Name:   field(record, ColumnName),
			Amount: amount,
			Date:   field(record, ColumnDate),
		})
	}

	return txs, nil
}

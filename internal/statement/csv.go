package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// Column keys after header normalization.
const (
	colDetails     = "details"
	colPostingDate = "posting_date"
	colDescription = "description"
	colAmount      = "amount"
	colType        = "type"
	colBalance     = "balance"
	colCheckNumber = "check_number"
)

var headerAliases = map[string]string{
	"details":          colDetails,
	"debit/credit":     colDetails,
	"indicator":        colDetails,
	"posting date":     colPostingDate,
	"date":             colPostingDate,
	"transaction date": colPostingDate,
	"post date":        colPostingDate,
	"description":      colDescription,
	"memo":             colDescription,
	"amount":           colAmount,
	"type":             colType,
	"transaction type": colType,
	"balance":          colBalance,
	"check or slip #":  colCheckNumber,
	"check number":     colCheckNumber,
	"check #":          colCheckNumber,
	"check":            colCheckNumber,
}

var requiredColumns = []string{colPostingDate, colDescription, colAmount}

// ErrMissingColumns is returned when the header lacks a required column.
var ErrMissingColumns = errors.New("statement is missing required columns")

// ParseCSV reads a bank CSV export. Header names are matched
// case-insensitively against known aliases so exports from different banks
// map to the same fields. A row that cannot be parsed is reported in
// Result.Errors and never aborts the rest of the file; only an unreadable
// file or a missing required column returns an error.
func ParseCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumns)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index, rawNames := mapHeader(header)
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	result := &Result{}
	row := 1
	for {
		record, err := reader.Read()
		row++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Err: err.Error()})
			continue
		}
		if blank(record) {
			continue
		}

		candidate, err := parseRecord(record, index, rawNames)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Err: err.Error()})
			continue
		}
		result.Candidates = append(result.Candidates, *candidate)
	}

	return result, nil
}

func mapHeader(header []string) (map[string]int, []string) {
	index := make(map[string]int)
	names := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		names[i] = name
		col, ok := headerAliases[strings.ToLower(name)]
		if !ok {
			continue
		}
		if _, seen := index[col]; !seen {
			index[col] = i
		}
	}
	return index, names
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseRecord(record []string, index map[string]int, names []string) (*Candidate, error) {
	field := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rawDate := field(colPostingDate)
	description := field(colDescription)
	rawAmount := field(colAmount)

	postingDate, err := parseDate(rawDate)
	if err != nil {
		return nil, err
	}
	amount, err := parseMoney(rawAmount)
	if err != nil {
		return nil, err
	}

	details := field(colDetails)
	label := field(colType)

	var balance *decimal.Decimal
	if raw := field(colBalance); raw != "" {
		if b, err := parseMoney(raw); err == nil {
			balance = &b
		}
	}

	identity := ExtractIdentity(description)
	checkNumber := strings.TrimLeft(field(colCheckNumber), "#")
	if checkNumber == "" {
		checkNumber = identity.CheckNumber
	}

	raw := make(map[string]string, len(names))
	for i, name := range names {
		if name == "" || i >= len(record) {
			continue
		}
		raw[name] = record[i]
	}

	return &Candidate{
		Hash:          ContentHash(rawDate, description, rawAmount),
		PostingDate:   postingDate,
		Amount:        signedAmount(amount, isOutgoing(details, label)),
		Balance:       balance,
		Description:   description,
		Type:          resolveType(identity, label, details, checkNumber),
		PayerName:     identity.PayerName,
		ExternalRefID: identity.ExternalRefID,
		CheckNumber:   checkNumber,
		RawRow:        raw,
	}, nil
}

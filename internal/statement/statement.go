// Package statement turns bank statement exports (CSV or OFX) into candidate
// bank transactions: signed amounts, payer identity signals and a content
// hash used to deduplicate repeated imports. Everything here is pure; the
// services package owns persistence.
package statement

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"churchbooks/internal/models"
)

// Candidate is a parsed statement line ready for deduplicated insertion.
type Candidate struct {
	Hash          string
	PostingDate   time.Time
	Amount        decimal.Decimal
	Balance       *decimal.Decimal
	Description   string
	Type          models.BankTransactionType
	PayerName     string
	ExternalRefID string
	CheckNumber   string
	RawRow        map[string]string
}

// RowError describes a statement line that could not be parsed. Row is the
// 1-based line number in the source file (the header is row 1).
type RowError struct {
	Row int    `json:"row"`
	Err string `json:"error"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Err)
}

// Result is the outcome of parsing one statement file.
type Result struct {
	Candidates []Candidate
	Errors     []RowError
}

// ContentHash digests the three fields that identify a statement line.
// Balance is deliberately left out: the same line shows up with and without
// a settled balance between pending and posted exports.
func ContentHash(postingDate, description, amount string) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		strings.TrimSpace(postingDate),
		strings.TrimSpace(description),
		strings.TrimSpace(amount),
	}, "|")))
	return hex.EncodeToString(sum[:])
}

// BankTransaction converts the candidate into a new PENDING row.
func (c Candidate) BankTransaction() (*models.BankTransaction, error) {
	raw, err := json.Marshal(c.RawRow)
	if err != nil {
		return nil, fmt.Errorf("marshal raw row: %w", err)
	}

	txn := &models.BankTransaction{
		Hash:            c.Hash,
		TransactionDate: c.PostingDate,
		Amount:          c.Amount,
		Balance:         c.Balance,
		Description:     c.Description,
		Type:            c.Type,
		Status:          models.BankTransactionStatusPending,
		PayerName:       optional(c.PayerName),
		ExternalRefID:   optional(c.ExternalRefID),
		CheckNumber:     optional(c.CheckNumber),
		RawRow:          datatypes.JSON(raw),
	}
	return txn, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// resolveType combines what the description revealed with the bank's own
// type label and check column.
func resolveType(identity Identity, label, details, checkNumber string) models.BankTransactionType {
	if identity.Type != models.BankTransactionTypeUnknown {
		return identity.Type
	}
	if t := typeFromLabel(label); t != models.BankTransactionTypeUnknown {
		return t
	}
	if strings.EqualFold(strings.TrimSpace(details), "CHECK") || checkNumber != "" {
		return models.BankTransactionTypeCheck
	}
	return models.BankTransactionTypeUnknown
}

func typeFromLabel(label string) models.BankTransactionType {
	l := strings.ToUpper(label)
	switch {
	case strings.Contains(l, "QUICKPAY"), strings.Contains(l, "ZELLE"):
		return models.BankTransactionTypeZelle
	case strings.Contains(l, "ACH"), strings.Contains(l, "DIRECTDEP"), strings.Contains(l, "DIRECTDEBIT"):
		return models.BankTransactionTypeACH
	case strings.Contains(l, "CHECK"):
		return models.BankTransactionTypeCheck
	case strings.Contains(l, "DEBIT"), strings.Contains(l, "ATM"), strings.Contains(l, "POS"):
		return models.BankTransactionTypeDebit
	}
	return models.BankTransactionTypeUnknown
}

// isOutgoing reports whether the indicator or type label marks money leaving
// the account.
func isOutgoing(details, label string) bool {
	d := strings.ToUpper(strings.TrimSpace(details))
	if d == "DEBIT" || d == "CHECK" {
		return true
	}
	l := strings.ToUpper(label)
	for _, marker := range []string{"DEBIT", "CHECK_PAID", "CHECK PAID", "WITHDRAWAL", "FEE"} {
		if strings.Contains(l, marker) {
			return true
		}
	}
	return false
}

// parseMoney accepts "$1,234.50", "-25.00" and "(25.00)" forms and rounds to cents.
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if negative {
		d = d.Neg()
	}
	return d.Round(2), nil
}

// signedAmount applies the debit/credit convention: outgoing money is negative.
func signedAmount(amount decimal.Decimal, outgoing bool) decimal.Decimal {
	if outgoing || amount.IsNegative() {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

var dateLayouts = []string{"01/02/2006", "1/2/2006", "2006-01-02", "01/02/06", "1/2/06"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid posting date %q", s)
}

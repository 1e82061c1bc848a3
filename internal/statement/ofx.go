package statement

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagPattern  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// ParseOFX reads an OFX/QFX download. Bank and credit card statements are
// both accepted; their lines go through the same identity extraction as CSV
// rows. OFX already signs amounts, so no indicator column is consulted.
func ParseOFX(r io.Reader) (*Result, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ofx: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(normalizeOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("parse ofx: %w", err)
	}

	var lines []ofxgo.Transaction
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			lines = append(lines, stmt.BankTranList.Transactions...)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			lines = append(lines, stmt.BankTranList.Transactions...)
		}
	}

	result := &Result{}
	for i, line := range lines {
		candidate, err := convertOFX(line)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: i + 1, Err: err.Error()})
			continue
		}
		result.Candidates = append(result.Candidates, *candidate)
	}
	return result, nil
}

func normalizeOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	return openTagPattern.ReplaceAllString(content, "$1>")
}

func convertOFX(line ofxgo.Transaction) (*Candidate, error) {
	if line.DtPosted.IsZero() {
		return nil, fmt.Errorf("missing posting date")
	}

	rawAmount := line.TrnAmt.FloatString(2)
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", rawAmount)
	}

	description := strings.TrimSpace(string(line.Name))
	if line.Payee != nil && description == "" {
		description = strings.TrimSpace(string(line.Payee.Name))
	}
	if memo := strings.TrimSpace(string(line.Memo)); memo != "" && memo != description {
		description = strings.TrimSpace(description + " " + memo)
	}

	postingDate := line.DtPosted.Time.UTC()
	rawDate := postingDate.Format("01/02/2006")
	label := line.TrnType.String()

	identity := ExtractIdentity(description)
	checkNumber := string(line.CheckNum)
	if checkNumber == "" {
		checkNumber = identity.CheckNumber
	}

	details := ""
	if line.TrnType == ofxgo.TrnTypeCheck {
		details = "CHECK"
	}

	return &Candidate{
		Hash:          ContentHash(rawDate, description, rawAmount),
		PostingDate:   startOfDay(postingDate),
		Amount:        amount.Round(2),
		Description:   description,
		Type:          resolveType(identity, label, details, checkNumber),
		PayerName:     identity.PayerName,
		ExternalRefID: identity.ExternalRefID,
		CheckNumber:   checkNumber,
		RawRow: map[string]string{
			"FITID":    string(line.FiTID),
			"TRNTYPE":  label,
			"DTPOSTED": rawDate,
			"TRNAMT":   rawAmount,
			"NAME":     string(line.Name),
			"MEMO":     string(line.Memo),
			"CHECKNUM": string(line.CheckNum),
		},
	}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType is what a ledger transaction pays for.
type PaymentType string

const (
	PaymentTypeTithe         PaymentType = "tithe"
	PaymentTypeDonation      PaymentType = "donation"
	PaymentTypeMembershipDue PaymentType = "membership_due"
	PaymentTypeEvent         PaymentType = "event"
	PaymentTypeBuildingFund  PaymentType = "building_fund"
	PaymentTypeOffering      PaymentType = "offering"
	PaymentTypeVow           PaymentType = "vow"
	PaymentTypeOther         PaymentType = "other"
)

// PaymentMethod is how a ledger transaction was paid.
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "cash"
	PaymentMethodCheck      PaymentMethod = "check"
	PaymentMethodZelle      PaymentMethod = "zelle"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodACH        PaymentMethod = "ach"
	PaymentMethodOther      PaymentMethod = "other"
)

// TransactionStatus is the settlement state of a ledger transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusSucceeded TransactionStatus = "succeeded"
	TransactionStatusFailed    TransactionStatus = "failed"
)

var paymentTypeAliases = map[string]PaymentType{
	"tithe":          PaymentTypeTithe,
	"tithes":         PaymentTypeTithe,
	"donation":       PaymentTypeDonation,
	"donations":      PaymentTypeDonation,
	"membership_due": PaymentTypeMembershipDue,
	"membership":     PaymentTypeMembershipDue,
	"membership_fee": PaymentTypeMembershipDue,
	"dues":           PaymentTypeMembershipDue,
	"event":          PaymentTypeEvent,
	"building_fund":  PaymentTypeBuildingFund,
	"building":       PaymentTypeBuildingFund,
	"offering":       PaymentTypeOffering,
	"vow":            PaymentTypeVow,
	"other":          PaymentTypeOther,
}

var paymentMethodAliases = map[string]PaymentMethod{
	"cash":          PaymentMethodCash,
	"check":         PaymentMethodCheck,
	"cheque":        PaymentMethodCheck,
	"zelle":         PaymentMethodZelle,
	"credit_card":   PaymentMethodCreditCard,
	"credit":        PaymentMethodCreditCard,
	"card":          PaymentMethodCreditCard,
	"debit_card":    PaymentMethodDebitCard,
	"debit":         PaymentMethodDebitCard,
	"ach":           PaymentMethodACH,
	"bank_transfer": PaymentMethodACH,
	"other":         PaymentMethodOther,
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// ParsePaymentType maps loose spellings ("Membership Due", "building-fund")
// onto the closed set of payment types.
func ParsePaymentType(s string) (PaymentType, error) {
	if pt, ok := paymentTypeAliases[normalizeEnum(s)]; ok {
		return pt, nil
	}
	return "", fmt.Errorf("unknown payment type %q", s)
}

// ParsePaymentMethod maps loose spellings onto the closed set of payment methods.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	if pm, ok := paymentMethodAliases[normalizeEnum(s)]; ok {
		return pm, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// Valid reports whether p is one of the canonical payment types.
func (p PaymentType) Valid() bool {
	canonical, err := ParsePaymentType(string(p))
	return err == nil && canonical == p
}

// Valid reports whether m is one of the canonical payment methods.
func (m PaymentMethod) Valid() bool {
	canonical, err := ParsePaymentMethod(string(m))
	return err == nil && canonical == m
}

// Scan normalizes legacy column values written before the set was closed.
func (p *PaymentType) Scan(value interface{}) error {
	raw, err := scanString(value)
	if err != nil {
		return err
	}
	if pt, perr := ParsePaymentType(raw); perr == nil {
		*p = pt
		return nil
	}
	*p = PaymentType(raw)
	return nil
}

// Value implements driver.Valuer.
func (p PaymentType) Value() (driver.Value, error) { return string(p), nil }

// Scan normalizes legacy column values written before the set was closed.
func (m *PaymentMethod) Scan(value interface{}) error {
	raw, err := scanString(value)
	if err != nil {
		return err
	}
	if pm, perr := ParsePaymentMethod(raw); perr == nil {
		*m = pm
		return nil
	}
	*m = PaymentMethod(raw)
	return nil
}

// Value implements driver.Valuer.
func (m PaymentMethod) Value() (driver.Value, error) { return string(m), nil }

func scanString(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("cannot scan %T into string enum", value)
	}
}

// Transaction is a confirmed payment in the church ledger, independent of
// how it was discovered (manual entry, email ingestion, bank reconciliation).
type Transaction struct {
	Base
	MemberID      *string           `gorm:"type:uuid;index" json:"member_id,omitempty"`
	CollectedBy   *string           `gorm:"size:64" json:"collected_by,omitempty"`
	PaymentDate   time.Time         `gorm:"not null;index" json:"payment_date"`
	Amount        decimal.Decimal   `gorm:"type:decimal(12,2);not null;index" json:"amount"`
	PaymentType   PaymentType       `gorm:"type:varchar(32);not null" json:"payment_type"`
	PaymentMethod PaymentMethod     `gorm:"type:varchar(32);not null" json:"payment_method"`
	Status        TransactionStatus `gorm:"size:16;not null;default:'succeeded'" json:"status"`
	ReceiptNumber *string           `json:"receipt_number,omitempty"`
	Note          string            `json:"note"`
	ExternalID    *string           `gorm:"uniqueIndex" json:"external_id,omitempty"`
	// SourceRef is the id the payment was first recorded under (an email
	// message id, for example). It is never rewritten, so re-ingesting the
	// same message still resolves to this row after ExternalID moves to a
	// bank hash.
	SourceRef     *string           `gorm:"uniqueIndex" json:"source_ref,omitempty"`

	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

// LinkableTo reports whether the transaction may be linked to the bank
// transaction with the given hash. Unlinked rows qualify, as do rows already
// linked to that hash and rows whose ExternalID is still their SourceRef.
func (t *Transaction) LinkableTo(bankHash string) bool {
	if t.ExternalID == nil || *t.ExternalID == bankHash {
		return true
	}
	return t.SourceRef != nil && *t.SourceRef == *t.ExternalID
}

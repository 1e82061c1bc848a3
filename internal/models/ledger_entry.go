package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultIncomeCategoryCode is used when a payment type has no mapped
// income category.
const DefaultIncomeCategoryCode = "4900"

// IncomeCategory maps a payment type onto a chart-of-accounts income code.
type IncomeCategory struct {
	Base
	Code        string      `gorm:"size:16;not null;uniqueIndex" json:"code"`
	Name        string      `gorm:"not null" json:"name"`
	PaymentType PaymentType `gorm:"type:varchar(32);index" json:"payment_type"`
}

// LedgerEntry is the accounting mirror of a ledger transaction, one per
// transaction. It is derived data; the Transaction row is authoritative.
type LedgerEntry struct {
	Base
	TransactionID string          `gorm:"type:uuid;not null;uniqueIndex" json:"transaction_id"`
	EntryDate     time.Time       `gorm:"not null" json:"entry_date"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	MemberID      *string         `gorm:"type:uuid" json:"member_id,omitempty"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(32)" json:"payment_method"`
	CategoryCode  string          `gorm:"size:16;not null" json:"category_code"`
	Memo          string          `json:"memo"`
}

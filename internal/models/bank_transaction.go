package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// BankTransactionType is the coarse type tag derived from a statement line.
type BankTransactionType string

const (
	BankTransactionTypeZelle   BankTransactionType = "ZELLE"
	BankTransactionTypeCheck   BankTransactionType = "CHECK"
	BankTransactionTypeACH     BankTransactionType = "ACH"
	BankTransactionTypeDebit   BankTransactionType = "DEBIT"
	BankTransactionTypeUnknown BankTransactionType = "UNKNOWN"
)

// BankTransactionStatus is the reconciliation lifecycle of a statement line.
// PENDING moves to MATCHED or IGNORED exactly once; both are terminal.
type BankTransactionStatus string

const (
	BankTransactionStatusPending BankTransactionStatus = "PENDING"
	BankTransactionStatusMatched BankTransactionStatus = "MATCHED"
	BankTransactionStatusIgnored BankTransactionStatus = "IGNORED"
)

// BankTransaction is one imported bank statement line.
type BankTransaction struct {
	Base
	Hash            string                `gorm:"size:64;uniqueIndex;not null" json:"hash"`
	TransactionDate time.Time             `gorm:"not null;index" json:"transaction_date"`
	Amount          decimal.Decimal       `gorm:"type:decimal(12,2);not null" json:"amount"`
	Balance         *decimal.Decimal      `gorm:"type:decimal(12,2)" json:"balance,omitempty"`
	Description     string                `gorm:"not null" json:"description"`
	Type            BankTransactionType   `gorm:"size:16;not null;default:'UNKNOWN'" json:"type"`
	Status          BankTransactionStatus `gorm:"size:16;not null;default:'PENDING';index" json:"status"`
	PayerName       *string               `json:"payer_name,omitempty"`
	ExternalRefID   *string               `json:"external_ref_id,omitempty"`
	CheckNumber     *string               `json:"check_number,omitempty"`
	RawRow          datatypes.JSON        `json:"raw_row,omitempty"`
	MemberID        *string               `gorm:"type:uuid;index" json:"member_id,omitempty"`

	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

// IsPending reports whether the line still awaits an operator decision.
func (b *BankTransaction) IsPending() bool {
	return b.Status == BankTransactionStatusPending
}

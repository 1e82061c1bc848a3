package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"churchbooks/internal/models"
	"churchbooks/internal/statement"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestMember creates an active member with the given names and fake
// contact details.
func CreateTestMember(t *testing.T, db *gorm.DB, firstName, lastName string) *models.Member {
	t.Helper()

	member := &models.Member{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       gofakeit.Email(),
		PhoneNumber: gofakeit.Phone(),
		IsActive:    true,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

// CreateRandomMember creates a member with fake names.
func CreateRandomMember(t *testing.T, db *gorm.DB) *models.Member {
	t.Helper()
	return CreateTestMember(t, db, gofakeit.FirstName(), gofakeit.LastName())
}

// BankTransactionOption customizes CreateTestBankTransaction.
type BankTransactionOption func(*models.BankTransaction)

// WithStatus sets the bank transaction status.
func WithStatus(status models.BankTransactionStatus) BankTransactionOption {
	return func(b *models.BankTransaction) { b.Status = status }
}

// WithCheckNumber marks the bank transaction as a check deposit.
func WithCheckNumber(n string) BankTransactionOption {
	return func(b *models.BankTransaction) {
		b.Type = models.BankTransactionTypeCheck
		b.CheckNumber = &n
	}
}

// WithBalance sets the running balance.
func WithBalance(balance string) BankTransactionOption {
	return func(b *models.BankTransaction) {
		d := decimal.RequireFromString(balance)
		b.Balance = &d
	}
}

// CreateTestBankTransaction stores a PENDING bank transaction. Identity
// fields are extracted from the description the same way imports do.
func CreateTestBankTransaction(t *testing.T, db *gorm.DB, description, amount string, date time.Time, opts ...BankTransactionOption) *models.BankTransaction {
	t.Helper()

	identity := statement.ExtractIdentity(description)
	txn := &models.BankTransaction{
		Hash:            statement.ContentHash(date.Format("01/02/2006"), fmt.Sprintf("%s #%d", description, nextID()), amount),
		TransactionDate: date,
		Amount:          decimal.RequireFromString(amount),
		Description:     description,
		Type:            identity.Type,
		Status:          models.BankTransactionStatusPending,
	}
	if identity.PayerName != "" {
		txn.PayerName = &identity.PayerName
	}
	if identity.ExternalRefID != "" {
		txn.ExternalRefID = &identity.ExternalRefID
	}
	if identity.CheckNumber != "" {
		txn.CheckNumber = &identity.CheckNumber
	}
	for _, opt := range opts {
		opt(txn)
	}

	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test bank transaction: %v", err)
	}
	return txn
}

// TransactionOption customizes CreateTestTransaction.
type TransactionOption func(*models.Transaction)

// WithMember attributes the transaction to a member.
func WithMember(memberID string) TransactionOption {
	return func(tx *models.Transaction) { tx.MemberID = &memberID }
}

// WithExternalID sets the transaction's external id.
func WithExternalID(externalID string) TransactionOption {
	return func(tx *models.Transaction) { tx.ExternalID = &externalID }
}

// WithSourceRef sets the reference the transaction was ingested under.
func WithSourceRef(ref string) TransactionOption {
	return func(tx *models.Transaction) { tx.SourceRef = &ref }
}

// WithTransactionStatus sets the settlement status.
func WithTransactionStatus(status models.TransactionStatus) TransactionOption {
	return func(tx *models.Transaction) { tx.Status = status }
}

// CreateTestTransaction stores a succeeded zelle donation.
func CreateTestTransaction(t *testing.T, db *gorm.DB, amount string, date time.Time, opts ...TransactionOption) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		PaymentDate:   date,
		Amount:        decimal.RequireFromString(amount),
		PaymentType:   models.PaymentTypeDonation,
		PaymentMethod: models.PaymentMethodZelle,
		Status:        models.TransactionStatusSucceeded,
		Note:          gofakeit.Sentence(4),
	}
	for _, opt := range opts {
		opt(tx)
	}

	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "churchbooks/internal/errors"
	"churchbooks/internal/models"
)

// ledgerEntryService mirrors ledger transactions into accounting entries.
type ledgerEntryService struct {
	db *gorm.DB
}

// NewLedgerEntryService creates a new LedgerEntryServicer.
func NewLedgerEntryService(db *gorm.DB) LedgerEntryServicer {
	return &ledgerEntryService{db: db}
}

// SyncFromTransaction creates or updates the ledger entry for txn. The income
// category comes from the payment type, falling back to the generic
// "other income" code when no category is mapped.
func (s *ledgerEntryService) SyncFromTransaction(ctx context.Context, txn *models.Transaction) (*models.LedgerEntry, error) {
	if txn == nil || txn.ID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction is required")
	}

	code, err := s.categoryCode(ctx, txn.PaymentType)
	if err != nil {
		return nil, err
	}

	entry := &models.LedgerEntry{
		TransactionID: txn.ID,
		EntryDate:     txn.PaymentDate,
		Amount:        txn.Amount,
		MemberID:      txn.MemberID,
		PaymentMethod: txn.PaymentMethod,
		CategoryCode:  code,
		Memo:          ledgerMemo(code, txn),
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "transaction_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"entry_date", "amount", "member_id", "payment_method", "category_code", "memo", "updated_at",
		}),
	}).Create(entry).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var stored models.LedgerEntry
	if err := s.db.WithContext(ctx).Where("transaction_id = ?", txn.ID).First(&stored).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stored, nil
}

func (s *ledgerEntryService) categoryCode(ctx context.Context, paymentType models.PaymentType) (string, error) {
	var category models.IncomeCategory
	err := s.db.WithContext(ctx).Where("payment_type = ?", paymentType).Order("code").First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultIncomeCategoryCode, nil
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category.Code, nil
}

// ledgerMemo reads like "4010 tithe ref:<external id> <note>".
func ledgerMemo(code string, txn *models.Transaction) string {
	parts := []string{code, string(txn.PaymentType)}
	if txn.ExternalID != nil && *txn.ExternalID != "" {
		parts = append(parts, fmt.Sprintf("ref:%s", *txn.ExternalID))
	}
	if note := strings.TrimSpace(txn.Note); note != "" {
		parts = append(parts, note)
	}
	return strings.Join(parts, " ")
}

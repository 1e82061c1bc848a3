package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "churchbooks/internal/errors"
	"churchbooks/internal/logger"
	"churchbooks/internal/models"
)

// DefaultDuplicateWindowDays is how far either side of a bank posting date
// the duplicate check looks for an already-recorded payment.
const DefaultDuplicateWindowDays = 5

// transactionService handles ledger transaction business logic.
type transactionService struct {
	db            *gorm.DB
	ledgerService LedgerEntryServicer
	windowDays    int
}

// NewTransactionService creates a new TransactionServicer. A non-positive
// windowDays uses DefaultDuplicateWindowDays.
func NewTransactionService(db *gorm.DB, ledgerService LedgerEntryServicer, windowDays int) TransactionServicer {
	if windowDays <= 0 {
		windowDays = DefaultDuplicateWindowDays
	}
	return &transactionService{
		db:            db,
		ledgerService: ledgerService,
		windowDays:    windowDays,
	}
}

// CreateTransaction validates and records a ledger transaction. A reused
// external id is reported as ErrDuplicateExternalID carrying the id of the
// transaction that already owns it, whether the clash is found up front or
// by the unique index during insert. The external id doubles as the source
// reference unless one is given.
func (s *transactionService) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*models.Transaction, error) {
	input = normalizeTransactionInput(input)
	if input.SourceRef == nil {
		input.SourceRef = input.ExternalID
	}
	if err := ValidateTransactionInput(input); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	if input.MemberID != nil {
		var count int64
		if err := db.Model(&models.Member{}).Where("id = ?", *input.MemberID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrMemberNotFound
		}
	}

	refs := input.references()
	if len(refs) > 0 {
		if existing, err := findByReference(db, refs...); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, apperrors.WithResourceID(apperrors.ErrDuplicateExternalID, existing.ID)
		}
	}

	var transaction *models.Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		transaction, txErr = insertTransaction(tx, input)
		return txErr
	})
	if err != nil {
		return nil, resolveDuplicate(db, err, refs...)
	}

	if _, err := s.ledgerService.SyncFromTransaction(ctx, transaction); err != nil {
		logger.Named("transactions").Warnw("ledger entry sync failed",
			"transaction_id", transaction.ID,
			"error", err,
		)
	}

	return transaction, nil
}

// insertTransaction writes a validated transaction using the given handle so
// callers can include it in a larger database transaction. A unique index
// violation comes back as ErrDuplicateExternalID without a ResourceID; the
// caller resolves it with resolveDuplicate once the database transaction has
// ended.
func insertTransaction(tx *gorm.DB, input CreateTransactionInput) (*models.Transaction, error) {
	transaction := &models.Transaction{
		MemberID:      input.MemberID,
		CollectedBy:   input.CollectedBy,
		PaymentDate:   input.PaymentDate,
		Amount:        input.Amount,
		PaymentType:   input.PaymentType,
		PaymentMethod: input.PaymentMethod,
		Status:        input.Status,
		ReceiptNumber: input.ReceiptNumber,
		Note:          input.Note,
		ExternalID:    input.ExternalID,
		SourceRef:     input.SourceRef,
	}

	if err := tx.Create(transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) && len(input.references()) > 0 {
			return nil, apperrors.Wrap(apperrors.ErrDuplicateExternalID, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// resolveDuplicate fills in the id of the transaction owning one of refs
// when err is an unresolved ErrDuplicateExternalID. db must not be the
// handle of the failed transaction: postgres rejects every statement in an
// aborted transaction.
func resolveDuplicate(db *gorm.DB, err error, refs ...string) error {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || !appErr.Is(apperrors.ErrDuplicateExternalID) || appErr.ResourceID != "" {
		return err
	}
	existing, lookupErr := findByReference(db, refs...)
	if lookupErr != nil || existing == nil {
		return err
	}
	resolved := *appErr
	resolved.ResourceID = existing.ID
	return &resolved
}

// findByReference returns the transaction whose external id or source
// reference is one of refs, including soft-deleted rows since the unique
// indexes still cover them.
func findByReference(db *gorm.DB, refs ...string) (*models.Transaction, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	var existing models.Transaction
	err := db.Unscoped().
		Where("external_id IN ? OR source_ref IN ?", refs, refs).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if existing.ID == "" {
		return nil, nil
	}
	return &existing, nil
}

// GetTransactionByID retrieves a ledger transaction by ID
func (s *transactionService) GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.WithContext(ctx).Preload("Member").Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// FindPotentialDuplicates lists ledger transactions that may already record
// the bank transaction: same absolute amount, payment date within the window
// of the bank date (whole days, inclusive), not failed, and not already
// linked to this bank transaction's hash.
func (s *transactionService) FindPotentialDuplicates(ctx context.Context, bankTxn *models.BankTransaction) ([]models.Transaction, error) {
	if bankTxn == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bank transaction is required")
	}

	from, to := dateWindow(bankTxn.TransactionDate, s.windowDays)

	var candidates []models.Transaction
	err := s.db.WithContext(ctx).
		Where("amount = ?", bankTxn.Amount.Abs()).
		Where("payment_date >= ? AND payment_date < ?", from, to).
		Where("status <> ?", models.TransactionStatusFailed).
		Where("(external_id IS NULL OR external_id <> ?)", bankTxn.Hash).
		Order("payment_date").
		Find(&candidates).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return candidates, nil
}

// dateWindow returns [day-n, day+n+1) in UTC so that any time of day on the
// boundary dates is inside the window.
func dateWindow(day time.Time, n int) (time.Time, time.Time) {
	d := day.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 0, -n), start.AddDate(0, 0, n+1)
}

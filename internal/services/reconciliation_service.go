package services

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"

	apperrors "churchbooks/internal/errors"
	"churchbooks/internal/logger"
	"churchbooks/internal/models"
	"churchbooks/internal/statement"
)

// reconciliationService commits operator decisions on bank transactions.
// The ledger write and the bank status change share one database
// transaction; learning the memo and syncing the ledger entry happen after
// commit and only log on failure.
type reconciliationService struct {
	db            *gorm.DB
	memberService MemberServicer
	matchService  MatchServicer
	ledgerService LedgerEntryServicer
}

// NewReconciliationService creates a new ReconciliationServicer.
func NewReconciliationService(db *gorm.DB, memberService MemberServicer, matchService MatchServicer, ledgerService LedgerEntryServicer) ReconciliationServicer {
	return &reconciliationService{
		db:            db,
		memberService: memberService,
		matchService:  matchService,
		ledgerService: ledgerService,
	}
}

// validateDecision checks that the decision carries what its action needs.
func validateDecision(d ReconcileDecision) error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Action, validation.Required,
			validation.In(ReconcileActionCreate, ReconcileActionLink, ReconcileActionIgnore)),
		validation.Field(&d.MemberID, validation.When(d.Action == ReconcileActionCreate, validation.Required)),
		validation.Field(&d.PaymentType, validation.When(d.Action == ReconcileActionCreate,
			validation.Required,
			validation.By(func(value interface{}) error {
				if pt, _ := value.(models.PaymentType); !pt.Valid() {
					return errors.New("is not a known payment type")
				}
				return nil
			}),
		)),
		validation.Field(&d.TransactionID, validation.When(d.Action == ReconcileActionLink, validation.Required)),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.WithMessage(apperrors.ErrInvalidDecision, err.Error()), err)
	}
	return nil
}

// Reconcile applies the decision to a PENDING bank transaction exactly once.
// Any later attempt on the same bank transaction fails with
// ErrAlreadyProcessed and writes nothing.
func (s *reconciliationService) Reconcile(ctx context.Context, operatorID, bankTxnID string, decision ReconcileDecision) (*ReconcileResult, error) {
	if err := validateDecision(decision); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var bankTxn models.BankTransaction
	if err := db.Where("id = ?", bankTxnID).First(&bankTxn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBankTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !bankTxn.IsPending() {
		return nil, apperrors.WithResourceID(apperrors.ErrAlreadyProcessed, bankTxn.ID)
	}

	var (
		result *ReconcileResult
		member *models.Member
		err    error
	)
	switch decision.Action {
	case ReconcileActionCreate:
		member, err = s.memberService.GetMemberByID(ctx, decision.MemberID)
		if err != nil {
			return nil, err
		}
		result, err = s.createAndLink(db, operatorID, &bankTxn, member, decision.PaymentType)
	case ReconcileActionLink:
		result, err = s.linkExisting(db, &bankTxn, decision.TransactionID)
		if err == nil && result.Transaction.MemberID != nil {
			member, err = s.memberService.GetMemberByID(ctx, *result.Transaction.MemberID)
			if err != nil {
				// The link is committed; only the memo learning is lost.
				logger.Named("reconcile").Warnw("linked transaction member lookup failed",
					"bank_transaction_id", bankTxn.ID, "error", err)
				member, err = nil, nil
			}
		}
	default:
		result, err = s.ignore(db, &bankTxn)
	}
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, &bankTxn, result, member)

	refreshed, err := s.reload(db, bankTxn.ID)
	if err == nil {
		result.BankTransaction = refreshed
	}
	return result, nil
}

// markProcessed is the compare-and-set on status: it only succeeds while
// the row is still PENDING.
func markProcessed(tx *gorm.DB, bankTxnID string, status models.BankTransactionStatus, memberID *string) error {
	res := tx.Model(&models.BankTransaction{}).
		Where("id = ? AND status = ?", bankTxnID, models.BankTransactionStatusPending).
		Updates(map[string]interface{}{"status": status, "member_id": memberID})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.WithResourceID(apperrors.ErrAlreadyProcessed, bankTxnID)
	}
	return nil
}

func (s *reconciliationService) createAndLink(db *gorm.DB, operatorID string, bankTxn *models.BankTransaction, member *models.Member, paymentType models.PaymentType) (*ReconcileResult, error) {
	input := normalizeTransactionInput(CreateTransactionInput{
		MemberID:      &member.ID,
		CollectedBy:   optionalString(operatorID),
		PaymentDate:   bankTxn.TransactionDate,
		Amount:        bankTxn.Amount.Abs(),
		PaymentType:   paymentType,
		PaymentMethod: PaymentMethodFor(bankTxn.Type),
		Status:        models.TransactionStatusSucceeded,
		ReceiptNumber: receiptNumberFor(bankTxn),
		Note:          bankTxn.Description,
		ExternalID:    &bankTxn.Hash,
	})
	if err := ValidateTransactionInput(input); err != nil {
		return nil, err
	}

	var created *models.Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := markProcessed(tx, bankTxn.ID, models.BankTransactionStatusMatched, &member.ID); err != nil {
			return err
		}
		var txErr error
		created, txErr = insertTransaction(tx, input)
		return txErr
	})
	if err != nil {
		return nil, resolveDuplicate(db, err, bankTxn.Hash)
	}

	return &ReconcileResult{Outcome: ReconcileOutcomeCreated, Transaction: created}, nil
}

// linkExisting points an existing ledger transaction at the bank
// transaction. A row still carrying the id it was ingested under may be
// linked; its SourceRef keeps re-ingestion idempotent after external_id
// moves to the bank hash.
func (s *reconciliationService) linkExisting(db *gorm.DB, bankTxn *models.BankTransaction, transactionID string) (*ReconcileResult, error) {
	var linked models.Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", transactionID).First(&linked).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if !linked.LinkableTo(bankTxn.Hash) {
			return apperrors.WithResourceID(apperrors.ErrTransactionAlreadyLinked, linked.ID)
		}

		if err := markProcessed(tx, bankTxn.ID, models.BankTransactionStatusMatched, linked.MemberID); err != nil {
			return err
		}

		err := tx.Model(&linked).Updates(map[string]interface{}{
			"external_id": bankTxn.Hash,
			"status":      models.TransactionStatusSucceeded,
		}).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Wrap(apperrors.ErrDuplicateExternalID, err)
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, resolveDuplicate(db, err, bankTxn.Hash)
	}

	hash := bankTxn.Hash
	linked.ExternalID = &hash
	linked.Status = models.TransactionStatusSucceeded
	return &ReconcileResult{Outcome: ReconcileOutcomeLinked, Transaction: &linked}, nil
}

func (s *reconciliationService) ignore(db *gorm.DB, bankTxn *models.BankTransaction) (*ReconcileResult, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		return markProcessed(tx, bankTxn.ID, models.BankTransactionStatusIgnored, nil)
	})
	if err != nil {
		return nil, err
	}
	return &ReconcileResult{Outcome: ReconcileOutcomeIgnored}, nil
}

// afterCommit runs the advisory steps. Failures are logged and dropped; the
// committed ledger transaction stays authoritative.
func (s *reconciliationService) afterCommit(ctx context.Context, bankTxn *models.BankTransaction, result *ReconcileResult, member *models.Member) {
	log := logger.Named("reconcile")

	if member != nil {
		clean := statement.CleanMemo(bankTxn.Description, bankTxn.Type)
		if err := s.matchService.LearnMatch(ctx, clean, member); err != nil {
			log.Warnw("failed to learn memo match",
				"bank_transaction_id", bankTxn.ID,
				"memo", clean,
				"error", err,
			)
		}
	}

	if result.Transaction != nil {
		if _, err := s.ledgerService.SyncFromTransaction(ctx, result.Transaction); err != nil {
			log.Errorw("ledger entry sync failed",
				"bank_transaction_id", bankTxn.ID,
				"transaction_id", result.Transaction.ID,
				"error", err,
			)
		}
	}

	log.Infow("bank transaction reconciled",
		"bank_transaction_id", bankTxn.ID,
		"outcome", result.Outcome,
	)
}

func (s *reconciliationService) reload(db *gorm.DB, id string) (*models.BankTransaction, error) {
	var txn models.BankTransaction
	if err := db.Preload("Member").Where("id = ?", id).First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// PaymentMethodFor maps a bank type tag onto the ledger payment method.
func PaymentMethodFor(t models.BankTransactionType) models.PaymentMethod {
	switch t {
	case models.BankTransactionTypeZelle:
		return models.PaymentMethodZelle
	case models.BankTransactionTypeCheck:
		return models.PaymentMethodCheck
	case models.BankTransactionTypeACH:
		return models.PaymentMethodACH
	case models.BankTransactionTypeDebit:
		return models.PaymentMethodDebitCard
	default:
		return models.PaymentMethodOther
	}
}

// receiptNumberFor uses the check number for check deposits. Checks without
// a readable number get a receipt derived from the bank hash so the receipt
// requirement for checks still holds.
func receiptNumberFor(bankTxn *models.BankTransaction) *string {
	if bankTxn.Type != models.BankTransactionTypeCheck {
		return nil
	}
	if bankTxn.CheckNumber != nil && *bankTxn.CheckNumber != "" {
		n := *bankTxn.CheckNumber
		return &n
	}
	receipt := "BANK-" + bankTxn.Hash
	if len(bankTxn.Hash) > 12 {
		receipt = "BANK-" + bankTxn.Hash[:12]
	}
	return &receipt
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

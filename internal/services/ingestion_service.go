package services

import (
	"context"
	"errors"
	"strings"

	apperrors "churchbooks/internal/errors"
	"churchbooks/internal/logger"
	"churchbooks/internal/models"
)

// ingestionService turns externally observed payments into ledger
// transactions, one notice at a time.
type ingestionService struct {
	transactionService TransactionServicer
	matchService       MatchServicer
}

// NewIngestionService creates a new IngestionServicer.
func NewIngestionService(transactionService TransactionServicer, matchService MatchServicer) IngestionServicer {
	return &ingestionService{
		transactionService: transactionService,
		matchService:       matchService,
	}
}

// IngestPayments records every notice independently. The notice's message
// id becomes the transaction's external id, so replaying a notice reports
// "exists" instead of posting it twice. One bad notice never stops the batch.
func (s *ingestionService) IngestPayments(ctx context.Context, operatorID string, notices []PaymentNotice) []IngestResult {
	log := logger.Named("ingestion")
	results := make([]IngestResult, 0, len(notices))

	for _, notice := range notices {
		result := s.ingest(ctx, operatorID, notice)
		if result.Status == IngestStatusFailed {
			log.Warnw("payment notice failed",
				"message_id", notice.MessageID,
				"error", result.Error,
			)
		}
		results = append(results, result)
	}

	log.Infow("payment notices ingested", "count", len(notices))
	return results
}

func (s *ingestionService) ingest(ctx context.Context, operatorID string, notice PaymentNotice) IngestResult {
	messageID := strings.TrimSpace(notice.MessageID)
	result := IngestResult{MessageID: messageID}
	if messageID == "" {
		result.Status = IngestStatusFailed
		result.Error = "message id is required"
		return result
	}

	memberID := notice.MemberID
	if memberID == nil {
		memberID = s.suggestMember(ctx, notice)
	}

	paymentType := notice.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentTypeDonation
	}
	paymentMethod := notice.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodZelle
	}

	txn, err := s.transactionService.CreateTransaction(ctx, CreateTransactionInput{
		MemberID:      memberID,
		CollectedBy:   optionalString(operatorID),
		PaymentDate:   notice.PaymentDate,
		Amount:        notice.Amount,
		PaymentType:   paymentType,
		PaymentMethod: paymentMethod,
		Status:        models.TransactionStatusSucceeded,
		Note:          noticeNote(notice),
		ExternalID:    &messageID,
		SourceRef:     &messageID,
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.Is(err, apperrors.ErrDuplicateExternalID) && errors.As(err, &appErr) {
			result.Status = IngestStatusExists
			result.TransactionID = appErr.ResourceID
			return result
		}
		result.Status = IngestStatusFailed
		result.Error = err.Error()
		return result
	}

	result.Status = IngestStatusCreated
	result.TransactionID = txn.ID
	result.MemberID = txn.MemberID
	return result
}

// suggestMember only accepts an actionable match; ambiguity leaves the
// payment unattributed for an operator to resolve.
func (s *ingestionService) suggestMember(ctx context.Context, notice PaymentNotice) *string {
	if notice.PayerName == "" && notice.Memo == "" {
		return nil
	}

	description := notice.Memo
	if notice.PayerName != "" {
		description = notice.PayerName
	}
	match, err := s.matchService.SuggestMember(ctx, MatchQuery{
		Description: description,
		PayerName:   notice.PayerName,
	})
	if err != nil {
		logger.Named("ingestion").Warnw("member suggestion failed",
			"message_id", notice.MessageID,
			"error", err,
		)
		return nil
	}
	if match.Member == nil {
		return nil
	}
	id := match.Member.ID
	return &id
}

func noticeNote(notice PaymentNotice) string {
	parts := make([]string, 0, 2)
	if notice.PayerName != "" {
		parts = append(parts, "From "+notice.PayerName)
	}
	if memo := strings.TrimSpace(notice.Memo); memo != "" {
		parts = append(parts, memo)
	}
	return strings.Join(parts, ": ")
}

package services

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	apperrors "churchbooks/internal/errors"
	"churchbooks/internal/models"
)

// normalizeTransactionInput applies defaults before validation: succeeded
// status, UTC dates, trimmed optional strings.
func normalizeTransactionInput(input CreateTransactionInput) CreateTransactionInput {
	if input.Status == "" {
		input.Status = models.TransactionStatusSucceeded
	}
	if !input.PaymentDate.IsZero() {
		input.PaymentDate = input.PaymentDate.UTC()
	}
	input.Amount = input.Amount.Round(2)
	input.ReceiptNumber = trimOptional(input.ReceiptNumber)
	input.ExternalID = trimOptional(input.ExternalID)
	input.SourceRef = trimOptional(input.SourceRef)
	input.MemberID = trimOptional(input.MemberID)
	input.Note = strings.TrimSpace(input.Note)
	return input
}

// references lists the distinct non-empty ids the input claims.
func (input CreateTransactionInput) references() []string {
	var refs []string
	if input.ExternalID != nil {
		refs = append(refs, *input.ExternalID)
	}
	if input.SourceRef != nil && (input.ExternalID == nil || *input.SourceRef != *input.ExternalID) {
		refs = append(refs, *input.SourceRef)
	}
	return refs
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ValidateTransactionInput checks a ledger transaction before it is written.
// Every creation path calls it; failures are ErrInvalidTransaction with the
// offending fields in the message.
func ValidateTransactionInput(input CreateTransactionInput) error {
	needsReceipt := input.PaymentMethod == models.PaymentMethodCash || input.PaymentMethod == models.PaymentMethodCheck

	err := validation.ValidateStruct(&input,
		validation.Field(&input.Amount, validation.By(positiveAmount)),
		validation.Field(&input.PaymentDate, validation.By(requiredDate)),
		validation.Field(&input.PaymentType, validation.Required, validation.By(func(value interface{}) error {
			if pt, _ := value.(models.PaymentType); !pt.Valid() {
				return errors.New("is not a known payment type")
			}
			return nil
		})),
		validation.Field(&input.PaymentMethod, validation.Required, validation.By(func(value interface{}) error {
			if pm, _ := value.(models.PaymentMethod); !pm.Valid() {
				return errors.New("is not a known payment method")
			}
			return nil
		})),
		validation.Field(&input.Status, validation.In(
			models.TransactionStatusPending,
			models.TransactionStatusSucceeded,
			models.TransactionStatusFailed,
		)),
		validation.Field(&input.ReceiptNumber,
			validation.When(needsReceipt, validation.Required.Error("is required for cash and check payments"))),
	)
	if err != nil {
		return apperrors.Wrap(
			apperrors.WithMessage(apperrors.ErrInvalidTransaction, err.Error()),
			err,
		)
	}
	return nil
}

func positiveAmount(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok || !amount.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

func requiredDate(value interface{}) error {
	date, ok := value.(time.Time)
	if !ok || date.IsZero() {
		return errors.New("cannot be blank")
	}
	return nil
}

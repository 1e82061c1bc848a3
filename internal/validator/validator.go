// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"churchbooks/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("payment_type", validatePaymentType)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
		_ = v.RegisterValidation("transaction_status", validateTransactionStatus)
		_ = v.RegisterValidation("reconcile_action", validateReconcileAction)
		_ = v.RegisterValidation("bank_status", validateBankStatus)
	}
}

// validatePaymentType accepts loose spellings ("Tithes", "building-fund");
// the services normalize them before storing.
func validatePaymentType(fl validator.FieldLevel) bool {
	_, err := models.ParsePaymentType(fl.Field().String())
	return err == nil
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	_, err := models.ParsePaymentMethod(fl.Field().String())
	return err == nil
}

func validateTransactionStatus(fl validator.FieldLevel) bool {
	switch models.TransactionStatus(fl.Field().String()) {
	case models.TransactionStatusPending, models.TransactionStatusSucceeded, models.TransactionStatusFailed:
		return true
	}
	return false
}

func validateReconcileAction(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "create", "link", "ignore":
		return true
	}
	return false
}

func validateBankStatus(fl validator.FieldLevel) bool {
	switch models.BankTransactionStatus(fl.Field().String()) {
	case models.BankTransactionStatusPending, models.BankTransactionStatusMatched, models.BankTransactionStatusIgnored:
		return true
	}
	return false
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "churchbooks/internal/errors"
	"churchbooks/internal/models"
	"churchbooks/internal/services"
)

// TransactionHandler handles manually entered ledger transactions.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	MemberID      *string         `json:"member_id" binding:"omitempty,uuid"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentType   string          `json:"payment_type" binding:"required,payment_type"`
	PaymentMethod string          `json:"payment_method" binding:"required,payment_method"`
	Status        string          `json:"status" binding:"omitempty,transaction_status"`
	PaymentDate   *string         `json:"payment_date"`
	ReceiptNumber *string         `json:"receipt_number" binding:"omitempty,max=64"`
	Note          string          `json:"note" binding:"max=500"`
	ExternalID    *string         `json:"external_id" binding:"omitempty,max=255"`
}

// TransactionResponse wraps a single ledger transaction.
type TransactionResponse struct {
	Transaction *models.Transaction `json:"transaction"`
}

// CreateTransaction records a payment the treasurer entered by hand (cash
// envelope, check, card terminal). The payment date defaults to today.
// @Summary     Create a ledger transaction
// @Description Record a hand-entered payment. Cash and check payments require a receipt number.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} TransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Failure     409 {object} ErrorResponse "Duplicate external id"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	operatorID, err := getOperatorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	paymentDate := time.Now().UTC()
	if req.PaymentDate != nil && *req.PaymentDate != "" {
		parsed, parseErr := parseFlexibleTime(*req.PaymentDate)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		paymentDate = parsed
	}

	// The binding validators accept loose spellings; store the canonical value.
	paymentType, _ := models.ParsePaymentType(req.PaymentType)
	paymentMethod, _ := models.ParsePaymentMethod(req.PaymentMethod)

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), services.CreateTransactionInput{
		MemberID:      req.MemberID,
		CollectedBy:   &operatorID,
		PaymentDate:   paymentDate,
		Amount:        req.Amount,
		PaymentType:   paymentType,
		PaymentMethod: paymentMethod,
		Status:        models.TransactionStatus(req.Status),
		ReceiptNumber: req.ReceiptNumber,
		Note:          req.Note,
		ExternalID:    req.ExternalID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(operatorID, services.AuditActionCreateTransaction, "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{
			"amount":         transaction.Amount.StringFixed(2),
			"payment_type":   transaction.PaymentType,
			"payment_method": transaction.PaymentMethod,
		})

	c.JSON(http.StatusCreated, TransactionResponse{Transaction: transaction})
}

// GetTransactionByID returns a single ledger transaction with its member.
// @Summary     Get a ledger transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	if _, err := getOperatorID(c); err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Transaction: transaction})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "churchbooks/internal/errors"
	"churchbooks/internal/models"
	"churchbooks/internal/pagination"
	"churchbooks/internal/services"
)

// BankTransactionHandler serves statement imports and the reconciliation queue.
type BankTransactionHandler struct {
	bankTxnService        services.BankTransactionServicer
	matchService          services.MatchServicer
	reconciliationService services.ReconciliationServicer
	auditService          services.AuditServicer
	maxUploadBytes        int64
}

// NewBankTransactionHandler creates a new BankTransactionHandler.
func NewBankTransactionHandler(
	bankTxnService services.BankTransactionServicer,
	matchService services.MatchServicer,
	reconciliationService services.ReconciliationServicer,
	auditService services.AuditServicer,
	maxUploadBytes int64,
) *BankTransactionHandler {
	return &BankTransactionHandler{
		bankTxnService:        bankTxnService,
		matchService:          matchService,
		reconciliationService: reconciliationService,
		auditService:          auditService,
		maxUploadBytes:        maxUploadBytes,
	}
}

// ImportResponse wraps an import summary.
type ImportResponse struct {
	Import *services.ImportSummary `json:"import"`
}

// BankTransactionResponse wraps a single statement line.
type BankTransactionResponse struct {
	BankTransaction *models.BankTransaction `json:"bank_transaction"`
}

// SuggestionResponse wraps the operator's view of a statement line.
type SuggestionResponse struct {
	Suggestion *services.Suggestion `json:"suggestion"`
}

// ReconcileResponse wraps a committed reconciliation decision.
type ReconcileResponse struct {
	Reconciliation *services.ReconcileResult `json:"reconciliation"`
}

// ImportStatement handles a bank statement upload (CSV, OFX or QFX).
// Re-uploading the same statement is safe: known rows are skipped.
// @Summary     Import a bank statement
// @Description Upload a CSV, OFX or QFX export. Rows already stored are skipped; a known row with a new balance only updates the balance.
// @Tags        bank-transactions
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file formData file true "Statement export"
// @Success     200 {object} ImportResponse "Import summary"
// @Failure     400 {object} ErrorResponse "Missing, unreadable or unsupported file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank-transactions/import [post]
func (h *BankTransactionHandler) ImportStatement(c *gin.Context) {
	operatorID, err := getOperatorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "A statement file is required in the \"file\" field"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}
	defer file.Close()

	summary, err := h.bankTxnService.ImportStatement(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(operatorID, services.AuditActionImportStatement, "bank_statement", "", c.ClientIP(),
		map[string]interface{}{
			"filename":        fileHeader.Filename,
			"parsed":          summary.Parsed,
			"inserted":        summary.Inserted,
			"balance_updated": summary.BalanceUpdated,
			"row_errors":      len(summary.RowErrors),
		})

	c.JSON(http.StatusOK, ImportResponse{Import: summary})
}

// ListBankTransactionsQuery holds the list filters.
type ListBankTransactionsQuery struct {
	pagination.PageRequest
	Status string `form:"status" binding:"omitempty,bank_status"`
}

// ListBankTransactions returns statement lines, newest first, optionally
// filtered by reconciliation status.
// @Summary     List bank transactions
// @Description Get a paginated list of statement lines, newest first
// @Tags        bank-transactions
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status" Enums(PENDING, MATCHED, IGNORED)
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BankTransaction] "Paginated statement lines"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank-transactions [get]
func (h *BankTransactionHandler) ListBankTransactions(c *gin.Context) {
	if _, err := getOperatorID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var query ListBankTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	query.Defaults()

	var status *models.BankTransactionStatus
	if query.Status != "" {
		s := models.BankTransactionStatus(query.Status)
		status = &s
	}

	page, err := h.bankTxnService.ListBankTransactions(c.Request.Context(), status, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetBankTransaction returns one statement line.
// @Summary     Get a bank transaction
// @Tags        bank-transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Bank transaction ID"
// @Success     200 {object} BankTransactionResponse "Statement line"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /bank-transactions/{id} [get]
func (h *BankTransactionHandler) GetBankTransaction(c *gin.Context) {
	if _, err := getOperatorID(c); err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	bankTxn, err := h.bankTxnService.GetBankTransactionByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, BankTransactionResponse{BankTransaction: bankTxn})
}

// GetSuggestion returns the member suggestion and potential duplicates for a
// statement line. It never writes.
// @Summary     Suggest a member and duplicates
// @Description Learned memo match first, then fuzzy name match, plus ledger transactions that may already record this line
// @Tags        bank-transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Bank transaction ID"
// @Success     200 {object} SuggestionResponse "Suggestion"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank-transactions/{id}/suggestion [get]
func (h *BankTransactionHandler) GetSuggestion(c *gin.Context) {
	if _, err := getOperatorID(c); err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	suggestion, err := h.matchService.Suggest(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuggestionResponse{Suggestion: suggestion})
}

// ReconcileRequest is the operator's decision on a statement line. Which
// fields are required depends on the action and is checked by the service.
type ReconcileRequest struct {
	Action        string `json:"action" binding:"required,reconcile_action"`
	MemberID      string `json:"member_id" binding:"omitempty,uuid"`
	PaymentType   string `json:"payment_type" binding:"omitempty,payment_type"`
	TransactionID string `json:"transaction_id" binding:"omitempty,uuid"`
}

// Reconcile applies a create, link or ignore decision to a PENDING
// statement line. A second decision on the same line returns 409.
// @Summary     Reconcile a bank transaction
// @Description Create a ledger transaction, link an existing one, or ignore the line. Exactly one decision succeeds per line.
// @Tags        bank-transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string           true "Bank transaction ID"
// @Param       request body ReconcileRequest true "Decision"
// @Success     200 {object} ReconcileResponse "Committed decision"
// @Failure     400 {object} ErrorResponse "Invalid decision"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Bank transaction, member or transaction not found"
// @Failure     409 {object} ErrorResponse "Already processed, already linked or duplicate external id"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank-transactions/{id}/reconcile [post]
func (h *BankTransactionHandler) Reconcile(c *gin.Context) {
	operatorID, err := getOperatorID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidDecision, err.Error()))
		return
	}

	decision := services.ReconcileDecision{
		Action:        services.ReconcileAction(req.Action),
		MemberID:      req.MemberID,
		TransactionID: req.TransactionID,
	}
	if req.PaymentType != "" {
		pt, parseErr := models.ParsePaymentType(req.PaymentType)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidDecision, parseErr.Error()))
			return
		}
		decision.PaymentType = pt
	}

	result, err := h.reconciliationService.Reconcile(c.Request.Context(), operatorID, id, decision)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{"action": req.Action, "outcome": result.Outcome}
	if result.Transaction != nil {
		changes["transaction_id"] = result.Transaction.ID
	}
	if req.MemberID != "" {
		changes["member_id"] = req.MemberID
	}
	h.auditService.Log(operatorID, services.AuditActionReconcile, "bank_transaction", id, c.ClientIP(), changes)

	c.JSON(http.StatusOK, ReconcileResponse{Reconciliation: result})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "churchbooks/internal/errors"
	"churchbooks/internal/models"
	"churchbooks/internal/services"
)

// PipelineOperatorID is recorded as collector and audit operator for
// payments posted by automated pipelines when the route does not set one.
const PipelineOperatorID = "pipeline"

// PipelineHandler accepts payments discovered by automated pipelines such as
// the payment-notification email poller.
type PipelineHandler struct {
	ingestionService services.IngestionServicer
	auditService     services.AuditServicer
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(ingestionService services.IngestionServicer, auditService services.AuditServicer) *PipelineHandler {
	return &PipelineHandler{ingestionService: ingestionService, auditService: auditService}
}

// IngestPaymentsRequest is a batch of payment notices.
type IngestPaymentsRequest struct {
	Payments []PaymentNoticeEntry `json:"payments" binding:"required,min=1,max=500,dive"`
}

// PaymentNoticeEntry is one notice in a batch. MessageID is the source
// system's stable id (for email, the message id) and makes replays safe.
type PaymentNoticeEntry struct {
	MessageID     string          `json:"message_id" binding:"required,max=255"`
	MemberID      *string         `json:"member_id" binding:"omitempty,uuid"`
	PayerName     string          `json:"payer_name" binding:"max=255"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date" binding:"required"`
	PaymentType   string          `json:"payment_type" binding:"omitempty,payment_type"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,payment_method"`
	Memo          string          `json:"memo" binding:"max=500"`
}

// IngestPaymentsResponse lists one result per notice, in request order.
type IngestPaymentsResponse struct {
	Results []services.IngestResult `json:"results"`
}

// IngestPayments records every notice independently and reports a
// created, exists or failed status for each, in request order.
// @Summary     Ingest payment notices
// @Description Record payments found by an automated pipeline. Replaying a message id reports "exists" with the original transaction id.
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    PipelineKey
// @Param       request body IngestPaymentsRequest true "Payment notices"
// @Success     200 {object} IngestPaymentsResponse "Per-notice results"
// @Failure     400 {object} ErrorResponse "Invalid batch"
// @Failure     401 {object} ErrorResponse "Missing or wrong pipeline key"
// @Router      /pipeline/payments [post]
func (h *PipelineHandler) IngestPayments(c *gin.Context) {
	operatorID, err := getOperatorID(c)
	if err != nil {
		operatorID = PipelineOperatorID
	}

	var req IngestPaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	notices := make([]services.PaymentNotice, 0, len(req.Payments))
	for _, p := range req.Payments {
		paymentDate, err := parseFlexibleTime(p.PaymentDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		notice := services.PaymentNotice{
			MessageID:   p.MessageID,
			MemberID:    p.MemberID,
			PayerName:   p.PayerName,
			Amount:      p.Amount,
			PaymentDate: paymentDate,
			Memo:        p.Memo,
		}
		if p.PaymentType != "" {
			notice.PaymentType, _ = models.ParsePaymentType(p.PaymentType)
		}
		if p.PaymentMethod != "" {
			notice.PaymentMethod, _ = models.ParsePaymentMethod(p.PaymentMethod)
		}
		notices = append(notices, notice)
	}

	results := h.ingestionService.IngestPayments(c.Request.Context(), operatorID, notices)

	counts := map[services.IngestStatus]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	h.auditService.Log(operatorID, services.AuditActionIngestPayments, "transaction", "", c.ClientIP(),
		map[string]interface{}{
			"created": counts[services.IngestStatusCreated],
			"exists":  counts[services.IngestStatusExists],
			"failed":  counts[services.IngestStatusFailed],
		})

	c.JSON(http.StatusOK, IngestPaymentsResponse{Results: results})
}

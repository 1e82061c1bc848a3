package handlers

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "churchbooks/internal/errors"
	"churchbooks/internal/models"
	"churchbooks/internal/pagination"
	"churchbooks/internal/services"
	"churchbooks/internal/statement"
)

const bankTxnID = "0190a1b2-0000-7000-8000-000000000001"

// --- mock bank transaction service ---

type mockBankTransactionService struct {
	importStatementFn        func(filename string, r io.Reader) (*services.ImportSummary, error)
	getBankTransactionByIDFn func(id string) (*models.BankTransaction, error)
	listBankTransactionsFn   func(status *models.BankTransactionStatus, page pagination.PageRequest) (*pagination.PageResponse[models.BankTransaction], error)
}

func (m *mockBankTransactionService) ImportStatement(_ context.Context, filename string, r io.Reader) (*services.ImportSummary, error) {
	if m.importStatementFn != nil {
		return m.importStatementFn(filename, r)
	}
	return &services.ImportSummary{}, nil
}

func (m *mockBankTransactionService) ImportCandidates(_ context.Context, _ []statement.Candidate) (*services.ImportSummary, error) {
	return &services.ImportSummary{}, nil
}

func (m *mockBankTransactionService) GetBankTransactionByID(_ context.Context, id string) (*models.BankTransaction, error) {
	if m.getBankTransactionByIDFn != nil {
		return m.getBankTransactionByIDFn(id)
	}
	return &models.BankTransaction{}, nil
}

func (m *mockBankTransactionService) ListBankTransactions(_ context.Context, status *models.BankTransactionStatus, page pagination.PageRequest) (*pagination.PageResponse[models.BankTransaction], error) {
	if m.listBankTransactionsFn != nil {
		return m.listBankTransactionsFn(status, page)
	}
	resp := pagination.NewPageResponse([]models.BankTransaction{}, page, 0)
	return &resp, nil
}

var _ services.BankTransactionServicer = (*mockBankTransactionService)(nil)

// --- mock match service ---

type mockMatchService struct {
	suggestFn func(bankTxnID string) (*services.Suggestion, error)
}

func (m *mockMatchService) SuggestMember(_ context.Context, _ services.MatchQuery) (*services.MemberMatch, error) {
	return &services.MemberMatch{Source: services.MatchSourceNone}, nil
}

func (m *mockMatchService) Suggest(_ context.Context, bankTxnID string) (*services.Suggestion, error) {
	if m.suggestFn != nil {
		return m.suggestFn(bankTxnID)
	}
	return &services.Suggestion{BankTransactionID: bankTxnID}, nil
}

func (m *mockMatchService) LearnMatch(_ context.Context, _ string, _ *models.Member) error {
	return nil
}

var _ services.MatchServicer = (*mockMatchService)(nil)

// --- mock reconciliation service ---

type mockReconciliationService struct {
	reconcileFn func(operatorID, bankTxnID string, decision services.ReconcileDecision) (*services.ReconcileResult, error)
}

func (m *mockReconciliationService) Reconcile(_ context.Context, operatorID, bankTxnID string, decision services.ReconcileDecision) (*services.ReconcileResult, error) {
	if m.reconcileFn != nil {
		return m.reconcileFn(operatorID, bankTxnID, decision)
	}
	return &services.ReconcileResult{Outcome: services.ReconcileOutcomeIgnored}, nil
}

var _ services.ReconciliationServicer = (*mockReconciliationService)(nil)

type bankHandlerMocks struct {
	bankTxns *mockBankTransactionService
	matches  *mockMatchService
	recon    *mockReconciliationService
	audit    *mockAuditService
}

func newBankHandlerMocks() *bankHandlerMocks {
	return &bankHandlerMocks{
		bankTxns: &mockBankTransactionService{},
		matches:  &mockMatchService{},
		recon:    &mockReconciliationService{},
		audit:    &mockAuditService{},
	}
}

func setupBankTransactionRouter(m *bankHandlerMocks) *gin.Engine {
	handler := NewBankTransactionHandler(m.bankTxns, m.matches, m.recon, m.audit, 1<<20)
	r := gin.New()
	auth := r.Group("", injectOperatorID(testOperatorID))
	auth.POST("/bank-transactions/import", handler.ImportStatement)
	auth.GET("/bank-transactions", handler.ListBankTransactions)
	auth.GET("/bank-transactions/:id", handler.GetBankTransaction)
	auth.GET("/bank-transactions/:id/suggestion", handler.GetSuggestion)
	auth.POST("/bank-transactions/:id/reconcile", handler.Reconcile)
	return r
}

func TestBankTransactionHandler_ImportStatement(t *testing.T) {
	t.Run("returns 200 with summary", func(t *testing.T) {
		m := newBankHandlerMocks()
		var gotName, gotBody string
		m.bankTxns.importStatementFn = func(filename string, r io.Reader) (*services.ImportSummary, error) {
			gotName = filename
			b, _ := io.ReadAll(r)
			gotBody = string(b)
			return &services.ImportSummary{
				Parsed:    2,
				Inserted:  1,
				Skipped:   1,
				RowErrors: []statement.RowError{{Row: 4, Err: "invalid posting date \"x\""}},
			}, nil
		}
		r := setupBankTransactionRouter(m)

		rec := doUpload(t, r, "/bank-transactions/import", "file", "march.csv", "Posting Date,Description,Amount\n")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotName != "march.csv" || gotBody != "Posting Date,Description,Amount\n" {
			t.Errorf("service received %q / %q", gotName, gotBody)
		}
		summary := parseJSON(t, rec)["import"].(map[string]interface{})
		if summary["inserted"].(float64) != 1 {
			t.Errorf("expected inserted 1, got %v", summary["inserted"])
		}
		if len(summary["row_errors"].([]interface{})) != 1 {
			t.Errorf("expected one row error, got %v", summary["row_errors"])
		}
		if len(m.audit.calls) != 1 || m.audit.calls[0].action != services.AuditActionImportStatement {
			t.Errorf("expected import to be audited, got %+v", m.audit.calls)
		}
	})

	t.Run("returns 400 without file", func(t *testing.T) {
		r := setupBankTransactionRouter(newBankHandlerMocks())

		rec := doUpload(t, r, "/bank-transactions/import", "statement", "march.csv", "x")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on unreadable statement", func(t *testing.T) {
		m := newBankHandlerMocks()
		m.bankTxns.importStatementFn = func(string, io.Reader) (*services.ImportSummary, error) {
			return nil, apperrors.ErrUnsupportedStatement
		}
		r := setupBankTransactionRouter(m)

		rec := doUpload(t, r, "/bank-transactions/import", "file", "junk.csv", "foo,bar\n")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNSUPPORTED_STATEMENT")
		if len(m.audit.calls) != 0 {
			t.Error("failed imports must not be audited")
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		m := newBankHandlerMocks()
		handler := NewBankTransactionHandler(m.bankTxns, m.matches, m.recon, m.audit, 0)
		r := gin.New()
		r.POST("/bank-transactions/import", handler.ImportStatement)

		rec := doUpload(t, r, "/bank-transactions/import", "file", "march.csv", "x")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestBankTransactionHandler_ListBankTransactions(t *testing.T) {
	t.Run("passes status and page", func(t *testing.T) {
		m := newBankHandlerMocks()
		var gotStatus *models.BankTransactionStatus
		var gotPage pagination.PageRequest
		m.bankTxns.listBankTransactionsFn = func(status *models.BankTransactionStatus, page pagination.PageRequest) (*pagination.PageResponse[models.BankTransaction], error) {
			gotStatus, gotPage = status, page
			resp := pagination.NewPageResponse([]models.BankTransaction{{Description: "DEPOSIT"}}, page, 1)
			return &resp, nil
		}
		r := setupBankTransactionRouter(m)

		rec := doRequest(r, "GET", "/bank-transactions?status=PENDING&page=2&page_size=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotStatus == nil || *gotStatus != models.BankTransactionStatusPending {
			t.Errorf("expected PENDING filter, got %v", gotStatus)
		}
		if gotPage.Page != 2 || gotPage.PageSize != 10 {
			t.Errorf("expected page 2 size 10, got %+v", gotPage)
		}
	})

	t.Run("defaults without filters", func(t *testing.T) {
		m := newBankHandlerMocks()
		var gotStatus *models.BankTransactionStatus
		var gotPage pagination.PageRequest
		m.bankTxns.listBankTransactionsFn = func(status *models.BankTransactionStatus, page pagination.PageRequest) (*pagination.PageResponse[models.BankTransaction], error) {
			gotStatus, gotPage = status, page
			resp := pagination.NewPageResponse([]models.BankTransaction{}, page, 0)
			return &resp, nil
		}
		r := setupBankTransactionRouter(m)

		rec := doRequest(r, "GET", "/bank-transactions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotStatus != nil || gotPage.Page != 1 || gotPage.PageSize != 20 {
			t.Errorf("expected no filter and default page, got %v %+v", gotStatus, gotPage)
		}
	})

	t.Run("returns 400 on unknown status", func(t *testing.T) {
		r := setupBankTransactionRouter(newBankHandlerMocks())

		rec := doRequest(r, "GET", "/bank-transactions?status=DONE", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBankTransactionHandler_GetBankTransaction(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		m := newBankHandlerMocks()
		m.bankTxns.getBankTransactionByIDFn = func(id string) (*models.BankTransaction, error) {
			return &models.BankTransaction{Base: models.Base{ID: id}, Status: models.BankTransactionStatusPending}, nil
		}
		r := setupBankTransactionRouter(m)

		rec := doRequest(r, "GET", "/bank-transactions/"+bankTxnID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		txn := parseJSON(t, rec)["bank_transaction"].(map[string]interface{})
		if txn["id"] != bankTxnID {
			t.Errorf("expected id %s, got %v", bankTxnID, txn["id"])
		}
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		r := setupBankTransactionRouter(newBankHandlerMocks())

		rec := doRequest(r, "GET", "/bank-transactions/42", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		m := newBankHandlerMocks()
		m.bankTxns.getBankTransactionByIDFn = func(string) (*models.BankTransaction, error) {
			return nil, apperrors.ErrBankTransactionNotFound
		}
		r := setupBankTransactionRouter(m)

		rec := doRequest(r, "GET", "/bank-transactions/"+bankTxnID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BANK_TRANSACTION_NOT_FOUND")
	})
}

func TestBankTransactionHandler_GetSuggestion(t *testing.T) {
	m := newBankHandlerMocks()
	m.matches.suggestFn = func(id string) (*services.Suggestion, error) {
		return &services.Suggestion{
			BankTransactionID: id,
			MemberMatch: services.MemberMatch{
				Source:     services.MatchSourceNone,
				CleanMemo:  "TESFAY",
				Ambiguous:  true,
				Candidates: []models.Member{{FirstName: "Almaz", LastName: "Tesfay"}, {FirstName: "Dawit", LastName: "Tesfay"}},
			},
			PotentialDuplicates: []services.DuplicateCandidate{},
		}, nil
	}
	r := setupBankTransactionRouter(m)

	rec := doRequest(r, "GET", "/bank-transactions/"+bankTxnID+"/suggestion", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	s := parseJSON(t, rec)["suggestion"].(map[string]interface{})
	if s["match_source"] != "none" || s["ambiguous"] != true {
		t.Errorf("unexpected suggestion %v", s)
	}
	if _, ok := s["member"]; ok {
		t.Error("ambiguous suggestion must not carry a member")
	}
	if len(s["candidates"].([]interface{})) != 2 {
		t.Errorf("expected 2 candidates, got %v", s["candidates"])
	}
	if dups, ok := s["potential_duplicates"].([]interface{}); !ok || len(dups) != 0 {
		t.Errorf("expected empty duplicate list, got %v", s["potential_duplicates"])
	}
}

func TestBankTransactionHandler_Reconcile(t *testing.T) {
	memberID := "0190a1b2-0000-7000-8000-0000000000bb"

	t.Run("create returns 200 and is audited", func(t *testing.T) {
		m := newBankHandlerMocks()
		var got services.ReconcileDecision
		var gotOperator string
		m.recon.reconcileFn = func(operatorID, id string, d services.ReconcileDecision) (*services.ReconcileResult, error) {
			got, gotOperator = d, operatorID
			return &services.ReconcileResult{
				Outcome:         services.ReconcileOutcomeCreated,
				BankTransaction: &models.BankTransaction{Base: models.Base{ID: id}, Status: models.BankTransactionStatusMatched},
				Transaction:     &models.Transaction{Base: models.Base{ID: "tx-1"}},
			}, nil
		}
		r := setupBankTransactionRouter(m)

		rec := doRequest(r, "POST", "/bank-transactions/"+bankTxnID+"/reconcile",
			`{"action":"create","member_id":"`+memberID+`","payment_type":"Tithes"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Action != services.ReconcileActionCreate || got.MemberID != memberID {
			t.Errorf("unexpected decision %+v", got)
		}
		if got.PaymentType != models.PaymentTypeTithe {
			t.Errorf("expected payment type normalized to tithe, got %s", got.PaymentType)
		}
		if gotOperator != testOperatorID {
			t.Errorf("expected operator %s, got %s", testOperatorID, gotOperator)
		}
		result := parseJSON(t, rec)["reconciliation"].(map[string]interface{})
		if result["outcome"] != "created" {
			t.Errorf("expected created, got %v", result["outcome"])
		}
		if len(m.audit.calls) != 1 || m.audit.calls[0].resourceID != bankTxnID {
			t.Errorf("expected reconcile audit on %s, got %+v", bankTxnID, m.audit.calls)
		}
	})

	t.Run("returns 409 when already processed", func(t *testing.T) {
		m := newBankHandlerMocks()
		m.recon.reconcileFn = func(_, id string, _ services.ReconcileDecision) (*services.ReconcileResult, error) {
			return nil, apperrors.WithResourceID(apperrors.ErrAlreadyProcessed, id)
		}
		r := setupBankTransactionRouter(m)

		rec := doRequest(r, "POST", "/bank-transactions/"+bankTxnID+"/reconcile", `{"action":"ignore"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "ALREADY_PROCESSED")
		if len(m.audit.calls) != 0 {
			t.Error("rejected decisions must not be audited")
		}
	})

	t.Run("returns 400 on unknown action", func(t *testing.T) {
		r := setupBankTransactionRouter(newBankHandlerMocks())

		rec := doRequest(r, "POST", "/bank-transactions/"+bankTxnID+"/reconcile", `{"action":"merge"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_DECISION")
	})

	t.Run("returns 400 on unknown payment type", func(t *testing.T) {
		r := setupBankTransactionRouter(newBankHandlerMocks())

		rec := doRequest(r, "POST", "/bank-transactions/"+bankTxnID+"/reconcile",
			`{"action":"create","member_id":"`+memberID+`","payment_type":"raffle"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed member id", func(t *testing.T) {
		r := setupBankTransactionRouter(newBankHandlerMocks())

		rec := doRequest(r, "POST", "/bank-transactions/"+bankTxnID+"/reconcile",
			`{"action":"create","member_id":"42","payment_type":"tithe"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

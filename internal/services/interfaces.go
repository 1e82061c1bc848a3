package services

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"churchbooks/internal/models"
	"churchbooks/internal/pagination"
	"churchbooks/internal/statement"
)

// MemberServicer is the read-only view of the member directory used by matching.
type MemberServicer interface {
	GetMemberByID(ctx context.Context, id string) (*models.Member, error)
	SearchByNameTokens(ctx context.Context, tokens []string) ([]models.Member, error)
}

// ImportSummary reports what one statement import did.
type ImportSummary struct {
	Parsed         int                  `json:"parsed"`
	Inserted       int                  `json:"inserted"`
	BalanceUpdated int                  `json:"balance_updated"`
	Skipped        int                  `json:"skipped"`
	RowErrors      []statement.RowError `json:"row_errors"`
}

// BankTransactionServicer defines the contract for importing and reading
// bank statement lines.
type BankTransactionServicer interface {
	ImportStatement(ctx context.Context, filename string, r io.Reader) (*ImportSummary, error)
	ImportCandidates(ctx context.Context, candidates []statement.Candidate) (*ImportSummary, error)
	GetBankTransactionByID(ctx context.Context, id string) (*models.BankTransaction, error)
	ListBankTransactions(ctx context.Context, status *models.BankTransactionStatus, page pagination.PageRequest) (*pagination.PageResponse[models.BankTransaction], error)
}

// CreateTransactionInput carries a new ledger transaction from any source.
type CreateTransactionInput struct {
	MemberID      *string                  `json:"member_id"`
	CollectedBy   *string                  `json:"collected_by"`
	PaymentDate   time.Time                `json:"payment_date"`
	Amount        decimal.Decimal          `json:"amount"`
	PaymentType   models.PaymentType       `json:"payment_type"`
	PaymentMethod models.PaymentMethod     `json:"payment_method"`
	Status        models.TransactionStatus `json:"status"`
	ReceiptNumber *string                  `json:"receipt_number"`
	Note          string                   `json:"note"`
	ExternalID    *string                  `json:"external_id"`
	SourceRef     *string                  `json:"source_ref"`
}

// TransactionServicer defines the contract for ledger transactions.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, input CreateTransactionInput) (*models.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error)
	FindPotentialDuplicates(ctx context.Context, bankTxn *models.BankTransaction) ([]models.Transaction, error)
}

// LedgerEntryServicer keeps the accounting mirror of ledger transactions in sync.
type LedgerEntryServicer interface {
	SyncFromTransaction(ctx context.Context, txn *models.Transaction) (*models.LedgerEntry, error)
}

// MatchSource tells the operator where a member suggestion came from.
type MatchSource string

const (
	MatchSourceLearned MatchSource = "learned"
	MatchSourceFuzzy   MatchSource = "fuzzy"
	MatchSourceNone    MatchSource = "none"
)

// MatchQuery is the text a member suggestion is derived from.
type MatchQuery struct {
	Description string
	Type        models.BankTransactionType
	PayerName   string
}

// MemberMatch is the result of the learned-then-fuzzy member lookup. Member
// is set only when the match is actionable; an ambiguous fuzzy match lists
// the tied members in Candidates instead.
type MemberMatch struct {
	Source     MatchSource     `json:"match_source"`
	CleanMemo  string          `json:"clean_memo"`
	Member     *models.Member  `json:"member,omitempty"`
	Ambiguous  bool            `json:"ambiguous"`
	Candidates []models.Member `json:"candidates,omitempty"`
}

// Suggestion is everything the operator sees before deciding on a pending
// bank transaction.
type Suggestion struct {
	BankTransactionID string `json:"bank_transaction_id"`
	MemberMatch
	PotentialDuplicates []DuplicateCandidate `json:"potential_duplicates"`
}

// DuplicateCandidate is a ledger transaction that may already record a bank
// transaction. Linkable tells whether a link decision on it would be
// accepted.
type DuplicateCandidate struct {
	models.Transaction
	Linkable bool `json:"linkable"`
}

// MatchServicer defines the contract for member suggestions.
type MatchServicer interface {
	SuggestMember(ctx context.Context, query MatchQuery) (*MemberMatch, error)
	Suggest(ctx context.Context, bankTxnID string) (*Suggestion, error)
	LearnMatch(ctx context.Context, cleanMemo string, member *models.Member) error
}

// ReconcileAction is the operator's decision on a pending bank transaction.
type ReconcileAction string

const (
	ReconcileActionCreate ReconcileAction = "create"
	ReconcileActionLink   ReconcileAction = "link"
	ReconcileActionIgnore ReconcileAction = "ignore"
)

// ReconcileDecision is the operator's input for one bank transaction.
type ReconcileDecision struct {
	Action        ReconcileAction
	MemberID      string
	PaymentType   models.PaymentType
	TransactionID string
}

// ReconcileOutcome distinguishes the successful results of a reconciliation.
// "Already processed" and hard failures are reported as errors.
type ReconcileOutcome string

const (
	ReconcileOutcomeCreated ReconcileOutcome = "created"
	ReconcileOutcomeLinked  ReconcileOutcome = "linked"
	ReconcileOutcomeIgnored ReconcileOutcome = "ignored"
)

// ReconcileResult is returned by a committed reconciliation.
type ReconcileResult struct {
	Outcome         ReconcileOutcome        `json:"outcome"`
	BankTransaction *models.BankTransaction `json:"bank_transaction"`
	Transaction     *models.Transaction     `json:"transaction,omitempty"`
}

// ReconciliationServicer commits operator decisions.
type ReconciliationServicer interface {
	Reconcile(ctx context.Context, operatorID, bankTxnID string, decision ReconcileDecision) (*ReconcileResult, error)
}

// PaymentNotice is one externally observed payment, typically parsed from a
// bank's payment notification email.
type PaymentNotice struct {
	MessageID     string
	MemberID      *string
	PayerName     string
	Amount        decimal.Decimal
	PaymentDate   time.Time
	PaymentType   models.PaymentType
	PaymentMethod models.PaymentMethod
	Memo          string
}

// IngestStatus is the per-notice outcome of a batch ingestion.
type IngestStatus string

const (
	IngestStatusCreated IngestStatus = "created"
	IngestStatusExists  IngestStatus = "exists"
	IngestStatusFailed  IngestStatus = "failed"
)

// IngestResult reports what happened to one notice.
type IngestResult struct {
	MessageID     string       `json:"message_id"`
	Status        IngestStatus `json:"status"`
	TransactionID string       `json:"transaction_id,omitempty"`
	MemberID      *string      `json:"member_id,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// IngestionServicer records payments discovered by automated pipelines.
type IngestionServicer interface {
	IngestPayments(ctx context.Context, operatorID string, notices []PaymentNotice) []IngestResult
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(operatorID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}

package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"churchbooks/internal/models"
	"churchbooks/internal/testutil"
)

func newIngestionService(db *gorm.DB) IngestionServicer {
	members := NewMemberService(db)
	transactions := NewTransactionService(db, NewLedgerEntryService(db), 0)
	return NewIngestionService(transactions, NewMatchService(db, members, transactions))
}

func notice(messageID, amount string) PaymentNotice {
	return PaymentNotice{
		MessageID:   messageID,
		Amount:      decimal.RequireFromString(amount),
		PaymentDate: testutil.Date(2024, 5, 2),
	}
}

func TestIngestPayments_DuplicateMessageID(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newIngestionService(db)

	results := svc.IngestPayments(ctx, operatorID, []PaymentNotice{
		notice("18f2c0a9d1e", "50.00"),
		notice("18f2c0a9d1e", "50.00"),
	})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != IngestStatusCreated {
		t.Errorf("expected first notice created, got %s (%s)", results[0].Status, results[0].Error)
	}
	if results[1].Status != IngestStatusExists {
		t.Errorf("expected replay to report exists, got %s (%s)", results[1].Status, results[1].Error)
	}
	if results[1].TransactionID != results[0].TransactionID {
		t.Errorf("expected replay to point at %s, got %s", results[0].TransactionID, results[1].TransactionID)
	}
	if n := countTransactions(t, db); n != 1 {
		t.Errorf("expected a single transaction, got %d", n)
	}
}

func TestIngestPayments_Defaults(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newIngestionService(db)

	n := notice("msg-defaults", "20.00")
	n.PayerName = "Unknown Sender"
	n.Memo = "  building roof  "
	results := svc.IngestPayments(ctx, operatorID, []PaymentNotice{n})

	if results[0].Status != IngestStatusCreated {
		t.Fatalf("expected created, got %s (%s)", results[0].Status, results[0].Error)
	}

	var tx models.Transaction
	db.Where("id = ?", results[0].TransactionID).First(&tx)
	if tx.PaymentType != models.PaymentTypeDonation || tx.PaymentMethod != models.PaymentMethodZelle {
		t.Errorf("expected donation via zelle, got %s via %s", tx.PaymentType, tx.PaymentMethod)
	}
	if tx.Note != "From Unknown Sender: building roof" {
		t.Errorf("unexpected note %q", tx.Note)
	}
	if tx.ExternalID == nil || *tx.ExternalID != "msg-defaults" {
		t.Errorf("expected external id to be the message id")
	}
	if tx.MemberID != nil {
		t.Errorf("expected no member for an unknown sender")
	}
}

func TestIngestPayments_MemberAttribution(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newIngestionService(db)

	almaz := testutil.CreateTestMember(t, db, "Almaz", "Tesfay")
	testutil.CreateTestMember(t, db, "Dawit", "Tesfay")
	explicit := testutil.CreateRandomMember(t, db)

	unique := notice("msg-unique", "30.00")
	unique.PayerName = "ALMAZ TESFAY"

	ambiguous := notice("msg-ambiguous", "30.00")
	ambiguous.PayerName = "TESFAY"

	given := notice("msg-explicit", "30.00")
	given.PayerName = "ALMAZ TESFAY"
	given.MemberID = &explicit.ID

	results := svc.IngestPayments(ctx, operatorID, []PaymentNotice{unique, ambiguous, given})

	if results[0].MemberID == nil || *results[0].MemberID != almaz.ID {
		t.Errorf("expected unique payer to be attributed to %s", almaz.ID)
	}
	if results[1].Status != IngestStatusCreated || results[1].MemberID != nil {
		t.Errorf("expected ambiguous payer created without member, got %+v", results[1])
	}
	if results[2].MemberID == nil || *results[2].MemberID != explicit.ID {
		t.Errorf("expected explicit member %s to win", explicit.ID)
	}
}

func TestIngestPayments_FailuresAreIsolated(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newIngestionService(db)

	missingMember := notice("msg-bad-member", "10.00")
	missingMember.MemberID = strPtr("0190a1b2-0000-7000-8000-000000000000")

	results := svc.IngestPayments(ctx, operatorID, []PaymentNotice{
		notice("", "10.00"),
		notice("msg-zero", "0"),
		missingMember,
		notice("msg-good", "10.00"),
	})

	for i, want := range []IngestStatus{IngestStatusFailed, IngestStatusFailed, IngestStatusFailed, IngestStatusCreated} {
		if results[i].Status != want {
			t.Errorf("result %d: expected %s, got %s (%s)", i, want, results[i].Status, results[i].Error)
		}
	}
	if results[0].Error == "" {
		t.Error("expected an error message for the missing message id")
	}
	if n := countTransactions(t, db); n != 1 {
		t.Errorf("expected only the good notice to be stored, got %d", n)
	}
}

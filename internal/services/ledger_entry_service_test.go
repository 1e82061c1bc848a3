package services

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"churchbooks/internal/models"
	"churchbooks/internal/testutil"
)

func TestSyncFromTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("maps_payment_type_to_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerEntryService(db)

		tests := []struct {
			paymentType models.PaymentType
			code        string
		}{
			{models.PaymentTypeTithe, "4010"},
			{models.PaymentTypeOffering, "4020"},
			{models.PaymentTypeDonation, "4030"},
			{models.PaymentTypeMembershipDue, "4040"},
			{models.PaymentTypeOther, "4900"},
		}
		for _, tt := range tests {
			tx := testutil.CreateTestTransaction(t, db, "12.00", testutil.Date(2024, 1, 1),
				func(tx *models.Transaction) { tx.PaymentType = tt.paymentType })

			entry, err := svc.SyncFromTransaction(ctx, tx)
			testutil.AssertNoError(t, err)
			if entry.CategoryCode != tt.code {
				t.Errorf("%s: expected code %s, got %s", tt.paymentType, tt.code, entry.CategoryCode)
			}
		}
	})

	t.Run("unmapped_type_uses_default_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerEntryService(db)
		db.Where("payment_type = ?", models.PaymentTypeEvent).Delete(&models.IncomeCategory{})

		tx := testutil.CreateTestTransaction(t, db, "12.00", testutil.Date(2024, 1, 1),
			func(tx *models.Transaction) { tx.PaymentType = models.PaymentTypeEvent })

		entry, err := svc.SyncFromTransaction(ctx, tx)
		testutil.AssertNoError(t, err)
		if entry.CategoryCode != models.DefaultIncomeCategoryCode {
			t.Errorf("expected default code, got %s", entry.CategoryCode)
		}
	})

	t.Run("resync_updates_in_place", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerEntryService(db)

		tx := testutil.CreateTestTransaction(t, db, "12.00", testutil.Date(2024, 1, 1), testutil.WithExternalID("gmail-7"))
		first, err := svc.SyncFromTransaction(ctx, tx)
		testutil.AssertNoError(t, err)

		tx.Amount = decimal.RequireFromString("15.50")
		second, err := svc.SyncFromTransaction(ctx, tx)
		testutil.AssertNoError(t, err)

		if second.ID != first.ID {
			t.Errorf("expected the same entry to be updated")
		}
		if !second.Amount.Equal(decimal.RequireFromString("15.50")) {
			t.Errorf("expected amount 15.50, got %s", second.Amount)
		}
		if !strings.HasPrefix(second.Memo, "4030 donation ref:gmail-7") {
			t.Errorf("unexpected memo %q", second.Memo)
		}

		var count int64
		db.Model(&models.LedgerEntry{}).Count(&count)
		if count != 1 {
			t.Errorf("expected one ledger entry, got %d", count)
		}
	})

	t.Run("requires_persisted_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerEntryService(db)

		_, err := svc.SyncFromTransaction(ctx, &models.Transaction{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestLedgerMemo(t *testing.T) {
	ext := "gmail-7"
	tx := &models.Transaction{PaymentType: models.PaymentTypeTithe, ExternalID: &ext, Note: " From Almaz "}
	if got := ledgerMemo("4010", tx); got != "4010 tithe ref:gmail-7 From Almaz" {
		t.Errorf("unexpected memo %q", got)
	}
}

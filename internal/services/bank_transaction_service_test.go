package services

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"churchbooks/internal/models"
	"churchbooks/internal/pagination"
	"churchbooks/internal/testutil"
)

const statementCSV = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n" +
	"CREDIT,01/05/2024,Zelle payment from ALMAZ G TESFAY 27250625041,100.00,QUICKPAY_CREDIT,,\n" +
	"DEBIT,01/06/2024,MONTHLY SERVICE FEE,15.00,FEE_TRANSACTION,,\n" +
	"CHECK,01/07/2024,CHECK 1042,250.00,CHECK_DEPOSIT,,1042\n" +
	"CREDIT,not-a-date,BROKEN,1.00,MISC,,\n"

func TestImportStatement(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts_new_rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankTransactionService(db)

		summary, err := svc.ImportStatement(ctx, "chase.csv", strings.NewReader(statementCSV))
		testutil.AssertNoError(t, err)

		if summary.Parsed != 3 || summary.Inserted != 3 {
			t.Errorf("expected 3 parsed and inserted, got %+v", summary)
		}
		if len(summary.RowErrors) != 1 || summary.RowErrors[0].Row != 5 {
			t.Errorf("expected one row error on row 5, got %+v", summary.RowErrors)
		}

		var fee models.BankTransaction
		if err := db.Where("description = ?", "MONTHLY SERVICE FEE").First(&fee).Error; err != nil {
			t.Fatalf("fee row not stored: %v", err)
		}
		if !fee.Amount.Equal(decimal.RequireFromString("-15")) {
			t.Errorf("expected fee stored as -15, got %s", fee.Amount)
		}
		if fee.Status != models.BankTransactionStatusPending {
			t.Errorf("expected PENDING, got %s", fee.Status)
		}
	})

	t.Run("second_import_is_a_no_op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankTransactionService(db)

		_, err := svc.ImportStatement(ctx, "chase.csv", strings.NewReader(statementCSV))
		testutil.AssertNoError(t, err)
		summary, err := svc.ImportStatement(ctx, "chase.csv", strings.NewReader(statementCSV))
		testutil.AssertNoError(t, err)

		if summary.Inserted != 0 || summary.Skipped != 3 {
			t.Errorf("expected 0 inserted and 3 skipped, got %+v", summary)
		}

		var count int64
		db.Model(&models.BankTransaction{}).Count(&count)
		if count != 3 {
			t.Errorf("expected 3 rows after re-import, got %d", count)
		}
	})

	t.Run("balance_backfill_is_idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankTransactionService(db)

		pending := "Posting Date,Description,Amount,Balance\n01/05/2024,DEPOSIT,100.00,\n"
		posted := "Posting Date,Description,Amount,Balance\n01/05/2024,DEPOSIT,100.00,1100.00\n"
		corrected := "Posting Date,Description,Amount,Balance\n01/05/2024,DEPOSIT,100.00,999.00\n"

		_, err := svc.ImportStatement(ctx, "pending.csv", strings.NewReader(pending))
		testutil.AssertNoError(t, err)

		summary, err := svc.ImportStatement(ctx, "posted.csv", strings.NewReader(posted))
		testutil.AssertNoError(t, err)
		if summary.BalanceUpdated != 1 || summary.Inserted != 0 {
			t.Errorf("expected one balance update, got %+v", summary)
		}

		summary, err = svc.ImportStatement(ctx, "posted.csv", strings.NewReader(posted))
		testutil.AssertNoError(t, err)
		if summary.BalanceUpdated != 0 || summary.Skipped != 1 {
			t.Errorf("expected third import to be a no-op, got %+v", summary)
		}

		summary, err = svc.ImportStatement(ctx, "corrected.csv", strings.NewReader(corrected))
		testutil.AssertNoError(t, err)
		if summary.BalanceUpdated != 0 {
			t.Errorf("a stored balance must not be overwritten, got %+v", summary)
		}

		var stored models.BankTransaction
		if err := db.First(&stored).Error; err != nil {
			t.Fatalf("load row: %v", err)
		}
		if stored.Balance == nil || !stored.Balance.Equal(decimal.RequireFromString("1100")) {
			t.Errorf("expected balance 1100, got %v", stored.Balance)
		}
	})

	t.Run("backfill_leaves_reconciled_state_alone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankTransactionService(db)

		_, err := svc.ImportStatement(ctx, "a.csv", strings.NewReader("Posting Date,Description,Amount,Balance\n01/05/2024,DEPOSIT,100.00,\n"))
		testutil.AssertNoError(t, err)
		db.Model(&models.BankTransaction{}).Where("1 = 1").Update("status", models.BankTransactionStatusIgnored)

		_, err = svc.ImportStatement(ctx, "b.csv", strings.NewReader("Posting Date,Description,Amount,Balance\n01/05/2024,DEPOSIT,100.00,5.00\n"))
		testutil.AssertNoError(t, err)

		var stored models.BankTransaction
		db.First(&stored)
		if stored.Status != models.BankTransactionStatusIgnored {
			t.Errorf("expected status untouched, got %s", stored.Status)
		}
		if stored.Balance == nil {
			t.Error("expected balance to be backfilled")
		}
	})

	t.Run("missing_columns", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankTransactionService(db)

		_, err := svc.ImportStatement(ctx, "bad.csv", strings.NewReader("foo,bar\n1,2\n"))
		testutil.AssertAppError(t, err, "UNSUPPORTED_STATEMENT")
	})

	t.Run("ofx_by_extension", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankTransactionService(db)

		_, err := svc.ImportStatement(ctx, "download.QFX", strings.NewReader(statementCSV))
		testutil.AssertAppError(t, err, "UNSUPPORTED_STATEMENT")
	})
}

func TestGetBankTransactionByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankTransactionService(db)
		bankTxn := testutil.CreateTestBankTransaction(t, db, "DEPOSIT", "20.00", testutil.Date(2024, 2, 1))

		got, err := svc.GetBankTransactionByID(ctx, bankTxn.ID)
		testutil.AssertNoError(t, err)
		if got.Hash != bankTxn.Hash {
			t.Errorf("expected hash %s, got %s", bankTxn.Hash, got.Hash)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankTransactionService(db)

		_, err := svc.GetBankTransactionByID(ctx, "0190a1b2-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "BANK_TRANSACTION_NOT_FOUND")
	})
}

func TestListBankTransactions(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBankTransactionService(db)

	for i := 1; i <= 3; i++ {
		testutil.CreateTestBankTransaction(t, db, "DEPOSIT", "10.00", testutil.Date(2024, 3, i))
	}
	testutil.CreateTestBankTransaction(t, db, "TRANSFER", "10.00", testutil.Date(2024, 3, 9),
		testutil.WithStatus(models.BankTransactionStatusIgnored))

	t.Run("filter_by_status", func(t *testing.T) {
		status := models.BankTransactionStatusPending
		page, err := svc.ListBankTransactions(ctx, &status, pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 3 {
			t.Errorf("expected 3 pending, got %d", page.TotalItems)
		}
		if len(page.Data) != 2 || page.TotalPages != 2 {
			t.Errorf("expected 2 items on 2 pages, got %d items, %d pages", len(page.Data), page.TotalPages)
		}
		if !page.Data[0].TransactionDate.Equal(testutil.Date(2024, 3, 3)) {
			t.Errorf("expected newest first, got %s", page.Data[0].TransactionDate)
		}
	})

	t.Run("all_statuses", func(t *testing.T) {
		page, err := svc.ListBankTransactions(ctx, nil, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 4 {
			t.Errorf("expected 4 rows, got %d", page.TotalItems)
		}
	})
}

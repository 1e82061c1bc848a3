package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	apperrors "churchbooks/internal/errors"
	"churchbooks/internal/logger"
	"churchbooks/internal/models"
	"churchbooks/internal/pagination"
	"churchbooks/internal/statement"
)

// bankTransactionService handles statement imports and bank transaction reads.
type bankTransactionService struct {
	db *gorm.DB
}

// NewBankTransactionService creates a new BankTransactionServicer.
func NewBankTransactionService(db *gorm.DB) BankTransactionServicer {
	return &bankTransactionService{db: db}
}

// ImportStatement parses a statement file and stores its lines. OFX and QFX
// files are recognized by extension; everything else is read as CSV.
func (s *bankTransactionService) ImportStatement(ctx context.Context, filename string, r io.Reader) (*ImportSummary, error) {
	var (
		result *statement.Result
		err    error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ofx", ".qfx":
		result, err = statement.ParseOFX(r)
	default:
		result, err = statement.ParseCSV(r)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrUnsupportedStatement, err.Error()), err)
	}

	summary, err := s.ImportCandidates(ctx, result.Candidates)
	if err != nil {
		return nil, err
	}
	summary.RowErrors = append(summary.RowErrors, result.Errors...)

	logger.Named("import").Infow("statement imported",
		"file", filename,
		"parsed", summary.Parsed,
		"inserted", summary.Inserted,
		"balance_updated", summary.BalanceUpdated,
		"skipped", summary.Skipped,
		"row_errors", len(summary.RowErrors),
	)
	return summary, nil
}

// ImportCandidates inserts each candidate unless its hash is already stored.
// A stored row that has no balance takes the candidate's balance; nothing
// else about an existing row is ever changed.
func (s *bankTransactionService) ImportCandidates(ctx context.Context, candidates []statement.Candidate) (*ImportSummary, error) {
	summary := &ImportSummary{Parsed: len(candidates), RowErrors: []statement.RowError{}}
	db := s.db.WithContext(ctx)

	for i := range candidates {
		outcome, err := s.importCandidate(db, &candidates[i])
		if err != nil {
			return nil, err
		}
		switch outcome {
		case importInserted:
			summary.Inserted++
		case importBalanceUpdated:
			summary.BalanceUpdated++
		default:
			summary.Skipped++
		}
	}
	return summary, nil
}

type importOutcome int

const (
	importSkipped importOutcome = iota
	importInserted
	importBalanceUpdated
)

func (s *bankTransactionService) importCandidate(db *gorm.DB, c *statement.Candidate) (importOutcome, error) {
	existing, err := findBankTransactionByHash(db, c.Hash)
	if err != nil {
		return importSkipped, err
	}

	if existing == nil {
		row, err := c.BankTransaction()
		if err != nil {
			return importSkipped, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		createErr := db.Create(row).Error
		if createErr == nil {
			return importInserted, nil
		}
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return importSkipped, apperrors.Wrap(apperrors.ErrInternalServer, createErr)
		}
		// Lost a race with a concurrent import of the same line.
		if existing, err = findBankTransactionByHash(db, c.Hash); err != nil || existing == nil {
			return importSkipped, err
		}
	}

	if existing.Balance != nil || c.Balance == nil {
		return importSkipped, nil
	}

	res := db.Model(&models.BankTransaction{}).
		Where("id = ? AND balance IS NULL", existing.ID).
		Update("balance", *c.Balance)
	if res.Error != nil {
		return importSkipped, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return importSkipped, nil
	}
	return importBalanceUpdated, nil
}

func findBankTransactionByHash(db *gorm.DB, hash string) (*models.BankTransaction, error) {
	var existing models.BankTransaction
	if err := db.Unscoped().Where("hash = ?", hash).Limit(1).Find(&existing).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if existing.ID == "" {
		return nil, nil
	}
	return &existing, nil
}

// GetBankTransactionByID retrieves a bank transaction by ID
func (s *bankTransactionService) GetBankTransactionByID(ctx context.Context, id string) (*models.BankTransaction, error) {
	var txn models.BankTransaction
	if err := s.db.WithContext(ctx).Preload("Member").Where("id = ?", id).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBankTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &txn, nil
}

// ListBankTransactions retrieves a paginated list of bank transactions,
// newest first, optionally filtered by status.
func (s *bankTransactionService) ListBankTransactions(ctx context.Context, status *models.BankTransactionStatus, page pagination.PageRequest) (*pagination.PageResponse[models.BankTransaction], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.BankTransaction{})
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txns []models.BankTransaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("transaction_date DESC, created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(txns, page, totalItems)
	return &result, nil
}

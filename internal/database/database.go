package database

import (
	"errors"
	"fmt"
	"time"

	"churchbooks/internal/logger"
	"churchbooks/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	config *Config
}

// NewManager opens the configured database. Unique-constraint violations are
// translated to gorm.ErrDuplicatedKey so services can detect racing inserts
// independently of the driver.
func NewManager(config *Config) (*Manager, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(config.Path + "?_foreign_keys=on")
	default:
		dialector = postgres.New(postgres.Config{
			DSN:                  config.DSN(),
			PreferSimpleProtocol: true, // Required for Supabase Supavisor; harmless for direct connections
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if config.Driver == DriverSQLite {
		// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db, config: config}, nil
}

// NewMigrator returns a golang-migrate instance for the postgres schema.
// Callers must Close it.
func (m *Manager) NewMigrator() (*migrate.Migrate, error) {
	if m.config.Driver != DriverPostgres {
		return nil, fmt.Errorf("sql migrations are only available for %s", DriverPostgres)
	}
	mig, err := migrate.New("file://"+m.config.MigrationsDir, m.config.MigrateURL())
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mig, nil
}

// RunMigrations brings the schema up to date: SQL migrations for postgres,
// AutoMigrate for sqlite. Income categories are seeded in both cases.
func (m *Manager) RunMigrations() error {
	log := logger.Get()
	log.Info("Running database migrations...")

	if m.config.Driver == DriverSQLite {
		if err := m.db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto migration failed: %w", err)
		}
	} else {
		mig, err := m.NewMigrator()
		if err != nil {
			return err
		}
		defer func() {
			srcErr, dbErr := mig.Close()
			if srcErr != nil {
				log.Warnf("migrate source close error: %v", srcErr)
			}
			if dbErr != nil {
				log.Warnf("migrate database close error: %v", dbErr)
			}
		}()

		if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	if err := SeedIncomeCategories(m.db); err != nil {
		return err
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// DefaultIncomeCategories is the chart of income accounts ledger entries
// post to, keyed by payment type.
var DefaultIncomeCategories = []models.IncomeCategory{
	{Code: "4010", Name: "Tithes", PaymentType: models.PaymentTypeTithe},
	{Code: "4020", Name: "Offerings", PaymentType: models.PaymentTypeOffering},
	{Code: "4030", Name: "Donations", PaymentType: models.PaymentTypeDonation},
	{Code: "4040", Name: "Membership Dues", PaymentType: models.PaymentTypeMembershipDue},
	{Code: "4050", Name: "Building Fund", PaymentType: models.PaymentTypeBuildingFund},
	{Code: "4060", Name: "Vows", PaymentType: models.PaymentTypeVow},
	{Code: "4070", Name: "Event Income", PaymentType: models.PaymentTypeEvent},
	{Code: models.DefaultIncomeCategoryCode, Name: "Other Income", PaymentType: models.PaymentTypeOther},
}

// SeedIncomeCategories inserts any missing default income categories.
func SeedIncomeCategories(db *gorm.DB) error {
	for _, category := range DefaultIncomeCategories {
		c := category
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&c).Error; err != nil {
			return fmt.Errorf("failed to seed income category %s: %w", c.Code, err)
		}
	}
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

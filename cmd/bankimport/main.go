package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"churchbooks/internal/database"
	"churchbooks/internal/logger"
	"churchbooks/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "bankimport",
	Short: "Load bank statement exports into the reconciliation queue",
	Long: `bankimport parses CSV or OFX/QFX bank exports and stores each line as a
pending bank transaction, ready for an operator to reconcile.

Examples:
  # Import a CSV export into the local sqlite database
  bankimport import ~/Downloads/checking_2024_05.csv --db-driver sqlite

  # Show what still needs a decision
  bankimport pending --page-size 50`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().String("env", "development", "logging environment (development, production)")
	rootCmd.PersistentFlags().String("db-driver", "", "database driver, overrides DB_DRIVER (postgres, sqlite)")
	rootCmd.PersistentFlags().String("db-path", "", "sqlite database file, overrides DB_PATH")

	_ = viper.BindPFlag("env", rootCmd.PersistentFlags().Lookup("env"))
	_ = viper.BindPFlag("db.driver", rootCmd.PersistentFlags().Lookup("db-driver"))
	_ = viper.BindPFlag("db.path", rootCmd.PersistentFlags().Lookup("db-path"))

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(pendingCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	viper.SetEnvPrefix("CHURCHBOOKS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	logger.Init(viper.GetString("env"))
	return nil
}

// openBankTransactionService connects to the configured database, brings the
// schema up to date and returns the statement service on top of it.
func openBankTransactionService() (services.BankTransactionServicer, error) {
	dbConfig, err := database.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database configuration: %w", err)
	}
	if driver := viper.GetString("db.driver"); driver != "" {
		if driver != database.DriverPostgres && driver != database.DriverSQLite {
			return nil, fmt.Errorf("unsupported database driver %q", driver)
		}
		dbConfig.Driver = driver
	}
	if path := viper.GetString("db.path"); path != "" {
		dbConfig.Path = path
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return services.NewBankTransactionService(dbManager.DB()), nil
}

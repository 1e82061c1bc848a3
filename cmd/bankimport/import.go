package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"churchbooks/internal/logger"
	"churchbooks/internal/services"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import bank statement files (CSV, OFX or QFX)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImport,
	}
	cmd.Flags().BoolP("verbose", "v", false, "Print every rejected row")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	log := logger.Named("bankimport")

	svc, err := openBankTransactionService()
	if err != nil {
		return err
	}

	var failed int
	for _, path := range args {
		summary, err := importFile(cmd, svc, path)
		if err != nil {
			log.Errorw("import failed", "file", path, "error", err)
			failed++
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: parsed %d, inserted %d, balance updated %d, skipped %d, row errors %d\n",
			filepath.Base(path), summary.Parsed, summary.Inserted, summary.BalanceUpdated, summary.Skipped, len(summary.RowErrors))
		if verbose {
			for _, rowErr := range summary.RowErrors {
				fmt.Fprintf(cmd.OutOrStdout(), "  row %d: %s\n", rowErr.Row, rowErr.Err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(args))
	}
	return nil
}

func importFile(cmd *cobra.Command, svc services.BankTransactionServicer, path string) (*services.ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return svc.ImportStatement(cmd.Context(), filepath.Base(path), f)
}

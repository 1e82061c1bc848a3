package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"churchbooks/internal/models"
	"churchbooks/internal/pagination"
)

func pendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List bank transactions awaiting reconciliation",
		Args:  cobra.NoArgs,
		RunE:  runPending,
	}
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("page-size", pagination.DefaultPageSize, "Rows per page (max 100)")
	return cmd
}

func runPending(cmd *cobra.Command, _ []string) error {
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	req := pagination.PageRequest{Page: page, PageSize: pageSize}
	if err := req.Validate(); err != nil {
		return err
	}

	svc, err := openBankTransactionService()
	if err != nil {
		return err
	}

	status := models.BankTransactionStatusPending
	result, err := svc.ListBankTransactions(cmd.Context(), &status, req)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tTYPE\tDESCRIPTION")
	for _, bt := range result.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			bt.ID, bt.TransactionDate.Format("2006-01-02"), bt.Amount.StringFixed(2), bt.Type, bt.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d pending)\n", result.Page, result.TotalPages, result.TotalItems)
	return nil
}

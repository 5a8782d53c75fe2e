package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ledger/internal/core"
	"ledger/internal/services"
	"ledger/internal/storage"
)

// withService opens the configured database for one local command.
func withService(a *app, fn func(svc *services.ExpenseService) error) error {
	repo, err := storage.NewSQLiteRepository(a.cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	svc := services.NewExpenseService(repo, nil)
	defer svc.Close()
	return fn(svc)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addCmd(a *app) *cobra.Command {
	var e core.NewExpense

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add an expense",
		Example: `  ledger add --date 2024-01-05 --amount 12.50 --category "Food & Dining" --note lunch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(a, func(svc *services.ExpenseService) error {
				res := svc.AddExpense(cmd.Context(), e)
				if !res.OK() {
					return errors.New(res.Message())
				}
				return printJSON(cmd.OutOrStdout(), core.NewAddExpenseResponse(res.Value()))
			})
		},
	}

	cmd.Flags().StringVar(&e.Date, "date", "", "expense date, YYYY-MM-DD")
	cmd.Flags().Float64Var(&e.Amount, "amount", 0, "amount spent")
	cmd.Flags().StringVar(&e.Category, "category", "", "expense category")
	cmd.Flags().StringVar(&e.Subcategory, "subcategory", "", "optional subcategory")
	cmd.Flags().StringVar(&e.Note, "note", "", "optional note")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func rangeFlags(cmd *cobra.Command, rng *core.DateRange) {
	cmd.Flags().StringVar(&rng.Start, "start", "", "first date, inclusive")
	cmd.Flags().StringVar(&rng.End, "end", "", "last date, inclusive")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

func listCmd(a *app) *cobra.Command {
	var rng core.DateRange

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses in a date range, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(a, func(svc *services.ExpenseService) error {
				res := svc.ListExpenses(cmd.Context(), rng)
				if !res.OK() {
					return errors.New(res.Message())
				}
				return printJSON(cmd.OutOrStdout(), res.Value())
			})
		},
	}
	rangeFlags(cmd, &rng)

	return cmd
}

func summarizeCmd(a *app) *cobra.Command {
	var q core.SummaryQuery

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Total expenses per category in a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(a, func(svc *services.ExpenseService) error {
				res := svc.Summarize(cmd.Context(), q)
				if !res.OK() {
					return errors.New(res.Message())
				}
				return printJSON(cmd.OutOrStdout(), res.Value())
			})
		},
	}
	rangeFlags(cmd, &q.Range)
	cmd.Flags().StringVar(&q.Category, "category", "", "only summarize this category")

	return cmd
}

func categoriesCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Print the suggested categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := core.DefaultCategories().JSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), body)
			return err
		},
	}
}

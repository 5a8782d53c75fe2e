package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/storage"
)

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the expenses schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := storage.NewSQLiteRepository(a.cfg.SQLiteDBPath)
			if err != nil {
				return fmt.Errorf("migrate %s: %w", a.cfg.SQLiteDBPath, err)
			}
			defer repo.Close()

			version, dirty, err := repo.SchemaVersion()
			if err != nil {
				return fmt.Errorf("read schema version: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d (dirty=%t)\n", repo.Path(), version, dirty)
			return nil
		},
	}
}

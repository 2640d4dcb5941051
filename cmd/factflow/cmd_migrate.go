package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"factflow/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending postgres migrations",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	db, err := storage.NewDB(cmd.Context(), cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()
	applied, err := db.Migrate(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(applied) == 0 {
		fmt.Fprintln(out, "schema up to date")
		return nil
	}
	for _, v := range applied {
		fmt.Fprintf(out, "applied migration %05d\n", v)
	}
	return nil
}

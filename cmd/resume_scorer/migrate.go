package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  `Connect to the configured PostgreSQL database and apply the schema. All statements are idempotent, so this is safe to run repeatedly.`,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	// buildDeps migrates as part of wiring.
	d, err := buildDeps(cmd.Context())
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer d.close()

	fmt.Println("Schema applied.")
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/libsys-io/libsys/config"
	"github.com/libsys-io/libsys/errors"
)

// DbCmd groups database operations.
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the libsys database",
	Long: `db — Manage libsys database operations

Examples:
  libsys db migrate    # Apply pending schema migrations
  libsys db stats      # Show row counts per table`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		// openDatabase migrates as part of opening.
		database, err := openDatabase(dbPathFlag)
		if err != nil {
			return err
		}
		defer database.Close()

		fmt.Println("Database schema is up to date")
		return nil
	},
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE:  runDbStats,
}

var dbPathFlag string

func init() {
	DbCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Database path (default from config)")
	DbCmd.AddCommand(dbMigrateCmd)
	DbCmd.AddCommand(dbStatsCmd)
}

func runDbStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	database, err := openDatabase(dbPathFlag)
	if err != nil {
		return err
	}
	defer database.Close()

	fmt.Println("Database Statistics")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Database Path: %s\n\n", cfg.Database.Path)

	tables := []struct{ label, name string }{
		{"Members", "members"},
		{"Books", "books"},
		{"Active Loans", "lending_records"},
		{"Returns", "return_records"},
		{"Loan Intents", "loan_intents"},
	}
	for _, table := range tables {
		var count int
		if err := database.QueryRow("SELECT COUNT(*) FROM " + table.name).Scan(&count); err != nil {
			return errors.Wrapf(err, "failed to count %s", table.name)
		}
		fmt.Printf("%-14s %d\n", table.label+":", count)
	}
	return nil
}

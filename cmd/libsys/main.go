package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/libsys-io/libsys/cmd/libsys/commands"
	"github.com/libsys-io/libsys/logger"
)

var rootCmd = &cobra.Command{
	Use:   "libsys",
	Short: "libsys - Library circulation and book recommendations",
	Long: `libsys - Library management with a recommendation core.

Circulation (members, books, lending, returns) lives in SQLite;
recommendations come from precomputed similarity artifacts.

Available commands:
  db        - Database operations (migrate, stats)
  member    - Manage library members
  book      - Manage the book catalog
  lend      - Record a loan
  return    - Record a return and compute fines
  report    - Show the returns report
  recommend - Find books similar to a title
  top       - Show the most popular books
  notify    - Manage loan intents from members

Examples:
  libsys db migrate                      # Apply schema migrations
  libsys member add M001 "Nimal Perera" --contact 0771234567
  libsys lend M001 B001 --pages 412 --role Student --category Fiction
  libsys recommend "harry potter"        # Similar books
  libsys notify ls                       # Pending loan intents`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(false); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if verbosity, _ := cmd.Flags().GetCount("verbose"); verbosity > 0 {
			logger.SetVerbosity(verbosity)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")

	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.MemberCmd)
	rootCmd.AddCommand(commands.BookCmd)
	rootCmd.AddCommand(commands.LendCmd)
	rootCmd.AddCommand(commands.ReturnCmd)
	rootCmd.AddCommand(commands.ReportCmd)
	rootCmd.AddCommand(commands.RecommendCmd)
	rootCmd.AddCommand(commands.TopCmd)
	rootCmd.AddCommand(commands.NotifyCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

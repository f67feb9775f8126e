package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/libsys-io/libsys/config"
	"github.com/libsys-io/libsys/errors"
	"github.com/libsys-io/libsys/library"
	"github.com/libsys-io/libsys/logger"
)

// ReportCmd prints the returns report.
var ReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the returns report",
	Long:  "Display every completed loan with overdue days and fines, plus summary totals.",
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := library.NewReturnStore(database, logger.Logger, cfg.Lending.FinePerDay)
	records, summary, err := store.Report(cmd.Context())
	if err != nil {
		return err
	}

	if len(records) == 0 {
		pterm.Info.Println("No returns recorded yet")
		return nil
	}

	fmt.Printf("%-8s %-8s %-12s %-12s %-12s %-8s %s\n",
		"MEMBER", "BOOK", "BORROWED", "EXPECTED", "RETURNED", "OVERDUE", "FINE")
	for _, rec := range records {
		fmt.Printf("%-8s %-8s %-12s %-12s %-12s %-8d Rs %.2f\n",
			rec.MemberID, rec.BookID,
			rec.BorrowDate.Format(library.DateLayout),
			rec.ExpectedReturnDate.Format(library.DateLayout),
			rec.ActualReturnDate.Format(library.DateLayout),
			rec.OverdueDays, rec.Fine)
	}

	fmt.Println()
	fmt.Printf("Returns:            %d (%d this month)\n", summary.Count, summary.ThisMonth)
	fmt.Printf("Total fines:        Rs %.2f\n", summary.TotalFines)
	fmt.Printf("Avg days overdue:   %.1f\n", summary.AvgOverdueDays)
	return nil
}

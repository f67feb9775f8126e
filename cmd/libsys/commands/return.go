package commands

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/libsys-io/libsys/config"
	"github.com/libsys-io/libsys/errors"
	"github.com/libsys-io/libsys/library"
	"github.com/libsys-io/libsys/logger"
)

// ReturnCmd closes the newest loan for a member/book pair.
var ReturnCmd = &cobra.Command{
	Use:   "return <member-id> <book-id>",
	Short: "Record a return and compute any fine",
	Long: `return — Record a book return

Finds the newest open loan for the pair, computes the overdue fine and
moves the record to the returns table.

Example:
  libsys return M001 B001`,
	Args: cobra.ExactArgs(2),
	RunE: runReturn,
}

func runReturn(cmd *cobra.Command, args []string) error {
	memberID, bookID := args[0], args[1]
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	lending := library.NewLendingStore(database, logger.Logger, cfg.Lending.LoanPeriodDays)
	rec, err := lending.Latest(ctx, memberID, bookID)
	if err != nil {
		return err
	}

	returns := library.NewReturnStore(database, logger.Logger, cfg.Lending.FinePerDay)
	ret, err := returns.SubmitReturn(ctx, rec, time.Now())
	if err != nil {
		return err
	}

	pterm.Success.Printf("Return recorded: %s from %s\n", bookID, memberID)
	if ret.OverdueDays > 0 {
		pterm.Warning.Printf("%d days overdue, fine Rs %.2f", ret.OverdueDays, ret.Fine)
	} else {
		pterm.Info.Println("Returned on time, no fine")
	}
	return nil
}

package commands

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/libsys-io/libsys/config"
	"github.com/libsys-io/libsys/errors"
	"github.com/libsys-io/libsys/library"
	"github.com/libsys-io/libsys/logger"
	"github.com/libsys-io/libsys/predict"
)

var (
	lendPagesFlag    int
	lendRoleFlag     string
	lendCategoryFlag string
)

// LendCmd records a loan.
var LendCmd = &cobra.Command{
	Use:   "lend <member-id> <book-id>",
	Short: "Record a loan",
	Long: `lend — Record a loan and predict its holding duration

The prediction service estimates how long the member will keep the
book. When it is unreachable the loan is still recorded, with a
prediction of zero.

Example:
  libsys lend M001 B001 --pages 412 --role Student --category Fiction`,
	Args: cobra.ExactArgs(2),
	RunE: runLend,
}

func init() {
	LendCmd.Flags().IntVar(&lendPagesFlag, "pages", 0, "Page count of the book")
	LendCmd.Flags().StringVar(&lendRoleFlag, "role", "", "Borrower role (Student, Teacher, ...)")
	LendCmd.Flags().StringVar(&lendCategoryFlag, "category", "", "Book category (Fiction, Science, ...)")
	LendCmd.MarkFlagRequired("role")
	LendCmd.MarkFlagRequired("category")
}

func runLend(cmd *cobra.Command, args []string) error {
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

	predictor := predict.NewClient(cfg.Predictor.BaseURL,
		time.Duration(cfg.Predictor.TimeoutSeconds)*time.Second, logger.Logger)

	days, err := predictor.HoldingDays(ctx, predict.Request{
		MemberID: memberID,
		BookID:   bookID,
		Pages:    lendPagesFlag,
		Role:     lendRoleFlag,
		Category: lendCategoryFlag,
	})
	if err != nil {
		// The record is the primary action; the prediction is advisory.
		logger.Warnw("holding prediction failed, recording loan without it",
			"member_id", memberID, "book_id", bookID, "error", err)
		pterm.Warning.Println("Prediction service unavailable, recording without prediction")
		days = 0
	}

	store := library.NewLendingStore(database, logger.Logger, cfg.Lending.LoanPeriodDays)
	rec, err := store.Lend(ctx, library.LendingRecord{
		MemberID:      memberID,
		BookID:        bookID,
		PredictedDays: int(days),
		Pages:         lendPagesFlag,
		Role:          lendRoleFlag,
		Category:      lendCategoryFlag,
	})
	if err != nil {
		return err
	}

	pterm.Success.Printf("Loan recorded: %s -> %s\n", bookID, memberID)
	pterm.Info.Printf("Due back %s", rec.ExpectedReturnDate.Format(library.DateLayout))
	if rec.PredictedDays > 0 {
		pterm.Info.Printf("Predicted holding: %d days", rec.PredictedDays)
	}
	return nil
}

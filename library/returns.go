package library

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/libsys-io/libsys/errors"
)

// DefaultFinePerDay is the overdue fine rate in rupees per day.
const DefaultFinePerDay = 5.0

// ReturnRecord is one completed loan.
type ReturnRecord struct {
	ID                 int64
	MemberID           string
	BookID             string
	BorrowDate         time.Time
	ExpectedReturnDate time.Time
	ActualReturnDate   time.Time
	PredictedDays      int
	OverdueDays        int
	Fine               float64
}

// ReturnSummary aggregates the returns table for reporting.
type ReturnSummary struct {
	Count          int
	TotalFines     float64
	AvgOverdueDays float64
	ThisMonth      int
}

// ReturnStore persists completed loans.
type ReturnStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger

	finePerDay float64
}

// NewReturnStore creates a ReturnStore over db. A finePerDay of <= 0
// uses the default rate.
func NewReturnStore(db *sql.DB, logger *zap.SugaredLogger, finePerDay float64) *ReturnStore {
	if finePerDay <= 0 {
		finePerDay = DefaultFinePerDay
	}
	return &ReturnStore{db: db, logger: ensureLogger(logger), finePerDay: finePerDay}
}

// SubmitReturn closes a loan: it computes the overdue fine, inserts a
// return record and deletes the lending record in one transaction.
// Overdue days never go negative; an early return carries no credit.
func (s *ReturnStore) SubmitReturn(ctx context.Context, lending *LendingRecord, returned time.Time) (*ReturnRecord, error) {
	if returned.IsZero() {
		returned = time.Now()
	}

	overdue := daysBetween(lending.ExpectedReturnDate, returned)
	if overdue < 0 {
		overdue = 0
	}

	rec := ReturnRecord{
		MemberID:           lending.MemberID,
		BookID:             lending.BookID,
		BorrowDate:         lending.BorrowDate,
		ExpectedReturnDate: lending.ExpectedReturnDate,
		ActualReturnDate:   returned,
		PredictedDays:      lending.PredictedDays,
		OverdueDays:        overdue,
		Fine:               float64(overdue) * s.finePerDay,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin return transaction")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO return_records
			(member_id, book_id, borrow_date, expected_return_date,
			 actual_return_date, predicted_days, overdue_days, fine)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.MemberID, rec.BookID,
		rec.BorrowDate.Format(DateLayout),
		rec.ExpectedReturnDate.Format(DateLayout),
		rec.ActualReturnDate.Format(DateLayout),
		rec.PredictedDays, rec.OverdueDays, rec.Fine)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert return record")
	}
	rec.ID, _ = res.LastInsertId()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM lending_records WHERE id = ?`, lending.ID); err != nil {
		return nil, errors.Wrapf(err, "failed to close lending record %d", lending.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit return")
	}

	s.logger.Infow("return recorded",
		"member_id", rec.MemberID,
		"book_id", rec.BookID,
		"overdue_days", rec.OverdueDays,
		"fine", rec.Fine,
	)
	return &rec, nil
}

// Report returns every completed loan, newest first, with a summary.
func (s *ReturnStore) Report(ctx context.Context) ([]ReturnRecord, *ReturnSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, member_id, book_id, borrow_date, expected_return_date,
		       actual_return_date, predicted_days, overdue_days, fine
		FROM return_records
		ORDER BY actual_return_date DESC, id DESC
	`)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to query return records")
	}
	defer rows.Close()

	var (
		records      []ReturnRecord
		summary      ReturnSummary
		totalOverdue int
	)
	now := time.Now()

	for rows.Next() {
		var rec ReturnRecord
		var borrow, expected, actual string
		if err := rows.Scan(&rec.ID, &rec.MemberID, &rec.BookID, &borrow, &expected,
			&actual, &rec.PredictedDays, &rec.OverdueDays, &rec.Fine); err != nil {
			return nil, nil, errors.Wrap(err, "failed to scan return record")
		}
		if rec.BorrowDate, err = time.Parse(DateLayout, borrow); err != nil {
			return nil, nil, errors.Wrapf(err, "bad borrow_date %q", borrow)
		}
		if rec.ExpectedReturnDate, err = time.Parse(DateLayout, expected); err != nil {
			return nil, nil, errors.Wrapf(err, "bad expected_return_date %q", expected)
		}
		if rec.ActualReturnDate, err = time.Parse(DateLayout, actual); err != nil {
			return nil, nil, errors.Wrapf(err, "bad actual_return_date %q", actual)
		}

		records = append(records, rec)
		summary.Count++
		summary.TotalFines += rec.Fine
		totalOverdue += rec.OverdueDays
		if rec.ActualReturnDate.Year() == now.Year() && rec.ActualReturnDate.Month() == now.Month() {
			summary.ThisMonth++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "failed to iterate return records")
	}

	if summary.Count > 0 {
		summary.AvgOverdueDays = float64(totalOverdue) / float64(summary.Count)
	}
	return records, &summary, nil
}

// daysBetween counts whole calendar days from a to b, truncating both
// to midnight so partial days never count.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

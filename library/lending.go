package library

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/libsys-io/libsys/errors"
)

// DefaultLoanPeriodDays is the standard lending window.
const DefaultLoanPeriodDays = 14

// LendingRecord is one active loan.
type LendingRecord struct {
	ID                 int64
	MemberID           string
	BookID             string
	BorrowDate         time.Time
	ExpectedReturnDate time.Time
	PredictedDays      int
	Pages              int
	Role               string
	Category           string
}

// LendingStore persists active loans.
type LendingStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger

	loanPeriodDays int
}

// NewLendingStore creates a LendingStore over db. A loanPeriodDays of
// <= 0 uses the default.
func NewLendingStore(db *sql.DB, logger *zap.SugaredLogger, loanPeriodDays int) *LendingStore {
	if loanPeriodDays <= 0 {
		loanPeriodDays = DefaultLoanPeriodDays
	}
	return &LendingStore{db: db, logger: ensureLogger(logger), loanPeriodDays: loanPeriodDays}
}

// Lend records a loan. The member and book must exist. BorrowDate
// defaults to today and ExpectedReturnDate to borrow plus the loan
// period when unset. Returns the stored record.
func (s *LendingStore) Lend(ctx context.Context, rec LendingRecord) (*LendingRecord, error) {
	if err := s.checkExists(ctx, "members", "member_id", rec.MemberID, ErrNoSuchMember); err != nil {
		return nil, err
	}
	if err := s.checkExists(ctx, "books", "book_id", rec.BookID, ErrNoSuchBook); err != nil {
		return nil, err
	}

	if rec.BorrowDate.IsZero() {
		rec.BorrowDate = time.Now()
	}
	if rec.ExpectedReturnDate.IsZero() {
		rec.ExpectedReturnDate = rec.BorrowDate.AddDate(0, 0, s.loanPeriodDays)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO lending_records
			(member_id, book_id, borrow_date, expected_return_date,
			 predicted_days, pages, role, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.MemberID, rec.BookID,
		rec.BorrowDate.Format(DateLayout),
		rec.ExpectedReturnDate.Format(DateLayout),
		rec.PredictedDays, rec.Pages, rec.Role, rec.Category)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to record loan of %s to %s", rec.BookID, rec.MemberID)
	}
	rec.ID, _ = res.LastInsertId()

	s.logger.Infow("loan recorded",
		"member_id", rec.MemberID,
		"book_id", rec.BookID,
		"expected_return", rec.ExpectedReturnDate.Format(DateLayout),
		"predicted_days", rec.PredictedDays,
	)
	return &rec, nil
}

// Latest fetches the newest lending record for a member/book pair.
func (s *LendingStore) Latest(ctx context.Context, memberID, bookID string) (*LendingRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, member_id, book_id, borrow_date, expected_return_date,
		       predicted_days, pages, role, category
		FROM lending_records
		WHERE member_id = ? AND book_id = ?
		ORDER BY borrow_date DESC, id DESC
		LIMIT 1
	`, memberID, bookID)

	rec, err := scanLending(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Mark(
				errors.Newf("no loan of %s to %s", bookID, memberID), ErrNoRecord)
		}
		return nil, errors.Wrap(err, "failed to fetch lending record")
	}
	return rec, nil
}

// ListByMember returns a member's active loans, newest first.
func (s *LendingStore) ListByMember(ctx context.Context, memberID string) ([]LendingRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, member_id, book_id, borrow_date, expected_return_date,
		       predicted_days, pages, role, category
		FROM lending_records
		WHERE member_id = ?
		ORDER BY borrow_date DESC, id DESC
	`, memberID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list loans for %s", memberID)
	}
	defer rows.Close()

	var records []LendingRecord
	for rows.Next() {
		rec, err := scanLending(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan lending record")
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (s *LendingStore) checkExists(ctx context.Context, table, column, id string, sentinel error) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM `+table+` WHERE `+column+` = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return errors.Mark(errors.Newf("%s %s", column, id), sentinel)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to check %s %s", table, id)
	}
	return nil
}

func scanLending(row rowScanner) (*LendingRecord, error) {
	var rec LendingRecord
	var borrow, expected string
	if err := row.Scan(&rec.ID, &rec.MemberID, &rec.BookID, &borrow, &expected,
		&rec.PredictedDays, &rec.Pages, &rec.Role, &rec.Category); err != nil {
		return nil, err
	}

	var err error
	if rec.BorrowDate, err = time.Parse(DateLayout, borrow); err != nil {
		return nil, errors.Wrapf(err, "bad borrow_date %q", borrow)
	}
	if rec.ExpectedReturnDate, err = time.Parse(DateLayout, expected); err != nil {
		return nil, errors.Wrapf(err, "bad expected_return_date %q", expected)
	}
	return &rec, nil
}

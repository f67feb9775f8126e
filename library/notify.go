package library

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/libsys-io/libsys/errors"
)

// PendingLimit caps how many intents Pending returns.
const PendingLimit = 100

// LoanIntent is a member's recorded interest in borrowing a
// recommended book, queued for admin review.
type LoanIntent struct {
	ID        string
	MemberID  string
	BookID    string
	Title     string
	Author    string
	ImageURL  string
	Status    string
	CreatedAt time.Time
}

// NotifyStore persists loan intents.
type NotifyStore struct {
	db     *sql.DB
	books  *BookStore
	logger *zap.SugaredLogger
}

// NewNotifyStore creates a NotifyStore over db. Book resolution goes
// through books.
func NewNotifyStore(db *sql.DB, books *BookStore, logger *zap.SugaredLogger) *NotifyStore {
	return &NotifyStore{db: db, books: books, logger: ensureLogger(logger)}
}

// Record resolves title/author to a catalog book and inserts a PENDING
// intent. An unresolvable book yields ErrNoSuchBook; write errors
// surface verbatim, there is no retry.
func (s *NotifyStore) Record(ctx context.Context, memberID, title, author, imageURL string) (*LoanIntent, error) {
	book, err := s.books.FindByTitleAuthor(ctx, title, author)
	if err != nil {
		return nil, err
	}

	intent := LoanIntent{
		ID:       uuid.NewString(),
		MemberID: memberID,
		BookID:   book.ID,
		Title:    title,
		Author:   author,
		ImageURL: imageURL,
		Status:   IntentPending,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO loan_intents (id, member_id, book_id, title, author, image_url, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, intent.ID, intent.MemberID, intent.BookID, intent.Title, intent.Author,
		intent.ImageURL, intent.Status)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to record loan intent for %s", memberID)
	}

	s.logger.Infow("loan intent recorded",
		"intent_id", intent.ID,
		"member_id", memberID,
		"book_id", book.ID,
	)
	return &intent, nil
}

// Pending lists PENDING intents, newest first, capped at PendingLimit.
// created_at has one-second granularity, so rowid breaks ties in
// insertion order.
func (s *NotifyStore) Pending(ctx context.Context) ([]LoanIntent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, member_id, book_id, title, author, image_url, status, created_at
		FROM loan_intents
		WHERE status = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, IntentPending, PendingLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending intents")
	}
	defer rows.Close()

	var intents []LoanIntent
	for rows.Next() {
		var intent LoanIntent
		var image sql.NullString
		if err := rows.Scan(&intent.ID, &intent.MemberID, &intent.BookID,
			&intent.Title, &intent.Author, &image, &intent.Status, &intent.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan loan intent")
		}
		intent.ImageURL = image.String
		intents = append(intents, intent)
	}
	return intents, rows.Err()
}

// Confirm marks a pending intent CONFIRMED.
func (s *NotifyStore) Confirm(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, IntentConfirmed)
}

// Reject marks a pending intent REJECTED.
func (s *NotifyStore) Reject(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, IntentRejected)
}

func (s *NotifyStore) setStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE loan_intents SET status = ? WHERE id = ? AND status = ?
	`, status, id, IntentPending)
	if err != nil {
		return errors.Wrapf(err, "failed to set intent %s to %s", id, status)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Mark(errors.Newf("pending intent %s", id), ErrNoRecord)
	}

	s.logger.Infow("loan intent resolved", "intent_id", id, "status", status)
	return nil
}

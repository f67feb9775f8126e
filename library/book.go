package library

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/libsys-io/libsys/errors"
)

// Book is one catalog entry. BookName is the display title used by
// the circulation side; Title carries the index title the
// recommendation artifacts use, which may differ in casing or edition.
type Book struct {
	ID       string
	Title    string
	BookName string
	Author   string
	Year     int
}

// BookStore persists books.
type BookStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewBookStore creates a BookStore over db. A nil logger disables
// logging.
func NewBookStore(db *sql.DB, logger *zap.SugaredLogger) *BookStore {
	return &BookStore{db: db, logger: ensureLogger(logger)}
}

// Add inserts a new book. A duplicate id yields ErrDuplicateID.
func (s *BookStore) Add(ctx context.Context, b Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (book_id, title, book_name, author, year)
		VALUES (?, ?, ?, ?, ?)
	`, b.ID, b.Title, b.BookName, b.Author, b.Year)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return errors.Mark(errors.Newf("book %s already exists", b.ID), ErrDuplicateID)
		}
		return errors.Wrapf(err, "failed to insert book %s", b.ID)
	}

	s.logger.Infow("book added", "book_id", b.ID, "book_name", b.BookName)
	return nil
}

// Get fetches a book by id.
func (s *BookStore) Get(ctx context.Context, id string) (*Book, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT book_id, title, book_name, author, year
		FROM books WHERE book_id = ?
	`, id)

	b, err := scanBook(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Mark(errors.Newf("book %s", id), ErrNoSuchBook)
		}
		return nil, errors.Wrapf(err, "failed to fetch book %s", id)
	}
	return b, nil
}

// Update rewrites an existing book's fields.
func (s *BookStore) Update(ctx context.Context, b Book) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books SET title = ?, book_name = ?, author = ?, year = ?
		WHERE book_id = ?
	`, b.Title, b.BookName, b.Author, b.Year, b.ID)
	if err != nil {
		return errors.Wrapf(err, "failed to update book %s", b.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Mark(errors.Newf("book %s", b.ID), ErrNoSuchBook)
	}

	s.logger.Infow("book updated", "book_id", b.ID)
	return nil
}

// Remove deletes a book by id.
func (s *BookStore) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE book_id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete book %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Mark(errors.Newf("book %s", id), ErrNoSuchBook)
	}

	s.logger.Infow("book removed", "book_id", id)
	return nil
}

// List returns all books ordered by id.
func (s *BookStore) List(ctx context.Context) ([]Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT book_id, title, book_name, author, year
		FROM books ORDER BY book_id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list books")
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan book row")
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

// FindByTitleAuthor resolves a display title + author pair to a book.
// The match is case-insensitive first; when that is ambiguous, an
// exact-case pass narrows it. If several rows still remain the oldest
// row wins and the duplicate count is logged, since duplicate catalog
// rows are a data problem, not a caller error.
func (s *BookStore) FindByTitleAuthor(ctx context.Context, bookName, author string) (*Book, error) {
	candidates, err := s.findBooks(ctx, `
		SELECT book_id, title, book_name, author, year
		FROM books
		WHERE book_name = ? COLLATE NOCASE AND author = ? COLLATE NOCASE
		ORDER BY rowid
	`, bookName, author)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errors.Mark(errors.Newf("book %q by %q", bookName, author), ErrNoSuchBook)
	}
	if len(candidates) == 1 {
		return &candidates[0], nil
	}

	// Ambiguous: prefer an exact-case match among the candidates.
	var exact []Book
	for _, b := range candidates {
		if b.BookName == bookName && b.Author == author {
			exact = append(exact, b)
		}
	}
	if len(exact) > 0 {
		candidates = exact
	}

	if len(candidates) > 1 {
		s.logger.Warnw("duplicate catalog rows for title/author, using first",
			"book_name", bookName,
			"author", author,
			"rows", len(candidates),
			"book_id", candidates[0].ID,
		)
	}
	return &candidates[0], nil
}

func (s *BookStore) findBooks(ctx context.Context, query string, args ...any) ([]Book, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query books")
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan book row")
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*Book, error) {
	var b Book
	var year sql.NullInt64
	if err := row.Scan(&b.ID, &b.Title, &b.BookName, &b.Author, &year); err != nil {
		return nil, err
	}
	b.Year = int(year.Int64)
	return &b, nil
}

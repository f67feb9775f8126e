package library

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/libsys-io/libsys/errors"
)

// Member is one registered library member.
type Member struct {
	ID      string
	Name    string
	Age     int
	Email   string
	Contact string
	Photo   string
}

// MemberStore persists members.
type MemberStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewMemberStore creates a MemberStore over db. A nil logger disables
// logging.
func NewMemberStore(db *sql.DB, logger *zap.SugaredLogger) *MemberStore {
	return &MemberStore{db: db, logger: ensureLogger(logger)}
}

// Add inserts a new member. A duplicate id yields ErrDuplicateID.
func (s *MemberStore) Add(ctx context.Context, m Member) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (member_id, name, age, email, contact, photo)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.ID, m.Name, m.Age, m.Email, m.Contact, m.Photo)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return errors.Mark(errors.Newf("member %s already exists", m.ID), ErrDuplicateID)
		}
		return errors.Wrapf(err, "failed to insert member %s", m.ID)
	}

	s.logger.Infow("member added", "member_id", m.ID, "name", m.Name)
	return nil
}

// Get fetches a member by id.
func (s *MemberStore) Get(ctx context.Context, id string) (*Member, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT member_id, name, age, email, contact, photo
		FROM members WHERE member_id = ?
	`, id)

	var m Member
	var age sql.NullInt64
	var email, photo sql.NullString
	if err := row.Scan(&m.ID, &m.Name, &age, &email, &m.Contact, &photo); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Mark(errors.Newf("member %s", id), ErrNoSuchMember)
		}
		return nil, errors.Wrapf(err, "failed to fetch member %s", id)
	}
	m.Age = int(age.Int64)
	m.Email = email.String
	m.Photo = photo.String
	return &m, nil
}

// Update rewrites an existing member's fields.
func (s *MemberStore) Update(ctx context.Context, m Member) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE members SET name = ?, age = ?, email = ?, contact = ?, photo = ?
		WHERE member_id = ?
	`, m.Name, m.Age, m.Email, m.Contact, m.Photo, m.ID)
	if err != nil {
		return errors.Wrapf(err, "failed to update member %s", m.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Mark(errors.Newf("member %s", m.ID), ErrNoSuchMember)
	}

	s.logger.Infow("member updated", "member_id", m.ID)
	return nil
}

// Remove deletes a member by id.
func (s *MemberStore) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE member_id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete member %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Mark(errors.Newf("member %s", id), ErrNoSuchMember)
	}

	s.logger.Infow("member removed", "member_id", id)
	return nil
}

// List returns all members ordered by id.
func (s *MemberStore) List(ctx context.Context) ([]Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT member_id, name, age, email, contact, photo
		FROM members ORDER BY member_id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list members")
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		var age sql.NullInt64
		var email, photo sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &age, &email, &m.Contact, &photo); err != nil {
			return nil, errors.Wrap(err, "failed to scan member row")
		}
		m.Age = int(age.Int64)
		m.Email = email.String
		m.Photo = photo.String
		members = append(members, m)
	}
	return members, rows.Err()
}

// Authenticate checks the member-id + contact pair used by the member
// portal. It is a plain equality check against the stored contact.
func (s *MemberStore) Authenticate(ctx context.Context, id, contact string) (*Member, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Contact != contact {
		return nil, errors.Mark(errors.Newf("member %s: contact mismatch", id), ErrNoSuchMember)
	}
	return m, nil
}

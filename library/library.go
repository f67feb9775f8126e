// Package library holds the relational stores for the circulation
// side of the system: members, books, lending records, returns and
// loan intents. Stores wrap a shared *sql.DB; schema management lives
// in the db package.
package library

import (
	"go.uber.org/zap"

	"github.com/libsys-io/libsys/errors"
)

// Sentinel errors for store misses. Callers match with errors.Is.
var (
	// ErrNoSuchMember marks lookups of a member id not in the members table.
	ErrNoSuchMember = errors.New("no such member")
	// ErrNoSuchBook marks lookups that match no book.
	ErrNoSuchBook = errors.New("no such book")
	// ErrNoRecord marks lookups of a lending or intent record that does
	// not exist.
	ErrNoRecord = errors.New("no such record")
	// ErrDuplicateID marks inserts whose primary key already exists.
	ErrDuplicateID = errors.New("id already exists")
)

// DateLayout is the storage format for borrow and return dates.
const DateLayout = "2006-01-02"

// Loan-intent status values.
const (
	IntentPending   = "PENDING"
	IntentConfirmed = "CONFIRMED"
	IntentRejected  = "REJECTED"
)

// ensureLogger maps a nil logger to a no-op one, so stores built
// without logging stay silent instead of panicking.
func ensureLogger(logger *zap.SugaredLogger) *zap.SugaredLogger {
	if logger == nil {
		return zap.NewNop().Sugar()
	}
	return logger
}

package library_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/libsys-io/libsys/errors"
	"github.com/libsys-io/libsys/library"
	"github.com/libsys-io/libsys/library/testutil"
)

type lendingFixture struct {
	members *library.MemberStore
	books   *library.BookStore
	lending *library.LendingStore
	returns *library.ReturnStore
	notify  *library.NotifyStore
	ctx     context.Context
}

func newLendingFixture(t *testing.T) *lendingFixture {
	t.Helper()
	conn := testutil.OpenDB(t)
	logger := zaptest.NewLogger(t).Sugar()

	f := &lendingFixture{
		members: library.NewMemberStore(conn, logger),
		books:   library.NewBookStore(conn, logger),
		lending: library.NewLendingStore(conn, logger, 0),
		returns: library.NewReturnStore(conn, logger, 0),
		ctx:     context.Background(),
	}
	f.notify = library.NewNotifyStore(conn, f.books, logger)

	require.NoError(t, f.members.Add(f.ctx, library.Member{
		ID: "M001", Name: "Nimal Perera", Contact: "0771234567",
	}))
	require.NoError(t, f.books.Add(f.ctx, library.Book{
		ID: "B001", Title: "Dune", BookName: "Dune", Author: "Frank Herbert",
	}))
	return f
}

func TestLendingStoreLend(t *testing.T) {
	f := newLendingFixture(t)

	borrow := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rec, err := f.lending.Lend(f.ctx, library.LendingRecord{
		MemberID:      "M001",
		BookID:        "B001",
		BorrowDate:    borrow,
		PredictedDays: 9,
		Pages:         412,
		Role:          "Student",
		Category:      "Fiction",
	})
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)

	// Default loan period is 14 days.
	assert.Equal(t, "2026-08-15", rec.ExpectedReturnDate.Format(library.DateLayout))

	got, err := f.lending.Latest(f.ctx, "M001", "B001")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, 9, got.PredictedDays)
	assert.Equal(t, "Student", got.Role)
}

func TestLendingStoreLendUnknownParties(t *testing.T) {
	f := newLendingFixture(t)

	_, err := f.lending.Lend(f.ctx, library.LendingRecord{MemberID: "M404", BookID: "B001"})
	assert.True(t, errors.Is(err, library.ErrNoSuchMember))

	_, err = f.lending.Lend(f.ctx, library.LendingRecord{MemberID: "M001", BookID: "B404"})
	assert.True(t, errors.Is(err, library.ErrNoSuchBook))
}

func TestLendingStoreLatestPicksNewest(t *testing.T) {
	f := newLendingFixture(t)

	older := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.lending.Lend(f.ctx, library.LendingRecord{
		MemberID: "M001", BookID: "B001", BorrowDate: older, Role: "Student", Category: "Fiction",
	})
	require.NoError(t, err)
	second, err := f.lending.Lend(f.ctx, library.LendingRecord{
		MemberID: "M001", BookID: "B001", BorrowDate: newer, Role: "Student", Category: "Fiction",
	})
	require.NoError(t, err)

	got, err := f.lending.Latest(f.ctx, "M001", "B001")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestLendingStoreLatestMissing(t *testing.T) {
	f := newLendingFixture(t)

	_, err := f.lending.Latest(f.ctx, "M001", "B001")
	assert.True(t, errors.Is(err, library.ErrNoRecord))
}

func TestLendingStoreListByMember(t *testing.T) {
	f := newLendingFixture(t)
	require.NoError(t, f.books.Add(f.ctx, library.Book{
		ID: "B002", Title: "Solaris", BookName: "Solaris", Author: "Stanislaw Lem",
	}))

	for _, bookID := range []string{"B001", "B002"} {
		_, err := f.lending.Lend(f.ctx, library.LendingRecord{
			MemberID: "M001", BookID: bookID, Role: "Student", Category: "Fiction",
		})
		require.NoError(t, err)
	}

	records, err := f.lending.ListByMember(f.ctx, "M001")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

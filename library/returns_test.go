package library_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libsys-io/libsys/errors"
	"github.com/libsys-io/libsys/library"
)

func TestReturnStoreOverdueFine(t *testing.T) {
	f := newLendingFixture(t)

	borrow := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rec, err := f.lending.Lend(f.ctx, library.LendingRecord{
		MemberID: "M001", BookID: "B001", BorrowDate: borrow,
		Role: "Student", Category: "Fiction",
	})
	require.NoError(t, err)

	// Expected back 2026-08-15; returned three days late.
	returned := time.Date(2026, 8, 18, 10, 30, 0, 0, time.UTC)
	ret, err := f.returns.SubmitReturn(f.ctx, rec, returned)
	require.NoError(t, err)

	assert.Equal(t, 3, ret.OverdueDays)
	assert.InDelta(t, 15.0, ret.Fine, 1e-9) // 3 days at Rs 5.00

	// The lending record is gone.
	_, err = f.lending.Latest(f.ctx, "M001", "B001")
	assert.True(t, errors.Is(err, library.ErrNoRecord))
}

func TestReturnStoreEarlyReturnNoFine(t *testing.T) {
	f := newLendingFixture(t)

	borrow := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rec, err := f.lending.Lend(f.ctx, library.LendingRecord{
		MemberID: "M001", BookID: "B001", BorrowDate: borrow,
		Role: "Student", Category: "Fiction",
	})
	require.NoError(t, err)

	returned := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	ret, err := f.returns.SubmitReturn(f.ctx, rec, returned)
	require.NoError(t, err)

	assert.Equal(t, 0, ret.OverdueDays)
	assert.Zero(t, ret.Fine)
}

func TestReturnStoreReport(t *testing.T) {
	f := newLendingFixture(t)

	borrow := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, late := range []int{0, 2, 4} {
		rec, err := f.lending.Lend(f.ctx, library.LendingRecord{
			MemberID: "M001", BookID: "B001", BorrowDate: borrow,
			Role: "Student", Category: "Fiction",
		})
		require.NoError(t, err)

		returned := rec.ExpectedReturnDate.AddDate(0, 0, late)
		_, err = f.returns.SubmitReturn(f.ctx, rec, returned)
		require.NoError(t, err, "return %d", i)
	}

	records, summary, err := f.returns.Report(f.ctx)
	require.NoError(t, err)

	assert.Len(t, records, 3)
	assert.Equal(t, 3, summary.Count)
	assert.InDelta(t, 30.0, summary.TotalFines, 1e-9) // (0+2+4) days at Rs 5.00
	assert.InDelta(t, 2.0, summary.AvgOverdueDays, 1e-9)
}

func TestReturnStoreReportEmpty(t *testing.T) {
	f := newLendingFixture(t)

	records, summary, err := f.returns.Report(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.AvgOverdueDays)
}

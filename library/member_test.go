package library_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/libsys-io/libsys/errors"
	"github.com/libsys-io/libsys/library"
	"github.com/libsys-io/libsys/library/testutil"
)

func TestMemberStoreCRUD(t *testing.T) {
	conn := testutil.OpenDB(t)
	store := library.NewMemberStore(conn, zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	m := library.Member{
		ID:      "M001",
		Name:    "Nimal Perera",
		Age:     34,
		Email:   "nimal@example.com",
		Contact: "0771234567",
	}
	require.NoError(t, store.Add(ctx, m))

	got, err := store.Get(ctx, "M001")
	require.NoError(t, err)
	assert.Equal(t, m, *got)

	m.Contact = "0779999999"
	require.NoError(t, store.Update(ctx, m))
	got, err = store.Get(ctx, "M001")
	require.NoError(t, err)
	assert.Equal(t, "0779999999", got.Contact)

	members, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	require.NoError(t, store.Remove(ctx, "M001"))
	_, err = store.Get(ctx, "M001")
	assert.True(t, errors.Is(err, library.ErrNoSuchMember))
}

func TestMemberStoreDuplicateID(t *testing.T) {
	conn := testutil.OpenDB(t)
	store := library.NewMemberStore(conn, zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	m := library.Member{ID: "M001", Name: "Nimal Perera", Contact: "077"}
	require.NoError(t, store.Add(ctx, m))

	err := store.Add(ctx, m)
	assert.True(t, errors.Is(err, library.ErrDuplicateID))
}

func TestMemberStoreMissing(t *testing.T) {
	conn := testutil.OpenDB(t)
	store := library.NewMemberStore(conn, zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	_, err := store.Get(ctx, "M404")
	assert.True(t, errors.Is(err, library.ErrNoSuchMember))

	err = store.Update(ctx, library.Member{ID: "M404", Name: "x", Contact: "y"})
	assert.True(t, errors.Is(err, library.ErrNoSuchMember))

	err = store.Remove(ctx, "M404")
	assert.True(t, errors.Is(err, library.ErrNoSuchMember))
}

func TestMemberStoreAuthenticate(t *testing.T) {
	conn := testutil.OpenDB(t)
	store := library.NewMemberStore(conn, zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, library.Member{
		ID: "M001", Name: "Nimal Perera", Contact: "0771234567",
	}))

	m, err := store.Authenticate(ctx, "M001", "0771234567")
	require.NoError(t, err)
	assert.Equal(t, "Nimal Perera", m.Name)

	_, err = store.Authenticate(ctx, "M001", "wrong")
	assert.True(t, errors.Is(err, library.ErrNoSuchMember))

	_, err = store.Authenticate(ctx, "M404", "0771234567")
	assert.True(t, errors.Is(err, library.ErrNoSuchMember))
}

func TestMemberStoreListQueryError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT member_id").WillReturnError(errors.New("disk I/O error"))

	store := library.NewMemberStore(conn, zaptest.NewLogger(t).Sugar())
	_, err = store.List(context.Background())
	assert.ErrorContains(t, err, "failed to list members")
	assert.NoError(t, mock.ExpectationsWereMet())
}

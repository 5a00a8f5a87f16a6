package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch-service/src/internal/entity"
)

func TestOrderCloseIsWriteOnce(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewOrderRepository(database)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE orders(.|\s)+AND closed_vendor_price IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders(.|\s)+AND closed_vendor_price IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := database.BeginTxx(ctx)
	require.NoError(t, err)

	ok, err := repo.Close(ctx, tx, "o-1", 1450, 1250, 30, 270, 30, 1150)
	require.NoError(t, err)
	assert.True(t, ok)

	// second close matches no row
	ok, err = repo.Close(ctx, tx, "o-1", 1450, 1250, 30, 270, 30, 1150)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, tx.Commit())
}

func TestOrderCancelByVendorRequiresPendingAndOwnership(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewOrderRepository(database)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE orders`).
		WithArgs(entity.TripStatusCancelled, entity.CancelledByVendor, "o-1", "other-vendor", entity.TripStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := database.BeginTxx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	ok, err := repo.CancelByVendor(ctx, tx, "o-1", "other-vendor")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrderSetVisibility(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewOrderRepository(database)

	mock.ExpectExec(`UPDATE orders\s+SET customer_visible = \?`).
		WithArgs(true, "o-1", "vendor-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.SetVisibility(context.Background(), "o-1", "vendor-1", true)
	require.NoError(t, err)
	assert.True(t, ok)
}

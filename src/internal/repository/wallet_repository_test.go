package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

func newMockDB(t *testing.T) (*mysql.Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mysql.NewWithDB(sqlx.NewDb(db, "mysql")), mock
}

func TestWalletCreditWritesBalanceAndLedgerTogether(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewWalletRepository(database)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance FROM owner_wallets WHERE actor_id = \? FOR UPDATE`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(1000))
	mock.ExpectExec(`UPDATE owner_wallets SET balance = \?`).
		WithArgs(int64(1500), "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO owner_wallet_ledger`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := database.BeginTxx(ctx)
	require.NoError(t, err)

	entry, err := repo.Credit(ctx, tx, entity.ActorOwner, "owner-1", 500, LedgerRef{
		ReferenceType: entity.RefTopUp,
		ReferenceID:   "pay-1",
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, int64(1000), entry.BalanceBefore)
	assert.Equal(t, int64(1500), entry.BalanceAfter)
	assert.Equal(t, entity.LedgerCredit, entry.EntryType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletDebitInsufficientBalanceWritesNothing(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewWalletRepository(database)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance FROM owner_wallets WHERE actor_id = \? FOR UPDATE`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(300))
	mock.ExpectRollback()

	tx, err := database.BeginTxx(ctx)
	require.NoError(t, err)

	_, err = repo.Debit(ctx, tx, entity.ActorOwner, "owner-1", 500, LedgerRef{})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletDebitRejectsNonPositiveAmount(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewWalletRepository(database)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := database.BeginTxx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = repo.Debit(ctx, tx, entity.ActorOwner, "owner-1", 0, LedgerRef{})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
}

func TestWalletCreditDuplicateTopUpReference(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewWalletRepository(database)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance FROM vendor_wallets WHERE actor_id = \? FOR UPDATE`).
		WithArgs("vendor-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(0))
	mock.ExpectExec(`UPDATE vendor_wallets SET balance = \?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO vendor_wallet_ledger`).
		WillReturnError(&mysqldrv.MySQLError{Number: 1062})
	mock.ExpectRollback()

	tx, err := database.BeginTxx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = repo.Credit(ctx, tx, entity.ActorVendor, "vendor-1", 100, LedgerRef{
		ReferenceType: entity.RefTopUp,
		ReferenceID:   "pay-replayed",
	})
	assert.ErrorIs(t, err, ErrDuplicatePaymentRef)
}

func TestWalletUnknownActorClass(t *testing.T) {
	database, _ := newMockDB(t)
	repo := NewWalletRepository(database)

	_, err := repo.Balance(context.Background(), "DISPATCHER", "x")
	assert.Error(t, err)
}

func TestWalletBalanceNotFound(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewWalletRepository(database)

	mock.ExpectQuery(`SELECT balance FROM admin_wallets WHERE actor_id = \?`).
		WithArgs("PLATFORM").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}))

	_, err := repo.Balance(context.Background(), entity.ActorAdmin, "PLATFORM")
	assert.ErrorIs(t, err, ErrNotFound)
}

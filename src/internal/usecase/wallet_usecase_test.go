package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/repository"
	"dispatch-service/src/pkg/databases/mysql"
	"dispatch-service/src/pkg/log"
)

func newWalletUseCase(database *mysql.Database) *WalletUseCase {
	return NewWalletUseCase(log.Log{}, validator.New(), database, repository.NewWalletRepository(database))
}

func TestTopUpCreditsFreshPaymentReference(t *testing.T) {
	database, mock := newTestDB(t)
	uc := newWalletUseCase(database)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(entity.RefTopUp, "pay-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT balance FROM owner_wallets(.|\s)+FOR UPDATE`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(1000))
	mock.ExpectExec(`UPDATE owner_wallets`).
		WithArgs(int64(1500), "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO owner_wallet_ledger`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	result := uc.TopUp(context.Background(), &model.TopUpRequest{
		ActorClass: entity.ActorOwner,
		ActorID:    "owner-1",
		Amount:     500,
		PaymentRef: "pay-1",
	})
	require.NoError(t, result.Error)

	resp := result.Data.(*model.TopUpResponse)
	assert.False(t, resp.Duplicate)
	assert.Equal(t, int64(1500), resp.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopUpReplayIsNoOp(t *testing.T) {
	database, mock := newTestDB(t)
	uc := newWalletUseCase(database)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(entity.RefTopUp, "pay-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT balance FROM owner_wallets`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(1500))
	mock.ExpectCommit()

	result := uc.TopUp(context.Background(), &model.TopUpRequest{
		ActorClass: entity.ActorOwner,
		ActorID:    "owner-1",
		Amount:     500,
		PaymentRef: "pay-1",
	})
	require.NoError(t, result.Error)

	resp := result.Data.(*model.TopUpResponse)
	assert.True(t, resp.Duplicate)
	assert.Equal(t, int64(1500), resp.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopUpRejectsNonPositiveAmount(t *testing.T) {
	database, _ := newTestDB(t)
	uc := newWalletUseCase(database)

	result := uc.TopUp(context.Background(), &model.TopUpRequest{
		ActorClass: entity.ActorOwner,
		ActorID:    "owner-1",
		Amount:     0,
		PaymentRef: "pay-1",
	})
	require.Error(t, result.Error)
}

func TestStatementReturnsBalanceAndEntries(t *testing.T) {
	database, mock := newTestDB(t)
	uc := newWalletUseCase(database)

	mock.ExpectQuery(`SELECT balance FROM vendor_wallets`).
		WithArgs("vendor-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(108))
	mock.ExpectQuery(`SELECT(.|\s)+FROM vendor_wallet_ledger`).
		WithArgs("vendor-1", 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "actor_id", "order_id", "entry_type", "amount",
			"balance_before", "balance_after",
			"reference_type", "reference_id", "notes", "created_at",
		}).AddRow(1, "vendor-1", "o-1", entity.LedgerCredit, 108, 0, 108,
			entity.RefOrder, "o-1", "vendor profit", time.Now()))

	result := uc.Statement(context.Background(), &model.StatementRequest{
		ActorClass: entity.ActorVendor,
		ActorID:    "vendor-1",
	})
	require.NoError(t, result.Error)

	resp := result.Data.(*model.StatementResponse)
	assert.Equal(t, int64(108), resp.Balance)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, int64(108), resp.Entries[0].BalanceAfter)
}

package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/gateway/messaging"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/repository"
	"dispatch-service/src/pkg/databases/mysql"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"
)

func newTestDB(t *testing.T) (*mysql.Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mysql.NewWithDB(sqlx.NewDb(db, "mysql")), mock
}

var orderCols = []string{
	"order_id", "source", "source_order_id", "vendor_id", "trip_type", "car_type",
	"waypoints", "customer_name", "customer_number", "trip_status", "send_to", "near_city",
	"estimated_km", "estimated_duration", "estimated_price", "vendor_price",
	"commission_percent", "toll_update_allowed", "customer_visible", "start_at",
	"accept_deadline", "closed_vendor_price", "closed_driver_price",
	"commission_amount", "vendor_profit", "admin_profit", "driver_profit",
	"cancelled_by", "created_at", "updated_at",
}

// pendingOrderRow is an unclaimed PENDING order priced at 1000.
func pendingOrderRow(source, tripType string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(orderCols).AddRow(
		"o-1", source, "src-1", "vendor-1", tripType, "sedan",
		[]byte(`{"1":"Alpha","2":"Beta"}`), "Customer", "0800", entity.TripStatusPending,
		entity.SendToAll, nil,
		0.0, "", int64(900), int64(1000),
		int64(10), false, false, now.Add(24*time.Hour),
		now.Add(15*time.Minute), nil, nil,
		nil, nil, nil, nil,
		nil, now, now,
	)
}

func newAssignmentUseCase(database *mysql.Database) *AssignmentUseCase {
	logger := log.Log{}
	return NewAssignmentUseCase(
		logger,
		validator.New(),
		database,
		repository.NewOrderRepository(database),
		repository.NewAssignmentRepository(database),
		repository.NewWalletRepository(database),
		repository.NewDriverRepository(database),
		messaging.NewOrderProducer(nil, logger),
	)
}

func TestAcceptOrderClaimsUnderOrderLock(t *testing.T) {
	database, mock := newTestDB(t)
	uc := newAssignmentUseCase(database)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT(.|\s)+FROM orders WHERE order_id = \? FOR UPDATE`).
		WithArgs("o-1").
		WillReturnRows(pendingOrderRow(entity.SourceOnewayFamily, entity.TripTypeOneway))
	mock.ExpectQuery(`SELECT(.|\s)+FROM order_assignments`).
		WillReturnRows(sqlmock.NewRows([]string{"assignment_id"}))
	mock.ExpectQuery(`SELECT balance FROM owner_wallets`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(5000))
	mock.ExpectExec(`INSERT INTO order_assignments`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	result := uc.AcceptOrder(context.Background(), &model.AcceptOrderRequest{
		OwnerID: "owner-1",
		OrderID: "o-1",
	})
	require.NoError(t, result.Error)

	resp := result.Data.(*model.AssignmentResponse)
	assert.Equal(t, "o-1", resp.OrderID)
	assert.Equal(t, "owner-1", resp.OwnerID)
	assert.Equal(t, entity.AssignmentPending, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptOrderConflictsOnExistingClaim(t *testing.T) {
	database, mock := newTestDB(t)
	uc := newAssignmentUseCase(database)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT(.|\s)+FROM orders WHERE order_id = \? FOR UPDATE`).
		WithArgs("o-1").
		WillReturnRows(pendingOrderRow(entity.SourceOnewayFamily, entity.TripTypeOneway))
	mock.ExpectQuery(`SELECT(.|\s)+FROM order_assignments`).
		WillReturnRows(sqlmock.NewRows([]string{
			"assignment_id", "order_id", "owner_id", "driver_id", "car_id",
			"assignment_status", "assigned_at", "expires_at", "cancelled_at",
			"completed_at", "created_at",
		}).AddRow("a-1", "o-1", "other-owner", nil, nil,
			entity.AssignmentPending, nil, time.Now().Add(time.Minute), nil, nil, time.Now()))
	mock.ExpectRollback()

	result := uc.AcceptOrder(context.Background(), &model.AcceptOrderRequest{
		OwnerID: "owner-1",
		OrderID: "o-1",
	})
	require.Error(t, result.Error)

	var commonErr *httpError.CommonError
	require.ErrorAs(t, result.Error, &commonErr)
	assert.Equal(t, 409, commonErr.Code)
}

func TestAcceptOrderRejectsThinWallet(t *testing.T) {
	database, mock := newTestDB(t)
	uc := newAssignmentUseCase(database)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT(.|\s)+FROM orders WHERE order_id = \? FOR UPDATE`).
		WithArgs("o-1").
		WillReturnRows(pendingOrderRow(entity.SourceOnewayFamily, entity.TripTypeOneway))
	mock.ExpectQuery(`SELECT(.|\s)+FROM order_assignments`).
		WillReturnRows(sqlmock.NewRows([]string{"assignment_id"}))
	mock.ExpectQuery(`SELECT balance FROM owner_wallets`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(999))
	mock.ExpectRollback()

	result := uc.AcceptOrder(context.Background(), &model.AcceptOrderRequest{
		OwnerID: "owner-1",
		OrderID: "o-1",
	})
	require.Error(t, result.Error)

	var commonErr *httpError.CommonError
	require.ErrorAs(t, result.Error, &commonErr)
	assert.Equal(t, 422, commonErr.Code)
}

func TestSweepExpiredCancelsAndCounts(t *testing.T) {
	database, mock := newTestDB(t)
	uc := newAssignmentUseCase(database)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT(.|\s)+FROM order_assignments(.|\s)+FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{
			"assignment_id", "order_id", "owner_id", "driver_id", "car_id",
			"assignment_status", "assigned_at", "expires_at", "cancelled_at",
			"completed_at", "created_at",
		}).
			AddRow("a-1", "o-1", "owner-1", nil, nil,
				entity.AssignmentPending, nil, now.Add(-time.Minute), nil, nil, now.Add(-time.Hour)).
			AddRow("a-2", "o-2", "owner-2", nil, nil,
				entity.AssignmentPending, nil, now.Add(-2*time.Minute), nil, nil, now.Add(-time.Hour)))
	mock.ExpectExec(`UPDATE order_assignments`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	result := uc.SweepExpired(context.Background())
	require.NoError(t, result.Error)
	assert.Equal(t, int64(2), result.Data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepExpiredNoCandidates(t *testing.T) {
	database, mock := newTestDB(t)
	uc := newAssignmentUseCase(database)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT(.|\s)+FROM order_assignments(.|\s)+FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{
			"assignment_id", "order_id", "owner_id", "driver_id", "car_id",
			"assignment_status", "assigned_at", "expires_at", "cancelled_at",
			"completed_at", "created_at",
		}))
	mock.ExpectCommit()

	result := uc.SweepExpired(context.Background())
	require.NoError(t, result.Error)
	assert.Equal(t, int64(0), result.Data)
}

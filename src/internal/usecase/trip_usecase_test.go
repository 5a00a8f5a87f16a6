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
	"dispatch-service/src/internal/gateway/messaging"
	"dispatch-service/src/internal/model"
	"dispatch-service/src/internal/repository"
	"dispatch-service/src/pkg/databases/mysql"
	httpError "dispatch-service/src/pkg/http-error"
	"dispatch-service/src/pkg/log"
)

func newTripUseCase(database *mysql.Database) *TripUseCase {
	logger := log.Log{}
	return NewTripUseCase(
		logger,
		validator.New(),
		database,
		repository.NewOrderRepository(database),
		repository.NewAssignmentRepository(database),
		repository.NewTripRepository(database),
		repository.NewWalletRepository(database),
		repository.NewDriverRepository(database),
		messaging.NewTripProducer(nil, logger),
	)
}

var assignmentCols = []string{
	"assignment_id", "order_id", "owner_id", "driver_id", "car_id",
	"assignment_status", "assigned_at", "expires_at", "cancelled_at",
	"completed_at", "created_at",
}

var tripCols = []string{
	"trip_id", "order_id", "driver_id", "start_km", "end_km",
	"start_photo_ref", "end_photo_ref", "contact_number",
	"started_at", "ended_at",
}

func drivingAssignmentRow(now time.Time) *sqlmock.Rows {
	assignedAt := now.Add(-time.Hour)
	return sqlmock.NewRows(assignmentCols).AddRow(
		"a-1", "o-1", "owner-1", "d-1", "car-1",
		entity.AssignmentDriving, assignedAt, now.Add(-30*time.Minute), nil, nil, now.Add(-2*time.Hour))
}

// EndTrip settles a 12-hour rental driven 150 km inside its 300 km package:
// driver price 50*12=600, vendor price 60*12=720, raw margin 120, admin 12,
// vendor 108, driver profit 600.
func TestEndTripSettlesHourlyRentalAtomically(t *testing.T) {
	database, mock := newTestDB(t)
	uc := newTripUseCase(database)
	now := time.Now()

	mock.ExpectQuery(`SELECT(.|\s)+FROM orders WHERE order_id = \?`).
		WithArgs("o-1").
		WillReturnRows(pendingOrderRow(entity.SourceHourly, entity.TripTypeHourly))
	mock.ExpectQuery(`SELECT(.|\s)+FROM trip_records`).
		WithArgs("o-1").
		WillReturnRows(sqlmock.NewRows(tripCols).AddRow(
			"t-1", "o-1", "d-1", int64(100), int64(0),
			"photo-start", nil, nil, now.Add(-time.Hour), nil))
	mock.ExpectQuery(`SELECT(.|\s)+FROM order_assignments`).
		WithArgs("o-1", entity.AssignmentCancelled).
		WillReturnRows(drivingAssignmentRow(now))
	mock.ExpectQuery(`SELECT(.|\s)+FROM hourly_orders`).
		WithArgs("src-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"source_order_id", "package_hours", "package_km_range",
			"cost_per_hour", "extra_cost_per_hour",
			"cost_per_addon_km", "extra_cost_per_addon_km",
			"pickup_notes", "created_at",
		}).AddRow("src-1", int64(12), int64(300), int64(50), int64(10), int64(0), int64(0), "", now))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT(.|\s)+FROM orders WHERE order_id = \? FOR UPDATE`).
		WithArgs("o-1").
		WillReturnRows(pendingOrderRow(entity.SourceHourly, entity.TripTypeHourly))
	mock.ExpectExec(`UPDATE trip_records`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE order_assignments`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// owner debited the closed vendor price
	mock.ExpectQuery(`SELECT balance FROM owner_wallets(.|\s)+FOR UPDATE`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(10000))
	mock.ExpectExec(`UPDATE owner_wallets`).
		WithArgs(int64(9280), "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO owner_wallet_ledger`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	// vendor credited its net profit
	mock.ExpectQuery(`SELECT balance FROM vendor_wallets(.|\s)+FOR UPDATE`).
		WithArgs("vendor-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(0))
	mock.ExpectExec(`UPDATE vendor_wallets`).
		WithArgs(int64(108), "vendor-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO vendor_wallet_ledger`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	// platform wallet takes the commission
	mock.ExpectQuery(`SELECT balance FROM admin_wallets(.|\s)+FOR UPDATE`).
		WithArgs(entity.AdminActorID).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(500))
	mock.ExpectExec(`UPDATE admin_wallets`).
		WithArgs(int64(512), entity.AdminActorID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO admin_wallet_ledger`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(`UPDATE driver_availability`).
		WithArgs(entity.DriverOnline, "d-1", entity.DriverDriving).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result := uc.EndTrip(context.Background(), &model.EndTripRequest{
		DriverID:    "d-1",
		OrderID:     "o-1",
		EndKm:       250,
		EndPhotoRef: "photo-end",
	})
	require.NoError(t, result.Error)

	resp := result.Data.(*model.TripClosedResponse)
	assert.Equal(t, int64(150), resp.TotalKm)
	assert.Equal(t, int64(720), resp.Settlement.ClosedVendorPrice)
	assert.Equal(t, int64(600), resp.Settlement.ClosedDriverPrice)
	assert.Equal(t, int64(108), resp.Settlement.VendorProfit)
	assert.Equal(t, int64(12), resp.Settlement.AdminProfit)
	assert.Equal(t, int64(600), resp.Settlement.DriverProfit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEndTripRollsBackWhenOwnerCannotPay(t *testing.T) {
	database, mock := newTestDB(t)
	uc := newTripUseCase(database)
	now := time.Now()

	mock.ExpectQuery(`SELECT(.|\s)+FROM orders WHERE order_id = \?`).
		WithArgs("o-1").
		WillReturnRows(pendingOrderRow(entity.SourceHourly, entity.TripTypeHourly))
	mock.ExpectQuery(`SELECT(.|\s)+FROM trip_records`).
		WithArgs("o-1").
		WillReturnRows(sqlmock.NewRows(tripCols).AddRow(
			"t-1", "o-1", "d-1", int64(100), int64(0),
			"photo-start", nil, nil, now.Add(-time.Hour), nil))
	mock.ExpectQuery(`SELECT(.|\s)+FROM order_assignments`).
		WillReturnRows(drivingAssignmentRow(now))
	mock.ExpectQuery(`SELECT(.|\s)+FROM hourly_orders`).
		WithArgs("src-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"source_order_id", "package_hours", "package_km_range",
			"cost_per_hour", "extra_cost_per_hour",
			"cost_per_addon_km", "extra_cost_per_addon_km",
			"pickup_notes", "created_at",
		}).AddRow("src-1", int64(12), int64(300), int64(50), int64(10), int64(0), int64(0), "", now))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT(.|\s)+FROM orders WHERE order_id = \? FOR UPDATE`).
		WithArgs("o-1").
		WillReturnRows(pendingOrderRow(entity.SourceHourly, entity.TripTypeHourly))
	mock.ExpectExec(`UPDATE trip_records`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE order_assignments`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT balance FROM owner_wallets(.|\s)+FOR UPDATE`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(100))
	mock.ExpectRollback()

	result := uc.EndTrip(context.Background(), &model.EndTripRequest{
		DriverID:    "d-1",
		OrderID:     "o-1",
		EndKm:       250,
		EndPhotoRef: "photo-end",
	})
	require.Error(t, result.Error)

	var commonErr *httpError.CommonError
	require.ErrorAs(t, result.Error, &commonErr)
	assert.Equal(t, 409, commonErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEndTripRejectsWrongDriver(t *testing.T) {
	database, mock := newTestDB(t)
	uc := newTripUseCase(database)
	now := time.Now()

	mock.ExpectQuery(`SELECT(.|\s)+FROM orders WHERE order_id = \?`).
		WithArgs("o-1").
		WillReturnRows(pendingOrderRow(entity.SourceHourly, entity.TripTypeHourly))
	mock.ExpectQuery(`SELECT(.|\s)+FROM trip_records`).
		WithArgs("o-1").
		WillReturnRows(sqlmock.NewRows(tripCols).AddRow(
			"t-1", "o-1", "d-1", int64(100), int64(0),
			"photo-start", nil, nil, now.Add(-time.Hour), nil))

	result := uc.EndTrip(context.Background(), &model.EndTripRequest{
		DriverID:    "impostor",
		OrderID:     "o-1",
		EndKm:       250,
		EndPhotoRef: "photo-end",
	})
	require.Error(t, result.Error)

	var commonErr *httpError.CommonError
	require.ErrorAs(t, result.Error, &commonErr)
	assert.Equal(t, 409, commonErr.Code)
}

func TestStartTripFlipsAssignmentTripAndDriverTogether(t *testing.T) {
	database, mock := newTestDB(t)
	uc := newTripUseCase(database)
	now := time.Now()
	assignedAt := now.Add(-time.Minute)

	mock.ExpectQuery(`SELECT(.|\s)+FROM order_assignments`).
		WithArgs("o-1", entity.AssignmentCancelled).
		WillReturnRows(sqlmock.NewRows(assignmentCols).AddRow(
			"a-1", "o-1", "owner-1", "d-1", "car-1",
			entity.AssignmentAssigned, assignedAt, now.Add(10*time.Minute), nil, nil, now.Add(-time.Hour)))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE order_assignments`).
		WithArgs(entity.AssignmentDriving, "a-1", entity.AssignmentAssigned).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO trip_records`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE driver_availability`).
		WithArgs(entity.DriverDriving, "d-1", entity.DriverOnline).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result := uc.StartTrip(context.Background(), &model.StartTripRequest{
		DriverID:      "d-1",
		OrderID:       "o-1",
		StartKm:       100,
		StartPhotoRef: "photo-start",
	})
	require.NoError(t, result.Error)

	resp := result.Data.(*model.TripStartedResponse)
	assert.Equal(t, "o-1", resp.OrderID)
	assert.Equal(t, int64(100), resp.StartKm)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAvailabilityOfflineToOnline(t *testing.T) {
	database, mock := newTestDB(t)
	uc := newTripUseCase(database)

	mock.ExpectQuery(`SELECT(.|\s)+FROM driver_availability`).
		WithArgs("d-1").
		WillReturnRows(sqlmock.NewRows([]string{"driver_id", "owner_id", "status", "last_seen_at"}).
			AddRow("d-1", "owner-1", entity.DriverOffline, time.Now()))
	mock.ExpectExec(`UPDATE driver_availability`).
		WithArgs(entity.DriverOnline, "d-1", entity.DriverOffline).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result := uc.SetAvailability(context.Background(), &model.DriverAvailabilityRequest{
		DriverID: "d-1",
		Status:   entity.DriverOnline,
	})
	require.NoError(t, result.Error)
	assert.Equal(t, entity.DriverOnline, result.Data.(*model.DriverStatusResponse).Status)
}

func TestSetAvailabilityBlockedWhileDriving(t *testing.T) {
	database, mock := newTestDB(t)
	uc := newTripUseCase(database)

	mock.ExpectQuery(`SELECT(.|\s)+FROM driver_availability`).
		WithArgs("d-1").
		WillReturnRows(sqlmock.NewRows([]string{"driver_id", "owner_id", "status", "last_seen_at"}).
			AddRow("d-1", "owner-1", entity.DriverDriving, time.Now()))

	result := uc.SetAvailability(context.Background(), &model.DriverAvailabilityRequest{
		DriverID: "d-1",
		Status:   entity.DriverOffline,
	})
	require.Error(t, result.Error)

	var commonErr *httpError.CommonError
	require.ErrorAs(t, result.Error, &commonErr)
	assert.Equal(t, 409, commonErr.Code)
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

type TripRepository struct {
	DB mysql.DBInterface
}

func NewTripRepository(db mysql.DBInterface) *TripRepository {
	return &TripRepository{DB: db}
}

// Create opens the trip record at trip start; end_km stays 0 until close.
func (r *TripRepository) Create(ctx context.Context, tx *sqlx.Tx, t *entity.TripRecord) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO trip_records (
			trip_id, order_id, driver_id, start_km, end_km,
			start_photo_ref, started_at
		) VALUES (?, ?, ?, ?, 0, ?, NOW())`,
		t.TripID, t.OrderID, t.DriverID, t.StartKm, t.StartPhotoRef,
	)
	return err
}

// FindOpenByOrder returns the un-ended trip record for an order.
func (r *TripRepository) FindOpenByOrder(ctx context.Context, q sqlx.QueryerContext, orderID string) (*entity.TripRecord, error) {
	var t entity.TripRecord
	err := sqlx.GetContext(ctx, q, &t, `
		SELECT trip_id, order_id, driver_id, start_km, end_km,
		       start_photo_ref, end_photo_ref, contact_number,
		       started_at, ended_at
		FROM trip_records
		WHERE order_id = ? AND ended_at IS NULL
		LIMIT 1`, orderID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TripRepository) FindOpenByOrderDB(ctx context.Context, orderID string) (*entity.TripRecord, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	return r.FindOpenByOrder(ctx, db, orderID)
}

// Close writes the end-of-trip facts exactly once.
func (r *TripRepository) Close(ctx context.Context, tx *sqlx.Tx, tripID string, endKm int64, endPhotoRef, contactNumber string) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE trip_records
		SET end_km = ?, end_photo_ref = ?, contact_number = ?, ended_at = NOW()
		WHERE trip_id = ? AND ended_at IS NULL`,
		endKm, endPhotoRef, contactNumber, tripID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

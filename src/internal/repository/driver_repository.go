package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

type DriverRepository struct {
	DB mysql.DBInterface
}

func NewDriverRepository(db mysql.DBInterface) *DriverRepository {
	return &DriverRepository{DB: db}
}

func (r *DriverRepository) Find(ctx context.Context, driverID string) (*entity.DriverAvailability, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var d entity.DriverAvailability
	err = sqlx.GetContext(ctx, db, &d, `
		SELECT driver_id, owner_id, status, last_seen_at
		FROM driver_availability
		WHERE driver_id = ?`, driverID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Transition flips the availability state only when the driver is still in
// `from`; a false return means the precondition no longer held.
func (r *DriverRepository) Transition(ctx context.Context, ext sqlx.ExtContext, driverID, from, to string) (bool, error) {
	res, err := ext.ExecContext(ctx, `
		UPDATE driver_availability
		SET status = ?, last_seen_at = NOW()
		WHERE driver_id = ? AND status = ?`,
		to, driverID, from,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *DriverRepository) TransitionDB(ctx context.Context, driverID, from, to string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	return r.Transition(ctx, db, driverID, from, to)
}

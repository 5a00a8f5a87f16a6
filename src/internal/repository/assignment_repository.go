package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

type AssignmentRepository struct {
	DB mysql.DBInterface
}

func NewAssignmentRepository(db mysql.DBInterface) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

const assignmentColumns = `
	assignment_id, order_id, owner_id, driver_id, car_id, assignment_status,
	assigned_at, expires_at, cancelled_at, completed_at, created_at`

// FindActiveByOrder returns the single non-CANCELLED assignment of an order,
// or ErrNotFound.
func (r *AssignmentRepository) FindActiveByOrder(ctx context.Context, q sqlx.QueryerContext, orderID string) (*entity.OrderAssignment, error) {
	var a entity.OrderAssignment
	err := sqlx.GetContext(ctx, q, &a, `
		SELECT `+assignmentColumns+`
		FROM order_assignments
		WHERE order_id = ? AND assignment_status != ?
		LIMIT 1`,
		orderID, entity.AssignmentCancelled,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) FindActiveByOrderDB(ctx context.Context, orderID string) (*entity.OrderAssignment, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	return r.FindActiveByOrder(ctx, db, orderID)
}

// Create inserts a PENDING claim. The caller holds the order row lock; the
// generated-column unique index on (order_id, active) is the storage-level
// backstop, surfaced as ErrActiveAssignment.
func (r *AssignmentRepository) Create(ctx context.Context, tx *sqlx.Tx, a *entity.OrderAssignment) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_assignments (
			assignment_id, order_id, owner_id, assignment_status,
			expires_at, created_at
		) VALUES (?, ?, ?, ?, ?, NOW())`,
		a.AssignmentID, a.OrderID, a.OwnerID, a.Status, a.ExpiresAt,
	)
	var mysqlErr *mysqldrv.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrActiveAssignment
	}
	return err
}

// AssignDriverCar binds driver and car; the PENDING predicate makes the
// transition lose cleanly against a concurrent sweep.
func (r *AssignmentRepository) AssignDriverCar(ctx context.Context, orderID, ownerID, driverID, carID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE order_assignments
		SET driver_id = ?, car_id = ?, assignment_status = ?, assigned_at = NOW()
		WHERE order_id = ? AND owner_id = ? AND assignment_status = ?`,
		driverID, carID, entity.AssignmentAssigned,
		orderID, ownerID, entity.AssignmentPending,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// Transition moves one assignment between lifecycle states inside the
// caller's transaction; returns false when the row is no longer in `from`.
func (r *AssignmentRepository) Transition(ctx context.Context, tx *sqlx.Tx, assignmentID, from, to string) (bool, error) {
	set := `assignment_status = ?`
	switch to {
	case entity.AssignmentCompleted:
		set += `, completed_at = NOW()`
	case entity.AssignmentCancelled:
		set += `, cancelled_at = NOW()`
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE order_assignments
		SET `+set+`
		WHERE assignment_id = ? AND assignment_status = ?`,
		to, assignmentID, from,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// Cancel ends a PENDING or ASSIGNED claim on behalf of its owner.
func (r *AssignmentRepository) Cancel(ctx context.Context, tx *sqlx.Tx, assignmentID, ownerID string) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE order_assignments
		SET assignment_status = ?, cancelled_at = NOW()
		WHERE assignment_id = ? AND owner_id = ?
		  AND assignment_status IN (?, ?)`,
		entity.AssignmentCancelled, assignmentID, ownerID,
		entity.AssignmentPending, entity.AssignmentAssigned,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// ListExpiredPending selects sweep candidates: PENDING past their deadline
// with neither driver nor car bound. Locked for the sweep transaction.
func (r *AssignmentRepository) ListExpiredPending(ctx context.Context, tx *sqlx.Tx, now time.Time) ([]entity.OrderAssignment, error) {
	var out []entity.OrderAssignment
	err := sqlx.SelectContext(ctx, tx, &out, `
		SELECT `+assignmentColumns+`
		FROM order_assignments
		WHERE assignment_status = ?
		  AND driver_id IS NULL
		  AND car_id IS NULL
		  AND expires_at < ?
		FOR UPDATE`,
		entity.AssignmentPending, now,
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CancelExpired flips the locked candidates; the repeated predicate keeps the
// statement idempotent if a row slipped out between select and update.
func (r *AssignmentRepository) CancelExpired(ctx context.Context, tx *sqlx.Tx, now time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE order_assignments
		SET assignment_status = ?, cancelled_at = NOW()
		WHERE assignment_status = ?
		  AND driver_id IS NULL
		  AND car_id IS NULL
		  AND expires_at < ?`,
		entity.AssignmentCancelled, entity.AssignmentPending, now,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

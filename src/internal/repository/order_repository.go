package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

type OrderRepository struct {
	DB mysql.DBInterface
}

func NewOrderRepository(db mysql.DBInterface) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `
	order_id, source, source_order_id, vendor_id, trip_type, car_type,
	waypoints, customer_name, customer_number, trip_status, send_to, near_city,
	estimated_km, estimated_duration, estimated_price, vendor_price,
	commission_percent, toll_update_allowed, customer_visible, start_at,
	accept_deadline, closed_vendor_price, closed_driver_price,
	commission_amount, vendor_profit, admin_profit, driver_profit,
	cancelled_by, created_at, updated_at`

// Create inserts the source-order variant and the master order inside the
// caller's transaction. The source row is immutable after this point.
func (r *OrderRepository) Create(ctx context.Context, tx *sqlx.Tx, order *entity.Order, src entity.SourceOrder) error {
	switch src.Kind {
	case entity.SourceOnewayFamily:
		p := src.PointToPoint
		_, err := tx.ExecContext(ctx, `
			INSERT INTO point_to_point_orders (
				source_order_id, cost_per_km, extra_cost_per_km,
				driver_allowance, extra_driver_allowance,
				permit_charges, extra_permit_charges,
				hill_charges, toll_charges, pickup_notes, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
			p.SourceOrderID, p.CostPerKm, p.ExtraCostPerKm,
			p.DriverAllowance, p.ExtraDriverAllowance,
			p.PermitCharges, p.ExtraPermitCharges,
			p.HillCharges, p.TollCharges, p.PickupNotes,
		)
		if err != nil {
			return err
		}
	case entity.SourceHourly:
		h := src.Hourly
		_, err := tx.ExecContext(ctx, `
			INSERT INTO hourly_orders (
				source_order_id, package_hours, package_km_range,
				cost_per_hour, extra_cost_per_hour,
				cost_per_addon_km, extra_cost_per_addon_km,
				pickup_notes, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
			h.SourceOrderID, h.PackageHours, h.PackageKmRange,
			h.CostPerHour, h.ExtraCostPerHour,
			h.CostPerAddonKm, h.ExtraCostPerAddonKm,
			h.PickupNotes,
		)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown source kind %q", src.Kind)
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO orders (
			order_id, source, source_order_id, vendor_id, trip_type, car_type,
			waypoints, customer_name, customer_number, trip_status, send_to,
			near_city, estimated_km, estimated_duration, estimated_price,
			vendor_price, commission_percent, toll_update_allowed,
			customer_visible, start_at, accept_deadline, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		order.OrderID, order.Source, order.SourceOrderID, order.VendorID,
		order.TripType, order.CarType, order.Waypoints, order.CustomerName,
		order.CustomerNumber, order.TripStatus, order.SendTo, order.NearCity,
		order.EstimatedKm, order.EstimatedDuration, order.EstimatedPrice,
		order.VendorPrice, order.CommissionPercent, order.TollUpdateAllowed,
		order.CustomerVisible, order.StartAt, order.AcceptDeadline,
	)
	return err
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	return findOrder(ctx, db, orderID, false)
}

// FindByIDForUpdate locks the order row for the remainder of the caller's
// transaction; acceptance and settlement serialize on this lock.
func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, tx *sqlx.Tx, orderID string) (*entity.Order, error) {
	return findOrder(ctx, tx, orderID, true)
}

func findOrder(ctx context.Context, q sqlx.QueryerContext, orderID string, forUpdate bool) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = ?`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var order entity.Order
	err := sqlx.GetContext(ctx, q, &order, query, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindSource loads the variant record the master order points at.
func (r *OrderRepository) FindSource(ctx context.Context, order *entity.Order) (entity.SourceOrder, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return entity.SourceOrder{}, err
	}

	switch order.Source {
	case entity.SourceOnewayFamily:
		var p entity.PointToPointOrder
		err := sqlx.GetContext(ctx, db, &p, `
			SELECT source_order_id, cost_per_km, extra_cost_per_km,
			       driver_allowance, extra_driver_allowance,
			       permit_charges, extra_permit_charges,
			       hill_charges, toll_charges, pickup_notes, created_at
			FROM point_to_point_orders
			WHERE source_order_id = ?`, order.SourceOrderID)
		if errors.Is(err, sql.ErrNoRows) {
			return entity.SourceOrder{}, ErrNotFound
		}
		if err != nil {
			return entity.SourceOrder{}, err
		}
		return entity.SourceOrder{Kind: entity.SourceOnewayFamily, PointToPoint: &p}, nil
	case entity.SourceHourly:
		var h entity.HourlyOrder
		err := sqlx.GetContext(ctx, db, &h, `
			SELECT source_order_id, package_hours, package_km_range,
			       cost_per_hour, extra_cost_per_hour,
			       cost_per_addon_km, extra_cost_per_addon_km,
			       pickup_notes, created_at
			FROM hourly_orders
			WHERE source_order_id = ?`, order.SourceOrderID)
		if errors.Is(err, sql.ErrNoRows) {
			return entity.SourceOrder{}, ErrNotFound
		}
		if err != nil {
			return entity.SourceOrder{}, err
		}
		return entity.SourceOrder{Kind: entity.SourceHourly, Hourly: &h}, nil
	default:
		return entity.SourceOrder{}, fmt.Errorf("order %s has unknown source %q", order.OrderID, order.Source)
	}
}

// ListOpen returns PENDING orders without an active assignment; an order with
// only CANCELLED assignments is indistinguishable from a never-claimed one.
func (r *OrderRepository) ListOpen(ctx context.Context, city string) ([]entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		WHERE o.trip_status = ?
		  AND NOT EXISTS (
			SELECT 1 FROM order_assignments a
			WHERE a.order_id = o.order_id AND a.assignment_status != ?
		  )
		  AND (o.send_to = ? OR o.near_city = ?)
		ORDER BY o.created_at DESC`

	var orders []entity.Order
	err = sqlx.SelectContext(ctx, db, &orders, query,
		entity.TripStatusPending, entity.AssignmentCancelled, entity.SendToAll, city)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Close writes the post-close fields exactly once; a second attempt matches
// no row because closed_vendor_price is no longer NULL.
func (r *OrderRepository) Close(ctx context.Context, tx *sqlx.Tx, orderID string, closedVendorPrice, closedDriverPrice, commissionAmount, vendorProfit, adminProfit, driverProfit int64) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET trip_status = ?,
		    closed_vendor_price = ?,
		    closed_driver_price = ?,
		    commission_amount = ?,
		    vendor_profit = ?,
		    admin_profit = ?,
		    driver_profit = ?,
		    updated_at = NOW()
		WHERE order_id = ?
		  AND trip_status = ?
		  AND closed_vendor_price IS NULL`,
		entity.TripStatusCompleted,
		closedVendorPrice, closedDriverPrice, commissionAmount,
		vendorProfit, adminProfit, driverProfit,
		orderID, entity.TripStatusPending,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// CancelByVendor marks the order cancelled; only the owning vendor may do it
// and only while the trip is still pending.
func (r *OrderRepository) CancelByVendor(ctx context.Context, tx *sqlx.Tx, orderID, vendorID string) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET trip_status = ?, cancelled_by = ?, updated_at = NOW()
		WHERE order_id = ? AND vendor_id = ? AND trip_status = ?`,
		entity.TripStatusCancelled, entity.CancelledByVendor,
		orderID, vendorID, entity.TripStatusPending,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *OrderRepository) SetVisibility(ctx context.Context, orderID, vendorID string, visible bool) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE orders
		SET customer_visible = ?, updated_at = NOW()
		WHERE order_id = ? AND vendor_id = ?`,
		visible, orderID, vendorID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/openbistro/ordering-platform/internal/model"
)

// OrderRepo provides access to orders and their line items.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns an OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `id, order_number, order_type, table_id, reservation_id,
	customer_name, customer_phone, status, total, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (model.Order, error) {
	var o model.Order
	var tableID, reservationID sql.NullInt64
	var name, phone sql.NullString
	err := row.Scan(&o.ID, &o.OrderNumber, &o.OrderType, &tableID, &reservationID,
		&name, &phone, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	if tableID.Valid {
		v := uint64(tableID.Int64)
		o.TableID = &v
	}
	if reservationID.Valid {
		v := uint64(reservationID.Int64)
		o.ReservationID = &v
	}
	if name.Valid {
		v := name.String
		o.CustomerName = &v
	}
	if phone.Valid {
		v := phone.String
		o.CustomerPhone = &v
	}
	return o, err
}

// Create inserts an order and populates its ID and timestamps.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO orders
		   (order_number, order_type, table_id, reservation_id, customer_name, customer_phone, status, total)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OrderNumber, o.OrderType, o.TableID, o.ReservationID,
		o.CustomerName, o.CustomerPhone, o.Status, o.Total)
	if err != nil {
		// 1062 = duplicate entry; the only unique key besides the PK is
		// the reservation reference.
		if strings.Contains(err.Error(), "1062") {
			return ErrOrderExists
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)

	stored, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, o.ID))
	if err != nil {
		return err
	}
	*o = stored
	return nil
}

// GetByID returns one order with its items, or ErrOrderNotFound.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, menu_item_id, quantity, unit_price, created_at
		 FROM order_items WHERE order_id = ? ORDER BY id ASC`, id)
	if err != nil {
		return model.Order{}, err
	}
	defer rows.Close()
	o.Items = make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Quantity,
			&it.UnitPrice, &it.CreatedAt); err != nil {
			return model.Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// List returns orders newest first, optionally filtered by status.
func (r *OrderRepo) List(ctx context.Context, status string) ([]model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders`
	args := make([]any, 0, 1)
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus sets the status of an order and returns the updated row.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status string) (model.Order, error) {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ?`, status, id); err != nil {
		return model.Order{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes an order and its items.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// AddItem appends a menu item line to an order and bumps the order total,
// all within one transaction. The unit price is copied from the menu item at
// insert time. Returns the updated order.
func (r *OrderRepo) AddItem(ctx context.Context, orderID, menuItemID uint64, quantity int) (model.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE id = ? FOR UPDATE`, orderID).Scan(&exists); err != nil {
		return model.Order{}, err
	}
	if exists == 0 {
		return model.Order{}, ErrOrderNotFound
	}

	var price int64
	err = tx.QueryRowContext(ctx,
		`SELECT price FROM menu_items WHERE id = ?`, menuItemID).Scan(&price)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrMenuItemNotFound
	}
	if err != nil {
		return model.Order{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price)
		 VALUES (?, ?, ?, ?)`, orderID, menuItemID, quantity, price); err != nil {
		return model.Order{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET total = total + ? WHERE id = ?`,
		price*int64(quantity), orderID); err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true
	return r.GetByID(ctx, orderID)
}

// RemoveItem deletes a line from an order and subtracts its amount from the
// order total. Returns the updated order.
func (r *OrderRepo) RemoveItem(ctx context.Context, orderID, itemID uint64) (model.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var qty int
	var price int64
	err = tx.QueryRowContext(ctx,
		`SELECT quantity, unit_price FROM order_items WHERE id = ? AND order_id = ? FOR UPDATE`,
		itemID, orderID).Scan(&qty, &price)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM order_items WHERE id = ?`, itemID); err != nil {
		return model.Order{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET total = total - ? WHERE id = ?`,
		price*int64(qty), orderID); err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true
	return r.GetByID(ctx, orderID)
}

package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/openbistro/ordering-platform/internal/model"
)

// activeStatusSet returns the placeholder list and arguments for the
// reservation statuses that block a table. Every overlap query builds its
// status filter from model.ActiveReservationStatuses through this helper, so
// the set cannot drift between queries.
func activeStatusSet() (string, []any) {
	placeholders := strings.TrimSuffix(
		strings.Repeat("?,", len(model.ActiveReservationStatuses)), ",")
	args := make([]any, len(model.ActiveReservationStatuses))
	for i, s := range model.ActiveReservationStatuses {
		args[i] = s
	}
	return placeholders, args
}

// ReservationRepo provides access to reservations. The write path runs as a
// single transaction with a row lock on the table, so two concurrent
// requests for the same table and window cannot both pass the conflict
// check. All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, customer_name, customer_phone, table_id, party_size,
	start_time, end_time, status, notes, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var res model.Reservation
	var notes sql.NullString
	err := row.Scan(&res.ID, &res.CustomerName, &res.CustomerPhone, &res.TableID,
		&res.PartySize, &res.StartTime, &res.EndTime, &res.Status, &notes,
		&res.CreatedAt, &res.UpdatedAt)
	if notes.Valid {
		n := notes.String
		res.Notes = &n
	}
	return res, err
}

// ReserveIfFree books a table atomically. Inside one transaction it locks
// the table row by table number, checks for an active reservation whose
// [start, end) interval overlaps the requested one, and inserts the new
// reservation. Returns the locked table on success, ErrTableNotFound when
// the number does not exist, and ErrTableUnavailable on overlap. The
// reservation's ID and timestamps are populated before returning.
func (r *ReservationRepo) ReserveIfFree(ctx context.Context, tableNumber int, res *model.Reservation) (model.Table, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Table{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the table row for the duration of the check-and-insert. Any
	// concurrent reservation for the same table queues behind this lock.
	table, err := scanTable(tx.QueryRowContext(ctx,
		`SELECT `+tableColumns+` FROM tables WHERE table_number = ? FOR UPDATE`, tableNumber))
	if err == sql.ErrNoRows {
		return model.Table{}, ErrTableNotFound
	}
	if err != nil {
		return model.Table{}, err
	}

	// Overlap rule: existing.start < new.end AND existing.end > new.start,
	// counting only active reservations.
	statusPH, statusArgs := activeStatusSet()
	args := append([]any{table.ID}, statusArgs...)
	args = append(args, res.EndTime.UTC(), res.StartTime.UTC())
	var conflict int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE table_id = ? AND status IN (`+statusPH+`)
		   AND start_time < ? AND end_time > ?`, args...).Scan(&conflict)
	if err != nil {
		return model.Table{}, err
	}
	if conflict > 0 {
		return model.Table{}, ErrTableUnavailable
	}

	res.TableID = table.ID
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations
		   (customer_name, customer_phone, table_id, party_size, start_time, end_time, status, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.CustomerName, res.CustomerPhone, table.ID, res.PartySize,
		res.StartTime.UTC(), res.EndTime.UTC(), res.Status, res.Notes)
	if err != nil {
		return model.Table{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Table{}, err
	}
	res.ID = uint64(id)

	// Read back to populate defaults and timestamps.
	stored, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, res.ID))
	if err != nil {
		return model.Table{}, err
	}
	*res = stored

	if err := tx.Commit(); err != nil {
		return model.Table{}, err
	}
	committed = true
	return table, nil
}

// GetByID returns one reservation with its table summary joined, or
// ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	const q = `SELECT r.id, r.customer_name, r.customer_phone, r.table_id, r.party_size,
	                  r.start_time, r.end_time, r.status, r.notes, r.created_at, r.updated_at,
	                  t.id, t.table_number, t.capacity, t.zone, t.status, t.created_at, t.updated_at
	           FROM reservations r
	           JOIN tables t ON t.id = r.table_id
	           WHERE r.id = ?`
	res, table, err := scanReservationWithTable(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return model.Reservation{}, ErrReservationNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	res.Table = &table
	return res, nil
}

func scanReservationWithTable(row interface{ Scan(...any) error }) (model.Reservation, model.Table, error) {
	var res model.Reservation
	var t model.Table
	var notes sql.NullString
	err := row.Scan(&res.ID, &res.CustomerName, &res.CustomerPhone, &res.TableID,
		&res.PartySize, &res.StartTime, &res.EndTime, &res.Status, &notes,
		&res.CreatedAt, &res.UpdatedAt,
		&t.ID, &t.TableNumber, &t.Capacity, &t.Zone, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if notes.Valid {
		n := notes.String
		res.Notes = &n
	}
	return res, t, err
}

// ListFilter narrows List. Status filters on exact status; Start/End, when
// both set, keep reservations starting inside [Start, End).
type ListFilter struct {
	Status string
	Start  time.Time
	End    time.Time
}

// List returns reservations matching the filter ordered by start time, each
// with its table summary joined.
func (r *ReservationRepo) List(ctx context.Context, f ListFilter) ([]model.Reservation, error) {
	q := `SELECT r.id, r.customer_name, r.customer_phone, r.table_id, r.party_size,
	             r.start_time, r.end_time, r.status, r.notes, r.created_at, r.updated_at,
	             t.id, t.table_number, t.capacity, t.zone, t.status, t.created_at, t.updated_at
	      FROM reservations r
	      JOIN tables t ON t.id = r.table_id
	      WHERE 1 = 1`
	args := make([]any, 0, 3)
	if f.Status != "" {
		q += ` AND r.status = ?`
		args = append(args, f.Status)
	}
	if !f.Start.IsZero() && !f.End.IsZero() {
		q += ` AND r.start_time >= ? AND r.start_time < ?`
		args = append(args, f.Start.UTC(), f.End.UTC())
	}
	q += ` ORDER BY r.start_time ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, table, err := scanReservationWithTable(rows)
		if err != nil {
			return nil, err
		}
		res.Table = &table
		out = append(out, res)
	}
	return out, rows.Err()
}

// Update applies a status and/or notes change to a reservation and returns
// the updated row. Nil fields are left untouched.
func (r *ReservationRepo) Update(ctx context.Context, id uint64, status, notes *string) (model.Reservation, error) {
	if status != nil {
		if _, err := r.db.ExecContext(ctx,
			`UPDATE reservations SET status = ? WHERE id = ?`, *status, id); err != nil {
			return model.Reservation{}, err
		}
	}
	if notes != nil {
		if _, err := r.db.ExecContext(ctx,
			`UPDATE reservations SET notes = ? WHERE id = ?`, *notes, id); err != nil {
			return model.Reservation{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a reservation. Returns ErrReservationNotFound when the id
// does not exist.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

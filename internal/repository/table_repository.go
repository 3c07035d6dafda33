package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/openbistro/ordering-platform/internal/model"
)

// TableRepo provides access to the tables of the restaurant floor. All
// timestamps are stored in UTC.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableColumns = "id, table_number, capacity, zone, status, created_at, updated_at"

func scanTable(row interface{ Scan(...any) error }) (model.Table, error) {
	var t model.Table
	err := row.Scan(&t.ID, &t.TableNumber, &t.Capacity, &t.Zone, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// List returns every table ordered by table number.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tableColumns+` FROM tables ORDER BY table_number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]model.Table, 0)
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// GetByID returns one table or ErrTableNotFound.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (model.Table, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx,
		`SELECT `+tableColumns+` FROM tables WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Table{}, ErrTableNotFound
	}
	return t, err
}

// UpdateStatus sets the status of a table. Returns ErrTableNotFound when the
// id does not exist.
func (r *TableRepo) UpdateStatus(ctx context.Context, id uint64, status string) (model.Table, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tables SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return model.Table{}, err
	}
	// RowsAffected is zero both for a missing row and an unchanged status,
	// so existence is resolved by the read-back.
	return r.GetByID(ctx, id)
}

// ListAvailable returns the tables that can host a party of the given size
// over [start, end): status available, sufficient capacity, and no active
// reservation overlapping the window. Overlap uses the half-open rule
// existing.start < end AND existing.end > start. Ordered by table number.
func (r *TableRepo) ListAvailable(ctx context.Context, partySize int, start, end time.Time) ([]model.Table, error) {
	statusPH, statusArgs := activeStatusSet()
	q := `SELECT ` + tableColumns + `
	      FROM tables t
	      WHERE t.capacity >= ? AND t.status = ?
	        AND NOT EXISTS (
	          SELECT 1 FROM reservations r
	          WHERE r.table_id = t.id
	            AND r.status IN (` + statusPH + `)
	            AND r.start_time < ? AND r.end_time > ?
	        )
	      ORDER BY t.table_number ASC`
	args := append([]any{partySize, model.TableAvailable}, statusArgs...)
	args = append(args, end.UTC(), start.UTC())
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]model.Table, 0)
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

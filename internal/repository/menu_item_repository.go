package repository

import (
	"context"
	"database/sql"

	"github.com/openbistro/ordering-platform/internal/model"
)

// MenuItemRepo provides CRUD access to the menu.
type MenuItemRepo struct {
	db *sql.DB
}

// NewMenuItemRepo returns a MenuItemRepo bound to the given database.
func NewMenuItemRepo(db *sql.DB) *MenuItemRepo { return &MenuItemRepo{db: db} }

const menuItemColumns = "id, name, description, category, price, available, created_at, updated_at"

func scanMenuItem(row interface{ Scan(...any) error }) (model.MenuItem, error) {
	var m model.MenuItem
	var desc sql.NullString
	err := row.Scan(&m.ID, &m.Name, &desc, &m.Category, &m.Price, &m.Available,
		&m.CreatedAt, &m.UpdatedAt)
	if desc.Valid {
		d := desc.String
		m.Description = &d
	}
	return m, err
}

// List returns menu items ordered by category then name. When availableOnly
// is set, unavailable items are filtered out.
func (r *MenuItemRepo) List(ctx context.Context, availableOnly bool) ([]model.MenuItem, error) {
	q := `SELECT ` + menuItemColumns + ` FROM menu_items`
	if availableOnly {
		q += ` WHERE available = TRUE`
	}
	q += ` ORDER BY category ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.MenuItem, 0)
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// GetByID returns one menu item or ErrMenuItemNotFound.
func (r *MenuItemRepo) GetByID(ctx context.Context, id uint64) (model.MenuItem, error) {
	m, err := scanMenuItem(r.db.QueryRowContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.MenuItem{}, ErrMenuItemNotFound
	}
	return m, err
}

// Create inserts a menu item and populates its ID and timestamps.
func (r *MenuItemRepo) Create(ctx context.Context, m *model.MenuItem) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO menu_items (name, description, category, price, available)
		 VALUES (?, ?, ?, ?, ?)`,
		m.Name, m.Description, m.Category, m.Price, m.Available)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*m = stored
	return nil
}

// Update overwrites the mutable fields of a menu item and returns the
// updated row.
func (r *MenuItemRepo) Update(ctx context.Context, m model.MenuItem) (model.MenuItem, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE menu_items SET name = ?, description = ?, category = ?, price = ?, available = ?
		 WHERE id = ?`,
		m.Name, m.Description, m.Category, m.Price, m.Available, m.ID)
	if err != nil {
		return model.MenuItem{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return model.MenuItem{}, err
		}
	}
	return r.GetByID(ctx, m.ID)
}

// Delete removes a menu item. Returns ErrMenuItemNotFound when absent.
func (r *MenuItemRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

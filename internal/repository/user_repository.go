package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/openbistro/ordering-platform/internal/model"
	"github.com/openbistro/ordering-platform/internal/utils"
)

// ErrEmailExists is returned when a registration or update collides with an
// existing email address.
var ErrEmailExists = errors.New("email already exists")

// UserRepo provides access to the auth service's users table.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// UserWithHash pairs the public user record with its password hash for
// credential checks. The hash stays inside the auth service.
type UserWithHash struct {
	model.User
	PasswordHash string
}

// Create inserts a user with a bcrypt-hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role) VALUES (?, ?, ?, ?)`,
		name, email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user with its password hash by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (UserWithHash, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u UserWithHash
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		 FROM users WHERE email = ? LIMIT 1`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return UserWithHash{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a public user record by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, created_at, updated_at
		 FROM users WHERE id = ? LIMIT 1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// List returns all users ordered by id, without password hashes.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, role, created_at, updated_at FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update applies the non-nil fields to a user. A non-nil password is
// re-hashed before storage. Returns the updated record.
func (r *UserRepo) Update(ctx context.Context, id uint64, name, email, password, role *string, cost int) (model.User, error) {
	if name != nil {
		if _, err := r.db.ExecContext(ctx, `UPDATE users SET name = ? WHERE id = ?`, *name, id); err != nil {
			return model.User{}, err
		}
	}
	if email != nil {
		norm := strings.ToLower(strings.TrimSpace(*email))
		if _, err := r.db.ExecContext(ctx, `UPDATE users SET email = ? WHERE id = ?`, norm, id); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "1062") {
				return model.User{}, ErrEmailExists
			}
			return model.User{}, err
		}
	}
	if password != nil {
		hash, err := utils.HashPassword(*password, cost)
		if err != nil {
			return model.User{}, err
		}
		if _, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id); err != nil {
			return model.User{}, err
		}
	}
	if role != nil {
		if _, err := r.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, *role, id); err != nil {
			return model.User{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a user. Returns ErrUserNotFound when absent.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

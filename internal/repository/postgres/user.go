package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/gametrade/internal/domain"
	"github.com/ignite/gametrade/internal/service/user"
)

// UserRepo implements user.Repository against PostgreSQL. It also serves as
// the trade service's UserReader and the game service's UserReader.
type UserRepo struct{ db *sql.DB }

// NewUserRepo creates a Postgres-backed user repository.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, name, email, street_address, hashed_password`

func scanUser(row interface{ Scan(...interface{}) error }, u *domain.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.StreetAddress, &u.HashedPassword)
}

func (r *UserRepo) Get(ctx context.Context, id int64) (*domain.User, error) {
	u := &domain.User{}
	err := scanUser(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id), u)
	if err == sql.ErrNoRows {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUser satisfies trade.UserReader.
func (r *UserRepo) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return r.Get(ctx, id)
}

// UserExists satisfies game.UserReader.
func (r *UserRepo) UserExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	err := scanUser(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email), u)
	if err == sql.ErrNoRows {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context, f user.ListFilter) ([]domain.User, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY id ASC OFFSET $1 LIMIT $2
	`, f.Skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, street_address, hashed_password)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, u.Name, u.Email, u.StreetAddress, u.HashedPassword).Scan(&u.ID)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return user.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepo) Update(ctx context.Context, id int64, f user.UpdateFields) (*domain.User, error) {
	sets := []string{}
	args := []interface{}{id}
	idx := 2

	if f.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", idx))
		args = append(args, *f.Name)
		idx++
	}
	if f.StreetAddress != nil {
		sets = append(sets, fmt.Sprintf("street_address = $%d", idx))
		args = append(args, *f.StreetAddress)
		idx++
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	q := "UPDATE users SET "
	for i, s := range sets {
		if i > 0 {
			q += ", "
		}
		q += s
	}
	q += " WHERE id = $1 RETURNING " + userColumns

	u := &domain.User{}
	err := scanUser(r.db.QueryRowContext(ctx, q, args...), u)
	if err == sql.ErrNoRows {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET hashed_password = $2 WHERE id = $1`, id, hashed)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

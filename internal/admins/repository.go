package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nova-graduation/backend/internal/models"
)

const adminColumns = `id, username, email, password_hash, role, last_login, created_at, updated_at`

// Repository handles administrator persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an admins repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanAdmin(row pgx.Row) (*models.Administrator, error) {
	var a models.Administrator
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &a.LastLogin, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByUsername returns an administrator by username, or nil when absent.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*models.Administrator, error) {
	return scanAdmin(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM administrators WHERE username = $1`, username))
}

// GetByUsernameOrEmail returns the administrator matching either key, or nil
// when absent. Used by the upsert endpoint to decide insert vs update.
func (r *Repository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.Administrator, error) {
	return scanAdmin(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM administrators WHERE username = $1 OR email = $2`, username, email))
}

// Create inserts a new administrator.
func (r *Repository) Create(ctx context.Context, username, email, passwordHash, role string) (*models.Administrator, error) {
	const q = `INSERT INTO administrators (id, username, email, password_hash, role)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING ` + adminColumns
	return scanAdmin(r.pool.QueryRow(ctx, q, username, email, passwordHash, role))
}

// TouchLastLogin stamps a successful login.
func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE administrators SET last_login = NOW(), updated_at = NOW() WHERE id = $1`, id)
	return err
}

// UpdateFields updates only the provided columns. Nil pointers are left
// untouched so the statement carries exactly the fields that changed; with
// no fields it is a no-op.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, email, role, passwordHash *string) error {
	var sets []string
	args := []interface{}{id}
	next := 2
	add := func(column string, value string) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, next))
		args = append(args, value)
		next++
	}
	if email != nil {
		add("email", *email)
	}
	if role != nil {
		add("role", *role)
	}
	if passwordHash != nil {
		add("password_hash", *passwordHash)
	}
	if len(sets) == 0 {
		return nil
	}
	q := `UPDATE administrators SET ` + strings.Join(sets, ", ") + `, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, args...)
	return err
}

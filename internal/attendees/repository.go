// Package attendees persists the guests accompanying a graduate. Rows are
// always scoped to their owning graduate; there is no cross-graduate access
// path.
package attendees

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nova-graduation/backend/internal/models"
)

// Repository handles attendee persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an attendees repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByGraduate returns the graduate's attendees in insertion order.
func (r *Repository) ListByGraduate(ctx context.Context, graduateID uuid.UUID) ([]models.Attendee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, graduate_id, first_name, last_name, date_of_birth, created_at, updated_at
		 FROM attendees WHERE graduate_id = $1 ORDER BY created_at`, graduateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Attendee
	for rows.Next() {
		var a models.Attendee
		if err := rows.Scan(&a.ID, &a.GraduateID, &a.FirstName, &a.LastName, &a.DateOfBirth, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// DeleteByGraduate removes the graduate's whole attendee set.
func (r *Repository) DeleteByGraduate(ctx context.Context, graduateID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM attendees WHERE graduate_id = $1`, graduateID)
	return err
}

// Insert adds one attendee for the graduate.
func (r *Repository) Insert(ctx context.Context, graduateID uuid.UUID, firstName, lastName string, dateOfBirth models.Date) (*models.Attendee, error) {
	const q = `INSERT INTO attendees (id, graduate_id, first_name, last_name, date_of_birth)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	a := models.Attendee{
		GraduateID:  graduateID,
		FirstName:   firstName,
		LastName:    lastName,
		DateOfBirth: dateOfBirth,
	}
	err := r.pool.QueryRow(ctx, q, graduateID, firstName, lastName, dateOfBirth).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateScoped updates an attendee's fields only when the row belongs to the
// graduate; a forged or foreign id matches zero rows and mutates nothing.
// Returns whether a row was updated.
func (r *Repository) UpdateScoped(ctx context.Context, id, graduateID uuid.UUID, firstName, lastName string, dateOfBirth models.Date) (bool, error) {
	const q = `UPDATE attendees
		SET first_name = $3, last_name = $4, date_of_birth = $5, updated_at = NOW()
		WHERE id = $1 AND graduate_id = $2`
	tag, err := r.pool.Exec(ctx, q, id, graduateID, firstName, lastName, dateOfBirth)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

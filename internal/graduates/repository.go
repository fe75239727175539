// Package graduates persists the graduate rows driven through the
// registration workflow. Every stage transition is a single UPDATE so the
// statement's atomicity is the only consistency guarantee the workflow
// relies on.
package graduates

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nova-graduation/backend/internal/models"
)

const graduateColumns = `id, email, first_name, last_name, promotion, is_attending,
	registration_stage, registration_complete, registration_token, token_expiry,
	registration_date, last_updated`

// Repository handles graduate persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a graduates repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGraduate(row rowScanner) (*models.Graduate, error) {
	var g models.Graduate
	err := row.Scan(&g.ID, &g.Email, &g.FirstName, &g.LastName, &g.Promotion, &g.IsAttending,
		&g.RegistrationStage, &g.RegistrationComplete, &g.RegistrationToken, &g.TokenExpiry,
		&g.RegistrationDate, &g.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetByEmail returns a graduate by email, or nil when no row matches.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Graduate, error) {
	g, err := scanGraduate(r.pool.QueryRow(ctx,
		`SELECT `+graduateColumns+` FROM graduates WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

// GetByID returns a graduate by ID, or nil when no row matches.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Graduate, error) {
	g, err := scanGraduate(r.pool.QueryRow(ctx,
		`SELECT `+graduateColumns+` FROM graduates WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

// GetByValidToken returns the graduate holding token with an unexpired
// token_expiry, or nil when no such row exists. Wrong and expired tokens are
// indistinguishable here on purpose.
func (r *Repository) GetByValidToken(ctx context.Context, token string) (*models.Graduate, error) {
	g, err := scanGraduate(r.pool.QueryRow(ctx,
		`SELECT `+graduateColumns+` FROM graduates
		 WHERE registration_token = $1 AND token_expiry > NOW()`, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

// SubmitDetails records the Level-1 form: identity fields, the attendance
// answer, the advance to the guest stage and the fresh stage token, in one
// statement.
func (r *Repository) SubmitDetails(ctx context.Context, id uuid.UUID, firstName, lastName, promotion string, attending bool, token string, expiry time.Time) error {
	const q = `UPDATE graduates
		SET first_name = $2, last_name = $3, promotion = $4, is_attending = $5,
		    registration_stage = $6, registration_token = $7, token_expiry = $8,
		    last_updated = NOW()
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id, firstName, lastName, promotion, attending,
		models.StageGuests, token, expiry)
	return err
}

// AdvanceToAmend moves the graduate to the amendment stage and rotates the
// stage token, invalidating the one just consumed.
func (r *Repository) AdvanceToAmend(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error {
	const q = `UPDATE graduates
		SET registration_stage = $2, registration_token = $3, token_expiry = $4,
		    last_updated = NOW()
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id, models.StageAmend, token, expiry)
	return err
}

// MarkComplete flags the registration as complete. The stage token is left
// in place so further amendments keep working until it expires.
func (r *Repository) MarkComplete(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE graduates SET registration_complete = TRUE, last_updated = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}

// UpsertInvitation inserts a graduate at the initial stage with the given
// token, or, when the email already exists, overwrites the token pair and
// resets stage and completion so the flow restarts. Identity fields are only
// written on first insert; re-inviting never clobbers submitted names.
func (r *Repository) UpsertInvitation(ctx context.Context, email, firstName, lastName, promotion, token string, expiry time.Time) error {
	const q = `INSERT INTO graduates
		(id, email, first_name, last_name, promotion, registration_stage, registration_complete, registration_token, token_expiry)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, FALSE, $6, $7)
		ON CONFLICT (email) DO UPDATE SET
			registration_stage = EXCLUDED.registration_stage,
			registration_complete = FALSE,
			registration_token = EXCLUDED.registration_token,
			token_expiry = EXCLUDED.token_expiry,
			last_updated = NOW()`
	_, err := r.pool.Exec(ctx, q, email, firstName, lastName, promotion,
		models.StageDetails, token, expiry)
	return err
}

// Overview is one row of the admin registrations listing.
type Overview struct {
	models.Graduate
	AttendeeCount int `json:"attendee_count"`
}

// List returns all graduates newest-first with their attendee counts,
// optionally filtered by promotion.
func (r *Repository) List(ctx context.Context, promotion string) ([]Overview, error) {
	q := `SELECT g.id, g.email, g.first_name, g.last_name, g.promotion, g.is_attending,
		g.registration_stage, g.registration_complete, g.registration_token, g.token_expiry,
		g.registration_date, g.last_updated, COUNT(a.id)
		FROM graduates g
		LEFT JOIN attendees a ON a.graduate_id = g.id`
	var args []interface{}
	if promotion != "" {
		q += ` WHERE g.promotion = $1`
		args = append(args, promotion)
	}
	q += ` GROUP BY g.id ORDER BY g.registration_date DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Overview
	for rows.Next() {
		var o Overview
		if err := rows.Scan(&o.ID, &o.Email, &o.FirstName, &o.LastName, &o.Promotion, &o.IsAttending,
			&o.RegistrationStage, &o.RegistrationComplete, &o.RegistrationToken, &o.TokenExpiry,
			&o.RegistrationDate, &o.LastUpdated, &o.AttendeeCount); err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Stats aggregates registration progress for the admin dashboard.
type Stats struct {
	TotalGraduates int `json:"total_graduates"`
	Attending      int `json:"attending"`
	NotAttending   int `json:"not_attending"`
	Completed      int `json:"completed"`
	StageDetails   int `json:"stage_details"`
	StageGuests    int `json:"stage_guests"`
	StageAmend     int `json:"stage_amend"`
	TotalAttendees int `json:"total_attendees"`
}

// GetStats returns workflow-wide counters.
func (r *Repository) GetStats(ctx context.Context) (*Stats, error) {
	const q = `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE is_attending IS TRUE),
		COUNT(*) FILTER (WHERE is_attending IS FALSE),
		COUNT(*) FILTER (WHERE registration_complete),
		COUNT(*) FILTER (WHERE registration_stage = 1),
		COUNT(*) FILTER (WHERE registration_stage = 2),
		COUNT(*) FILTER (WHERE registration_stage = 3),
		(SELECT COUNT(*) FROM attendees)
		FROM graduates`
	var s Stats
	err := r.pool.QueryRow(ctx, q).Scan(&s.TotalGraduates, &s.Attending, &s.NotAttending,
		&s.Completed, &s.StageDetails, &s.StageGuests, &s.StageAmend, &s.TotalAttendees)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

package emaillogs

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nova-graduation/backend/internal/models"
)

// Repository handles email_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email logs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts one dispatch attempt and fills the entry's id and creation
// time.
func (r *Repository) Record(ctx context.Context, entry *models.EmailLog) error {
	const q = `INSERT INTO email_logs (id, graduate_id, email_type, recipient_email, subject, status, error_message, sent_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q,
		entry.GraduateID, entry.EmailType, entry.RecipientEmail,
		entry.Subject, entry.Status, entry.ErrorMessage, entry.SentAt,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// List returns dispatch attempts, newest first, optionally filtered to one
// graduate.
func (r *Repository) List(ctx context.Context, graduateID *uuid.UUID) ([]*models.EmailLog, error) {
	q := `SELECT id, graduate_id, email_type, recipient_email, subject, status, error_message, sent_at, created_at
		FROM email_logs`
	var args []interface{}
	if graduateID != nil {
		q += ` WHERE graduate_id = $1`
		args = append(args, *graduateID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.EmailLog
	for rows.Next() {
		var el models.EmailLog
		var subject, errMsg *string
		if err := rows.Scan(&el.ID, &el.GraduateID, &el.EmailType, &el.RecipientEmail, &subject, &el.Status, &errMsg, &el.SentAt, &el.CreatedAt); err != nil {
			return nil, err
		}
		if subject != nil {
			el.Subject = *subject
		}
		if errMsg != nil {
			el.ErrorMessage = *errMsg
		}
		list = append(list, &el)
	}
	return list, rows.Err()
}

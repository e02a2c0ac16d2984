package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/jobdeck/jobdeck/internal/domain"
)

// DocumentRepo persists generated cover-letter/referral-email pairs. The
// unique index on application_id keeps at most one pair per application;
// regeneration replaces the pair in place.
type DocumentRepo struct{ Pool PgxPool }

// NewDocumentRepo constructs a DocumentRepo with the given pool.
func NewDocumentRepo(p PgxPool) *DocumentRepo { return &DocumentRepo{Pool: p} }

// Upsert inserts the pair or, when the application already has one, overwrites
// it and returns the surviving row's id.
func (r *DocumentRepo) Upsert(ctx domain.Context, d domain.GeneratedDocument) (string, error) {
	tracer := otel.Tracer("repo.documents")
	ctx, span := tracer.Start(ctx, "documents.Upsert")
	defer span.End()
	id := d.ID
	if id == "" {
		id = uuid.New().String()
	}
	q := `INSERT INTO generated_documents (id, application_id, user_id, cover_letter, referral_email, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (application_id) DO UPDATE SET
			cover_letter=EXCLUDED.cover_letter,
			referral_email=EXCLUDED.referral_email,
			updated_at=EXCLUDED.updated_at
		RETURNING id`
	now := time.Now().UTC()
	var got string
	err := r.Pool.QueryRow(ctx, q, id, d.ApplicationID, d.UserID, d.CoverLetter, d.ReferralEmail, now, now).Scan(&got)
	if err != nil {
		return "", fmt.Errorf("op=document.upsert: %w", err)
	}
	return got, nil
}

// GetLatestByApplication loads the current pair for one of the user's
// applications.
func (r *DocumentRepo) GetLatestByApplication(ctx domain.Context, userID, applicationID string) (domain.GeneratedDocument, error) {
	tracer := otel.Tracer("repo.documents")
	ctx, span := tracer.Start(ctx, "documents.GetLatestByApplication")
	defer span.End()
	q := `SELECT id, application_id, user_id, cover_letter, referral_email, created_at, updated_at
		FROM generated_documents WHERE application_id=$1 AND user_id=$2`
	var d domain.GeneratedDocument
	err := r.Pool.QueryRow(ctx, q, applicationID, userID).Scan(
		&d.ID, &d.ApplicationID, &d.UserID, &d.CoverLetter, &d.ReferralEmail, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.GeneratedDocument{}, fmt.Errorf("op=document.get: %w", domain.ErrNotFound)
		}
		return domain.GeneratedDocument{}, fmt.Errorf("op=document.get: %w", err)
	}
	return d, nil
}

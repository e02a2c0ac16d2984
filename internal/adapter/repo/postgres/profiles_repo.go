package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/jobdeck/jobdeck/internal/domain"
)

// ProfileRepo stores the single resume blob each user keeps on file.
type ProfileRepo struct{ Pool PgxPool }

// NewProfileRepo constructs a ProfileRepo with the given pool.
func NewProfileRepo(p PgxPool) *ProfileRepo { return &ProfileRepo{Pool: p} }

// GetResume loads the user's stored resume text.
func (r *ProfileRepo) GetResume(ctx domain.Context, userID string) (string, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.GetResume")
	defer span.End()
	var text string
	err := r.Pool.QueryRow(ctx, `SELECT resume_text FROM profiles WHERE user_id=$1`, userID).Scan(&text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("op=profile.get_resume: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("op=profile.get_resume: %w", err)
	}
	return text, nil
}

// UpsertResume writes the resume text keyed by user id.
func (r *ProfileRepo) UpsertResume(ctx domain.Context, userID, text string) error {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.UpsertResume")
	defer span.End()
	q := `INSERT INTO profiles (user_id, resume_text, updated_at) VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET resume_text=EXCLUDED.resume_text, updated_at=EXCLUDED.updated_at`
	if _, err := r.Pool.Exec(ctx, q, userID, text, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=profile.upsert_resume: %w", err)
	}
	return nil
}

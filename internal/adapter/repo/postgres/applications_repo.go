package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"

	"github.com/jobdeck/jobdeck/internal/domain"
)

// PgxPool is a minimal subset of pgxpool used by the repos for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ApplicationRepo persists applications using a minimal pgx pool.
type ApplicationRepo struct{ Pool PgxPool }

// NewApplicationRepo constructs an ApplicationRepo with the given pool.
func NewApplicationRepo(p PgxPool) *ApplicationRepo { return &ApplicationRepo{Pool: p} }

const applicationColumns = `id, user_id, company_name, job_title, status,
	COALESCE(location,''), salary_min, salary_max, COALESCE(application_url,''),
	COALESCE(date_applied,''), COALESCE(notes,''), interview_date, interview_time,
	interviewer_name, meeting_link, interview_notes, created_at`

// Create inserts a new application and returns its id.
func (r *ApplicationRepo) Create(ctx domain.Context, a domain.Application) (string, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.Create")
	defer span.End()
	id := a.ID
	if id == "" {
		id = uuid.New().String()
	}
	q := `INSERT INTO applications (id, user_id, company_name, job_title, status, location,
		salary_min, salary_max, application_url, date_applied, notes,
		interview_date, interview_time, interviewer_name, meeting_link, interview_notes,
		created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`
	args := append([]any{id, a.UserID, a.CompanyName, a.JobTitle, a.Status, a.Location,
		a.SalaryMin, a.SalaryMax, a.ApplicationURL, a.DateApplied, a.Notes},
		interviewArgs(a.Interview)...)
	args = append(args, time.Now().UTC(), time.Now().UTC())
	if _, err := r.Pool.Exec(ctx, q, args...); err != nil {
		return "", fmt.Errorf("op=application.create: %w", err)
	}
	return id, nil
}

// Get loads one application scoped to its owner.
func (r *ApplicationRepo) Get(ctx domain.Context, userID, id string) (domain.Application, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.Get")
	defer span.End()
	q := `SELECT ` + applicationColumns + ` FROM applications WHERE id=$1 AND user_id=$2`
	a, err := scanApplication(r.Pool.QueryRow(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Application{}, fmt.Errorf("op=application.get: %w", domain.ErrNotFound)
		}
		return domain.Application{}, fmt.Errorf("op=application.get: %w", err)
	}
	return a, nil
}

// ListByUser returns all of the user's applications, newest first.
func (r *ApplicationRepo) ListByUser(ctx domain.Context, userID string) ([]domain.Application, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.ListByUser")
	defer span.End()
	q := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("op=application.list: %w", err)
	}
	defer rows.Close()
	var out []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("op=application.list: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=application.list: %w", err)
	}
	return out, nil
}

// Replace overwrites every mutable column of one application.
func (r *ApplicationRepo) Replace(ctx domain.Context, a domain.Application) error {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.Replace")
	defer span.End()
	q := `UPDATE applications SET company_name=$3, job_title=$4, status=$5, location=$6,
		salary_min=$7, salary_max=$8, application_url=$9, date_applied=$10, notes=$11,
		interview_date=$12, interview_time=$13, interviewer_name=$14, meeting_link=$15,
		interview_notes=$16, updated_at=$17
		WHERE id=$1 AND user_id=$2`
	args := append([]any{a.ID, a.UserID, a.CompanyName, a.JobTitle, a.Status, a.Location,
		a.SalaryMin, a.SalaryMax, a.ApplicationURL, a.DateApplied, a.Notes},
		interviewArgs(a.Interview)...)
	args = append(args, time.Now().UTC())
	tag, err := r.Pool.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("op=application.replace: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=application.replace: %w", domain.ErrNotFound)
	}
	return nil
}

// UpdateStatus applies the single-column status move.
func (r *ApplicationRepo) UpdateStatus(ctx domain.Context, userID, id string, status domain.ApplicationStatus) error {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.UpdateStatus")
	defer span.End()
	q := `UPDATE applications SET status=$3, updated_at=$4 WHERE id=$1 AND user_id=$2`
	tag, err := r.Pool.Exec(ctx, q, id, userID, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=application.update_status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=application.update_status: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes one application; generated documents cascade in the schema.
func (r *ApplicationRepo) Delete(ctx domain.Context, userID, id string) error {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.Delete")
	defer span.End()
	tag, err := r.Pool.Exec(ctx, `DELETE FROM applications WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return fmt.Errorf("op=application.delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=application.delete: %w", domain.ErrNotFound)
	}
	return nil
}

func interviewArgs(iv *domain.Interview) []any {
	if iv == nil {
		return []any{nil, nil, nil, nil, nil}
	}
	return []any{nullable(iv.Date), nullable(iv.Time), nullable(iv.Interviewer),
		nullable(iv.MeetingLink), nullable(iv.Notes)}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanApplication(row pgx.Row) (domain.Application, error) {
	var a domain.Application
	var ivDate, ivTime, ivWho, ivLink, ivNotes *string
	err := row.Scan(&a.ID, &a.UserID, &a.CompanyName, &a.JobTitle, &a.Status,
		&a.Location, &a.SalaryMin, &a.SalaryMax, &a.ApplicationURL,
		&a.DateApplied, &a.Notes, &ivDate, &ivTime, &ivWho, &ivLink, &ivNotes,
		&a.CreatedAt)
	if err != nil {
		return domain.Application{}, err
	}
	if ivDate != nil || ivTime != nil || ivWho != nil || ivLink != nil || ivNotes != nil {
		a.Interview = &domain.Interview{
			Date:        deref(ivDate),
			Time:        deref(ivTime),
			Interviewer: deref(ivWho),
			MeetingLink: deref(ivLink),
			Notes:       deref(ivNotes),
		}
	}
	return a, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package usecase

import (
	"fmt"
	"time"

	"github.com/jobdeck/jobdeck/internal/domain"
)

// ReminderScheduler is the cancellable reminder registry the application
// lifecycle drives: reschedule on every interview change, cancel on delete.
type ReminderScheduler interface {
	Schedule(a domain.Application)
	Cancel(applicationID string)
}

// noopReminders is used when no registry is wired (tests, CLI tools).
type noopReminders struct{}

func (noopReminders) Schedule(domain.Application) {}
func (noopReminders) Cancel(string)               {}

// ApplicationService owns CRUD over a user's applications and keeps the
// reminder registry in sync with interview records.
type ApplicationService struct {
	Repo      domain.ApplicationRepository
	Reminders ReminderScheduler
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(r domain.ApplicationRepository, rem ReminderScheduler) ApplicationService {
	if rem == nil {
		rem = noopReminders{}
	}
	return ApplicationService{Repo: r, Reminders: rem}
}

func validateApplication(a domain.Application) error {
	if a.CompanyName == "" || a.JobTitle == "" {
		return fmt.Errorf("%w: company name and job title required", domain.ErrInvalidArgument)
	}
	if !domain.ValidStatus(a.Status) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, a.Status)
	}
	if a.SalaryMin != nil && a.SalaryMax != nil && *a.SalaryMin > *a.SalaryMax {
		return fmt.Errorf("%w: salary_min exceeds salary_max", domain.ErrInvalidArgument)
	}
	return nil
}

// Create stores a new application for the user and schedules its reminder if
// the interview timestamp is in the future.
func (s ApplicationService) Create(ctx domain.Context, a domain.Application) (domain.Application, error) {
	if a.UserID == "" {
		return domain.Application{}, fmt.Errorf("%w: user id required", domain.ErrInvalidArgument)
	}
	if a.Status == "" {
		a.Status = domain.StatusApplied
	}
	if err := validateApplication(a); err != nil {
		return domain.Application{}, err
	}
	a.CreatedAt = time.Now().UTC()
	id, err := s.Repo.Create(ctx, a)
	if err != nil {
		return domain.Application{}, err
	}
	a.ID = id
	s.Reminders.Schedule(a)
	return a, nil
}

// Get loads one of the user's applications.
func (s ApplicationService) Get(ctx domain.Context, userID, id string) (domain.Application, error) {
	return s.Repo.Get(ctx, userID, id)
}

// List returns all applications owned by the user.
func (s ApplicationService) List(ctx domain.Context, userID string) ([]domain.Application, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Replace performs a full-replace update of one application and reschedules
// its reminder against the (possibly changed) interview record.
func (s ApplicationService) Replace(ctx domain.Context, a domain.Application) (domain.Application, error) {
	if a.ID == "" || a.UserID == "" {
		return domain.Application{}, fmt.Errorf("%w: id and user id required", domain.ErrInvalidArgument)
	}
	if err := validateApplication(a); err != nil {
		return domain.Application{}, err
	}
	if err := s.Repo.Replace(ctx, a); err != nil {
		return domain.Application{}, err
	}
	s.Reminders.Schedule(a)
	return a, nil
}

// UpdateStatus applies the single-field status change used by drag-and-drop.
func (s ApplicationService) UpdateStatus(ctx domain.Context, userID, id string, status domain.ApplicationStatus) error {
	if !domain.ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, status)
	}
	return s.Repo.UpdateStatus(ctx, userID, id, status)
}

// Delete removes the application and cancels any pending reminder so stale
// timers never fire against deleted records.
func (s ApplicationService) Delete(ctx domain.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.Reminders.Cancel(id)
	return nil
}

// Package reminder schedules in-process interview reminders. One timer lives
// per application; rescheduling replaces the old timer and deleting the
// application cancels it, so a moved or removed interview never fires a stale
// reminder.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jobdeck/jobdeck/internal/adapter/observability"
	"github.com/jobdeck/jobdeck/internal/domain"
	"github.com/jobdeck/jobdeck/internal/usecase"
)

// Registry keys pending timers by application id.
type Registry struct {
	store domain.NotificationStore
	lead  time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer

	// now is injectable for tests.
	now func() time.Time
}

// NewRegistry constructs a Registry that fires lead before each interview.
func NewRegistry(store domain.NotificationStore, lead time.Duration) *Registry {
	return &Registry{
		store:  store,
		lead:   lead,
		timers: make(map[string]*time.Timer),
		now:    time.Now,
	}
}

// Schedule arms (or re-arms) the reminder for one application. Applications
// without a complete future interview record get no timer; any existing timer
// is cancelled so edits that clear the interview also clear the reminder.
func (r *Registry) Schedule(a domain.Application) {
	at, ok := usecase.InterviewTime(a)
	if !ok {
		r.Cancel(a.ID)
		return
	}
	fireAt := at.Add(-r.lead)
	delay := fireAt.Sub(r.now())
	if delay <= 0 {
		r.Cancel(a.ID)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.timers[a.ID]; ok {
		t.Stop()
	}
	app := a
	r.timers[a.ID] = time.AfterFunc(delay, func() { r.fire(app, at) })
	observability.RemindersScheduled.Set(float64(len(r.timers)))
	slog.Debug("reminder scheduled",
		slog.String("application_id", a.ID),
		slog.Time("fire_at", fireAt))
}

// Cancel drops the pending timer for one application, if any.
func (r *Registry) Cancel(applicationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.timers[applicationID]; ok {
		t.Stop()
		delete(r.timers, applicationID)
		observability.RemindersScheduled.Set(float64(len(r.timers)))
	}
}

// Stop cancels every pending timer. Used on shutdown.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
	observability.RemindersScheduled.Set(0)
}

func (r *Registry) fire(a domain.Application, at time.Time) {
	r.mu.Lock()
	delete(r.timers, a.ID)
	observability.RemindersScheduled.Set(float64(len(r.timers)))
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n := domain.Notification{
		Title: "Upcoming interview",
		Message: fmt.Sprintf("Interview with %s for %s at %s",
			a.CompanyName, a.JobTitle, at.Format("Jan 2, 15:04")),
	}
	if _, err := r.store.Push(ctx, a.UserID, n); err != nil {
		slog.Error("reminder delivery failed",
			slog.String("application_id", a.ID),
			slog.Any("error", err))
		return
	}
	observability.RemindersFiredTotal.Inc()
	slog.Info("reminder fired",
		slog.String("application_id", a.ID),
		slog.String("user_id", a.UserID))
}

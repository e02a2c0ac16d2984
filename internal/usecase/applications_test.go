package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobdeck/internal/domain"
)

func TestApplicationCreateDefaultsAndSchedules(t *testing.T) {
	t.Parallel()
	repo := newAppRepoStub()
	rem := &reminderStub{}
	svc := NewApplicationService(repo, rem)

	a, err := svc.Create(context.Background(), domain.Application{
		UserID:      "u1",
		CompanyName: "Acme",
		JobTitle:    "Engineer",
	})
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)
	require.Equal(t, domain.StatusApplied, a.Status)
	require.Equal(t, []string{a.ID}, rem.scheduled)
}

func TestApplicationCreateValidation(t *testing.T) {
	t.Parallel()
	svc := NewApplicationService(newAppRepoStub(), nil)
	lo, hi := int64(90000), int64(60000)

	cases := []domain.Application{
		{UserID: "u1", JobTitle: "Engineer"},                                                            // no company
		{UserID: "u1", CompanyName: "Acme"},                                                             // no title
		{UserID: "u1", CompanyName: "Acme", JobTitle: "Eng", Status: "ghosted"},                         // bad status
		{UserID: "u1", CompanyName: "Acme", JobTitle: "Eng", SalaryMin: &lo, SalaryMax: &hi},            // inverted range
		{CompanyName: "Acme", JobTitle: "Eng"},                                                          // no user
	}
	for _, a := range cases {
		_, err := svc.Create(context.Background(), a)
		require.ErrorIs(t, err, domain.ErrInvalidArgument)
	}
}

func TestApplicationReplaceReschedulesReminder(t *testing.T) {
	t.Parallel()
	repo := newAppRepoStub()
	rem := &reminderStub{}
	svc := NewApplicationService(repo, rem)

	a, err := svc.Create(context.Background(), domain.Application{
		UserID: "u1", CompanyName: "Acme", JobTitle: "Engineer",
	})
	require.NoError(t, err)

	a.Interview = &domain.Interview{Date: "2026-04-01", Time: "10:00"}
	_, err = svc.Replace(context.Background(), a)
	require.NoError(t, err)
	require.Equal(t, []string{a.ID, a.ID}, rem.scheduled)

	got, err := svc.Get(context.Background(), "u1", a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Interview)
	require.Equal(t, "2026-04-01", got.Interview.Date)
}

func TestApplicationReplaceWrongUserNotFound(t *testing.T) {
	t.Parallel()
	repo := newAppRepoStub()
	svc := NewApplicationService(repo, nil)

	a, err := svc.Create(context.Background(), domain.Application{
		UserID: "u1", CompanyName: "Acme", JobTitle: "Engineer",
	})
	require.NoError(t, err)

	a.UserID = "intruder"
	_, err = svc.Replace(context.Background(), a)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplicationUpdateStatusEnumChecked(t *testing.T) {
	t.Parallel()
	repo := newAppRepoStub()
	svc := NewApplicationService(repo, nil)

	a, err := svc.Create(context.Background(), domain.Application{
		UserID: "u1", CompanyName: "Acme", JobTitle: "Engineer",
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.UpdateStatus(context.Background(), "u1", a.ID, "pending"), domain.ErrInvalidArgument)
	require.NoError(t, svc.UpdateStatus(context.Background(), "u1", a.ID, domain.StatusOffer))

	got, err := svc.Get(context.Background(), "u1", a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusOffer, got.Status)
}

func TestApplicationDeleteCancelsReminder(t *testing.T) {
	t.Parallel()
	repo := newAppRepoStub()
	rem := &reminderStub{}
	svc := NewApplicationService(repo, rem)

	a, err := svc.Create(context.Background(), domain.Application{
		UserID: "u1", CompanyName: "Acme", JobTitle: "Engineer",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "u1", a.ID))
	require.Equal(t, []string{a.ID}, rem.cancelled)

	_, err = svc.Get(context.Background(), "u1", a.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// deleting a row that is already gone does not cancel again
	require.ErrorIs(t, svc.Delete(context.Background(), "u1", a.ID), domain.ErrNotFound)
	require.Len(t, rem.cancelled, 1)
}

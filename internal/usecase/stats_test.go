package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobdeck/internal/domain"
)

func appAt(company, title string, at time.Time) domain.Application {
	return domain.Application{
		CompanyName: company,
		JobTitle:    title,
		Interview: &domain.Interview{
			Date: at.Format("2006-01-02"),
			Time: at.Format("15:04"),
		},
	}
}

func TestComputeStats_PastAndFuture(t *testing.T) {
	// Fixed "now" on a minute boundary so formatted date/time round-trips exactly.
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	apps := []domain.Application{
		appAt("PastHour", "a", now.Add(-time.Hour)),
		appAt("PastDay", "b", now.Add(-24*time.Hour)),
		appAt("FutureHour", "c", now.Add(time.Hour)),
		appAt("FutureTwoDays", "d", now.Add(48*time.Hour)),
	}
	stats := ComputeStats(apps, now)
	assert.Equal(t, 4, stats.TotalApplications)
	assert.Equal(t, 2, stats.UpcomingInterviews)
	require.Len(t, stats.NextFive, 2)
	assert.Equal(t, "FutureHour", stats.NextFive[0].CompanyName)
	assert.Equal(t, "FutureTwoDays", stats.NextFive[1].CompanyName)
}

func TestComputeStats_NextFiveTruncation(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	var apps []domain.Application
	for i := 7; i >= 1; i-- {
		apps = append(apps, appAt("c", "t", now.Add(time.Duration(i)*time.Hour)))
	}
	stats := ComputeStats(apps, now)
	assert.Equal(t, 7, stats.UpcomingInterviews)
	require.Len(t, stats.NextFive, 5)
	for i := 1; i < len(stats.NextFive); i++ {
		assert.LessOrEqual(t, stats.NextFive[i-1].InterviewAt, stats.NextFive[i].InterviewAt)
	}
}

func TestComputeStats_StableTieBreak(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	at := now.Add(2 * time.Hour)
	apps := []domain.Application{
		appAt("First", "a", at),
		appAt("Second", "b", at),
		appAt("Third", "c", at),
	}
	stats := ComputeStats(apps, now)
	require.Len(t, stats.NextFive, 3)
	assert.Equal(t, []string{"First", "Second", "Third"}, []string{
		stats.NextFive[0].CompanyName,
		stats.NextFive[1].CompanyName,
		stats.NextFive[2].CompanyName,
	})
}

func TestComputeStats_IgnoresIncompleteInterviews(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	apps := []domain.Application{
		{CompanyName: "NoInterview"},
		{CompanyName: "DateOnly", Interview: &domain.Interview{Date: "2026-09-10"}},
		{CompanyName: "TimeOnly", Interview: &domain.Interview{Time: "10:00"}},
		{CompanyName: "Garbage", Interview: &domain.Interview{Date: "soon", Time: "later"}},
	}
	stats := ComputeStats(apps, now)
	assert.Equal(t, 4, stats.TotalApplications)
	assert.Equal(t, 0, stats.UpcomingInterviews)
	assert.NotNil(t, stats.NextFive)
	assert.Empty(t, stats.NextFive)
}

func TestInterviewTime_SecondsLayout(t *testing.T) {
	ts, ok := InterviewTime(domain.Application{Interview: &domain.Interview{Date: "2026-09-01", Time: "09:30:15"}})
	require.True(t, ok)
	assert.Equal(t, 15, ts.Second())
}

// Package usecase contains application business logic services.
package usecase

import (
	"sort"
	"time"

	"github.com/jobdeck/jobdeck/internal/adapter/ai"
	"github.com/jobdeck/jobdeck/internal/domain"
)

// interviewLayouts are the accepted combined date+time representations. The
// timestamp is interpreted in the local zone exactly as entered; no timezone
// normalization happens anywhere in the pipeline.
var interviewLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05"}

// InterviewTime combines an application's interview date and time fields into
// one timestamp. Returns false when either field is missing or unparseable.
func InterviewTime(a domain.Application) (time.Time, bool) {
	if a.Interview == nil || a.Interview.Date == "" || a.Interview.Time == "" {
		return time.Time{}, false
	}
	combined := a.Interview.Date + "T" + a.Interview.Time
	for _, layout := range interviewLayouts {
		if ts, err := time.ParseInLocation(layout, combined, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// ComputeStats derives the facts the chat prompt asserts as ground truth:
// total application count, how many interviews are still ahead of now, and the
// next five of them ascending. Ties keep input order (stable sort, no
// secondary key). Always returns a non-nil NextFive.
func ComputeStats(apps []domain.Application, now time.Time) ai.ChatStats {
	type upcoming struct {
		app domain.Application
		at  time.Time
	}
	ahead := make([]upcoming, 0, len(apps))
	for _, a := range apps {
		if ts, ok := InterviewTime(a); ok && ts.After(now) {
			ahead = append(ahead, upcoming{app: a, at: ts})
		}
	}
	sort.SliceStable(ahead, func(i, j int) bool { return ahead[i].at.Before(ahead[j].at) })

	next := make([]ai.UpcomingInterview, 0, 5)
	for i := 0; i < len(ahead) && i < 5; i++ {
		next = append(next, ai.UpcomingInterview{
			CompanyName: ahead[i].app.CompanyName,
			JobTitle:    ahead[i].app.JobTitle,
			InterviewAt: ahead[i].at.Format(time.RFC3339),
		})
	}
	return ai.ChatStats{
		TotalApplications:  len(apps),
		UpcomingInterviews: len(ahead),
		NextFive:           next,
	}
}

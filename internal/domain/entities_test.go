package domain

import "testing"

func TestValidStatus(t *testing.T) {
	for _, s := range []ApplicationStatus{StatusApplied, StatusReferred, StatusScreening, StatusInterview, StatusOffer, StatusRejected} {
		if !ValidStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []ApplicationStatus{"", "ghosted", "APPLIED", "interviewing"} {
		if ValidStatus(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestApplication_ZeroValue(t *testing.T) {
	var a Application
	if a.Interview != nil {
		t.Errorf("expected nil Interview, got %v", a.Interview)
	}
	if a.SalaryMin != nil || a.SalaryMax != nil {
		t.Errorf("expected nil salary bounds")
	}
	if !a.CreatedAt.IsZero() {
		t.Errorf("expected zero CreatedAt, got %v", a.CreatedAt)
	}
}

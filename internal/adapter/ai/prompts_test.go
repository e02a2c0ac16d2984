package ai

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverLetterPrompt_Fallbacks(t *testing.T) {
	p := CoverLetterPrompt("resume body", "jd body", "", "")
	assert.Contains(t, p, "Company: the company")
	assert.Contains(t, p, "Position: the position")
	assert.Contains(t, p, "resume body")
	assert.Contains(t, p, "jd body")
	assert.Contains(t, p, `start with "Dear Hiring Manager,"`)
}

func TestReferralEmailPrompt_Structure(t *testing.T) {
	p := ReferralEmailPrompt("resume body", "jd body", "Acme", "SRE")
	assert.Contains(t, p, "Company: Acme")
	assert.Contains(t, p, "Position: SRE")
	assert.Contains(t, p, "Subject: [Your subject line]")
	assert.Contains(t, p, "Best regards,")
	assert.Contains(t, p, "(150-200 words)")
}

func TestExtractionPrompt_Truncation(t *testing.T) {
	long := strings.Repeat("x", maxExtractionChars+500)
	p := ExtractionPrompt(long)
	assert.NotContains(t, p, strings.Repeat("x", maxExtractionChars+1))
	assert.Contains(t, p, strings.Repeat("x", maxExtractionChars))
	assert.Contains(t, p, `"salary_min"`)
	assert.Contains(t, p, "lakhs")
}

func TestExtractionPrompt_TruncatesOnRuneBoundary(t *testing.T) {
	// place a multi-byte rune straddling the cut point
	long := strings.Repeat("x", maxExtractionChars-1) + "é" + strings.Repeat("y", 500)
	p := ExtractionPrompt(long)
	assert.True(t, utf8.ValidString(p))
	assert.Contains(t, p, strings.Repeat("x", maxExtractionChars-1))
	assert.NotContains(t, p, "é")
	assert.NotContains(t, p, "xy")
}

func TestChatSystemPrompt_EmbedsFactsVerbatim(t *testing.T) {
	stats := ChatStats{
		TotalApplications:  7,
		UpcomingInterviews: 2,
		NextFive: []UpcomingInterview{
			{CompanyName: "Acme", JobTitle: "SRE", InterviewAt: "2026-09-01T10:00:00Z"},
		},
	}
	p := ChatSystemPrompt(stats, `[{"company_name":"Acme"}]`)
	assert.Contains(t, p, "Total Applications: 7")
	assert.Contains(t, p, "Upcoming Interviews: 2")
	assert.Contains(t, p, `"interview_at":"2026-09-01T10:00:00Z"`)
	assert.Contains(t, p, "DO NOT recalculate")
	assert.Contains(t, p, `[{"company_name":"Acme"}]`)
}

func TestChatSystemPrompt_EmptyNextFive(t *testing.T) {
	p := ChatSystemPrompt(ChatStats{}, "[]")
	assert.Contains(t, p, "Next Interviews (first five): []")
}

func TestPrompts_Deterministic(t *testing.T) {
	require.Equal(t,
		CoverLetterPrompt("r", "d", "c", "t"),
		CoverLetterPrompt("r", "d", "c", "t"))
	require.Equal(t,
		ExtractionPrompt("some posting text"),
		ExtractionPrompt("some posting text"))
}

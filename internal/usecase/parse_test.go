package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobdeck/internal/domain"
)

func TestParseServiceShortInputNeverCallsGenerator(t *testing.T) {
	t.Parallel()
	gen := &genStub{}
	svc := NewParseService(gen, "test-model")

	for _, text := range []string{"", "short posting", strings.Repeat(" ", 200), strings.Repeat("x", 49)} {
		_, err := svc.Parse(context.Background(), text)
		require.ErrorIs(t, err, domain.ErrInvalidArgument)
	}
	require.Zero(t, gen.calls)
}

func TestParseServiceHappyPath(t *testing.T) {
	t.Parallel()
	gen := &genStub{reply: "```json\n" + `{
		"company_name": "Acme",
		"job_title": "Backend Engineer",
		"location": "Remote",
		"salary_min": 9.5,
		"salary_max": 12,
		"job_description": "Build services.",
		"requirements": "Go",
		"benefits": null,
		"application_url": "https://acme.example/jobs/1"
	}` + "\n```"}
	svc := NewParseService(gen, "test-model")

	out, err := svc.Parse(context.Background(), strings.Repeat("posting text ", 10))
	require.NoError(t, err)
	require.Equal(t, 1, gen.calls)
	require.Equal(t, "Acme", *out.CompanyName)
	require.Equal(t, "Backend Engineer", *out.JobTitle)
	require.Equal(t, 9.5, *out.SalaryMin)
	require.Equal(t, "Build services.\n\nRequirements:\nGo", *out.Notes)
	require.Contains(t, gen.prompts[0], "posting text")
}

func TestParseServiceModelGarbageFailsWhole(t *testing.T) {
	t.Parallel()
	gen := &genStub{reply: "Sure! Here are the fields you asked for: company is Acme."}
	svc := NewParseService(gen, "test-model")

	_, err := svc.Parse(context.Background(), strings.Repeat("posting text ", 10))
	require.ErrorIs(t, err, domain.ErrParseFailure)
	require.True(t, IsParseFailure(err))
}

func TestParseServiceGeneratorErrorPassesThrough(t *testing.T) {
	t.Parallel()
	gen := &genStub{err: domain.ErrUpstream}
	svc := NewParseService(gen, "test-model")

	_, err := svc.Parse(context.Background(), strings.Repeat("posting text ", 10))
	require.ErrorIs(t, err, domain.ErrUpstream)
	require.False(t, IsParseFailure(err))
}

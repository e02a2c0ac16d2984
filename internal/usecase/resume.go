package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jobdeck/jobdeck/internal/domain"
)

// ResumeService stores a single free-text resume blob per user.
type ResumeService struct {
	Profiles domain.ProfileRepository
}

// NewResumeService constructs a ResumeService.
func NewResumeService(p domain.ProfileRepository) ResumeService {
	return ResumeService{Profiles: p}
}

// Get returns the stored resume text, or "" when the user has not saved one.
func (s ResumeService) Get(ctx domain.Context, userID string) (string, error) {
	text, err := s.Profiles.GetResume(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return text, nil
}

// Save upserts the resume text keyed by user identity. Binary payloads pasted
// by mistake are rejected by content sniffing.
func (s ResumeService) Save(ctx domain.Context, userID, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: resume text required", domain.ErrInvalidArgument)
	}
	if m := mimetype.Detect([]byte(text)); !strings.HasPrefix(m.String(), "text/") {
		return fmt.Errorf("%w: resume must be plain text, got %s", domain.ErrInvalidArgument, m.String())
	}
	return s.Profiles.UpsertResume(ctx, userID, text)
}

package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/jobdeck/jobdeck/internal/adapter/ai"
	"github.com/jobdeck/jobdeck/internal/adapter/observability"
	"github.com/jobdeck/jobdeck/internal/domain"
)

// DocumentService drafts the cover-letter/referral-email pair for one
// application. Each call issues two independent model calls; concurrent calls
// for the same application are possible and not coordinated.
type DocumentService struct {
	Gen   domain.TextGenerator
	Docs  domain.DocumentRepository
	Model string
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(g domain.TextGenerator, d domain.DocumentRepository, model string) DocumentService {
	return DocumentService{Gen: g, Docs: d, Model: model}
}

// GenerateDocumentsInput carries the free-text inputs for one generation.
type GenerateDocumentsInput struct {
	UserID         string
	ApplicationID  string
	ResumeText     string
	JobDescription string
	CompanyName    string
	JobTitle       string
}

// GeneratedPair is the trimmed output of one generation.
type GeneratedPair struct {
	CoverLetter   string
	ReferralEmail string
}

// Generate validates the required texts, renders both prompts, calls the model
// once per document and trims the results. When an application id is supplied
// the pair is upserted so the application keeps exactly one current pair.
func (s DocumentService) Generate(ctx domain.Context, in GenerateDocumentsInput) (GeneratedPair, error) {
	if strings.TrimSpace(in.ResumeText) == "" || strings.TrimSpace(in.JobDescription) == "" {
		return GeneratedPair{}, fmt.Errorf("%w: resume and job description required", domain.ErrInvalidArgument)
	}

	cover, err := s.Gen.Generate(ctx, s.Model, ai.CoverLetterPrompt(in.ResumeText, in.JobDescription, in.CompanyName, in.JobTitle))
	if err != nil {
		return GeneratedPair{}, fmt.Errorf("op=documents.cover_letter: %w", err)
	}
	referral, err := s.Gen.Generate(ctx, s.Model, ai.ReferralEmailPrompt(in.ResumeText, in.JobDescription, in.CompanyName, in.JobTitle))
	if err != nil {
		return GeneratedPair{}, fmt.Errorf("op=documents.referral_email: %w", err)
	}

	pair := GeneratedPair{
		CoverLetter:   ai.NormalizeDocument(cover),
		ReferralEmail: ai.NormalizeDocument(referral),
	}
	if in.ApplicationID != "" && s.Docs != nil {
		_, err := s.Docs.Upsert(ctx, domain.GeneratedDocument{
			ApplicationID: in.ApplicationID,
			UserID:        in.UserID,
			CoverLetter:   pair.CoverLetter,
			ReferralEmail: pair.ReferralEmail,
			CreatedAt:     time.Now().UTC(),
			UpdatedAt:     time.Now().UTC(),
		})
		if err != nil {
			return GeneratedPair{}, fmt.Errorf("op=documents.persist: %w", err)
		}
	}
	observability.DocumentsGeneratedTotal.Inc()
	return pair, nil
}

// Latest returns the current document pair for one of the user's applications.
func (s DocumentService) Latest(ctx domain.Context, userID, applicationID string) (domain.GeneratedDocument, error) {
	if applicationID == "" {
		return domain.GeneratedDocument{}, fmt.Errorf("%w: application id required", domain.ErrInvalidArgument)
	}
	return s.Docs.GetLatestByApplication(ctx, userID, applicationID)
}

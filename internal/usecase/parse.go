package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jobdeck/jobdeck/internal/adapter/ai"
	"github.com/jobdeck/jobdeck/internal/adapter/observability"
	"github.com/jobdeck/jobdeck/internal/domain"
)

// minParseChars is the minimum pasted-posting length accepted before any model
// call is made.
const minParseChars = 50

// ParseService extracts structured fields from pasted job-posting text.
type ParseService struct {
	Gen   domain.TextGenerator
	Model string
}

// NewParseService constructs a ParseService.
func NewParseService(g domain.TextGenerator, model string) ParseService {
	return ParseService{Gen: g, Model: model}
}

// Parse rejects too-short input without touching the generator, then runs one
// extraction call and normalizes the output. A JSON parse failure fails the
// whole request; there is no partial result.
func (s ParseService) Parse(ctx domain.Context, text string) (ai.Extraction, error) {
	if len(strings.TrimSpace(text)) < minParseChars {
		return ai.Extraction{}, fmt.Errorf("%w: posting text shorter than %d characters", domain.ErrInvalidArgument, minParseChars)
	}
	raw, err := s.Gen.Generate(ctx, s.Model, ai.ExtractionPrompt(text))
	if err != nil {
		observability.PostingsParsedTotal.WithLabelValues("generate_error").Inc()
		return ai.Extraction{}, fmt.Errorf("op=parse.generate: %w", err)
	}
	out, err := ai.NormalizeExtraction(raw)
	if err != nil {
		observability.PostingsParsedTotal.WithLabelValues("parse_error").Inc()
		return ai.Extraction{}, err
	}
	observability.PostingsParsedTotal.WithLabelValues("ok").Inc()
	return out, nil
}

// IsParseFailure reports whether err is the model-output JSON failure, which
// gets its own user-facing message at the HTTP boundary.
func IsParseFailure(err error) bool { return errors.Is(err, domain.ErrParseFailure) }

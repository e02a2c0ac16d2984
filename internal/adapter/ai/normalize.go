package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jobdeck/jobdeck/internal/domain"
)

// Extraction is the normalized result of the job-posting parse. Every field is
// nullable; absent or falsy model output becomes nil, never an empty string.
type Extraction struct {
	CompanyName    *string  `json:"company_name"`
	JobTitle       *string  `json:"job_title"`
	Location       *string  `json:"location"`
	SalaryMin      *float64 `json:"salary_min"`
	SalaryMax      *float64 `json:"salary_max"`
	ApplicationURL *string  `json:"application_url"`
	Notes          *string  `json:"notes"`
}

// rawExtraction mirrors the nine keys the model is instructed to emit.
type rawExtraction struct {
	CompanyName    *string  `json:"company_name"`
	JobTitle       *string  `json:"job_title"`
	Location       *string  `json:"location"`
	SalaryMin      *float64 `json:"salary_min"`
	SalaryMax      *float64 `json:"salary_max"`
	JobDescription *string  `json:"job_description"`
	Requirements   *string  `json:"requirements"`
	Benefits       *string  `json:"benefits"`
	ApplicationURL *string  `json:"application_url"`
}

// NormalizeDocument post-processes generated prose: trim only, never parse.
func NormalizeDocument(raw string) string {
	return strings.TrimSpace(raw)
}

// StripFences removes fenced-code wrappers from model output, recognizing both
// language-tagged (```json) and bare (```) fences.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// NormalizeExtraction converts raw model output into an Extraction. The output
// must parse as JSON after fence stripping; on parse failure the whole request
// fails with domain.ErrParseFailure. No repair is attempted and no partial
// result is returned. The three descriptive fields collapse into one notes
// string with section headers only for the parts that are present.
func NormalizeExtraction(raw string) (Extraction, error) {
	cleaned := StripFences(raw)
	var parsed rawExtraction
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return Extraction{}, fmt.Errorf("%w: extraction output is not valid JSON: %v", domain.ErrParseFailure, err)
	}
	out := Extraction{
		CompanyName:    nonEmpty(parsed.CompanyName),
		JobTitle:       nonEmpty(parsed.JobTitle),
		Location:       nonEmpty(parsed.Location),
		SalaryMin:      nonZero(parsed.SalaryMin),
		SalaryMax:      nonZero(parsed.SalaryMax),
		ApplicationURL: nonEmpty(parsed.ApplicationURL),
		Notes:          assembleNotes(parsed.JobDescription, parsed.Requirements, parsed.Benefits),
	}
	return out, nil
}

// assembleNotes concatenates description, requirements and benefits into one
// blob. Each present block after the first is preceded by two newlines and a
// literal header; all absent yields nil.
func assembleNotes(description, requirements, benefits *string) *string {
	var b strings.Builder
	if s := nonEmpty(description); s != nil {
		b.WriteString(*s)
	}
	if s := nonEmpty(requirements); s != nil {
		b.WriteString("\n\nRequirements:\n")
		b.WriteString(*s)
	}
	if s := nonEmpty(benefits); s != nil {
		b.WriteString("\n\nBenefits:\n")
		b.WriteString(*s)
	}
	if b.Len() == 0 {
		return nil
	}
	notes := b.String()
	return &notes
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func nonZero(f *float64) *float64 {
	if f == nil || *f == 0 {
		return nil
	}
	return f
}

package usecase

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jobdeck/jobdeck/internal/adapter/ai"
	"github.com/jobdeck/jobdeck/internal/adapter/observability"
	"github.com/jobdeck/jobdeck/internal/domain"
)

// ChatService answers questions about the user's own application data. It
// re-derives the application list from the store for the given user id and
// never trusts client-supplied application data.
type ChatService struct {
	Apps  domain.ApplicationRepository
	Gen   domain.TextGenerator
	Model string
	// Now is injectable for deterministic stats in tests.
	Now func() time.Time
}

// NewChatService constructs a ChatService.
func NewChatService(apps domain.ApplicationRepository, g domain.TextGenerator, model string) ChatService {
	return ChatService{Apps: apps, Gen: g, Model: model, Now: time.Now}
}

// ChatReply is the assistant answer plus the precomputed stats it was given.
type ChatReply struct {
	Reply string
	Stats ai.ChatStats
}

// chatApplication serializes an application row the way it is stored, so the
// prompt sees the same field names the user's board shows.
type chatApplication struct {
	ID             string  `json:"id"`
	CompanyName    string  `json:"company_name"`
	JobTitle       string  `json:"job_title"`
	Status         string  `json:"status"`
	Location       string  `json:"location,omitempty"`
	SalaryMin      *int64  `json:"salary_min,omitempty"`
	SalaryMax      *int64  `json:"salary_max,omitempty"`
	ApplicationURL string  `json:"application_url,omitempty"`
	DateApplied    string  `json:"date_applied,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	InterviewDate  string  `json:"interview_date,omitempty"`
	InterviewTime  string  `json:"interview_time,omitempty"`
	Interviewer    string  `json:"interviewer_name,omitempty"`
	MeetingLink    string  `json:"meeting_link,omitempty"`
	InterviewNotes string  `json:"interview_notes,omitempty"`
}

// Ask computes stats outside the model, embeds them as ground truth and runs
// one generation call with the user's question.
func (s ChatService) Ask(ctx domain.Context, userID, message string) (ChatReply, error) {
	if userID == "" || message == "" {
		return ChatReply{}, fmt.Errorf("%w: userId and message required", domain.ErrInvalidArgument)
	}
	apps, err := s.Apps.ListByUser(ctx, userID)
	if err != nil {
		return ChatReply{}, fmt.Errorf("op=chat.list_applications: %w", err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	stats := ComputeStats(apps, now())

	rows := make([]chatApplication, 0, len(apps))
	for _, a := range apps {
		row := chatApplication{
			ID:             a.ID,
			CompanyName:    a.CompanyName,
			JobTitle:       a.JobTitle,
			Status:         string(a.Status),
			Location:       a.Location,
			SalaryMin:      a.SalaryMin,
			SalaryMax:      a.SalaryMax,
			ApplicationURL: a.ApplicationURL,
			DateApplied:    a.DateApplied,
			Notes:          a.Notes,
		}
		if a.Interview != nil {
			row.InterviewDate = a.Interview.Date
			row.InterviewTime = a.Interview.Time
			row.Interviewer = a.Interview.Interviewer
			row.MeetingLink = a.Interview.MeetingLink
			row.InterviewNotes = a.Interview.Notes
		}
		rows = append(rows, row)
	}
	appsJSON, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return ChatReply{}, fmt.Errorf("op=chat.serialize: %w", err)
	}

	system := ai.ChatSystemPrompt(stats, string(appsJSON))
	reply, err := s.Gen.GenerateWithSystem(ctx, s.Model, system, message)
	if err != nil {
		return ChatReply{}, fmt.Errorf("op=chat.generate: %w", err)
	}
	observability.ChatRepliesTotal.Inc()
	return ChatReply{Reply: ai.NormalizeDocument(reply), Stats: stats}, nil
}

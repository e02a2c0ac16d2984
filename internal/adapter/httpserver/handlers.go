package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/internal/domain"
	"github.com/jobdeck/jobdeck/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Documents  usecase.DocumentService
	Parse      usecase.ParseService
	Chat       usecase.ChatService
	Resume     usecase.ResumeService
	Apps       usecase.ApplicationService
	Notifs     domain.NotificationStore
	Verifier   domain.TokenVerifier
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
}

// NewServer constructs the handler set.
func NewServer(cfg config.Config, docs usecase.DocumentService, parse usecase.ParseService, chat usecase.ChatService, resume usecase.ResumeService, apps usecase.ApplicationService, notifs domain.NotificationStore, verifier domain.TokenVerifier, dbCheck, redisCheck func(context.Context) error) *Server {
	return &Server{
		Cfg: cfg, Documents: docs, Parse: parse, Chat: chat, Resume: resume,
		Apps: apps, Notifs: notifs, Verifier: verifier,
		DBCheck: dbCheck, RedisCheck: redisCheck,
	}
}

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() { validate = validator.New() })
	return validate
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", nil)
		return false
	}
	return true
}

// applicationDTO is the wire shape of one application row, flat snake_case
// the way the board stores it.
type applicationDTO struct {
	ID             string `json:"id,omitempty"`
	CompanyName    string `json:"company_name" validate:"required,max=200"`
	JobTitle       string `json:"job_title" validate:"required,max=200"`
	Status         string `json:"status,omitempty"`
	Location       string `json:"location,omitempty"`
	SalaryMin      *int64 `json:"salary_min,omitempty"`
	SalaryMax      *int64 `json:"salary_max,omitempty"`
	ApplicationURL string `json:"application_url,omitempty"`
	DateApplied    string `json:"date_applied,omitempty"`
	Notes          string `json:"notes,omitempty"`
	InterviewDate  string `json:"interview_date,omitempty"`
	InterviewTime  string `json:"interview_time,omitempty"`
	Interviewer    string `json:"interviewer_name,omitempty"`
	MeetingLink    string `json:"meeting_link,omitempty"`
	InterviewNotes string `json:"interview_notes,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

func (d applicationDTO) toDomain(userID string) domain.Application {
	a := domain.Application{
		ID:             d.ID,
		UserID:         userID,
		CompanyName:    d.CompanyName,
		JobTitle:       d.JobTitle,
		Status:         domain.ApplicationStatus(d.Status),
		Location:       d.Location,
		SalaryMin:      d.SalaryMin,
		SalaryMax:      d.SalaryMax,
		ApplicationURL: d.ApplicationURL,
		DateApplied:    d.DateApplied,
		Notes:          d.Notes,
	}
	if d.InterviewDate != "" || d.InterviewTime != "" || d.Interviewer != "" || d.MeetingLink != "" || d.InterviewNotes != "" {
		a.Interview = &domain.Interview{
			Date:        d.InterviewDate,
			Time:        d.InterviewTime,
			Interviewer: d.Interviewer,
			MeetingLink: d.MeetingLink,
			Notes:       d.InterviewNotes,
		}
	}
	return a
}

func fromDomain(a domain.Application) applicationDTO {
	d := applicationDTO{
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
		d.InterviewDate = a.Interview.Date
		d.InterviewTime = a.Interview.Time
		d.Interviewer = a.Interview.Interviewer
		d.MeetingLink = a.Interview.MeetingLink
		d.InterviewNotes = a.Interview.Notes
	}
	if !a.CreatedAt.IsZero() {
		d.CreatedAt = a.CreatedAt.UTC().Format(time.RFC3339)
	}
	return d
}

// GenerateDocumentsHandler drafts the cover-letter/referral-email pair.
func (s *Server) GenerateDocumentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ResumeText     string `json:"resumeText"`
			JobDescription string `json:"jobDescription"`
			CompanyName    string `json:"companyName"`
			JobTitle       string `json:"jobTitle"`
			ApplicationID  string `json:"applicationId"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JobDescription) == "" {
			writeError(w, http.StatusBadRequest, "Resume and job description are required", nil)
			return
		}

		// persistence is opt-in and needs a verified owner
		userID := ""
		if req.ApplicationID != "" {
			bearer := r.Header.Get("Authorization")
			if bearer == "" {
				writeError(w, http.StatusUnauthorized, "Not authenticated", nil)
				return
			}
			var err error
			userID, err = s.Verifier.Verify(r.Context(), bearer)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token", nil)
				return
			}
		}

		pair, err := s.Documents.Generate(r.Context(), usecase.GenerateDocumentsInput{
			UserID:         userID,
			ApplicationID:  req.ApplicationID,
			ResumeText:     req.ResumeText,
			JobDescription: req.JobDescription,
			CompanyName:    req.CompanyName,
			JobTitle:       req.JobTitle,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnauthenticated):
				writeError(w, http.StatusUnauthorized, "Invalid API key. Please check your Gemini API key.", nil)
			case errors.Is(err, domain.ErrQuotaExceeded):
				writeError(w, http.StatusTooManyRequests, "API quota exceeded. Please try again later.", nil)
			default:
				LoggerFrom(r).Error("document generation failed", "error", err)
				writeError(w, http.StatusInternalServerError, "Failed to generate documents. Please try again.", nil)
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"coverLetter":   pair.CoverLetter,
			"referralEmail": pair.ReferralEmail,
		})
	}
}

// ParseJobHandler extracts structured fields from pasted job-posting text.
func (s *Server) ParseJobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(strings.TrimSpace(req.Text)) < 50 {
			writeError(w, http.StatusBadRequest, "Please paste job description text (at least 50 characters)", nil)
			return
		}
		// a missing server credential is a server misconfiguration, not a
		// client authentication failure
		if s.Cfg.GeminiAPIKey == "" {
			writeError(w, http.StatusInternalServerError, "GEMINI_API_KEY is not configured", nil)
			return
		}

		out, err := s.Parse.Parse(r.Context(), req.Text)
		if err != nil {
			switch {
			case usecase.IsParseFailure(err):
				writeError(w, http.StatusInternalServerError, "Failed to parse AI response. Please try again.", nil)
			default:
				LoggerFrom(r).Error("job parse failed", "error", err)
				writeError(w, http.StatusInternalServerError, "AI processing failed. Please try again.", nil)
			}
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ChatHandler answers one question about the user's applications. Validation
// precedes authentication so a malformed request never costs an auth call.
func (s *Server) ChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string `json:"message"`
			UserID  string `json:"userId"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.UserID == "" {
			writeError(w, http.StatusBadRequest, "UserId is missing", nil)
			return
		}
		if req.Message == "" {
			writeError(w, http.StatusBadRequest, "Message is missing", nil)
			return
		}

		bearer := r.Header.Get("Authorization")
		if bearer == "" {
			writeError(w, http.StatusUnauthorized, "Not authenticated", nil)
			return
		}
		subject, err := s.Verifier.Verify(r.Context(), bearer)
		if err != nil || subject != req.UserID {
			writeError(w, http.StatusUnauthorized, "Invalid token", nil)
			return
		}

		out, err := s.Chat.Ask(r.Context(), req.UserID, req.Message)
		if err != nil {
			if isGenerationError(err) {
				writeError(w, http.StatusInternalServerError, "Chatbot Error", err.Error())
			} else {
				LoggerFrom(r).Error("chat query failed", "error", err)
				writeError(w, http.StatusInternalServerError, "Database error", err.Error())
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"reply": out.Reply,
			"stats": map[string]any{
				"totalApplications":  out.Stats.TotalApplications,
				"upcomingInterviews": out.Stats.UpcomingInterviews,
				"nextFive":           out.Stats.NextFive,
			},
		})
	}
}

func isGenerationError(err error) bool {
	return errors.Is(err, domain.ErrUpstream) ||
		errors.Is(err, domain.ErrQuotaExceeded) ||
		errors.Is(err, domain.ErrUnauthenticated) ||
		errors.Is(err, domain.ErrParseFailure)
}

// ResumeGetHandler returns the stored resume text, empty when absent.
func (s *Server) ResumeGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := s.Resume.Get(r.Context(), UserIDFrom(r))
		if err != nil {
			LoggerFrom(r).Error("resume load failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Database error", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"resume_text": text})
	}
}

// ResumeSaveHandler upserts the resume text.
func (s *Server) ResumeSaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := s.Resume.Save(r.Context(), UserIDFrom(r), req.Text); err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				writeError(w, http.StatusBadRequest, "Resume text is required", nil)
				return
			}
			LoggerFrom(r).Error("resume save failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Database error", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// ListApplicationsHandler returns all of the user's applications.
func (s *Server) ListApplicationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps, err := s.Apps.List(r.Context(), UserIDFrom(r))
		if err != nil {
			LoggerFrom(r).Error("applications list failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Database error", nil)
			return
		}
		out := make([]applicationDTO, 0, len(apps))
		for _, a := range apps {
			out = append(out, fromDomain(a))
		}
		writeJSON(w, http.StatusOK, map[string]any{"applications": out})
	}
}

// CreateApplicationHandler stores a new application.
func (s *Server) CreateApplicationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req applicationDTO
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := getValidator().Struct(req); err != nil {
			verrs := map[string]string{}
			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				for _, fe := range ve {
					verrs[strings.ToLower(fe.Field())] = fe.Tag()
				}
			}
			writeError(w, http.StatusBadRequest, "Company name and job title are required", verrs)
			return
		}
		req.ID = ""
		a, err := s.Apps.Create(r.Context(), req.toDomain(UserIDFrom(r)))
		if err != nil {
			s.writeApplicationError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, fromDomain(a))
	}
}

// GetApplicationHandler loads one application.
func (s *Server) GetApplicationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := s.Apps.Get(r.Context(), UserIDFrom(r), chi.URLParam(r, "id"))
		if err != nil {
			s.writeApplicationError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, fromDomain(a))
	}
}

// UpdateApplicationHandler full-replaces one application.
func (s *Server) UpdateApplicationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req applicationDTO
		if !decodeJSON(w, r, &req) {
			return
		}
		req.ID = chi.URLParam(r, "id")
		a, err := s.Apps.Replace(r.Context(), req.toDomain(UserIDFrom(r)))
		if err != nil {
			s.writeApplicationError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, fromDomain(a))
	}
}

// UpdateStatusHandler applies the drag-and-drop status move.
func (s *Server) UpdateStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status string `json:"status"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		err := s.Apps.UpdateStatus(r.Context(), UserIDFrom(r), chi.URLParam(r, "id"), domain.ApplicationStatus(req.Status))
		if err != nil {
			s.writeApplicationError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// DeleteApplicationHandler removes one application.
func (s *Server) DeleteApplicationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.Apps.Delete(r.Context(), UserIDFrom(r), chi.URLParam(r, "id"))
		if err != nil {
			s.writeApplicationError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetDocumentsHandler returns the stored pair for one application.
func (s *Server) GetDocumentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := s.Documents.Latest(r.Context(), UserIDFrom(r), chi.URLParam(r, "id"))
		if err != nil {
			s.writeApplicationError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"coverLetter":   d.CoverLetter,
			"referralEmail": d.ReferralEmail,
			"updatedAt":     d.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
}

func (s *Server) writeApplicationError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusBadRequest:
		writeError(w, status, "Invalid application data", err.Error())
	case http.StatusNotFound:
		writeError(w, status, "Application not found", nil)
	default:
		LoggerFrom(r).Error("application operation failed", "error", err)
		writeError(w, status, "Database error", nil)
	}
}

// ListNotificationsHandler returns the user's notification feed.
func (s *Server) ListNotificationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ns, err := s.Notifs.List(r.Context(), UserIDFrom(r))
		if err != nil {
			LoggerFrom(r).Error("notifications list failed", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notifications": ns})
	}
}

// MarkSeenHandler flips the seen flag on the given notification ids.
func (s *Server) MarkSeenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDs []string `json:"ids"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := s.Notifs.MarkSeen(r.Context(), UserIDFrom(r), req.IDs); err != nil {
			LoggerFrom(r).Error("notifications mark seen failed", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// HealthzHandler is the liveness probe.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler probes the database and the notification store.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 2)
		if s.DBCheck != nil {
			if err := s.DBCheck(ctx); err != nil {
				checks = append(checks, check{Name: "db", Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "db", OK: true})
			}
		}
		if s.RedisCheck != nil {
			if err := s.RedisCheck(ctx); err != nil {
				checks = append(checks, check{Name: "redis", Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "redis", OK: true})
			}
		}
		st := http.StatusOK
		for _, c := range checks {
			if !c.OK {
				st = http.StatusServiceUnavailable
				break
			}
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}

// OpenAPIServe serves api/openapi.yaml if present.
func (s *Server) OpenAPIServe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := os.ReadFile("api/openapi.yaml")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}

// Package domain holds core entities, sentinel errors and ports.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrQuotaExceeded   = errors.New("quota exceeded")
	ErrUpstream        = errors.New("upstream failure")
	ErrParseFailure    = errors.New("parse failure")
	ErrInternal        = errors.New("internal error")
)

// ApplicationStatus enumerates the board columns an application can sit in.
type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "applied"
	StatusReferred  ApplicationStatus = "referred"
	StatusScreening ApplicationStatus = "screening"
	StatusInterview ApplicationStatus = "interview"
	StatusOffer     ApplicationStatus = "offer"
	StatusRejected  ApplicationStatus = "rejected"
)

// ValidStatus reports whether s is one of the six board statuses.
func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusApplied, StatusReferred, StatusScreening, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// Interview is the optional interview sub-record of an application.
// Date uses "2006-01-02", Time uses "15:04" in the user's local representation;
// no timezone normalization is applied anywhere.
type Interview struct {
	Date        string
	Time        string
	Interviewer string
	MeetingLink string
	Notes       string
}

// Application is one tracked job application, owned by exactly one user.
type Application struct {
	ID             string
	UserID         string
	CompanyName    string
	JobTitle       string
	Status         ApplicationStatus
	Location       string
	SalaryMin      *int64
	SalaryMax      *int64
	ApplicationURL string
	DateApplied    string
	Notes          string
	Interview      *Interview
	CreatedAt      time.Time
}

// GeneratedDocument is the cover-letter/referral-email pair for one application.
// At most one row per application is kept; writes upsert by application id.
type GeneratedDocument struct {
	ID            string
	ApplicationID string
	UserID        string
	CoverLetter   string
	ReferralEmail string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Notification is an ephemeral reminder surfaced to the user. It lives in a
// TTL'd store and is not durable across retention windows.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"created_at"`
}

// Repositories (ports)

type ApplicationRepository interface {
	Create(ctx Context, a Application) (string, error)
	Get(ctx Context, userID, id string) (Application, error)
	ListByUser(ctx Context, userID string) ([]Application, error)
	Replace(ctx Context, a Application) error
	UpdateStatus(ctx Context, userID, id string, status ApplicationStatus) error
	Delete(ctx Context, userID, id string) error
}

type DocumentRepository interface {
	Upsert(ctx Context, d GeneratedDocument) (string, error)
	GetLatestByApplication(ctx Context, userID, applicationID string) (GeneratedDocument, error)
}

type ProfileRepository interface {
	GetResume(ctx Context, userID string) (string, error)
	UpsertResume(ctx Context, userID, text string) error
}

// TextGenerator (port) wraps exactly one outbound call to the generative model
// per invocation. No retries, no streaming; failures surface to the caller.
type TextGenerator interface {
	// Generate sends a single user prompt and returns the raw model text.
	Generate(ctx Context, model, prompt string) (string, error)
	// GenerateWithSystem sends a system instruction plus a user message.
	GenerateWithSystem(ctx Context, model, systemInstruction, message string) (string, error)
}

// TokenVerifier (port) resolves a bearer credential to the owning user id via
// the hosted auth service.
type TokenVerifier interface {
	Verify(ctx Context, bearer string) (userID string, err error)
}

// NotificationStore (port) holds ephemeral per-user notifications.
type NotificationStore interface {
	// Push stores one notification and returns its assigned id.
	Push(ctx Context, userID string, n Notification) (string, error)
	List(ctx Context, userID string) ([]Notification, error)
	MarkSeen(ctx Context, userID string, ids []string) error
}

// Context is an alias so adapters and usecases pass context.Context through
// without the domain package growing its own abstraction.
type Context = context.Context

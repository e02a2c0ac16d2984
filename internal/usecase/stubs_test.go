package usecase

import (
	"errors"
	"strings"

	"github.com/jobdeck/jobdeck/internal/domain"
)

// genStub implements domain.TextGenerator and records every call.
type genStub struct {
	calls   int
	prompts []string
	reply   string
	// replyFor overrides reply when the prompt contains the key.
	replyFor map[string]string
	err      error
}

func (g *genStub) Generate(_ domain.Context, _ string, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	for key, out := range g.replyFor {
		if strings.Contains(prompt, key) {
			return out, nil
		}
	}
	return g.reply, nil
}

func (g *genStub) GenerateWithSystem(ctx domain.Context, model, system, message string) (string, error) {
	return g.Generate(ctx, model, system+"\n"+message)
}

// appRepoStub implements domain.ApplicationRepository in memory.
type appRepoStub struct {
	rows    map[string]domain.Application
	listErr error
	nextID  int
}

func newAppRepoStub() *appRepoStub { return &appRepoStub{rows: map[string]domain.Application{}} }

func (r *appRepoStub) Create(_ domain.Context, a domain.Application) (string, error) {
	r.nextID++
	id := "app-" + string(rune('0'+r.nextID))
	a.ID = id
	r.rows[id] = a
	return id, nil
}

func (r *appRepoStub) Get(_ domain.Context, userID, id string) (domain.Application, error) {
	a, ok := r.rows[id]
	if !ok || a.UserID != userID {
		return domain.Application{}, domain.ErrNotFound
	}
	return a, nil
}

func (r *appRepoStub) ListByUser(_ domain.Context, userID string) ([]domain.Application, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.Application
	for _, a := range r.rows {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *appRepoStub) Replace(_ domain.Context, a domain.Application) error {
	cur, ok := r.rows[a.ID]
	if !ok || cur.UserID != a.UserID {
		return domain.ErrNotFound
	}
	r.rows[a.ID] = a
	return nil
}

func (r *appRepoStub) UpdateStatus(_ domain.Context, userID, id string, status domain.ApplicationStatus) error {
	a, ok := r.rows[id]
	if !ok || a.UserID != userID {
		return domain.ErrNotFound
	}
	a.Status = status
	r.rows[id] = a
	return nil
}

func (r *appRepoStub) Delete(_ domain.Context, userID, id string) error {
	a, ok := r.rows[id]
	if !ok || a.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// docRepoStub implements domain.DocumentRepository in memory keyed by
// application id, mirroring the enforced at-most-one-row semantics.
type docRepoStub struct {
	rows      map[string]domain.GeneratedDocument
	upsertErr error
}

func newDocRepoStub() *docRepoStub { return &docRepoStub{rows: map[string]domain.GeneratedDocument{}} }

func (r *docRepoStub) Upsert(_ domain.Context, d domain.GeneratedDocument) (string, error) {
	if r.upsertErr != nil {
		return "", r.upsertErr
	}
	if cur, ok := r.rows[d.ApplicationID]; ok {
		d.ID = cur.ID
		d.CreatedAt = cur.CreatedAt
	} else if d.ID == "" {
		d.ID = "doc-" + d.ApplicationID
	}
	r.rows[d.ApplicationID] = d
	return d.ID, nil
}

func (r *docRepoStub) GetLatestByApplication(_ domain.Context, userID, applicationID string) (domain.GeneratedDocument, error) {
	d, ok := r.rows[applicationID]
	if !ok || d.UserID != userID {
		return domain.GeneratedDocument{}, domain.ErrNotFound
	}
	return d, nil
}

// profileStub implements domain.ProfileRepository in memory.
type profileStub struct {
	resumes map[string]string
	err     error
}

func newProfileStub() *profileStub { return &profileStub{resumes: map[string]string{}} }

func (p *profileStub) GetResume(_ domain.Context, userID string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	text, ok := p.resumes[userID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

func (p *profileStub) UpsertResume(_ domain.Context, userID, text string) error {
	if p.err != nil {
		return p.err
	}
	p.resumes[userID] = text
	return nil
}

// reminderStub records Schedule/Cancel calls.
type reminderStub struct {
	scheduled []string
	cancelled []string
}

func (r *reminderStub) Schedule(a domain.Application) { r.scheduled = append(r.scheduled, a.ID) }
func (r *reminderStub) Cancel(id string)              { r.cancelled = append(r.cancelled, id) }

var errBoom = errors.New("boom")

// Package auth verifies bearer tokens against a GoTrue-compatible auth
// service. The server never mints tokens itself; it only asks the auth
// service who a token belongs to.
package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/internal/domain"
)

// Verifier resolves bearer tokens to user ids via GET /auth/v1/user.
type Verifier struct {
	cfg config.Config
	hc  *http.Client
}

// NewVerifier constructs a Verifier from config.
func NewVerifier(cfg config.Config) *Verifier {
	return &Verifier{cfg: cfg, hc: &http.Client{Timeout: 10 * time.Second}}
}

type userResponse struct {
	ID string `json:"id"`
}

// Verify validates the bearer token and returns the subject user id. Any
// rejection by the auth service maps to domain.ErrUnauthenticated; transport
// and 5xx failures map to domain.ErrUpstream so callers can tell an invalid
// token from a broken auth service.
func (v *Verifier) Verify(ctx domain.Context, bearer string) (string, error) {
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(bearer), "Bearer"))
	if token == "" {
		return "", fmt.Errorf("%w: missing bearer token", domain.ErrUnauthenticated)
	}
	url := strings.TrimRight(v.cfg.AuthBaseURL, "/") + "/auth/v1/user"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("op=auth.request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.cfg.AuthAnonKey)

	resp, err := v.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("op=auth.verify: %w: %v", domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("op=auth.verify: %w", domain.ErrUnauthenticated)
	default:
		return "", fmt.Errorf("op=auth.verify: %w: status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var u userResponse
	if err := json.Unmarshal(body, &u); err != nil || u.ID == "" {
		return "", fmt.Errorf("op=auth.verify: %w: malformed user response", domain.ErrUpstream)
	}
	return u.ID, nil
}

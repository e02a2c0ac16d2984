// Package gemini implements the text generator against the Gemini REST API.
package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jobdeck/jobdeck/internal/adapter/ai/tokencount"
	"github.com/jobdeck/jobdeck/internal/adapter/observability"
	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/internal/domain"
)

// Client implements domain.TextGenerator with one generateContent call per
// invocation. No retries, no streaming, no caching: failures propagate to the
// caller, which maps them to user-facing messages at the HTTP boundary.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a Gemini client with a generous timeout; document generation
// on larger models can take tens of seconds.
func New(cfg config.Config) *Client {
	return &Client{cfg: cfg, hc: &http.Client{Timeout: 90 * time.Second}}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends a single user prompt and returns the raw model text.
func (c *Client) Generate(ctx domain.Context, model, prompt string) (string, error) {
	if tokens, err := tokencount.DefaultCounter.Count(prompt); err == nil {
		slog.Debug("gemini prompt prepared", slog.String("model", model), slog.Int("approx_tokens", tokens))
	}
	return c.call(ctx, model, generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
}

// GenerateWithSystem sends a system instruction plus one user message.
func (c *Client) GenerateWithSystem(ctx domain.Context, model, systemInstruction, message string) (string, error) {
	if tokens, err := tokencount.DefaultCounter.CountPair(systemInstruction, message); err == nil {
		slog.Debug("gemini prompt prepared", slog.String("model", model), slog.Int("approx_tokens", tokens))
	}
	return c.call(ctx, model, generateRequest{
		Contents:          []content{{Role: "user", Parts: []part{{Text: message}}}},
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
	})
}

func (c *Client) call(ctx domain.Context, model string, req generateRequest) (string, error) {
	if c.cfg.GeminiAPIKey == "" {
		return "", fmt.Errorf("%w: GEMINI_API_KEY is not configured", domain.ErrUnauthenticated)
	}
	b, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("op=gemini.marshal: %w", err)
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimSuffix(c.cfg.GeminiBaseURL, "/"), model)
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("op=gemini.request: %w", err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("x-goog-api-key", c.cfg.GeminiAPIKey)

	start := time.Now()
	resp, err := c.hc.Do(r)
	observability.AIRequestsTotal.WithLabelValues("gemini", "generate").Inc()
	observability.AIRequestDuration.WithLabelValues("gemini", "generate").Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Error("gemini transport failure", slog.String("model", model), slog.Any("error", err))
		return "", fmt.Errorf("%w: gemini call: %v", domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: gemini read: %v", domain.ErrUpstream, err)
	}
	if err := classifyStatus(resp.StatusCode, body); err != nil {
		snippet := string(body)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		slog.Warn("gemini non-2xx",
			slog.String("model", model),
			slog.Int("status", resp.StatusCode),
			slog.String("body", snippet))
		return "", err
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		slog.Error("gemini decode error", slog.String("model", model), slog.Any("error", err))
		return "", fmt.Errorf("%w: gemini decode: %v", domain.ErrUpstream, err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", domain.ErrUpstream)
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// classifyStatus maps upstream HTTP statuses onto the domain taxonomy. Gemini
// reports an invalid key as a 400 whose body mentions the API key.
func classifyStatus(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: gemini rejected credentials (status %d)", domain.ErrUnauthenticated, status)
	case status == http.StatusBadRequest && bytes.Contains(bytes.ToLower(body), []byte("api key")):
		return fmt.Errorf("%w: gemini rejected API key", domain.ErrUnauthenticated)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: gemini quota exceeded", domain.ErrQuotaExceeded)
	default:
		return fmt.Errorf("%w: gemini status %d", domain.ErrUpstream, status)
	}
}

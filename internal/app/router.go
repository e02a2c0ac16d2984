// Package app wires config, adapters and routes into a runnable server.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jobdeck/jobdeck/internal/adapter/httpserver"
	"github.com/jobdeck/jobdeck/internal/adapter/observability"
	"github.com/jobdeck/jobdeck/internal/config"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming
// spaces. If the input is empty, returns ["*"].
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(30 * time.Second))
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// AI endpoints are the expensive ones; rate limit them by client IP.
	r.Group(func(wr chi.Router) {
		wr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute))
		wr.Post("/api/generate-documents", srv.GenerateDocumentsHandler())
		wr.Post("/api/parse-job", srv.ParseJobHandler())
		wr.Post("/api/chat", srv.ChatHandler())
	})

	// Everything touching stored rows requires a verified user.
	r.Group(func(ar chi.Router) {
		ar.Use(httpserver.RequireUser(srv.Verifier))
		ar.Get("/api/applications", srv.ListApplicationsHandler())
		ar.Post("/api/applications", srv.CreateApplicationHandler())
		ar.Get("/api/applications/{id}", srv.GetApplicationHandler())
		ar.Put("/api/applications/{id}", srv.UpdateApplicationHandler())
		ar.Patch("/api/applications/{id}/status", srv.UpdateStatusHandler())
		ar.Delete("/api/applications/{id}", srv.DeleteApplicationHandler())
		ar.Get("/api/applications/{id}/documents", srv.GetDocumentsHandler())
		ar.Get("/api/resume", srv.ResumeGetHandler())
		ar.Post("/api/resume", srv.ResumeSaveHandler())
		ar.Get("/api/notifications", srv.ListNotificationsHandler())
		ar.Post("/api/notifications/seen", srv.MarkSeenHandler())
	})

	r.Get("/healthz", srv.HealthzHandler())
	r.Get("/readyz", srv.ReadyzHandler())
	r.With(httpserver.AdminOnly(cfg)).Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/openapi.yaml", srv.OpenAPIServe())

	return httpserver.SecurityHeaders(r)
}

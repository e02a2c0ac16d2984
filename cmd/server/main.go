// Command server starts the job application tracker HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/jobdeck/jobdeck/internal/adapter/ai/gemini"
	"github.com/jobdeck/jobdeck/internal/adapter/auth"
	"github.com/jobdeck/jobdeck/internal/adapter/httpserver"
	"github.com/jobdeck/jobdeck/internal/adapter/notify"
	"github.com/jobdeck/jobdeck/internal/adapter/observability"
	"github.com/jobdeck/jobdeck/internal/adapter/repo/postgres"
	"github.com/jobdeck/jobdeck/internal/app"
	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/internal/service/reminder"
	"github.com/jobdeck/jobdeck/internal/usecase"
)

func main() {
	// .env is a local-dev convenience; real deployments set the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL, cfg.DBConnectMaxElapsed)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	defer func() { _ = rdb.Close() }()

	// Repositories and external adapters
	appRepo := postgres.NewApplicationRepo(pool)
	docRepo := postgres.NewDocumentRepo(pool)
	profRepo := postgres.NewProfileRepo(pool)
	notifStore := notify.NewStore(rdb, cfg.NotificationTTL)
	verifier := auth.NewVerifier(cfg)
	gen := gemini.New(cfg)

	reminders := reminder.NewRegistry(notifStore, cfg.ReminderLead)
	defer reminders.Stop()

	// Usecases
	docSvc := usecase.NewDocumentService(gen, docRepo, cfg.GeminiGenerateModel)
	parseSvc := usecase.NewParseService(gen, cfg.GeminiParseModel)
	chatSvc := usecase.NewChatService(appRepo, gen, cfg.GeminiGenerateModel)
	resumeSvc := usecase.NewResumeService(profRepo)
	appSvc := usecase.NewApplicationService(appRepo, reminders)

	dbCheck := func(ctx context.Context) error { return pool.Ping(ctx) }
	redisCheck := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

	srv := httpserver.NewServer(cfg, docSvc, parseSvc, chatSvc, resumeSvc, appSvc,
		notifStore, verifier, dbCheck, redisCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}

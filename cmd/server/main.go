// Command server runs the chatbot backend: a keyword-rule chat API with an
// admin surface for managing the rule set.
//
// Startup sequence:
//  1. Load .env (optional) and environment configuration.
//  2. Configure logging and OpenTelemetry tracing.
//  3. Open SQLite, migrate the schema, and run bootstrap steps (clear the
//     conversation log, seed starter intents, apply a training file).
//  4. Serve HTTP until SIGINT/SIGTERM, then drain gracefully.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/arisehq/chatbot-backend/internal/bootstrap"
	"github.com/arisehq/chatbot-backend/internal/config"
	httpapi "github.com/arisehq/chatbot-backend/internal/http"
	"github.com/arisehq/chatbot-backend/internal/observability"
	"github.com/arisehq/chatbot-backend/internal/repo"
	"github.com/arisehq/chatbot-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Logging
	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	appVersion := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	log.Info().Str("version", appVersion).Str("port", cfg.Port).Msg("starting chatbot backend")

	// Tracing
	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, appVersion)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(shCtx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown failed")
		}
	}()

	// Storage
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// Bootstrap: fresh conversation log, starter rules, optional training file.
	if cfg.Bootstrap.ResetOnStart {
		if n, err := repo.ClearConversations(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("clearing conversation log failed")
		} else if n > 0 {
			log.Info().Int64("rows", n).Msg("cleared conversation log")
		}
	}
	if cfg.Bootstrap.SeedEnabled {
		if err := bootstrap.EnsureSeed(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("seeding intents failed")
		}
	}

	intentSvc := httpapi.NewIntentService(db)
	if path := cfg.Bootstrap.TrainingPath; path != "" {
		rep, err := bootstrap.ApplyTrainingFile(ctx, intentSvc, path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("applying training file failed")
		}
		log.Info().
			Str("path", path).
			Int("added", rep.Added).
			Int("updated", rep.Updated).
			Int("skipped", rep.Skipped).
			Msg("training file applied")
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if cfg.Bootstrap.TrainingWatch {
		w, err := bootstrap.NewWatcher(intentSvc, cfg.Bootstrap.TrainingPath)
		if err != nil {
			log.Fatal().Err(err).Msg("training watcher failed")
		}
		defer w.Close()
		go w.Run(watchCtx)
	}

	// HTTP
	engine := gin.New()
	httpapi.RegisterRoutes(engine, db, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server failed")
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("stopped")
}

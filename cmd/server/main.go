// Command server runs the movie catalog web application.
//
// Startup order matters: environment and logging first, then tracing,
// then the secret bundle (database credentials come from the vault, not
// the environment), then the HTTP server. The process connects to the
// database lazily, once per request.
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcowell/go-movie-catalog/internal/config"
	httpapi "github.com/mcowell/go-movie-catalog/internal/http"
	"github.com/mcowell/go-movie-catalog/internal/observability"
	"github.com/mcowell/go-movie-catalog/internal/repo"
	"github.com/mcowell/go-movie-catalog/internal/secrets"
	"github.com/mcowell/go-movie-catalog/internal/sysutil"
)

var version = "dev" // overridden at build time via -ldflags

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.LogFile).Msg("open log file")
	}
	defer logFile.Close()

	setupLogging(cfg, logFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	vault, err := secrets.NewKeyVault(cfg.VaultURL, cfg.SecretPrefix)
	if err != nil {
		log.Fatal().Err(err).Str("vault", cfg.VaultURL).Msg("vault client")
	}
	bundle, err := vault.Resolve(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("vault", cfg.VaultURL).Msg("resolve secrets")
	}
	log.Info().Str("vault", cfg.VaultURL).Msg("secret bundle resolved")

	conn, err := repo.NewMySQLConnector(bundle, cfg.DBTLSCA)
	if err != nil {
		log.Fatal().Err(err).Str("ca", cfg.DBTLSCA).Msg("database connector")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, conn, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// setupLogging routes zerolog to stderr and to the append-only log file
// that the diagnostics page reads back.
func setupLogging(cfg config.Config, logFile io.Writer) {
	var console io.Writer = os.Stderr
	if cfg.LogPretty {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	fileWriter := zerolog.ConsoleWriter{Out: logFile, TimeFormat: time.RFC3339, NoColor: true}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, fileWriter)).
		With().Timestamp().Logger()

	sysutil.SetLogLevel(cfg.LogLevel)
}

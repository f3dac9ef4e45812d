// Package webservice boots the wailingwell HTTP server.
package webservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/wailingwell/wailingwell/internal/api"
	"github.com/wailingwell/wailingwell/internal/blob"
	"github.com/wailingwell/wailingwell/internal/config"
	"github.com/wailingwell/wailingwell/internal/platform/logger"
	"github.com/wailingwell/wailingwell/internal/services"
	"github.com/wailingwell/wailingwell/internal/session"
	"github.com/wailingwell/wailingwell/internal/store/factory"
	"github.com/wailingwell/wailingwell/internal/web"
)

// Run starts the HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("wailingwell")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("upload_dir", cfg.UploadDir).
		Str("time_zone", cfg.TimeZone).
		Msg("Wailing Well starting")

	// Cancellable root context bound to SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		log.Error().Err(err).Str("time_zone", cfg.TimeZone).Msg("Unknown time zone")
		return err
	}

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Store unavailable")
		return err
	}
	defer func() { _ = st.Close() }()

	sink, err := blob.NewSink(cfg.UploadDir)
	if err != nil {
		log.Error().Err(err).Msg("Upload directory unavailable")
		return err
	}

	views, err := web.NewRenderer()
	if err != nil {
		log.Error().Err(err).Msg("Template parsing failed")
		return err
	}

	sessions := session.NewManager(time.Duration(cfg.SessionTTLMinutes) * time.Minute)
	accountSvc := services.NewAccountService(st)
	journalSvc := services.NewJournalService(st, sink, loc, log)

	handlers := api.NewHandlers(accountSvc, journalSvc, sink, sessions, views, log)
	router := api.NewRouter(handlers)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}
}

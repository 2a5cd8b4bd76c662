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

	"github.com/ecactus/ecos/pkg/ecosmock"
	"github.com/ecactus/ecos/pkg/log"

	"github.com/NYTimes/gziphandler"
	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
	"github.com/rs/cors"
)

func main() {
	listenAddr := lflag.String("listen", ":8080", "HTTP server listen address")
	email := lflag.String("email", ecosmock.DefaultEmail, "email the mock accepts")
	password := lflag.String("password", ecosmock.DefaultPassword, "password the mock accepts")

	lflag.Configure()

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}
	log.SetDefaultLogLevel(level)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mock := ecosmock.New()
	mock.Email = *email
	mock.Password = *password

	// the real API sits behind a browser frontend, so allow cross-origin use
	handler := cors.AllowAll().Handler(gziphandler.GzipHandler(mock.Handler()))

	srv := &http.Server{
		Addr:         *listenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		log.Ctx(ctx).InfoContext(ctx, "starting mock ecos server",
			slog.String("addr", *listenAddr),
			slog.String("email", mock.Email),
			slog.String("accessToken", mock.AccessToken))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Ctx(ctx).InfoContext(ctx, "shutting down mock server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "shutdown failed", "error", err)
			os.Exit(1)
		}
	case err := <-errChan:
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "server failed", "error", err)
			os.Exit(1)
		}
	}
}

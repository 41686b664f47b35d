package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nano-midea/socialgraph/internal/backend"
	"github.com/anonto42/nano-midea/socialgraph/internal/middleware"
	"github.com/anonto42/nano-midea/socialgraph/internal/router"
	"github.com/anonto42/nano-midea/socialgraph/pkg/config"
	"github.com/anonto42/nano-midea/socialgraph/pkg/firebase"
	"github.com/anonto42/nano-midea/socialgraph/pkg/logger"
	"github.com/anonto42/nano-midea/socialgraph/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	os.Exit(execute(cfg, log))
}

// execute runs the server and returns the exit code, flushing logs first
func execute(cfg *config.Config, log *zap.Logger) int {
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The backend is chosen once here and never switched while serving
	stores, err := backend.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open storage backend: %w", err)
	}
	defer stores.Close()

	auth, err := authMiddleware(ctx, cfg, log)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, log.Named("http"))
	router.SetupRoutes(e, router.Wire(stores, cfg, auth, log))

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func authMiddleware(ctx context.Context, cfg *config.Config, log *zap.Logger) (echo.MiddlewareFunc, error) {
	if cfg.AuthProvider == "firebase" {
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, log)
		if err != nil {
			return nil, err
		}
		return middleware.FirebaseAuthMiddleware(app.AuthClient), nil
	}
	return middleware.JWTAuthMiddleware(cfg.JWTSecret), nil
}

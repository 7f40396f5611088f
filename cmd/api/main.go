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

	"github.com/vaughan-dsouza/QuizGo/internal/config"
	"github.com/vaughan-dsouza/QuizGo/internal/db"
	"github.com/vaughan-dsouza/QuizGo/internal/handlers"
	"github.com/vaughan-dsouza/QuizGo/internal/logging"
	"github.com/vaughan-dsouza/QuizGo/internal/metrics"
	"github.com/vaughan-dsouza/QuizGo/internal/password"
	"github.com/vaughan-dsouza/QuizGo/internal/services"
	"github.com/vaughan-dsouza/QuizGo/internal/store"
	"github.com/vaughan-dsouza/QuizGo/internal/token"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.store.Close()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", srv.Addr), slog.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}

type app struct {
	store   store.Store
	handler http.Handler
}

// newApp wires the store, services and router and seeds the admin account.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	hasher, err := password.New(cfg.PasswordScheme, cfg.PasswordSalt)
	if err != nil {
		return nil, err
	}

	codec, err := token.NewCodec(cfg.AuthSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	auth := services.NewAuthService(st, hasher, codec, log, m)
	if err := auth.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		st.Close()
		return nil, err
	}

	h := handlers.NewHandler(handlers.Deps{
		Auth:        auth,
		Results:     services.NewResultService(st, log, m),
		Admin:       services.NewAdminService(st, log, m),
		Users:       st,
		Codec:       codec,
		Log:         log,
		Metrics:     m,
		CORSOrigins: cfg.CORSOrigins,
		PingMessage: cfg.PingMessage,
	})

	return &app{store: st, handler: h.Routes()}, nil
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case store.BackendMemory:
		return store.NewMemoryStore(), nil

	case store.BackendFile:
		st, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("file store: %w", err)
		}
		log.Info("file store opened", slog.String("dir", cfg.DataDir))
		return st, nil

	case store.BackendPostgres:
		conn, err := db.Connect(cfg.DatabaseURL, db.PoolConfig{
			MaxOpen:     cfg.DBMaxOpen,
			MaxIdle:     cfg.DBMaxIdle,
			MaxLifetime: cfg.DBMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, conn.DB); err != nil {
			conn.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("postgres store ready")
		return store.NewPostgresStore(conn), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

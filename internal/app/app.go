package app

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

	"projector-backend/internal/config"
	"projector-backend/internal/database"
	"projector-backend/internal/handler"
	"projector-backend/internal/metrics"
	"projector-backend/internal/middleware"
	"projector-backend/internal/repository"
	"projector-backend/internal/router"
	"projector-backend/internal/service"
	"projector-backend/internal/util"
)

type App struct {
	server *http.Server
	db     *database.DB
}

func New(cfg *config.Config) (*App, error) {
	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	if err := db.Seed(context.Background(), cfg.SeedAdminPassword); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	pool := db.Pool
	workerRepo := repository.NewWorkerRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	programRepo := repository.NewProgramRepository(pool)
	lookupRepo := repository.NewLookupRepository(pool)
	slog.Info("database ready")

	if err := auditPasswordHashes(context.Background(), workerRepo); err != nil {
		db.Close()
		return nil, err
	}

	authService, err := service.NewAuthService(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL, workerRepo, tokenRepo)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	workerService := service.NewWorkerService(workerRepo, tokenRepo)
	programService := service.NewProgramService(programRepo)

	authMiddleware := middleware.NewAuthMiddleware(authService, workerRepo)
	m := metrics.New()

	appRouter := router.New(cfg, authMiddleware, m, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Worker:  handler.NewWorkerHandler(workerService),
		Program: handler.NewProgramHandler(programService),
		Lookup:  handler.NewLookupHandler(lookupRepo),
		Health:  handler.NewHealthHandler(db),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server, db: db}, nil
}

// auditPasswordHashes refuses to start with a plaintext password in the
// workers table. A value that does not look like a supported hash will never
// verify, so the owning account would be silently locked out at best.
func auditPasswordHashes(ctx context.Context, workers *repository.WorkerRepository) error {
	hashes, err := workers.ListPasswordHashes(ctx)
	if err != nil {
		return fmt.Errorf("audit password hashes: %w", err)
	}

	for employeeID, hash := range hashes {
		if !util.IsHashed(hash) {
			slog.Error("plaintext password detected", "employee_id", employeeID)
			return fmt.Errorf("security violation: worker %s has an unhashed password", employeeID)
		}
	}

	slog.Info("password security validation completed", "workers_checked", len(hashes))
	return nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.db.Close()
	slog.Info("server stopped")
	return nil
}

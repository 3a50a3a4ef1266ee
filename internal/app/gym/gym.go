package gym

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alqaqa03/gym1/internal/biometric"
	"github.com/alqaqa03/gym1/internal/config"
	"github.com/alqaqa03/gym1/internal/http/middlewarectx"
	"github.com/alqaqa03/gym1/internal/lib/jwt"
	"github.com/alqaqa03/gym1/internal/lib/password"
	"github.com/alqaqa03/gym1/internal/lib/sl"
	"github.com/alqaqa03/gym1/internal/metrics"
	"github.com/alqaqa03/gym1/internal/migrations"
	attendanceservice "github.com/alqaqa03/gym1/internal/services/attendance"
	authservice "github.com/alqaqa03/gym1/internal/services/auth"
	memberservice "github.com/alqaqa03/gym1/internal/services/member"
	reportservice "github.com/alqaqa03/gym1/internal/services/report"
	subscriptionservice "github.com/alqaqa03/gym1/internal/services/subscription"
	"github.com/alqaqa03/gym1/internal/storage"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

func waitForDB(ctx context.Context, db *storage.Storage) error {
	for range 10 {
		err := storage.CheckDatabaseReady(ctx, db)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return fmt.Errorf("database not ready after retries")
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	version, err := migrations.Run(db.DB, cfg.MigrationsPath)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("migrations applied", slog.Uint64("version", uint64(version)))

	if err := waitForDB(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	hasher := password.NewHasher(cfg.BcryptCost)

	authService := authservice.NewService(db, hasher, jwtMaker, logger, m)
	created, err := authService.SeedAdmin(ctx, authservice.Admin{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		FullName: cfg.AdminFullName,
		Email:    cfg.AdminEmail,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if !created {
		logger.Debug("admin account already exists", slog.String("username", cfg.AdminUsername))
	}

	reportService := reportservice.NewService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Services{
		Auth:          authService,
		Members:       memberservice.NewService(db, logger),
		Subscriptions: subscriptionservice.NewService(db, logger, m),
		Attendance:    attendanceservice.NewService(db, biometric.Disabled{}, logger, m),
		Reports:       reportService,
		Tokens:        authService,
		Health: func(ctx context.Context) error {
			return storage.CheckDatabaseReady(ctx, db)
		},
		Metrics:      m,
		LoginLimiter: middlewarectx.NewRateLimiter(cfg.LoginRPS, cfg.LoginBurst),
		Location:     reportService.Location(),
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeDB()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeDB()
		return err
	}
}

func (a *App) closeDB() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}

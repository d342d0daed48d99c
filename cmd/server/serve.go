package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"blogapi/config"
	"blogapi/internal/adapters/auth"
	httpdelivery "blogapi/internal/delivery/http"
	"blogapi/internal/delivery/http/controllers"
	"blogapi/internal/repository/postgres"
	"blogapi/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	repos := postgres.NewRepositories(db)
	tx := postgres.NewTxManager(db)
	users := postgres.NewUserRepository(db)
	hasher := auth.NewPBKDF2Hasher(auth.DefaultIterations)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "blog"),
	)

	router := httpdelivery.NewRouter(httpdelivery.RouterDeps{
		Logger:         logger,
		Verifier:       issuer,
		Registry:       registry,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Ping:           db.PingContext,
		Posts:          controllers.NewPostController(logger, services.NewPostService(repos, tx), cfg.StrictFilters),
		Tags:           controllers.NewTagController(logger, services.NewTagService(repos, tx), cfg.StrictFilters),
		Users:          controllers.NewUserController(logger, services.NewUserService(users, hasher)),
		Roles:          controllers.NewRoleController(logger, services.NewRoleService(postgres.NewRoleRepository(db))),
		Sessions:       controllers.NewSessionController(logger, services.NewAuthService(users, hasher, issuer), cfg.CookieSecure),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "env", cfg.Environment, "strict_filters", cfg.StrictFilters)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

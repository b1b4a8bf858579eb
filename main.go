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

	"github.com/EmpoweredVote/booth-results/internal/auth"
	"github.com/EmpoweredVote/booth-results/internal/booths"
	"github.com/EmpoweredVote/booth-results/internal/cache"
	"github.com/EmpoweredVote/booth-results/internal/config"
	"github.com/EmpoweredVote/booth-results/internal/db"
	"github.com/EmpoweredVote/booth-results/internal/logger"
	"github.com/EmpoweredVote/booth-results/internal/metrics"
	"github.com/EmpoweredVote/booth-results/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg := config.Load()
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "booth-results")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	d, err := db.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if err := booths.Init(d); err != nil {
		return err
	}
	if err := auth.Init(d); err != nil {
		return err
	}

	roles, err := config.LoadRoles(cfg.RolesFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var kv cache.KVStore = cache.NopKVStore{}
	if cfg.Redis.Addr != "" {
		rkv, err := cache.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rkv.Close()
		kv = rkv
		log.Info("report cache enabled",
			zap.String("redis_addr", cfg.Redis.Addr),
			zap.Duration("ttl", cfg.ReportCacheTTL))
	}

	m := metrics.New(prometheus.NewRegistry())

	boothHandler := booths.NewHandler(
		booths.NewStore(d),
		booths.NewReportCache(kv, cfg.ReportCacheTTL, m, log),
		log,
	)
	authHandler := auth.NewHandler(
		auth.NewService(auth.NewStore(d), roles),
		log,
		cfg.CookieSecure,
	)
	loginLimiter := middleware.NewIPRateLimiter(cfg.LoginRatePerMin)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(logger.RequestLogger(log))
	r.Use(m.Middleware)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.Get("/", RootHandler)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Mount("/booth-data", booths.SetupRoutes(boothHandler))
	r.Mount("/auth", auth.SetupRoutes(authHandler, loginLimiter.Middleware))

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

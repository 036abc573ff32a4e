package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwrk-planet/practice-service/config"
	"github.com/cwrk-planet/practice-service/internal/logger"
	"github.com/cwrk-planet/practice-service/internal/pg"
	"github.com/cwrk-planet/practice-service/internal/repository"
	"github.com/cwrk-planet/practice-service/internal/repository/memory"
	"github.com/cwrk-planet/practice-service/internal/repository/postgres"
	"github.com/cwrk-planet/practice-service/internal/security"
	httpserver "github.com/cwrk-planet/practice-service/internal/server/http"
	"github.com/cwrk-planet/practice-service/internal/service"
	"github.com/cwrk-planet/practice-service/internal/telemetry"
	httpx "github.com/cwrk-planet/practice-service/internal/transport/http"
	httpmw "github.com/cwrk-planet/practice-service/internal/transport/http/middleware"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(cfg.Logging.ToLoggerConfig())
	defer logger.Sync()
	slog.Info("starting practice-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version, "storage", cfg.Storage.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("service stopped with error", slog.Any("err", err))
		logger.Sync()
		os.Exit(1)
	}
	slog.Info("stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	// --- tracing ---
	if cfg.Tracing.Enabled {
		tp, err := telemetry.Init(ctx, cfg.Tracing.ToTelemetryConfig(cfg.Logging))
		if err != nil {
			return err
		}
		defer func() {
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shCtx); err != nil {
				slog.Warn("tracer shutdown", slog.Any("err", err))
			}
		}()
	}

	// --- storage ---
	techniques, err := cfg.TechniqueCatalog()
	if err != nil {
		return err
	}

	var (
		store repository.Store
		ready func(context.Context) error
	)
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		mem := memory.NewStore()
		if err := mem.SeedTechniques(ctx, techniques); err != nil {
			return err
		}
		store = mem
		slog.Warn("using in-memory storage, data is lost on restart")
	default:
		pool, err := pg.NewPool(ctx, cfg.Postgres.ToPGConfig())
		if err != nil {
			return err
		}
		defer pool.Close()

		if cfg.Postgres.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				return err
			}
		}
		pgStore := postgres.NewStore(pool)
		if err := pgStore.SeedTechniques(ctx, techniques); err != nil {
			return err
		}
		store = pgStore
		ready = func(ctx context.Context) error { return pg.Ping(ctx, pool) }
	}

	// --- identity ---
	var verifier httpmw.TokenVerifier
	if cfg.Auth.JWTPublicKeyPath != "" {
		pub, err := security.LoadRSAPublicKeyFromPEM(cfg.Auth.JWTPublicKeyPath)
		if err != nil {
			return err
		}
		verifier = security.NewVerifier(pub, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.ClockSkew)
		slog.Info("bearer tokens are verified", "issuer", cfg.Auth.Issuer)
	} else {
		slog.Warn("jwt public key not configured, trusting X-User-ID from gateway")
	}

	// --- metrics ---
	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	// --- services ---
	handler := httpx.NewHandler(httpx.Services{
		Rooms:      service.NewRoomService(store),
		Members:    service.NewMemberService(store),
		Sessions:   service.NewSessionService(store),
		Stats:      service.NewStatsService(store),
		Techniques: service.NewTechniqueService(store),
	})

	// --- HTTP ---
	router := httpx.NewRouter(httpx.Deps{
		Handler:        handler,
		Verifier:       verifier,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Registry:       registry,
		Tracing:        cfg.Tracing.Enabled,
		Ready:          ready,
	})
	srv := httpserver.New(httpserver.Config{
		Addr:            cfg.HTTP.Addr,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		IdleTimeout:     cfg.HTTP.IdleTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, router)

	return srv.Run(ctx)
}

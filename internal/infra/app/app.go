package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/medeiros27/diligencias-app/internal/core/port"
	"github.com/medeiros27/diligencias-app/internal/infra/config"
	"github.com/medeiros27/diligencias-app/internal/infra/database"
	kafkainfra "github.com/medeiros27/diligencias-app/internal/infra/kafka"
	"github.com/medeiros27/diligencias-app/internal/infra/logger"
	redisinfra "github.com/medeiros27/diligencias-app/internal/infra/redis"
	"github.com/medeiros27/diligencias-app/internal/infra/security"
	"github.com/medeiros27/diligencias-app/internal/infra/storage"
	postgresrepo "github.com/medeiros27/diligencias-app/internal/repository/postgres"
	redisrepo "github.com/medeiros27/diligencias-app/internal/repository/redis"
	"github.com/medeiros27/diligencias-app/internal/transport/http/middleware"
	"github.com/medeiros27/diligencias-app/internal/transport/http/routes"
	"github.com/medeiros27/diligencias-app/internal/usecase"
)

// Application bundles the process-wide resources and their shutdown order.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	audit    *usecase.AuditService
}

// New wires every layer together: infra, repositories, usecases, transport.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	tokens, err := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TokenTTL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	diskStorage, err := storage.NewDiskStorage(cfg.Upload.Directory, cfg.Upload.MaxSizeBytes, cfg.Upload.AllowedMimes)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init upload storage: %w", err)
	}

	adminRepo := postgresrepo.NewAdminRepository(pool)
	clienteRepo := postgresrepo.NewClienteRepository(pool)
	correspondenteRepo := postgresrepo.NewCorrespondenteRepository(pool)
	demandaRepo := postgresrepo.NewDemandaRepository(pool)
	anexoRepo := postgresrepo.NewAnexoRepository(pool)
	logRepo := postgresrepo.NewLogRepository(pool)
	dashboardRepo := postgresrepo.NewDashboardRepository(pool)

	var eventPublisher port.EventPublisher
	var producer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			producer = nil
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	var redisClient *redisinfra.Client
	var rateLimiter *middleware.RateLimiter
	if cfg.Redis.Enabled {
		redisClient, err = redisinfra.NewClient(cfg.Redis, log)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init redis: %w", err)
		}

		rateLimitWindow := cfg.RateLimit.WindowDuration
		if rateLimitWindow <= 0 {
			rateLimitWindow = time.Minute
		}
		rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
			KeyPrefix: "juris:rate-limit",
			TTL:       rateLimitWindow * 2,
		})
		rateLimiter = middleware.NewRateLimiter(rateLimitStore, log)
	}

	auditService := usecase.NewAuditService(logRepo, log)

	authService := usecase.NewAuthService(adminRepo, clienteRepo, correspondenteRepo, tokens)
	registrationService := usecase.NewRegistrationService(clienteRepo, correspondenteRepo)
	demandaService := usecase.NewDemandaService(demandaRepo, correspondenteRepo, eventPublisher, auditService)
	anexoService := usecase.NewAnexoService(anexoRepo, demandaRepo, diskStorage, eventPublisher, auditService)
	userService := usecase.NewUserService(clienteRepo, correspondenteRepo)
	dashboardService := usecase.NewDashboardService(dashboardRepo)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	deps := routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Tokens:      tokens,
		Database:    pool,
		Services: routes.ServiceSet{
			Auth:         authService,
			Registration: registrationService,
			Demandas:     demandaService,
			Anexos:       anexoService,
			Users:        userService,
			Dashboard:    dashboardService,
		},
	}
	if redisClient != nil {
		deps.Cache = redisClient
	}

	engine := routes.Register(deps)

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		audit:    auditService,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down in
// dependency order: HTTP server first, then pending audit work, then the
// producer and the connection pools.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			if err := a.producer.Close(); err != nil {
				a.logger.Warn("close kafka producer", zap.Error(err))
			}
		}
	}()
	defer a.audit.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting diligencias API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}

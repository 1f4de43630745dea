package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/config"
	"github.com/iliyamo/qshe-portal/internal/database"
	"github.com/iliyamo/qshe-portal/internal/handler"
	"github.com/iliyamo/qshe-portal/internal/logging"
	"github.com/iliyamo/qshe-portal/internal/middleware"
	"github.com/iliyamo/qshe-portal/internal/queue"
	"github.com/iliyamo/qshe-portal/internal/repository"
	"github.com/iliyamo/qshe-portal/internal/router"
	"github.com/iliyamo/qshe-portal/internal/service"
	"github.com/iliyamo/qshe-portal/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load() // .env is optional outside local development

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if cfg.DBMigrate {
		v, err := database.Migrate(database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName))
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("schema ready", zap.Uint("version", v))
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting and caching disabled")
	} else {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var events service.ReviewPublisher
	if cfg.EventsEnabled {
		events = queue.NewPublisher(cfg.AMQPURL, log)
		consumer := queue.NewAuditConsumer(cfg.AMQPURL, cfg.AuditLogDir, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit consumer stopped", zap.Error(err))
			}
		}()
	}

	tokens := utils.NewTokenService(cfg.JWTSecret)

	authSvc := service.NewAuthService(repository.NewUserRepo(db), tokens, cfg.BcryptCost, log)
	safetySvc := service.NewSafetyMetricService(repository.NewSafetyMetricRepo(db), events, log)
	medicalSvc := service.NewMedicalReportService(repository.NewMedicalReportRepo(db), events, log)
	visitorSvc := service.NewVisitorRequestService(repository.NewVisitorRequestRepo(db), events, log)
	refSvc := service.NewReferenceService(repository.NewCompetencyRepo(db))
	dashSvc := service.NewDashboardService(repository.NewDashboardRepo(db))

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("1M"))
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Metrics())

	guards := router.Guards{
		Verifier:  tokens,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Log:       log,
	}
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc, log), guards)
	router.RegisterQSHE(e,
		handler.NewSafetyMetricHandler(safetySvc, log),
		handler.NewMedicalReportHandler(medicalSvc, log),
		guards)
	router.RegisterSecurity(e,
		handler.NewVisitorRequestHandler(visitorSvc, log),
		handler.NewSecurityHandler(refSvc, log),
		guards)
	router.RegisterDashboard(e, handler.NewDashboardHandler(dashSvc, log), guards)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

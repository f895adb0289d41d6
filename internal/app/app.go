package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/studynotes-backend/internal/data/db"
	"github.com/yungbote/studynotes-backend/internal/http"
	"github.com/yungbote/studynotes-backend/internal/observability"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      *Config
	Repos    Repos
	Clients  Clients
	Services Services
	Server   *http.Server

	dbService     *db.DatabaseService
	shutdownTrace func(context.Context) error
}

// NewLogger builds the process logger from the log section of cfg.
func NewLogger(cfg *Config) (*logger.Logger, error) {
	log, err := logger.NewWithOptions(logger.Options{
		Mode:     cfg.Log.Mode,
		Redact:   cfg.Log.Redact,
		HashSalt: cfg.Log.HashSalt,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func New(ctx context.Context, cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	log, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.UsesDefaultSecret() {
		log.Warn("JWT secret is the built-in default; set AUTH_JWT_SECRET outside development")
	}

	switch strings.ToLower(cfg.Server.Mode) {
	case "release", "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	shutdownTrace := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Otel.Environment,
		Version:     Version,
		Endpoint:    cfg.Otel.Endpoint,
		Insecure:    cfg.Otel.Insecure,
		Headers:     observability.ParseHeaders(cfg.Otel.Headers),
		SampleRatio: cfg.Otel.SampleRatio,
	})

	dbService, err := db.NewDatabaseService(log, db.Config{
		Driver:        cfg.Database.Driver,
		Host:          cfg.Database.Host,
		Port:          cfg.Database.Port,
		User:          cfg.Database.User,
		Password:      cfg.Database.Password,
		Name:          cfg.Database.Name,
		SSLMode:       cfg.Database.SSLMode,
		SQLitePath:    cfg.Database.SQLitePath,
		SlowThreshold: cfg.Database.SlowThreshold,
	})
	if err != nil {
		_ = shutdownTrace(ctx)
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbService.DB()

	if cfg.Database.AutoMigrate {
		log.Info("Running auto-migrations...")
		if err := db.AutoMigrateAll(theDB); err != nil {
			_ = dbService.Close()
			_ = shutdownTrace(ctx)
			log.Sync()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	clientset, err := wireClients(log, cfg)
	if err != nil {
		_ = dbService.Close()
		_ = shutdownTrace(ctx)
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clientset)
	handlerset := wireHandlers(log, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, handlerset, middleware)

	return &App{
		Log:           log,
		DB:            theDB,
		Cfg:           cfg,
		Repos:         reposet,
		Clients:       clientset,
		Services:      serviceset,
		Server:        server,
		dbService:     dbService,
		shutdownTrace: shutdownTrace,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// within the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("Server listening", "port", a.Cfg.Server.Port)
		return a.Server.Run()
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("Database close failed", "error", err)
		}
	}
	if a.shutdownTrace != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.shutdownTrace(ctx); err != nil {
			a.Log.Warn("Tracer shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

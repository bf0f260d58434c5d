package app

import (
	"context"
	"errors"
	"net/http"

	"genealogy-app-go/internal/config"
	"genealogy-app-go/internal/db"
	approvaldomain "genealogy-app-go/internal/domain/approval"
	genealogydomain "genealogy-app-go/internal/domain/genealogy"
	roledomain "genealogy-app-go/internal/domain/role"
	userdomain "genealogy-app-go/internal/domain/user"
	"genealogy-app-go/internal/metrics"
	"genealogy-app-go/internal/repository/inmemory"
	approvalrepo "genealogy-app-go/internal/repository/postgres/approval"
	genealogyrepo "genealogy-app-go/internal/repository/postgres/genealogy"
	rolerepo "genealogy-app-go/internal/repository/postgres/role"
	userrepo "genealogy-app-go/internal/repository/postgres/user"
	"genealogy-app-go/internal/repository/rediscache"
	"genealogy-app-go/internal/transport/httpserver"
	"genealogy-app-go/internal/transport/httpserver/handler"
	authmw "genealogy-app-go/internal/transport/httpserver/middleware"
	"genealogy-app-go/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *redis.Client
	log        logger.Logger
}

func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	application := &App{cfg: cfg, db: dbConn, log: log}

	log.Info("app: applying migrations", "dir", cfg.DB.MigrationsDir)
	if err := db.Migrate(dbConn, cfg.DB.MigrationsDir, log); err != nil {
		_ = application.Close()
		return nil, err
	}

	var snapshots genealogydomain.SnapshotCache = inmemory.NewSnapshotCache()
	if cfg.Redis.Enabled {
		log.Info("app: initializing redis")
		client, err := db.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			_ = application.Close()
			return nil, err
		}
		application.redis = client
		snapshots = rediscache.NewSnapshotCache(client, log)
	}

	appMetrics := metrics.New()
	if sqlDB, err := dbConn.DB(); err == nil {
		appMetrics.RegisterDBStats(sqlDB)
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	roles := roledomain.NewService(rolerepo.NewPostgres(dbConn), log.With("component", "roles"))
	genealogies := genealogydomain.NewService(
		genealogyrepo.NewPostgres(dbConn),
		roles,
		log.With("component", "genealogies"),
		genealogydomain.WithSnapshotCache(snapshots, cfg.Redis.SnapshotTTL),
	)
	approvals := approvaldomain.NewService(
		approvalrepo.NewPostgres(dbConn),
		roles,
		roles,
		genealogies,
		log.With("component", "approvals"),
		approvaldomain.WithRecorder(appMetrics),
	)

	log.Info("app: initializing router")
	handlers := handler.New(users, genealogies, approvals, roles, log)
	auth := authmw.NewJWTAuth(cfg.Auth, users, log)
	router := httpserver.NewRouter(cfg, handlers, auth, appMetrics)

	application.httpServer = httpserver.New(cfg, router)
	return application, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var closeErr error
	if a.redis != nil {
		closeErr = errors.Join(closeErr, a.redis.Close())
	}
	if a.db == nil {
		return closeErr
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return errors.Join(closeErr, err)
	}
	return errors.Join(closeErr, sqlDB.Close())
}

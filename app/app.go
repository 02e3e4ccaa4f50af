package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"inventaris_admin/config"
	"inventaris_admin/db"
	"inventaris_admin/gateway"
	"inventaris_admin/inventory"
	"inventaris_admin/loan"
	"inventaris_admin/report"
	"inventaris_admin/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	Config config.Config
	Log    *slog.Logger

	DB  *gorm.DB      // nil: audit trail disabled
	RDB *redis.Client // nil: sessions kept in memory

	Gateway   *gateway.Client
	Sessions  *session.Manager
	Items     *inventory.Reference
	Loans     *loan.Service
	Dashboard *report.Dashboard
	Audit     *db.Repo
}

// Deps overrides the backing services New would otherwise dial.
type Deps struct {
	HTTPClient *http.Client
	Store      session.Store
	Audit      *db.Repo
}

// New dials Redis and Postgres when configured and wires the services.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	var deps Deps
	var rdb *redis.Client
	var conn *gorm.DB

	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		deps.Store = session.NewRedisStore(rdb)
	} else {
		log.Warn("REDIS_ADDR not set, sessions are kept in memory")
	}

	if cfg.DatabaseURL != "" {
		var err error
		if conn, err = db.ConnectDB(cfg.DatabaseURL); err != nil {
			if rdb != nil {
				_ = rdb.Close()
			}
			return nil, err
		}
		deps.Audit = db.NewRepo(conn)
		log.Info("database connected")
	}

	a := Build(cfg, log, deps)
	a.RDB, a.DB = rdb, conn
	return a, nil
}

// Build wires the services over deps; missing deps fall back to in-process ones.
func Build(cfg *config.Config, log *slog.Logger, deps Deps) *App {
	if log == nil {
		log = slog.Default()
	}
	gw := gateway.New(cfg.GatewayBaseURL, cfg.GatewayTimeout)
	if deps.HTTPClient != nil {
		gw = gateway.NewWithHTTPClient(cfg.GatewayBaseURL, deps.HTTPClient, cfg.GatewayTimeout)
	}
	store := deps.Store
	if store == nil {
		store = session.NewMemoryStore()
	}

	sessions := session.NewManager(gw, store, log)
	items := inventory.NewReference(gw, sessions)
	var rec loan.Recorder
	if deps.Audit != nil {
		rec = deps.Audit
	}
	loans := loan.New(gw, items, sessions, rec, log)

	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20
	useCORS(r, cfg.WebOrigin)

	return &App{
		Router:    r,
		Config:    *cfg,
		Log:       log,
		Gateway:   gw,
		Sessions:  sessions,
		Items:     items,
		Loans:     loans,
		Dashboard: report.NewDashboard(items, loans),
		Audit:     deps.Audit,
	}
}

func (a *App) Close() {
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

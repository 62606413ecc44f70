package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"dockhand/infrastructure/audit"
	"dockhand/infrastructure/cache"
	"dockhand/infrastructure/config"
	httpserver "dockhand/infrastructure/http"
	"dockhand/infrastructure/rbac"
	sessioncookie "dockhand/infrastructure/session"
	"dockhand/infrastructure/sqlite"
	"dockhand/infrastructure/ws"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	sessioncookie.SetTTL(cfg.SessionTTL)

	db, err := sqlite.OpenDB(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, "infrastructure/sqlite/migrations"); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	sessionCache := cache.NewUserSessionCache()
	userCache := cache.NewUserCache()
	rbacCache := cache.NewRbacRolesCache()
	rbacSvc := rbac.New(rbacCache)
	auditSvc := audit.NewService()
	hub := ws.NewHub()

	server := httpserver.NewServer(cfg.Addr, db, sessionCache, userCache, rbacSvc, rbacCache, auditSvc, hub, cfg.ScanDebounce)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("dockhand listening on %s", cfg.Addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

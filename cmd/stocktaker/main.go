package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"stocktaker/infrastructure/audit"
	"stocktaker/infrastructure/cache"
	httpserver "stocktaker/infrastructure/http"
	"stocktaker/infrastructure/secret"
	"stocktaker/infrastructure/sqlite"
)

func main() {
	_ = godotenv.Load()

	addr := getenv("APP_ADDR", ":8080")
	dbPath := getenv("SQLITE_PATH", "stocktaker.db")
	appSecret := os.Getenv("APP_SECRET")
	if appSecret == "" {
		log.Fatalf("APP_SECRET must be set")
	}

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, "infrastructure/sqlite/migrations"); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	keeper, err := secret.NewKeeper(appSecret)
	if err != nil {
		log.Fatalf("init secret keeper: %v", err)
	}

	sessionCache := cache.NewOperatorSessionCache()
	pipelines := cache.NewScanPipelineCache()
	auditSvc := audit.NewService()

	server := httpserver.NewServer(addr, db, sessionCache, pipelines, keeper, auditSvc)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("stocktaker listening on %s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

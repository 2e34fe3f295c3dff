package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"moatrack/auth"
	"moatrack/db"
	"moatrack/record"
	"moatrack/store"
)

func main() {
	ctx := context.Background()

	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	migrationsDir := os.Getenv("MOATRACK_MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := db.Migrate(ctx, pool, migrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	adminEmail := os.Getenv("MOATRACK_ADMIN_EMAIL")
	adminHash := os.Getenv("MOATRACK_ADMIN_HASH")
	jwtSecret := os.Getenv("MOATRACK_JWT_SECRET")
	if adminEmail == "" || adminHash == "" || jwtSecret == "" {
		log.Fatal("MOATRACK_ADMIN_EMAIL, MOATRACK_ADMIN_HASH, and MOATRACK_JWT_SECRET are required")
	}

	pg := store.NewPG(pool)
	server := &Server{
		recordService: record.NewService(pg),
		recordStore:   pg,
		authService:   auth.NewService(adminEmail, adminHash, jwtSecret),
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("listening on :%s", port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("serve: %v", err)
	}
}

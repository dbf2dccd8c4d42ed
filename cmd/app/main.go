package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	nats "github.com/nats-io/nats.go"

	"github.com/ehab-emad/backendCake/internal/repository"
	"github.com/ehab-emad/backendCake/internal/service"
	externalHttp "github.com/ehab-emad/backendCake/internal/transport/http"
	"github.com/ehab-emad/backendCake/pkg/cache"
	"github.com/ehab-emad/backendCake/pkg/logger"
)

// envOr возвращает значение переменной окружения или значение по умолчанию
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// openPostgres открывает соединение и накатывает миграции каталога
func openPostgres() (*sql.DB, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"),
		envOr("DB_NAME", "cakedb"))
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations/postgres", "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return db, nil
}

func main() {
	db, err := openPostgres()
	if err != nil {
		log.Fatalf("postgres setup failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	cacheClient := cache.NewRedisClient(&redis.Options{Addr: os.Getenv("REDIS_ADDR")})

	nc, err := nats.Connect(os.Getenv("NATS_URL"))
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}
	loggerClient := logger.NewClient(nc, envOr("NATS_SUBJECT", "catalog.events"))

	// по сервису на каждую сущность каталога; все делят кэш и журнал изменений
	shapeSrv := service.NewShapeService(repository.NewShapeRepository(db), cacheClient, loggerClient)
	flavorSrv := service.NewFlavorService(repository.NewFlavorRepository(db), cacheClient, loggerClient)
	maskSrv := service.NewMaskService(repository.NewMaskRepository(db), cacheClient, loggerClient)
	productSrv := service.NewFinalProductService(repository.NewFinalProductRepository(db), cacheClient, loggerClient)

	r := mux.NewRouter()
	r.Use(externalHttp.LoggingMiddleware())
	externalHttp.NewHandler(shapeSrv, flavorSrv, maskSrv, productSrv).RegisterRoutes(r)

	addr := ":" + envOr("HTTP_PORT", "8080")
	srvHTTP := &http.Server{Addr: addr, Handler: r}
	go func() {
		log.Printf("starting server at %s", addr)
		if err := srvHTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Printf("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srvHTTP.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}
	if err := cacheClient.Close(); err != nil {
		log.Printf("failed to close Redis client: %v", err)
	}
	// дренируем соединение, чтобы не потерять уже опубликованные события
	if err := nc.Drain(); err != nil {
		log.Printf("failed to drain NATS connection: %v", err)
	}
	nc.Close()
	log.Printf("server exited properly")
}

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/ClickHouse/clickhouse-go"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/clickhouse"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/nats-io/nats.go"

	"github.com/ehab-emad/backendCake/internal/consumer"
	"github.com/ehab-emad/backendCake/internal/repository"
)

// openClickhouse открывает соединение и накатывает миграции журнала событий
func openClickhouse(dsn string) (*sql.DB, error) {
	db, err := sql.Open("clickhouse", dsn)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}
	driver, err := clickhouse.WithInstance(db, &clickhouse.Config{})
	if err != nil {
		return nil, fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations/clickhouse", "clickhouse", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return db, nil
}

// healthHandler отдаёт сервисные эндпоинты консьюмера
func healthHandler() http.Handler {
	status := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"status": body})
		}
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", status("ok"))
	mux.HandleFunc("/readyz", status("ready"))
	return mux
}

func main() {
	subject := os.Getenv("NATS_SUBJECT")
	if subject == "" {
		subject = "catalog.events"
	}
	batchSize := 10
	if v := os.Getenv("BATCH_SIZE"); v != "" {
		bs, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid BATCH_SIZE: %v", err)
		}
		batchSize = bs
	}

	nc, err := nats.Connect(os.Getenv("NATS_URL"))
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}
	defer nc.Close()

	db, err := openClickhouse(os.Getenv("CLICKHOUSE_DSN"))
	if err != nil {
		log.Fatalf("clickhouse setup failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	cons := consumer.NewConsumer(repository.NewClickhouseRepo(db), batchSize)

	port := os.Getenv("CONSUMER_PORT")
	if port == "" {
		port = "8081"
	}
	healthSrv := &http.Server{Addr: ":" + port, Handler: healthHandler()}
	go func() {
		log.Printf("starting health server on :%s", port)
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("health server failed: %v", err)
		}
	}()

	// события каталога приходят поштучно, консьюмер копит их в пакеты
	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		if err := cons.HandleMessage(context.Background(), msg.Data); err != nil {
			log.Printf("failed to handle message: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("failed to subscribe to subject %s: %v", subject, err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Printf("shutting down consumer...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthSrv.Shutdown(ctx); err != nil {
		log.Printf("health server shutdown failed: %v", err)
	}
	// после отписки добиваем недобранный пакет, чтобы события не потерялись
	if err := sub.Unsubscribe(); err != nil {
		log.Printf("failed to unsubscribe: %v", err)
	}
	if err := cons.Flush(context.Background()); err != nil {
		log.Printf("failed to flush consumer events: %v", err)
	}
}

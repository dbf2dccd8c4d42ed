package repository

import (
	"context"
	"database/sql"
	"log"

	"github.com/ehab-emad/backendCake/internal/model"
)

// ClickhouseRepo реализует пакетную запись событий изменения каталога в ClickHouse
type ClickhouseRepo struct {
	db *sql.DB
}

// NewClickhouseRepo создаёт новый репозиторий для ClickHouse
func NewClickhouseRepo(db *sql.DB) *ClickhouseRepo {
	return &ClickhouseRepo{db: db}
}

// BatchInsertEvents записывает пакет событий каталога в таблицу catalog_events_log.
// Payload хранится строкой с JSON сущности на момент события
func (r *ClickhouseRepo) BatchInsertEvents(ctx context.Context, events []model.ChangeEvent) error {
	// начинаем 'транзакцию' для batch insert (clickhouse-go собирает блок при PrepareContext)
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	log.Printf("Начало пакетной вставки %d событий в ClickHouse", len(events))
	// PrepareContext для одной строки; драйвер соберёт несколько Exec в один блок
	query := `INSERT INTO catalog_events_log (EntityType, EntityId, Action, Payload, EventTime) VALUES (?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()
	for _, e := range events {
		_, err := stmt.ExecContext(ctx,
			e.EntityType, e.EntityID, e.Action,
			string(e.Payload), e.EventTime,
		)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("Успешно вставлено %d событий в ClickHouse", len(events))
	return nil
}

package consumer

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/ehab-emad/backendCake/internal/model"
)

// Repo описывает интерфейс репозитория ClickHouse для пакетной записи
// журнала изменений каталога
type Repo interface {
	BatchInsertEvents(ctx context.Context, events []model.ChangeEvent) error
}

// Consumer буферизует события изменений и отправляет их пакетно в ClickHouse
// batchSize определяет макс. количество событий до отправки
// mutex защищает доступ к буферу events
type Consumer struct {
	repo      Repo
	batchSize int
	events    []model.ChangeEvent
	mu        sync.Mutex
}

// NewConsumer создаёт Consumer с указанным репозиторием и размером пакета
func NewConsumer(repo Repo, batchSize int) *Consumer {
	return &Consumer{repo: repo, batchSize: batchSize, events: make([]model.ChangeEvent, 0, batchSize)}
}

// HandleMessage обрабатывает сообщение из NATS: парсит JSON события изменения,
// добавляет его в буфер и при достижении batchSize отправляет пакет в ClickHouse
func (c *Consumer) HandleMessage(ctx context.Context, data []byte) error {
	var e model.ChangeEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	log.Printf("Получено событие изменения: %s %s %s", e.EntityType, e.Action, e.EntityID)
	c.mu.Lock()
	c.events = append(c.events, e)
	// если достигли batchSize, сбрасываем буфер
	if len(c.events) >= c.batchSize {
		eventsCopy := make([]model.ChangeEvent, len(c.events))
		copy(eventsCopy, c.events)
		c.events = c.events[:0]
		c.mu.Unlock()
		return c.repo.BatchInsertEvents(ctx, eventsCopy)
	}
	c.mu.Unlock()
	return nil
}

// Flush отправляет все накопленные события, если они есть
func (c *Consumer) Flush(ctx context.Context) error {
	c.mu.Lock()
	if len(c.events) == 0 {
		c.mu.Unlock()
		return nil
	}
	eventsCopy := make([]model.ChangeEvent, len(c.events))
	copy(eventsCopy, c.events)
	c.events = c.events[:0]
	c.mu.Unlock()
	return c.repo.BatchInsertEvents(ctx, eventsCopy)
}

// Пакет service реализует бизнес-логику каталога: назначение идентификаторов
// и отметок времени, прикрепление изображений, сквозное чтение через кэш
// и публикацию событий изменения в журнал
package service

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ehab-emad/backendCake/internal/model"
)

// Cache определяет интерфейс кэширования сущностей по ключу (Redis)
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Invalidate(ctx context.Context, key string) error
}

// Logger определяет интерфейс публикации событий изменения каталога (NATS)
type Logger interface {
	PublishLog(data []byte) error
}

// cacheTTL задаёт время жизни записей в кэше, по умолчанию 1 минута или из REDIS_TTL
var cacheTTL = time.Minute

func init() {
	if v := os.Getenv("REDIS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cacheTTL = d
		}
	}
}

// publishEvent сериализует сущность и отправляет событие изменения в журнал.
// Журнал ведётся по принципу best effort: сбой публикации не откатывает операцию
func publishEvent(l Logger, entityType, entityID, action string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	event := model.ChangeEvent{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Payload:    data,
		EventTime:  time.Now().UTC(),
	}
	if b, err := json.Marshal(event); err == nil {
		_ = l.PublishLog(b)
	}
}

// slotImages строит изображения из фиксированных слотов front/side/left
// (пустой слот пропускается); идентификаторы назначаются здесь
func slotImages(parentID, front, side, left string) []model.Image {
	imgs := make([]model.Image, 0, 3)
	for _, url := range []string{front, side, left} {
		if url != "" {
			imgs = append(imgs, model.Image{ID: uuid.NewString(), ParentID: parentID, ImageURL: url})
		}
	}
	return imgs
}

package model

import (
	"encoding/json"
	"time"
)

// Image представляет изображение, принадлежащее одной родительской сущности
// (форме, начинке или маске). ParentID указывает на владельца, конкретная
// таблица определяется типом родителя (shape_images / flavor_images / mask_images)
type Image struct {
	ID        string    `db:"id" json:"id"`
	ParentID  string    `db:"parent_id" json:"parentId"`
	ImageURL  string    `db:"image_url" json:"imageUrl"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Shape представляет форму торта (таблица shapes)
type Shape struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	NumberOfPeople int       `db:"number_of_people" json:"numberOfPeople"`
	Weight         float64   `db:"weight" json:"weight"`
	Width          float64   `db:"width" json:"width"`
	Height         float64   `db:"height" json:"height"`
	Price          float64   `db:"price" json:"price"`
	Images         []Image   `db:"-" json:"images"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// Flavor представляет начинку (таблица flavors), привязана к форме
type Flavor struct {
	ID        string    `db:"id" json:"id"`
	ShapeID   string    `db:"shape_id" json:"shapeId"`
	Name      string    `db:"name" json:"name"`
	Price     float64   `db:"price" json:"price"`
	Images    []Image   `db:"-" json:"images"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Mask представляет оформление торта (таблица masks), привязана к форме и начинке
type Mask struct {
	ID        string    `db:"id" json:"id"`
	ShapeID   string    `db:"shape_id" json:"shapeId"`
	FlavorID  string    `db:"flavor_id" json:"flavorId"`
	Name      string    `db:"name" json:"name"`
	Price     float64   `db:"price" json:"price"`
	Images    []Image   `db:"-" json:"images"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// FinalProduct представляет готовый продукт каталога (таблица final_products),
// собранный поверх конкретного оформления
type FinalProduct struct {
	ID        string    `db:"id" json:"id"`
	MaskID    string    `db:"mask_id" json:"maskId"`
	Name      string    `db:"name" json:"name"`
	Price     float64   `db:"price" json:"price"`
	Category  string    `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Действия, записываемые в журнал изменений каталога
const (
	ActionCreate      = "create"
	ActionUpdate      = "update"
	ActionDelete      = "delete"
	ActionImageAdd    = "image_add"
	ActionImageRemove = "image_remove"
)

// ChangeEvent представляет одно событие изменения каталога, публикуемое в NATS
// и складываемое консьюмером в ClickHouse (append-only журнал по id сущности).
// Payload хранит JSON затронутой сущности на момент события
type ChangeEvent struct {
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     string          `json:"action"`
	Payload    json.RawMessage `json:"payload"`
	EventTime  time.Time       `json:"eventTime"`
}

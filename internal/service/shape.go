package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ehab-emad/backendCake/internal/dto"
	"github.com/ehab-emad/backendCake/internal/model"
)

// ShapeRepo определяет интерфейс репозитория форм
type ShapeRepo interface {
	Create(ctx context.Context, s *model.Shape) error
	GetByID(ctx context.Context, id string) (*model.Shape, error)
	List(ctx context.Context, f *dto.ShapeFilter) ([]model.Shape, int, error)
	Update(ctx context.Context, id string, d *dto.UpdateShape, newImages []model.Image) (*model.Shape, error)
	Delete(ctx context.Context, id string) error
	AddImage(ctx context.Context, shapeID string, img *model.Image) error
	RemoveImage(ctx context.Context, shapeID, imageID string) ([]model.Image, error)
}

// ShapeService реализует жизненный цикл форм
type ShapeService struct {
	repo   ShapeRepo
	cache  Cache
	logger Logger
}

// NewShapeService создаёт новый сервис форм
func NewShapeService(r ShapeRepo, c Cache, l Logger) *ShapeService {
	return &ShapeService{repo: r, cache: c, logger: l}
}

// Create назначает идентификатор и строит форму с изображениями из слотов,
// сохраняет её атомарно и публикует событие создания
func (s *ShapeService) Create(ctx context.Context, d *dto.CreateShape) (*model.Shape, error) {
	shapeID := uuid.NewString()
	shape := &model.Shape{
		ID:             shapeID,
		Name:           d.Name,
		NumberOfPeople: int(d.NumberOfPeople),
		Weight:         float64(d.Weight),
		Width:          float64(d.Width),
		Height:         float64(d.Height),
		Price:          float64(d.Price),
		Images:         slotImages(shapeID, d.FrontImage, d.SideImage, d.LeftImage),
	}
	if err := s.repo.Create(ctx, shape); err != nil {
		return nil, err
	}
	publishEvent(s.logger, "shape", shapeID, model.ActionCreate, shape)
	return shape, nil
}

// Get возвращает форму по id, сначала пробуя кэш
func (s *ShapeService) Get(ctx context.Context, id string) (*model.Shape, error) {
	key := "shape:" + id
	if bytes, err := s.cache.Get(ctx, key); err == nil {
		var shape model.Shape
		if err := json.Unmarshal(bytes, &shape); err == nil {
			return &shape, nil
		}
	}
	shape, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(shape); err == nil {
		_ = s.cache.Set(ctx, key, data, cacheTTL)
	}
	return shape, nil
}

// List возвращает страницу форм и общее число совпадений.
// Списки не кэшируются: набор фильтров делает ключи нестабильными
func (s *ShapeService) List(ctx context.Context, f *dto.ShapeFilter) ([]model.Shape, int, error) {
	return s.repo.List(ctx, f)
}

// Update применяет частичное обновление, добавляет изображения из слотов,
// удаляет перечисленные, инвалидирует кэш и публикует событие
func (s *ShapeService) Update(ctx context.Context, id string, d *dto.UpdateShape) (*model.Shape, error) {
	shape, err := s.repo.Update(ctx, id, d, slotImages(id, d.FrontImage, d.SideImage, d.LeftImage))
	if err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, "shape:"+id)
	publishEvent(s.logger, "shape", id, model.ActionUpdate, shape)
	return shape, nil
}

// Delete удаляет форму (изображения удаляются каскадом в хранилище):
// сначала загружает объект, чтобы событие удаления содержало его целиком
func (s *ShapeService) Delete(ctx context.Context, id string) error {
	shape, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx, "shape:"+id)
	publishEvent(s.logger, "shape", id, model.ActionDelete, shape)
	return nil
}

// AddImage добавляет одно изображение форме и возвращает форму целиком
func (s *ShapeService) AddImage(ctx context.Context, shapeID, imageURL string) (*model.Shape, error) {
	img := &model.Image{ID: uuid.NewString(), ParentID: shapeID, ImageURL: imageURL}
	if err := s.repo.AddImage(ctx, shapeID, img); err != nil {
		return nil, err
	}
	shape, err := s.repo.GetByID(ctx, shapeID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, "shape:"+shapeID)
	publishEvent(s.logger, "shape", shapeID, model.ActionImageAdd, img)
	return shape, nil
}

// RemoveImage удаляет изображение формы (отсутствующий id — no-op)
// и возвращает актуальный список изображений
func (s *ShapeService) RemoveImage(ctx context.Context, shapeID, imageID string) ([]model.Image, error) {
	if _, err := s.repo.GetByID(ctx, shapeID); err != nil {
		return nil, err
	}
	images, err := s.repo.RemoveImage(ctx, shapeID, imageID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, "shape:"+shapeID)
	publishEvent(s.logger, "shape", shapeID, model.ActionImageRemove, model.Image{ID: imageID, ParentID: shapeID})
	return images, nil
}

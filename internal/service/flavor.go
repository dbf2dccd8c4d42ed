package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ehab-emad/backendCake/internal/dto"
	"github.com/ehab-emad/backendCake/internal/model"
)

// FlavorRepo определяет интерфейс репозитория начинок
type FlavorRepo interface {
	Create(ctx context.Context, f *model.Flavor) error
	GetByID(ctx context.Context, id string) (*model.Flavor, error)
	List(ctx context.Context, f *dto.FlavorFilter) ([]model.Flavor, int, error)
	Update(ctx context.Context, id string, d *dto.UpdateFlavor, newImages []model.Image) (*model.Flavor, error)
	Delete(ctx context.Context, id string) error
	AddImage(ctx context.Context, flavorID string, img *model.Image) error
	RemoveImage(ctx context.Context, flavorID, imageID string) ([]model.Image, error)
}

// FlavorService реализует жизненный цикл начинок
type FlavorService struct {
	repo   FlavorRepo
	cache  Cache
	logger Logger
}

// NewFlavorService создаёт новый сервис начинок
func NewFlavorService(r FlavorRepo, c Cache, l Logger) *FlavorService {
	return &FlavorService{repo: r, cache: c, logger: l}
}

// Create назначает идентификатор и сохраняет начинку с изображениями из слотов.
// Существование формы не проверяется здесь — это обязанность внешнего ключа
func (s *FlavorService) Create(ctx context.Context, d *dto.CreateFlavor) (*model.Flavor, error) {
	flavorID := uuid.NewString()
	flavor := &model.Flavor{
		ID:      flavorID,
		ShapeID: d.ShapeID,
		Name:    d.Name,
		Price:   float64(d.Price),
		Images:  slotImages(flavorID, d.FrontImage, d.SideImage, d.LeftImage),
	}
	if err := s.repo.Create(ctx, flavor); err != nil {
		return nil, err
	}
	publishEvent(s.logger, "flavor", flavorID, model.ActionCreate, flavor)
	return flavor, nil
}

// Get возвращает начинку по id, сначала пробуя кэш
func (s *FlavorService) Get(ctx context.Context, id string) (*model.Flavor, error) {
	key := "flavor:" + id
	if bytes, err := s.cache.Get(ctx, key); err == nil {
		var flavor model.Flavor
		if err := json.Unmarshal(bytes, &flavor); err == nil {
			return &flavor, nil
		}
	}
	flavor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(flavor); err == nil {
		_ = s.cache.Set(ctx, key, data, cacheTTL)
	}
	return flavor, nil
}

// List возвращает страницу начинок и общее число совпадений
func (s *FlavorService) List(ctx context.Context, f *dto.FlavorFilter) ([]model.Flavor, int, error) {
	return s.repo.List(ctx, f)
}

// Update применяет частичное обновление начинки
func (s *FlavorService) Update(ctx context.Context, id string, d *dto.UpdateFlavor) (*model.Flavor, error) {
	flavor, err := s.repo.Update(ctx, id, d, slotImages(id, d.FrontImage, d.SideImage, d.LeftImage))
	if err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, "flavor:"+id)
	publishEvent(s.logger, "flavor", id, model.ActionUpdate, flavor)
	return flavor, nil
}

// Delete удаляет начинку и публикует событие с полным объектом
func (s *FlavorService) Delete(ctx context.Context, id string) error {
	flavor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx, "flavor:"+id)
	publishEvent(s.logger, "flavor", id, model.ActionDelete, flavor)
	return nil
}

// AddImage добавляет одно изображение начинке и возвращает её целиком
func (s *FlavorService) AddImage(ctx context.Context, flavorID, imageURL string) (*model.Flavor, error) {
	img := &model.Image{ID: uuid.NewString(), ParentID: flavorID, ImageURL: imageURL}
	if err := s.repo.AddImage(ctx, flavorID, img); err != nil {
		return nil, err
	}
	flavor, err := s.repo.GetByID(ctx, flavorID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, "flavor:"+flavorID)
	publishEvent(s.logger, "flavor", flavorID, model.ActionImageAdd, img)
	return flavor, nil
}

// RemoveImage удаляет изображение начинки и возвращает актуальный список
func (s *FlavorService) RemoveImage(ctx context.Context, flavorID, imageID string) ([]model.Image, error) {
	if _, err := s.repo.GetByID(ctx, flavorID); err != nil {
		return nil, err
	}
	images, err := s.repo.RemoveImage(ctx, flavorID, imageID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, "flavor:"+flavorID)
	publishEvent(s.logger, "flavor", flavorID, model.ActionImageRemove, model.Image{ID: imageID, ParentID: flavorID})
	return images, nil
}

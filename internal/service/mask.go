package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ehab-emad/backendCake/internal/dto"
	"github.com/ehab-emad/backendCake/internal/model"
)

// MaskRepo определяет интерфейс репозитория оформлений
type MaskRepo interface {
	Create(ctx context.Context, m *model.Mask) error
	GetByID(ctx context.Context, id string) (*model.Mask, error)
	List(ctx context.Context, f *dto.MaskFilter) ([]model.Mask, int, error)
	Update(ctx context.Context, id string, d *dto.UpdateMask, newImages []model.Image) (*model.Mask, error)
	Delete(ctx context.Context, id string) error
	AddImage(ctx context.Context, maskID string, img *model.Image) error
	RemoveImage(ctx context.Context, maskID, imageID string) ([]model.Image, error)
}

// MaskService реализует жизненный цикл оформлений
type MaskService struct {
	repo   MaskRepo
	cache  Cache
	logger Logger
}

// NewMaskService создаёт новый сервис оформлений
func NewMaskService(r MaskRepo, c Cache, l Logger) *MaskService {
	return &MaskService{repo: r, cache: c, logger: l}
}

// Create назначает идентификатор и сохраняет оформление с изображениями из слотов
func (s *MaskService) Create(ctx context.Context, d *dto.CreateMask) (*model.Mask, error) {
	maskID := uuid.NewString()
	mask := &model.Mask{
		ID:       maskID,
		ShapeID:  d.ShapeID,
		FlavorID: d.FlavorID,
		Name:     d.Name,
		Price:    float64(d.Price),
		Images:   slotImages(maskID, d.FrontImage, d.SideImage, d.LeftImage),
	}
	if err := s.repo.Create(ctx, mask); err != nil {
		return nil, err
	}
	publishEvent(s.logger, "mask", maskID, model.ActionCreate, mask)
	return mask, nil
}

// Get возвращает оформление по id, сначала пробуя кэш
func (s *MaskService) Get(ctx context.Context, id string) (*model.Mask, error) {
	key := "mask:" + id
	if bytes, err := s.cache.Get(ctx, key); err == nil {
		var mask model.Mask
		if err := json.Unmarshal(bytes, &mask); err == nil {
			return &mask, nil
		}
	}
	mask, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(mask); err == nil {
		_ = s.cache.Set(ctx, key, data, cacheTTL)
	}
	return mask, nil
}

// List возвращает страницу оформлений и общее число совпадений
func (s *MaskService) List(ctx context.Context, f *dto.MaskFilter) ([]model.Mask, int, error) {
	return s.repo.List(ctx, f)
}

// Update применяет частичное обновление оформления
func (s *MaskService) Update(ctx context.Context, id string, d *dto.UpdateMask) (*model.Mask, error) {
	mask, err := s.repo.Update(ctx, id, d, slotImages(id, d.FrontImage, d.SideImage, d.LeftImage))
	if err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, "mask:"+id)
	publishEvent(s.logger, "mask", id, model.ActionUpdate, mask)
	return mask, nil
}

// Delete удаляет оформление и публикует событие с полным объектом
func (s *MaskService) Delete(ctx context.Context, id string) error {
	mask, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx, "mask:"+id)
	publishEvent(s.logger, "mask", id, model.ActionDelete, mask)
	return nil
}

// AddImage добавляет одно изображение оформлению и возвращает его целиком
func (s *MaskService) AddImage(ctx context.Context, maskID, imageURL string) (*model.Mask, error) {
	img := &model.Image{ID: uuid.NewString(), ParentID: maskID, ImageURL: imageURL}
	if err := s.repo.AddImage(ctx, maskID, img); err != nil {
		return nil, err
	}
	mask, err := s.repo.GetByID(ctx, maskID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, "mask:"+maskID)
	publishEvent(s.logger, "mask", maskID, model.ActionImageAdd, img)
	return mask, nil
}

// RemoveImage удаляет изображение оформления и возвращает актуальный список
func (s *MaskService) RemoveImage(ctx context.Context, maskID, imageID string) ([]model.Image, error) {
	if _, err := s.repo.GetByID(ctx, maskID); err != nil {
		return nil, err
	}
	images, err := s.repo.RemoveImage(ctx, maskID, imageID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, "mask:"+maskID)
	publishEvent(s.logger, "mask", maskID, model.ActionImageRemove, model.Image{ID: imageID, ParentID: maskID})
	return images, nil
}

package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ehab-emad/backendCake/internal/dto"
	"github.com/ehab-emad/backendCake/internal/model"
)

// FinalProductRepo определяет интерфейс репозитория готовых продуктов
type FinalProductRepo interface {
	Create(ctx context.Context, p *model.FinalProduct) error
	GetByID(ctx context.Context, id string) (*model.FinalProduct, error)
	List(ctx context.Context, f *dto.FinalProductFilter) ([]model.FinalProduct, int, error)
	Update(ctx context.Context, id string, d *dto.UpdateFinalProduct) (*model.FinalProduct, error)
	Delete(ctx context.Context, id string) error
}

// FinalProductService реализует жизненный цикл готовых продуктов
type FinalProductService struct {
	repo   FinalProductRepo
	cache  Cache
	logger Logger
}

// NewFinalProductService создаёт новый сервис готовых продуктов
func NewFinalProductService(r FinalProductRepo, c Cache, l Logger) *FinalProductService {
	return &FinalProductService{repo: r, cache: c, logger: l}
}

// Create назначает идентификатор и сохраняет готовый продукт
func (s *FinalProductService) Create(ctx context.Context, d *dto.CreateFinalProduct) (*model.FinalProduct, error) {
	productID := uuid.NewString()
	product := &model.FinalProduct{
		ID:       productID,
		MaskID:   d.MaskID,
		Name:     d.Name,
		Price:    float64(d.Price),
		Category: d.Category,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	publishEvent(s.logger, "final_product", productID, model.ActionCreate, product)
	return product, nil
}

// Get возвращает готовый продукт по id, сначала пробуя кэш
func (s *FinalProductService) Get(ctx context.Context, id string) (*model.FinalProduct, error) {
	key := "final_product:" + id
	if bytes, err := s.cache.Get(ctx, key); err == nil {
		var product model.FinalProduct
		if err := json.Unmarshal(bytes, &product); err == nil {
			return &product, nil
		}
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(product); err == nil {
		_ = s.cache.Set(ctx, key, data, cacheTTL)
	}
	return product, nil
}

// List возвращает страницу готовых продуктов и общее число совпадений
func (s *FinalProductService) List(ctx context.Context, f *dto.FinalProductFilter) ([]model.FinalProduct, int, error) {
	return s.repo.List(ctx, f)
}

// Update применяет частичное обновление готового продукта
func (s *FinalProductService) Update(ctx context.Context, id string, d *dto.UpdateFinalProduct) (*model.FinalProduct, error) {
	product, err := s.repo.Update(ctx, id, d)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, "final_product:"+id)
	publishEvent(s.logger, "final_product", id, model.ActionUpdate, product)
	return product, nil
}

// Delete удаляет готовый продукт и публикует событие с полным объектом
func (s *FinalProductService) Delete(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx, "final_product:"+id)
	publishEvent(s.logger, "final_product", id, model.ActionDelete, product)
	return nil
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ehab-emad/backendCake/internal/dto"
	"github.com/ehab-emad/backendCake/internal/model"
	"github.com/ehab-emad/backendCake/internal/repository"
)

// ShapeService задаёт интерфейс бизнес-логики по формам для HTTP-слоя
type ShapeService interface {
	Create(ctx context.Context, d *dto.CreateShape) (*model.Shape, error)
	Get(ctx context.Context, id string) (*model.Shape, error)
	List(ctx context.Context, f *dto.ShapeFilter) ([]model.Shape, int, error)
	Update(ctx context.Context, id string, d *dto.UpdateShape) (*model.Shape, error)
	Delete(ctx context.Context, id string) error
	AddImage(ctx context.Context, shapeID, imageURL string) (*model.Shape, error)
	RemoveImage(ctx context.Context, shapeID, imageID string) ([]model.Image, error)
}

// FlavorService задаёт интерфейс бизнес-логики по начинкам для HTTP-слоя
type FlavorService interface {
	Create(ctx context.Context, d *dto.CreateFlavor) (*model.Flavor, error)
	Get(ctx context.Context, id string) (*model.Flavor, error)
	List(ctx context.Context, f *dto.FlavorFilter) ([]model.Flavor, int, error)
	Update(ctx context.Context, id string, d *dto.UpdateFlavor) (*model.Flavor, error)
	Delete(ctx context.Context, id string) error
	AddImage(ctx context.Context, flavorID, imageURL string) (*model.Flavor, error)
	RemoveImage(ctx context.Context, flavorID, imageID string) ([]model.Image, error)
}

// MaskService задаёт интерфейс бизнес-логики по оформлениям для HTTP-слоя
type MaskService interface {
	Create(ctx context.Context, d *dto.CreateMask) (*model.Mask, error)
	Get(ctx context.Context, id string) (*model.Mask, error)
	List(ctx context.Context, f *dto.MaskFilter) ([]model.Mask, int, error)
	Update(ctx context.Context, id string, d *dto.UpdateMask) (*model.Mask, error)
	Delete(ctx context.Context, id string) error
	AddImage(ctx context.Context, maskID, imageURL string) (*model.Mask, error)
	RemoveImage(ctx context.Context, maskID, imageID string) ([]model.Image, error)
}

// FinalProductService задаёт интерфейс бизнес-логики по готовым продуктам для HTTP-слоя
type FinalProductService interface {
	Create(ctx context.Context, d *dto.CreateFinalProduct) (*model.FinalProduct, error)
	Get(ctx context.Context, id string) (*model.FinalProduct, error)
	List(ctx context.Context, f *dto.FinalProductFilter) ([]model.FinalProduct, int, error)
	Update(ctx context.Context, id string, d *dto.UpdateFinalProduct) (*model.FinalProduct, error)
	Delete(ctx context.Context, id string) error
}

// Handler содержит зависимости и реализует HTTP-эндпоинты каталога
type Handler struct {
	shapes   ShapeService
	flavors  FlavorService
	masks    MaskService
	products FinalProductService
}

// NewHandler создаёт новый HTTP Handler
func NewHandler(shapes ShapeService, flavors FlavorService, masks MaskService, products FinalProductService) *Handler {
	return &Handler{shapes: shapes, flavors: flavors, masks: masks, products: products}
}

// RegisterRoutes регистрирует маршруты API
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Эндпоинты для проверки здоровья и готовности сервиса
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")
	r.HandleFunc("/readyz", h.Readyz).Methods("GET")

	r.HandleFunc("/shapes", h.ListShapes).Methods("GET")
	r.HandleFunc("/shapes", h.CreateShape).Methods("POST")
	r.HandleFunc("/shapes/{id}", h.GetShape).Methods("GET")
	r.HandleFunc("/shapes/{id}", h.UpdateShape).Methods("PUT")
	r.HandleFunc("/shapes/{id}", h.DeleteShape).Methods("DELETE")
	r.HandleFunc("/shapes/{id}/images", h.AddShapeImage).Methods("POST")
	r.HandleFunc("/shapes/{id}/images/{imageId}", h.RemoveShapeImage).Methods("DELETE")

	r.HandleFunc("/flavors", h.ListFlavors).Methods("GET")
	r.HandleFunc("/flavors", h.CreateFlavor).Methods("POST")
	r.HandleFunc("/flavors/{id}", h.GetFlavor).Methods("GET")
	r.HandleFunc("/flavors/{id}", h.UpdateFlavor).Methods("PUT")
	r.HandleFunc("/flavors/{id}", h.DeleteFlavor).Methods("DELETE")
	r.HandleFunc("/flavors/{id}/images", h.AddFlavorImage).Methods("POST")
	r.HandleFunc("/flavors/{id}/images/{imageId}", h.RemoveFlavorImage).Methods("DELETE")

	r.HandleFunc("/masks", h.ListMasks).Methods("GET")
	r.HandleFunc("/masks", h.CreateMask).Methods("POST")
	r.HandleFunc("/masks/{id}", h.GetMask).Methods("GET")
	r.HandleFunc("/masks/{id}", h.UpdateMask).Methods("PUT")
	r.HandleFunc("/masks/{id}", h.DeleteMask).Methods("DELETE")
	r.HandleFunc("/masks/{id}/images", h.AddMaskImage).Methods("POST")
	r.HandleFunc("/masks/{id}/images/{imageId}", h.RemoveMaskImage).Methods("DELETE")

	r.HandleFunc("/final-products", h.ListFinalProducts).Methods("GET")
	r.HandleFunc("/final-products", h.CreateFinalProduct).Methods("POST")
	r.HandleFunc("/final-products/{id}", h.GetFinalProduct).Methods("GET")
	r.HandleFunc("/final-products/{id}", h.UpdateFinalProduct).Methods("PUT")
	r.HandleFunc("/final-products/{id}", h.DeleteFinalProduct).Methods("DELETE")
}

// ErrorResponse модель ошибки API
type ErrorResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

// ListMeta метаданные страницы списка
type ListMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListResponse конверт ответа списочных эндпоинтов
type ListResponse struct {
	Meta ListMeta    `json:"meta"`
	Data interface{} `json:"data"`
}

func writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeList(w http.ResponseWriter, total, limit, offset int, data interface{}) {
	writeJSON(w, http.StatusOK, ListResponse{
		Meta: ListMeta{Total: total, Limit: limit, Offset: offset},
		Data: data,
	})
}

// handleError переводит ошибки нижних слоёв в HTTP-статусы
func handleError(w http.ResponseWriter, err error) {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "validation failed", verr.Fields})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, ErrorResponse{3, "errors.common.notFound", map[string]interface{}{}})
	case errors.Is(err, repository.ErrConstraint):
		writeError(w, http.StatusConflict, ErrorResponse{4, "related record constraint violated", map[string]interface{}{}})
	default:
		writeError(w, http.StatusInternalServerError, ErrorResponse{1, err.Error(), map[string]interface{}{}})
	}
}

// decodeBody разбирает JSON-тело запроса в dst
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid request body", map[string]interface{}{}})
		return false
	}
	return true
}

// pathID извлекает идентификатор из пути и проверяет формат UUID
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := mux.Vars(r)[name]
	if !dto.IsUUID(id) {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "invalid "+name, map[string]interface{}{}})
		return "", false
	}
	return id, true
}

// imageBody тело запроса на добавление изображения
type imageBody struct {
	ImageURL string `json:"imageUrl"`
}

func decodeImageBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req imageBody
	if !decodeBody(w, r, &req) {
		return "", false
	}
	if req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, ErrorResponse{1, "validation failed", map[string]string{"imageUrl": "Image URL is required"}})
		return "", false
	}
	return req.ImageURL, true
}

// Healthz возвращает статус работы сервиса
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Readyz возвращает готовность сервиса
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

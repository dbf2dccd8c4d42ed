package http

import (
	"net/http"

	"github.com/ehab-emad/backendCake/internal/dto"
)

// CreateShape обрабатывает POST /shapes
// 1. Декодирует тело запроса в CreateShape (числа принимаются и строками)
// 2. Валидирует все поля разом, возвращая карту нарушений
// 3. Вызывает сервис Create
// 4. При успехе возвращает 201 и JSON созданной формы
func (h *Handler) CreateShape(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateShape
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := req.Validate(); verr != nil {
		handleError(w, verr)
		return
	}
	shape, err := h.shapes.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, shape)
}

// GetShape обрабатывает GET /shapes/{id}
func (h *Handler) GetShape(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	shape, err := h.shapes.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shape)
}

// ListShapes обрабатывает GET /shapes
// Фильтры: name (подстрока), numberOfPeople, minPrice, maxPrice;
// пагинация limit/offset с значениями по умолчанию
func (h *Handler) ListShapes(w http.ResponseWriter, r *http.Request) {
	f, verr := dto.ParseShapeFilter(r.URL.Query())
	if verr != nil {
		handleError(w, verr)
		return
	}
	shapes, total, err := h.shapes.List(r.Context(), f)
	if err != nil {
		handleError(w, err)
		return
	}
	writeList(w, total, f.Limit, f.Offset, shapes)
}

// UpdateShape обрабатывает PUT /shapes/{id}
// Отсутствующие в теле поля не меняются; removeImageIds удаляет изображения,
// а заполненные слоты frontImage/sideImage/leftImage добавляют новые
func (h *Handler) UpdateShape(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.UpdateShape
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := req.Validate(); verr != nil {
		handleError(w, verr)
		return
	}
	shape, err := h.shapes.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shape)
}

// DeleteShape обрабатывает DELETE /shapes/{id}
// Зависимые записи удаляются каскадом на уровне базы
func (h *Handler) DeleteShape(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.shapes.Delete(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddShapeImage обрабатывает POST /shapes/{id}/images
func (h *Handler) AddShapeImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	imageURL, ok := decodeImageBody(w, r)
	if !ok {
		return
	}
	shape, err := h.shapes.AddImage(r.Context(), id, imageURL)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, shape)
}

// RemoveShapeImage обрабатывает DELETE /shapes/{id}/images/{imageId}
// Возвращает актуальный список изображений формы
func (h *Handler) RemoveShapeImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(w, r, "imageId")
	if !ok {
		return
	}
	images, err := h.shapes.RemoveImage(r.Context(), id, imageID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"images": images})
}

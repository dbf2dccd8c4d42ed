package http

import (
	"net/http"

	"github.com/ehab-emad/backendCake/internal/dto"
)

// CreateMask обрабатывает POST /masks
// Оформление ссылается сразу на форму и начинку; оба идентификатора
// проверяются на формат, существование проверяет база внешними ключами
func (h *Handler) CreateMask(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMask
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := req.Validate(); verr != nil {
		handleError(w, verr)
		return
	}
	mask, err := h.masks.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mask)
}

// GetMask обрабатывает GET /masks/{id}
func (h *Handler) GetMask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	mask, err := h.masks.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mask)
}

// ListMasks обрабатывает GET /masks
// Фильтры: name (подстрока), shapeId, flavorId, minPrice, maxPrice
func (h *Handler) ListMasks(w http.ResponseWriter, r *http.Request) {
	f, verr := dto.ParseMaskFilter(r.URL.Query())
	if verr != nil {
		handleError(w, verr)
		return
	}
	masks, total, err := h.masks.List(r.Context(), f)
	if err != nil {
		handleError(w, err)
		return
	}
	writeList(w, total, f.Limit, f.Offset, masks)
}

// UpdateMask обрабатывает PUT /masks/{id}
func (h *Handler) UpdateMask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.UpdateMask
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := req.Validate(); verr != nil {
		handleError(w, verr)
		return
	}
	mask, err := h.masks.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mask)
}

// DeleteMask обрабатывает DELETE /masks/{id}
func (h *Handler) DeleteMask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.masks.Delete(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddMaskImage обрабатывает POST /masks/{id}/images
func (h *Handler) AddMaskImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	imageURL, ok := decodeImageBody(w, r)
	if !ok {
		return
	}
	mask, err := h.masks.AddImage(r.Context(), id, imageURL)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mask)
}

// RemoveMaskImage обрабатывает DELETE /masks/{id}/images/{imageId}
func (h *Handler) RemoveMaskImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(w, r, "imageId")
	if !ok {
		return
	}
	images, err := h.masks.RemoveImage(r.Context(), id, imageID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"images": images})
}

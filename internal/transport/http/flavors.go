package http

import (
	"net/http"

	"github.com/ehab-emad/backendCake/internal/dto"
)

// CreateFlavor обрабатывает POST /flavors
// Проверяет поля (включая формат shapeId) и возвращает 201 с созданной начинкой;
// несуществующая форма даёт 409 по нарушению внешнего ключа
func (h *Handler) CreateFlavor(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFlavor
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := req.Validate(); verr != nil {
		handleError(w, verr)
		return
	}
	flavor, err := h.flavors.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, flavor)
}

// GetFlavor обрабатывает GET /flavors/{id}
func (h *Handler) GetFlavor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	flavor, err := h.flavors.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, flavor)
}

// ListFlavors обрабатывает GET /flavors
// Фильтры: name (подстрока), shapeId, minPrice, maxPrice
func (h *Handler) ListFlavors(w http.ResponseWriter, r *http.Request) {
	f, verr := dto.ParseFlavorFilter(r.URL.Query())
	if verr != nil {
		handleError(w, verr)
		return
	}
	flavors, total, err := h.flavors.List(r.Context(), f)
	if err != nil {
		handleError(w, err)
		return
	}
	writeList(w, total, f.Limit, f.Offset, flavors)
}

// UpdateFlavor обрабатывает PUT /flavors/{id}
func (h *Handler) UpdateFlavor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.UpdateFlavor
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := req.Validate(); verr != nil {
		handleError(w, verr)
		return
	}
	flavor, err := h.flavors.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, flavor)
}

// DeleteFlavor обрабатывает DELETE /flavors/{id}
func (h *Handler) DeleteFlavor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.flavors.Delete(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddFlavorImage обрабатывает POST /flavors/{id}/images
func (h *Handler) AddFlavorImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	imageURL, ok := decodeImageBody(w, r)
	if !ok {
		return
	}
	flavor, err := h.flavors.AddImage(r.Context(), id, imageURL)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, flavor)
}

// RemoveFlavorImage обрабатывает DELETE /flavors/{id}/images/{imageId}
func (h *Handler) RemoveFlavorImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(w, r, "imageId")
	if !ok {
		return
	}
	images, err := h.flavors.RemoveImage(r.Context(), id, imageID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"images": images})
}

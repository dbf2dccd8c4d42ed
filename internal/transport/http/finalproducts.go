package http

import (
	"net/http"

	"github.com/ehab-emad/backendCake/internal/dto"
)

// CreateFinalProduct обрабатывает POST /final-products
func (h *Handler) CreateFinalProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFinalProduct
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := req.Validate(); verr != nil {
		handleError(w, verr)
		return
	}
	product, err := h.products.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// GetFinalProduct обрабатывает GET /final-products/{id}
func (h *Handler) GetFinalProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// ListFinalProducts обрабатывает GET /final-products
// Фильтры: name (подстрока), maskId, category (подстрока), minPrice, maxPrice
func (h *Handler) ListFinalProducts(w http.ResponseWriter, r *http.Request) {
	f, verr := dto.ParseFinalProductFilter(r.URL.Query())
	if verr != nil {
		handleError(w, verr)
		return
	}
	products, total, err := h.products.List(r.Context(), f)
	if err != nil {
		handleError(w, err)
		return
	}
	writeList(w, total, f.Limit, f.Offset, products)
}

// UpdateFinalProduct обрабатывает PUT /final-products/{id}
func (h *Handler) UpdateFinalProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.UpdateFinalProduct
	if !decodeBody(w, r, &req) {
		return
	}
	if verr := req.Validate(); verr != nil {
		handleError(w, verr)
		return
	}
	product, err := h.products.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteFinalProduct обрабатывает DELETE /final-products/{id}
func (h *Handler) DeleteFinalProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Tony-Omondi/wamugunda-farm/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: svc}
}

// GET /api/v1/categories
func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// GET /api/v1/produce
func (h *CatalogHandler) GetProduceList(w http.ResponseWriter, r *http.Request) {
	produce, err := h.catalog.ProduceList(r.Context())
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, produce)
}

// GET /api/v1/produce/{id}
func (h *CatalogHandler) GetProduceDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "produce id must be a number")
		return
	}

	produce, err := h.catalog.ProduceDetail(r.Context(), id)
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, produce)
}

// GET /api/v1/testimonials
func (h *CatalogHandler) GetTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.catalog.Testimonials(r.Context())
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, testimonials)
}

// GET /api/v1/media
func (h *CatalogHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	media, err := h.catalog.Media(r.Context())
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, media)
}

func handleCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrUpstream) {
		respondError(w, http.StatusBadGateway, "upstream_unavailable",
			"Failed to reach the produce catalog. Please check your network or try again.")
		return
	}
	respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
}

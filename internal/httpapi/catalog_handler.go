package httpapi

import (
	"errors"
	"net/http"

	"github.com/Frannkode/QuickOrder/internal/catalog"
	"github.com/Frannkode/QuickOrder/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalog *catalog.Service
	logger  *zap.Logger
}

func NewCatalogHandler(svc *catalog.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: svc, logger: logger}
}

type catalogResponse struct {
	Products []domain.Product `json:"products"`
	Degraded bool             `json:"degraded"`
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("catalog list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not load the catalog")
		return
	}

	respondJSON(w, http.StatusOK, catalogResponse{
		Products: products,
		Degraded: h.catalog.Degraded(),
	})
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var doc domain.ProductDocument
	if err := decodeBody(r, &doc); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	p, err := h.catalog.Create(r.Context(), doc)
	if errors.Is(err, domain.ErrInvalidProduct) {
		respondError(w, http.StatusBadRequest, "invalid_product", err.Error())
		return
	}
	if err != nil {
		h.logger.Error("product create failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not create product")
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var doc domain.ProductDocument
	if err := decodeBody(r, &doc); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	doc.ID = chi.URLParam(r, "product_id")

	p, err := h.catalog.Update(r.Context(), doc)
	if errors.Is(err, domain.ErrInvalidProduct) {
		respondError(w, http.StatusBadRequest, "invalid_product", err.Error())
		return
	}
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product does not exist")
		return
	}
	if err != nil {
		h.logger.Error("product update failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not update product")
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "product_id")

	err := h.catalog.Delete(r.Context(), id)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product does not exist")
		return
	}
	if err != nil {
		h.logger.Error("product delete failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not delete product")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

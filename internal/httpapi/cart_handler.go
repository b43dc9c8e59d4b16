package httpapi

import (
	"errors"
	"net/http"

	"github.com/Frannkode/QuickOrder/internal/cart"
	"github.com/Frannkode/QuickOrder/internal/catalog"
	"github.com/Frannkode/QuickOrder/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartHandler struct {
	carts   *cart.Manager
	catalog *catalog.Service
	logger  *zap.Logger
}

func NewCartHandler(carts *cart.Manager, catalogSvc *catalog.Service, logger *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, catalog: catalogSvc, logger: logger}
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

type updateQuantityRequest struct {
	Delta int `json:"delta"`
}

type cartResponse struct {
	Lines     []domain.CartLine `json:"lines"`
	Total     int64             `json:"total"`
	ItemCount int               `json:"item_count"`
	Warning   string            `json:"warning,omitempty"`
}

func (h *CartHandler) ledger(w http.ResponseWriter, r *http.Request) (*cart.Ledger, bool) {
	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "X-Session-ID header is required")
		return nil, false
	}

	l, err := h.carts.Ledger(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("cart load failed", zap.String("session", sessionID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not load cart")
		return nil, false
	}
	return l, true
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	l, ok := h.ledger(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, snapshot(l, false))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	l, ok := h.ledger(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product does not exist")
		return
	}
	if err != nil {
		h.logger.Error("product lookup failed", zap.String("product_id", req.ProductID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not look up product")
		return
	}

	exceeded, err := l.Add(r.Context(), product)
	if err != nil {
		h.logger.Error("cart add failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not persist cart")
		return
	}

	respondJSON(w, http.StatusCreated, snapshot(l, exceeded))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	l, ok := h.ledger(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	exceeded, err := l.UpdateQuantity(r.Context(), chi.URLParam(r, "product_id"), req.Delta)
	if err != nil {
		h.logger.Error("cart update failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not persist cart")
		return
	}

	respondJSON(w, http.StatusOK, snapshot(l, exceeded))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	l, ok := h.ledger(w, r)
	if !ok {
		return
	}

	if err := l.Remove(r.Context(), chi.URLParam(r, "product_id")); err != nil {
		h.logger.Error("cart remove failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not persist cart")
		return
	}

	respondJSON(w, http.StatusOK, snapshot(l, false))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	l, ok := h.ledger(w, r)
	if !ok {
		return
	}

	if err := l.Clear(r.Context()); err != nil {
		h.logger.Error("cart clear failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not persist cart")
		return
	}

	respondJSON(w, http.StatusOK, snapshot(l, false))
}

func snapshot(l *cart.Ledger, stockExceeded bool) cartResponse {
	resp := cartResponse{
		Lines:     l.Lines(),
		Total:     l.Total(),
		ItemCount: l.ItemCount(),
	}
	if resp.Lines == nil {
		resp.Lines = []domain.CartLine{}
	}
	if stockExceeded {
		resp.Warning = "requested quantity exceeds available stock"
	}
	return resp
}

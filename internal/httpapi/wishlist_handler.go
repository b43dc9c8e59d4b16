package httpapi

import (
	"net/http"

	"github.com/Frannkode/QuickOrder/internal/wishlist"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WishlistHandler struct {
	wishlist *wishlist.Service
	logger   *zap.Logger
}

func NewWishlistHandler(svc *wishlist.Service, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{wishlist: svc, logger: logger}
}

type wishlistResponse struct {
	ProductIDs []string `json:"product_ids"`
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "X-Session-ID header is required")
		return
	}

	ids, err := h.wishlist.List(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("wishlist load failed", zap.String("session", sessionID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "wishlist_unavailable", "could not load wishlist")
		return
	}
	if ids == nil {
		ids = []string{}
	}

	respondJSON(w, http.StatusOK, wishlistResponse{ProductIDs: ids})
}

func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "X-Session-ID header is required")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	saved, err := h.wishlist.Toggle(r.Context(), sessionID, productID)
	if err != nil {
		h.logger.Error("wishlist toggle failed", zap.String("session", sessionID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "wishlist_unavailable", "could not update wishlist")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"product_id": productID, "saved": saved})
}

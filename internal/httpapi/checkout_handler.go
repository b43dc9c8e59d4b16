package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Frannkode/QuickOrder/internal/cart"
	"github.com/Frannkode/QuickOrder/internal/domain"
	"github.com/Frannkode/QuickOrder/internal/order"
	"github.com/Frannkode/QuickOrder/internal/orders"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	carts      *cart.Manager
	orders     *orders.Service
	storeName  string
	storePhone string
	logger     *zap.Logger
}

func NewCheckoutHandler(carts *cart.Manager, ordersSvc *orders.Service, storeName, storePhone string, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		carts:      carts,
		orders:     ordersSvc,
		storeName:  storeName,
		storePhone: storePhone,
		logger:     logger,
	}
}

type checkoutRequest struct {
	Customer domain.CustomerInfo `json:"customer"`
}

type checkoutResponse struct {
	Order       *domain.Order `json:"order"`
	Message     string        `json:"message"`
	WhatsAppURL string        `json:"whatsapp_url"`
}

// Checkout assembles the session's cart into an order. The cart is cleared
// only after placement succeeded (local fallback counts as placed); a
// navigation away mid-flight must never leave a half-submitted cart.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "X-Session-ID header is required")
		return
	}

	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	ledger, err := h.carts.Ledger(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("cart load failed", zap.String("session", sessionID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "could not load cart")
		return
	}

	ord, err := h.orders.Place(r.Context(), ledger.Lines(), req.Customer)
	var verr *order.ValidationError
	if errors.As(err, &verr) {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", verr.Error())
		return
	}
	if err != nil {
		h.logger.Error("order placement failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "order_failed", "could not place order")
		return
	}

	if err := ledger.Clear(r.Context()); err != nil {
		// The order is placed; a cart that failed to clear is an
		// annoyance, not a reason to fail the checkout.
		h.logger.Warn("cart clear after checkout failed", zap.String("session", sessionID), zap.Error(err))
	}

	message := order.RenderMessage(ord, h.storeName)
	respondJSON(w, http.StatusCreated, checkoutResponse{
		Order:       ord,
		Message:     message,
		WhatsAppURL: whatsAppURL(h.storePhone, message),
	})
}

// ValidateCustomer lets the checkout form pre-validate contact info before
// submitting the real order.
func (h *CheckoutHandler) ValidateCustomer(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if verr := order.ValidateCustomerInfo(req.Customer); verr != nil {
		respondJSON(w, http.StatusOK, map[string]any{"valid": false, "field": verr.Field, "reason": verr.Reason})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"valid": true})
}

func whatsAppURL(phone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
}

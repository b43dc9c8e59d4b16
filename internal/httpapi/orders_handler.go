package httpapi

import (
	"errors"
	"net/http"

	"github.com/Frannkode/QuickOrder/internal/domain"
	"github.com/Frannkode/QuickOrder/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrdersHandler is the back-office surface for order management. All routes
// sit behind the admin allow-list middleware.
type OrdersHandler struct {
	orders *orders.Service
	logger *zap.Logger
}

func NewOrdersHandler(svc *orders.Service, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{orders: svc, logger: logger}
}

type ordersResponse struct {
	Orders   []*domain.Order `json:"orders"`
	Degraded bool            `json:"degraded"`
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	list, degraded, err := h.orders.List(r.Context())
	if err != nil {
		h.logger.Error("order list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "orders_unavailable", "could not list orders")
		return
	}
	if list == nil {
		list = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, ordersResponse{Orders: list, Degraded: degraded})
}

func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if errors.Is(err, orders.ErrInvalidStatus) {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}
	if errors.Is(err, orders.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order does not exist")
		return
	}
	if err != nil {
		h.logger.Error("order status update failed", zap.String("order_id", id.String()), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "orders_unavailable", "could not update order")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})
}

func (h *OrdersHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req updateNotesRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := h.orders.UpdateNotes(r.Context(), id, req.Notes)
	if errors.Is(err, orders.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order does not exist")
		return
	}
	if err != nil {
		h.logger.Error("order notes update failed", zap.String("order_id", id.String()), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "orders_unavailable", "could not update order")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"id": id, "notes": req.Notes})
}

func (h *OrdersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	err := h.orders.Delete(r.Context(), id)
	if errors.Is(err, orders.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order does not exist")
		return
	}
	if err != nil {
		h.logger.Error("order delete failed", zap.String("order_id", id.String()), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "orders_unavailable", "could not delete order")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}

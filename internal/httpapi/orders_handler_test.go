package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Frannkode/QuickOrder/internal/domain"
	"github.com/Frannkode/QuickOrder/internal/metrics"
	"github.com/Frannkode/QuickOrder/internal/orders"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestOrdersHandler(t *testing.T) (*OrdersHandler, *mockOrderRepo) {
	t.Helper()
	repo := newMockOrderRepo()
	queue := orders.NewFallbackQueue(newMemStore())
	svc := orders.NewService(repo, queue, metrics.NewRegistry(), zap.NewNop())
	return NewOrdersHandler(svc, zap.NewNop()), repo
}

func seedOrder(t *testing.T, repo *mockOrderRepo) *domain.Order {
	t.Helper()
	order := &domain.Order{
		ID:      uuid.New(),
		ShortID: "A1B2C",
		Items: []domain.OrderItem{
			{ProductID: "tumbler-black", Name: "Tumbler", Quantity: 2, UnitPrice: 1000},
		},
		Customer:  domain.CustomerInfo{Name: "Alice", Phone: "1234567"},
		Total:     2000,
		Status:    domain.OrderStatusPendingPayment,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateOrder(context.Background(), order); err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	return order
}

func TestListOrders(t *testing.T) {
	handler, repo := newTestOrdersHandler(t)
	seedOrder(t, repo)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/admin/orders", nil)

	handler.List(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response ordersResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Orders) != 1 {
		t.Errorf("Expected 1 order, got %d", len(response.Orders))
	}
	if response.Degraded {
		t.Error("Expected degraded=false with a healthy repository")
	}
}

func TestListOrders_Empty(t *testing.T) {
	handler, _ := newTestOrdersHandler(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/admin/orders", nil)

	handler.List(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	// An empty list serializes as [], not null.
	if !bytes.Contains(recorder.Body.Bytes(), []byte(`"orders":[]`)) {
		t.Errorf("Expected empty array in body, got %s", recorder.Body.String())
	}
}

func TestUpdateStatus_Success(t *testing.T) {
	handler, repo := newTestOrdersHandler(t)
	order := seedOrder(t, repo)

	body, _ := json.Marshal(updateStatusRequest{Status: domain.OrderStatusPreparing})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PATCH", "/admin/orders/"+order.ID.String()+"/status", bytes.NewReader(body))
	request = withURLParam(request, "order_id", order.ID.String())

	handler.UpdateStatus(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}
	if repo.orders[order.ID].Status != domain.OrderStatusPreparing {
		t.Errorf("Expected status preparing, got %s", repo.orders[order.ID].Status)
	}
}

func TestUpdateStatus_RevertFromTerminal(t *testing.T) {
	handler, repo := newTestOrdersHandler(t)
	order := seedOrder(t, repo)
	repo.orders[order.ID].Status = domain.OrderStatusDelivered

	// Staff correct mistaken terminal states; any known status is settable.
	body, _ := json.Marshal(updateStatusRequest{Status: domain.OrderStatusPreparing})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PATCH", "/admin/orders/"+order.ID.String()+"/status", bytes.NewReader(body))
	request = withURLParam(request, "order_id", order.ID.String())

	handler.UpdateStatus(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if repo.orders[order.ID].Status != domain.OrderStatusPreparing {
		t.Errorf("Expected status preparing, got %s", repo.orders[order.ID].Status)
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	handler, repo := newTestOrdersHandler(t)
	order := seedOrder(t, repo)

	body, _ := json.Marshal(updateStatusRequest{Status: "shipped_to_mars"})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PATCH", "/admin/orders/"+order.ID.String()+"/status", bytes.NewReader(body))
	request = withURLParam(request, "order_id", order.ID.String())

	handler.UpdateStatus(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "invalid_status" {
		t.Errorf("Expected error code 'invalid_status', got '%s'", response.Code)
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	handler, _ := newTestOrdersHandler(t)

	id := uuid.New()
	body, _ := json.Marshal(updateStatusRequest{Status: domain.OrderStatusReceived})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PATCH", "/admin/orders/"+id.String()+"/status", bytes.NewReader(body))
	request = withURLParam(request, "order_id", id.String())

	handler.UpdateStatus(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestUpdateStatus_BadID(t *testing.T) {
	handler, _ := newTestOrdersHandler(t)

	body, _ := json.Marshal(updateStatusRequest{Status: domain.OrderStatusReceived})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PATCH", "/admin/orders/not-a-uuid/status", bytes.NewReader(body))
	request = withURLParam(request, "order_id", "not-a-uuid")

	handler.UpdateStatus(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "invalid_order_id" {
		t.Errorf("Expected error code 'invalid_order_id', got '%s'", response.Code)
	}
}

func TestUpdateNotes(t *testing.T) {
	handler, repo := newTestOrdersHandler(t)
	order := seedOrder(t, repo)

	body, _ := json.Marshal(updateNotesRequest{Notes: "call before delivery"})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PATCH", "/admin/orders/"+order.ID.String()+"/notes", bytes.NewReader(body))
	request = withURLParam(request, "order_id", order.ID.String())

	handler.UpdateNotes(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if repo.orders[order.ID].Notes != "call before delivery" {
		t.Errorf("Expected notes updated, got '%s'", repo.orders[order.ID].Notes)
	}
}

func TestDeleteOrder(t *testing.T) {
	handler, repo := newTestOrdersHandler(t)
	order := seedOrder(t, repo)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("DELETE", "/admin/orders/"+order.ID.String(), nil)
	request = withURLParam(request, "order_id", order.ID.String())

	handler.Delete(recorder, request)

	if recorder.Code != http.StatusNoContent {
		t.Errorf("Expected status code %d, got %d", http.StatusNoContent, recorder.Code)
	}
	if repo.count() != 0 {
		t.Errorf("Expected 0 orders after delete, got %d", repo.count())
	}
}

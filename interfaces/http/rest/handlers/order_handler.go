package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"telemetry-backend/internal/domain"
	"telemetry-backend/internal/logging"
	"telemetry-backend/internal/service"
	"telemetry-backend/internal/telemetry"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	orders *service.OrderService
	tracer *telemetry.Tracer
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(orders *service.OrderService, tracer *telemetry.Tracer) *OrderHandler {
	return &OrderHandler{orders: orders, tracer: tracer}
}

// CreateOrderRequest is the body for POST /api/orders.
type CreateOrderRequest struct {
	CustomerID string  `json:"customerId" validate:"required"`
	Amount     float64 `json:"amount" validate:"required"`
	Currency   string  `json:"currency" validate:"required"`
}

// CreateOrder handles POST /api/orders.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := telemetry.InSpanValue(r.Context(), h.tracer, "order.create",
		func(ctx context.Context) (*domain.Order, error) {
			telemetry.AddBusinessContext(ctx, "order", req.CustomerID, "create")
			return h.orders.CreateOrder(ctx, req.CustomerID, req.Amount, req.Currency)
		})
	if err != nil {
		respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    order,
		"message": "Order created successfully",
	})
	logging.FromContext(r.Context()).Info("created order",
		zap.String(logging.FieldOrderID, order.ID),
		zap.String("customerId", order.CustomerID))
}

// ListByCustomer handles GET /api/orders/customer/{customerID}.
func (h *OrderHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	orders, err := h.orders.GetOrdersByCustomer(r.Context(), customerID)
	if err != nil {
		respondServiceError(r, w, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    orders,
		"count":   len(orders),
	})
	logging.FromContext(r.Context()).Info("retrieved orders for customer",
		zap.Int("count", len(orders)),
		zap.String("customerId", customerID))
}

// ProcessOrder handles POST /api/orders/{orderID}/process.
func (h *OrderHandler) ProcessOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	if err := h.orders.ProcessOrder(r.Context(), orderID); err != nil {
		respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order processed successfully",
		"orderId": orderID,
	})
	logging.FromContext(r.Context()).Info("processed order",
		zap.String(logging.FieldOrderID, orderID))
}

// CancelOrder handles POST /api/orders/{orderID}/cancel.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	if err := h.orders.CancelOrder(r.Context(), orderID); err != nil {
		respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order cancelled successfully",
		"orderId": orderID,
	})
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"telemetry-backend/internal/domain"
	apperrors "telemetry-backend/internal/errors"
	"telemetry-backend/internal/logging"
	"telemetry-backend/internal/repository"
	"telemetry-backend/internal/telemetry"
)

// OrderService handles order creation, processing, and cancellation.
type OrderService struct {
	repo    repository.OrderRepository
	metrics *telemetry.Registry
	tracer  *telemetry.Tracer
}

// NewOrderService constructs an OrderService.
func NewOrderService(repo repository.OrderRepository, metrics *telemetry.Registry, tracer *telemetry.Tracer) *OrderService {
	return &OrderService{repo: repo, metrics: metrics, tracer: tracer}
}

// CreateOrder validates the input and persists a new CREATED order. The
// creation counter and value histogram are recorded only after the persist
// succeeds; amounts above the high-value threshold additionally count a
// dedicated business metric.
func (s *OrderService) CreateOrder(ctx context.Context, customerID string, amount float64, currency string) (*domain.Order, error) {
	start := time.Now()
	log := logging.FromContext(ctx).Named("service.order")
	log.Info("creating order",
		zap.String("customerId", customerID),
		zap.Float64("amount", amount),
		zap.String("currency", currency))

	if strings.TrimSpace(customerID) == "" {
		return nil, apperrors.Validation("customer ID cannot be empty")
	}
	if amount <= 0 {
		return nil, apperrors.Validation("amount must be positive")
	}
	if strings.TrimSpace(currency) == "" {
		return nil, apperrors.Validation("currency cannot be empty")
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:         "order-" + uuid.NewString(),
		CustomerID: strings.TrimSpace(customerID),
		Amount:     amount,
		Currency:   strings.ToUpper(strings.TrimSpace(currency)),
		Status:     domain.OrderStatusCreated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	ctx = logging.WithFields(ctx, zap.String(logging.FieldOrderID, order.ID))
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.Increment(ctx, telemetry.OrderCreatedTotal)
	s.metrics.Record(ctx, telemetry.OrderValueDistribution, order.Amount)
	s.metrics.RecordDuration(ctx, telemetry.OrderOperationDuration,
		float64(time.Since(start).Milliseconds()), "createOrder")

	if order.IsHighValue() {
		s.metrics.Increment(ctx, telemetry.BusinessHighValueOrdersTotal)
		logging.FromContext(ctx).Named("service.order").Warn("high-value order created",
			zap.Float64("amount", order.Amount))
	}

	logging.FromContext(ctx).Named("service.order").Info("order created successfully",
		zap.String("customerId", order.CustomerID))
	return order, nil
}

// ProcessOrder drives an order through PROCESSING to COMPLETED with one
// status write per transition. An unknown order is NotFound with no side
// effects; an order outside CREATED/PROCESSING is a Conflict, so a repeated
// call can never double-count completion. A failure or cancellation
// mid-flight leaves the order FAILED and records an error metric.
func (s *OrderService) ProcessOrder(ctx context.Context, orderID string) error {
	return s.tracer.InSpan(ctx, "order.service.process", func(ctx context.Context) error {
		if strings.TrimSpace(orderID) == "" {
			return apperrors.Validation("order ID cannot be empty")
		}

		ctx = logging.WithFields(ctx, zap.String(logging.FieldOrderID, orderID))
		log := logging.FromContext(ctx).Named("service.order")
		log.Info("processing order")
		telemetry.AddBusinessContext(ctx, "order", orderID, "process")

		order, err := s.repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperrors.NotFound("order not found: %s", orderID)
		}
		if !order.IsProcessable() {
			return apperrors.Conflict("order %s cannot be processed in status %s", orderID, order.Status)
		}

		if err := s.repo.UpdateStatus(ctx, orderID, domain.OrderStatusProcessing); err != nil {
			return s.failOrder(ctx, orderID, err)
		}
		s.metrics.Increment(ctx, telemetry.OrderProcessedTotal)

		if err := ctx.Err(); err != nil {
			log.Error("order processing interrupted")
			s.failOrder(ctx, orderID, err)
			return apperrors.Interrupted(err, "order processing interrupted: %s", orderID)
		}

		if err := s.repo.UpdateStatus(ctx, orderID, domain.OrderStatusCompleted); err != nil {
			return s.failOrder(ctx, orderID, err)
		}
		s.metrics.Increment(ctx, telemetry.OrderCompletedTotal)

		log.Info("order processed successfully")
		return nil
	})
}

// failOrder transitions the order to FAILED and counts the error. The
// FAILED write runs detached from cancellation so an interrupted request
// still leaves the terminal state behind.
func (s *OrderService) failOrder(ctx context.Context, orderID string, cause error) error {
	detached := context.WithoutCancel(ctx)
	if err := s.repo.UpdateStatus(detached, orderID, domain.OrderStatusFailed); err != nil {
		logging.FromContext(ctx).Named("service.order").Error("failed to mark order as failed",
			zap.String(logging.FieldOrderID, orderID),
			zap.String("error", err.Error()))
	}
	s.metrics.Increment(ctx, telemetry.OrderErrorsTotal)
	s.metrics.RecordError(ctx, "order", cause)
	return cause
}

// CancelOrder transitions any non-completed order to CANCELLED.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) error {
	if strings.TrimSpace(orderID) == "" {
		return apperrors.Validation("order ID cannot be empty")
	}

	ctx = logging.WithFields(ctx, zap.String(logging.FieldOrderID, orderID))
	log := logging.FromContext(ctx).Named("service.order")
	log.Info("cancelling order")

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperrors.NotFound("order not found: %s", orderID)
	}
	if !order.Status.CanTransitionTo(domain.OrderStatusCancelled) {
		return apperrors.Conflict("cannot cancel order %s in status %s", orderID, order.Status)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, domain.OrderStatusCancelled); err != nil {
		return err
	}
	s.metrics.Increment(ctx, telemetry.OrderCancelledTotal)

	log.Info("order cancelled successfully")
	return nil
}

// GetOrderByID looks up one order; a missing order returns nil without
// error.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, apperrors.Validation("order ID cannot be empty")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order != nil {
		s.metrics.Increment(ctx, telemetry.OrderFoundTotal)
	}
	return order, nil
}

// GetOrdersByCustomer lists a customer's orders, newest first.
func (s *OrderService) GetOrdersByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, apperrors.Validation("customer ID cannot be empty")
	}

	orders, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	s.metrics.Increment(ctx, telemetry.OrderFoundTotal)

	logging.FromContext(ctx).Named("service.order").Debug("found orders for customer",
		zap.Int("count", len(orders)),
		zap.String("customerId", customerID))
	return orders, nil
}

package services

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/realtime"

	"go.uber.org/zap"
)

// EventPublisher is the order event bus contract, implemented by the RabbitMQ
// client. Publishing is best-effort; failures are logged, never surfaced.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderService assembles immutable orders from cart snapshots and drives the
// status and payment transitions.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	emitter     *realtime.Emitter
	events      EventPublisher
	log         *zap.Logger
}

// NewOrderService creates a new OrderService. events may be nil when no
// broker is configured.
func NewOrderService(orderRepo repositories.OrderRepository, cartRepo repositories.CartRepository, productRepo repositories.ProductRepository, emitter *realtime.Emitter, events EventPublisher, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		emitter:     emitter,
		events:      events,
		log:         log,
	}
}

// Create converts the owner's current cart into an immutable order. Unit
// prices and display fields are frozen from the live product records at this
// instant; the total is computed server-side only. On success the cart is
// cleared best-effort: the order is the source of truth and is never rolled
// back because the clear failed.
func (s *OrderService) Create(userID, shippingAddress string) (*models.Order, error) {
	shippingAddress = strings.TrimSpace(shippingAddress)
	if len(shippingAddress) < 10 || len(shippingAddress) > 500 {
		return nil, apperrors.Validation("shipping address must be between 10 and 500 characters")
	}

	lines, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load cart", err)
	}
	if len(lines) == 0 {
		return nil, apperrors.Validation("cart is empty")
	}

	var items []models.OrderItem
	var total float64
	for _, line := range lines {
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, apperrors.Newf(apperrors.KindValidation,
					"product %s is no longer available", line.ProductID)
			}
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load product", err)
		}
		if !product.IsActive {
			return nil, apperrors.Newf(apperrors.KindValidation,
				"product %q is no longer available", product.Title)
		}
		if product.Stock < line.Quantity {
			return nil, apperrors.Newf(apperrors.KindInsufficientStock,
				"insufficient stock for %q (requested %d, available %d)",
				product.Title, line.Quantity, product.Stock)
		}

		lineTotal := product.Price * float64(line.Quantity)
		items = append(items, models.OrderItem{
			ProductID:       product.ID,
			ProductTitle:    product.Title,
			ProductImageURL: product.ImageURL,
			Quantity:        line.Quantity,
			UnitPrice:       product.Price,
			TotalPrice:      lineTotal,
		})
		total += lineTotal
	}

	order := &models.Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		OrderDate:       time.Now(),
		ShippingAddress: shippingAddress,
		PaymentStatus:   models.PaymentStatusPending,
	}

	// The BeforeCreate hook re-validates the total; a mismatch there means a
	// bug in the assembly above and must abort, not be corrected.
	if err := s.orderRepo.Create(order); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create order", err)
	}

	if err := s.cartRepo.DeleteByUser(userID); err != nil {
		s.log.Warn("failed to clear cart after order creation",
			zap.String("orderId", order.ID), zap.String("userId", userID), zap.Error(err))
	}

	if s.emitter != nil {
		s.emitter.OrderCreated(userID, order)
		s.emitter.CartCleared(userID)
	}
	s.publishEvent("order.created", map[string]interface{}{
		"orderId": order.ID,
		"userId":  order.UserID,
		"status":  order.Status,
		"total":   order.TotalAmount,
	})

	return order, nil
}

// ListByUser retrieves the owner's orders, newest first.
func (s *OrderService) ListByUser(userID string) ([]models.Order, error) {
	orders, err := s.orderRepo.ListByUser(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list orders", err)
	}
	return orders, nil
}

// GetByUser retrieves one order scoped by owner; another owner's order is
// indistinguishable from a missing one.
func (s *OrderService) GetByUser(userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByUser(userID, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to get order", err)
	}
	return order, nil
}

// UpdateStatus applies a fulfillment transition. Only the documented
// progression is allowed; cancellation is reachable from any non-delivered
// state.
func (s *OrderService) UpdateStatus(orderID string, status models.OrderStatus, trackingNumber string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.Newf(apperrors.KindValidation, "invalid order status: %s", status)
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to get order", err)
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, apperrors.Newf(apperrors.KindValidation,
			"cannot transition order from %s to %s", order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status, trackingNumber); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to update order status", err)
	}
	order.Status = status
	if trackingNumber != "" {
		order.TrackingNumber = trackingNumber
	}

	if s.emitter != nil {
		s.emitter.OrderStatusUpdated(order.UserID, order.ID, string(status), trackingNumber)
	}
	s.publishEvent("order.status-updated", map[string]interface{}{
		"orderId": order.ID,
		"userId":  order.UserID,
		"status":  status,
	})

	return order, nil
}

// UpdatePayment applies a payment transition (pending to paid/failed, paid to
// refunded).
func (s *OrderService) UpdatePayment(orderID string, status models.PaymentStatus, paymentID string) (*models.Order, error) {
	if !models.ValidPaymentStatus(status) {
		return nil, apperrors.Newf(apperrors.KindValidation, "invalid payment status: %s", status)
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to get order", err)
	}
	if !order.PaymentStatus.CanTransitionTo(status) {
		return nil, apperrors.Newf(apperrors.KindValidation,
			"cannot transition payment from %s to %s", order.PaymentStatus, status)
	}

	if err := s.orderRepo.UpdatePayment(orderID, status, paymentID); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to update payment status", err)
	}
	order.PaymentStatus = status
	if paymentID != "" {
		order.PaymentID = paymentID
	}

	if s.emitter != nil {
		s.emitter.PaymentStatusUpdated(order.UserID, order.ID, string(status), paymentID)
	}
	s.publishEvent("payment.status-updated", map[string]interface{}{
		"orderId":       order.ID,
		"userId":        order.UserID,
		"paymentStatus": status,
	})

	return order, nil
}

func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("failed to marshal order event", zap.String("event", routingKey), zap.Error(err))
		return
	}
	if err := s.events.Publish(routingKey, body); err != nil {
		s.log.Warn("failed to publish order event", zap.String("event", routingKey), zap.Error(err))
	}
}

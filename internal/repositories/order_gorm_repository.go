package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create persists an order with its frozen line items. The model's
// BeforeCreate hook re-validates the total invariant; a mismatch aborts the
// insert.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// ListByUser retrieves all orders for a user, newest first, with items.
func (r *GORMOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("user_id = ?", userID).Order("order_date DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetByUser retrieves a single order scoped by owner.
func (r *GORMOrderRepository) GetByUser(userID, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, "id = ? AND user_id = ?", orderID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	return &order, nil
}

// GetByID retrieves an order without owner scoping, for fulfillment flows.
func (r *GORMOrderRepository) GetByID(orderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	return &order, nil
}

// UpdateStatus sets the fulfillment status and, when provided, the tracking
// number. Line items and totals are never touched.
func (r *GORMOrderRepository) UpdateStatus(orderID string, status models.OrderStatus, trackingNumber string) error {
	updates := map[string]interface{}{"status": status}
	if trackingNumber != "" {
		updates["tracking_number"] = trackingNumber
	}
	res := r.db.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePayment sets the payment status and, when provided, the payment
// transaction ID.
func (r *GORMOrderRepository) UpdatePayment(orderID string, status models.PaymentStatus, paymentID string) error {
	updates := map[string]interface{}{"payment_status": status}
	if paymentID != "" {
		updates["payment_id"] = paymentID
	}
	res := r.db.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update payment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package repositories

import "storefront/internal/models"

// OrderRepository defines the interface for order data access. Orders are
// never deleted; status and payment fields are the only mutable parts.
type OrderRepository interface {
	Create(order *models.Order) error
	ListByUser(userID string) ([]models.Order, error)
	GetByUser(userID, orderID string) (*models.Order, error)
	GetByID(orderID string) (*models.Order, error)
	UpdateStatus(orderID string, status models.OrderStatus, trackingNumber string) error
	UpdatePayment(orderID string, status models.PaymentStatus, paymentID string) error
}

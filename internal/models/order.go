package models

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the order fulfillment progression.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus is the payment lifecycle.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// totalTolerance is the floating-point epsilon for the order total invariant.
const totalTolerance = 0.01

// OrderItem freezes a product's display fields and unit price at order time so
// later catalog edits never retroactively alter historical orders.
type OrderItem struct {
	ID              string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID         string  `json:"-" gorm:"index;type:varchar(36)"`
	ProductID       string  `json:"productId" gorm:"type:varchar(36)"`
	ProductTitle    string  `json:"productTitle" gorm:"type:varchar(200)"`
	ProductImageURL string  `json:"productImageURL" gorm:"type:varchar(500)"`
	Quantity        int     `json:"quantity" validate:"gte=1"`
	UnitPrice       float64 `json:"unitPrice" validate:"gte=0"`
	TotalPrice      float64 `json:"totalPrice" validate:"gte=0"`
}

// Order is immutable once created except for status and payment transitions.
type Order struct {
	ID              string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string        `json:"userId" gorm:"index;type:varchar(36)"`
	Items           []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount     float64       `json:"totalAmount"`
	Status          OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending'"`
	OrderDate       time.Time     `json:"orderDate"`
	DeliveryDate    *time.Time    `json:"deliveryDate,omitempty"`
	ShippingAddress string        `json:"shippingAddress" gorm:"type:varchar(500)" validate:"required,min=10,max=500"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" gorm:"type:varchar(20);default:'pending'"`
	PaymentID       string        `json:"paymentId,omitempty" gorm:"type:varchar(100)"`
	TrackingNumber  string        `json:"trackingNumber,omitempty" gorm:"type:varchar(100)"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// ItemCount is the total number of units across all items.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// FormattedTotal renders the order total for display.
func (o *Order) FormattedTotal() string {
	return FormatPrice(o.TotalAmount)
}

// ValidateTotal re-checks that TotalAmount equals the sum of frozen line
// totals. A mismatch beyond tolerance is a construction bug upstream and must
// abort persistence rather than be silently corrected.
func (o *Order) ValidateTotal() error {
	var sum float64
	for _, item := range o.Items {
		sum += item.TotalPrice
	}
	if math.Abs(o.TotalAmount-sum) > totalTolerance {
		return fmt.Errorf("order total %.2f does not match sum of item prices %.2f", o.TotalAmount, sum)
	}
	return nil
}

// BeforeCreate enforces the total invariant and the default delivery date at
// persistence time.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if err := o.ValidateTotal(); err != nil {
		return err
	}
	if o.DeliveryDate == nil {
		d := o.OrderDate.AddDate(0, 0, 7)
		o.DeliveryDate = &d
	}
	return nil
}

// CanTransitionTo reports whether the status progression allows moving to
// next. Cancellation is reachable from any non-delivered, non-cancelled state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if next == OrderStatusCancelled {
		return s != OrderStatusDelivered && s != OrderStatusCancelled
	}
	switch s {
	case OrderStatusPending:
		return next == OrderStatusConfirmed
	case OrderStatusConfirmed:
		return next == OrderStatusProcessing
	case OrderStatusProcessing:
		return next == OrderStatusShipped
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	default:
		return false
	}
}

// ValidOrderStatus reports whether s names a known status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the payment lifecycle allows moving to next.
// Refunds are only possible for paid orders.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return next == PaymentStatusPaid || next == PaymentStatusFailed
	case PaymentStatusFailed:
		return next == PaymentStatusPaid
	case PaymentStatusPaid:
		return next == PaymentStatusRefunded
	default:
		return false
	}
}

// ValidPaymentStatus reports whether s names a known payment status.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

package models

import "time"

// CartLine is one (owner, product) row in a user's cart. At most one line
// exists per (UserID, ProductID); repeated adds increment Quantity instead of
// duplicating the row.
type CartLine struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"index:idx_cart_user_product,unique;type:varchar(36)"`
	ProductID string    `json:"productId" gorm:"index:idx_cart_user_product,unique;type:varchar(36)"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
	DateAdded time.Time `json:"dateAdded"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CartLineView is a cart line joined live against the current product record.
// Display fields come from the product at read time, not from a cached copy.
type CartLineView struct {
	ID                  string      `json:"id"`
	UserID              string      `json:"userId"`
	ProductID           string      `json:"productId"`
	Quantity            int         `json:"quantity"`
	DateAdded           time.Time   `json:"dateAdded"`
	Product             ProductView `json:"product"`
	TotalPrice          float64     `json:"totalPrice"`
	FormattedTotalPrice string      `json:"formattedTotalPrice"`
}

// CartSummary is the authoritative post-mutation cart state. TotalItems is the
// sum of quantities, not the line count.
type CartSummary struct {
	Items                []CartLineView `json:"items"`
	TotalAmount          float64        `json:"totalAmount"`
	TotalItems           int            `json:"totalItems"`
	FormattedTotalAmount string         `json:"formattedTotalAmount"`
}

// EmptyCartSummary is what a cleared cart serializes to.
func EmptyCartSummary() CartSummary {
	return CartSummary{
		Items:                []CartLineView{},
		TotalAmount:          0,
		TotalItems:           0,
		FormattedTotalAmount: FormatPrice(0),
	}
}

package models

import (
	"fmt"
	"time"
)

// FormatPrice renders an amount the way the storefront clients display it.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}

// Product is a catalog entry. Price and stock are authoritative server-side;
// client-supplied values are never trusted at order time.
type Product struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title            string    `json:"title" gorm:"type:varchar(200)" validate:"required,min=3,max=200"`
	Description      string    `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	ShortDescription string    `json:"shortDescription" gorm:"type:varchar(300)" validate:"omitempty,max=300"`
	Price            float64   `json:"price" validate:"gte=0"`
	ImageURL         string    `json:"imageURL" gorm:"type:varchar(500)" validate:"omitempty,url"`
	Category         string    `json:"category" gorm:"index;type:varchar(100)" validate:"required"`
	Rating           float64   `json:"rating" validate:"gte=0,lte=5"`
	Stock            int       `json:"stock" validate:"gte=0"`
	Brand            string    `json:"brand" gorm:"type:varchar(100)"`
	IsActive         bool      `json:"isActive" gorm:"default:true"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// IsInStock reports whether at least one unit is available.
func (p *Product) IsInStock() bool {
	return p.Stock > 0
}

// ProductView is a product plus the derived fields the mobile clients expect.
type ProductView struct {
	Product
	FormattedPrice string `json:"formattedPrice"`
	InStock        bool   `json:"isInStock"`
}

// View derives the client-facing shape.
func (p *Product) View() ProductView {
	return ProductView{
		Product:        *p,
		FormattedPrice: FormatPrice(p.Price),
		InStock:        p.IsInStock(),
	}
}

// Category groups products for browsing.
type Category struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name         string    `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	ImageURL     string    `json:"imageURL" gorm:"type:varchar(500)"`
	ProductCount int       `json:"productCount"`
	IsActive     bool      `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Pagination describes a page of catalog results.
type Pagination struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalProducts int64 `json:"totalProducts"`
	HasNextPage   bool  `json:"hasNextPage"`
	HasPrevPage   bool  `json:"hasPrevPage"`
	Limit         int   `json:"limit"`
}

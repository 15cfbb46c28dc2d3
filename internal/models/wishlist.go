package models

import "time"

// WishlistEntry is one saved product per owner. Same per-owner uniqueness as
// cart lines, no quantity concept.
type WishlistEntry struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"index:idx_wishlist_user_product,unique;type:varchar(36)"`
	ProductID string    `json:"productId" gorm:"index:idx_wishlist_user_product,unique;type:varchar(36)"`
	DateAdded time.Time `json:"dateAdded"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WishlistEntryView joins an entry with the live product record.
type WishlistEntryView struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	ProductID string      `json:"productId"`
	DateAdded time.Time   `json:"dateAdded"`
	Product   ProductView `json:"product"`
}

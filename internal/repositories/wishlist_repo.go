package repositories

import "storefront/internal/models"

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	ListByUser(userID string) ([]models.WishlistEntry, error)
	GetByProduct(userID, productID string) (*models.WishlistEntry, error)
	Create(entry *models.WishlistEntry) error
	Delete(userID, entryID string) error
}

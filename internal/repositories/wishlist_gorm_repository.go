package repositories

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMWishlistRepository is a GORM implementation of WishlistRepository.
type GORMWishlistRepository struct {
	db *gorm.DB
}

// NewGORMWishlistRepository creates a new instance of GORMWishlistRepository.
func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{db: db}
}

// ListByUser retrieves all wishlist entries for a user, most recent first.
func (r *GORMWishlistRepository) ListByUser(userID string) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	if err := r.db.Where("user_id = ?", userID).Order("date_added DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list wishlist entries: %w", err)
	}
	return entries, nil
}

// GetByProduct retrieves the user's entry for a product, if one exists.
func (r *GORMWishlistRepository) GetByProduct(userID, productID string) (*models.WishlistEntry, error) {
	var entry models.WishlistEntry
	if err := r.db.First(&entry, "user_id = ? AND product_id = ?", userID, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wishlist entry for product %s: %w", productID, err)
	}
	return &entry, nil
}

// Create inserts a new wishlist entry.
func (r *GORMWishlistRepository) Create(entry *models.WishlistEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.DateAdded.IsZero() {
		entry.DateAdded = time.Now()
	}
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create wishlist entry: %w", err)
	}
	return nil
}

// Delete removes a single entry, scoped by owner.
func (r *GORMWishlistRepository) Delete(userID, entryID string) error {
	res := r.db.Where("id = ? AND user_id = ?", entryID, userID).Delete(&models.WishlistEntry{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete wishlist entry %s: %w", entryID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

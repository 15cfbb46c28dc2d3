package repositories

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// ListByUser retrieves all cart lines for a user, most recently added first.
func (r *GORMCartRepository) ListByUser(userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.Where("user_id = ?", userID).Order("date_added DESC").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart lines: %w", err)
	}
	return lines, nil
}

// GetByID retrieves a single cart line owned by the given user.
func (r *GORMCartRepository) GetByID(userID, lineID string) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.First(&line, "id = ? AND user_id = ?", lineID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart line %s: %w", lineID, err)
	}
	return &line, nil
}

// GetByProduct retrieves the user's line for a product, if one exists.
func (r *GORMCartRepository) GetByProduct(userID, productID string) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.First(&line, "user_id = ? AND product_id = ?", userID, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart line for product %s: %w", productID, err)
	}
	return &line, nil
}

// Create inserts a new cart line.
func (r *GORMCartRepository) Create(line *models.CartLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if line.DateAdded.IsZero() {
		line.DateAdded = time.Now()
	}
	if err := r.db.Create(line).Error; err != nil {
		return fmt.Errorf("failed to create cart line: %w", err)
	}
	return nil
}

// Save updates an existing cart line.
func (r *GORMCartRepository) Save(line *models.CartLine) error {
	res := r.db.Save(line)
	if res.Error != nil {
		return fmt.Errorf("failed to save cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a single line, scoped by owner. Deleting an already-removed
// line reports ErrNotFound rather than success.
func (r *GORMCartRepository) Delete(userID, lineID string) error {
	res := r.db.Where("id = ? AND user_id = ?", lineID, userID).Delete(&models.CartLine{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart line %s: %w", lineID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByUser removes every line for a user. A no-op on an empty cart.
func (r *GORMCartRepository) DeleteByUser(userID string) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&models.CartLine{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

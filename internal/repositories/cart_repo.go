package repositories

import "storefront/internal/models"

// CartRepository defines the interface for cart line data access. Every lookup
// is scoped by the owning user so one user can never touch another's lines.
type CartRepository interface {
	ListByUser(userID string) ([]models.CartLine, error)
	GetByID(userID, lineID string) (*models.CartLine, error)
	GetByProduct(userID, productID string) (*models.CartLine, error)
	Create(line *models.CartLine) error
	Save(line *models.CartLine) error
	Delete(userID, lineID string) error
	DeleteByUser(userID string) error
}

package repositories

import "storefront/internal/models"

// ProductFilter narrows and orders a catalog listing. Zero values mean
// "no constraint".
type ProductFilter struct {
	Category  string
	Search    string
	Brand     string
	MinPrice  float64
	MaxPrice  float64
	MinRating float64
	InStock   bool
	SortBy    string
	SortDesc  bool
	Page      int
	Limit     int
}

// ProductRepository defines the interface for product data access. List and
// GetActive only see active products; GetByID sees everything (order and cart
// internals need deactivated products too).
type ProductRepository interface {
	List(filter ProductFilter) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	GetActive(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Deactivate(id string) error
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	List() ([]models.Category, error)
	GetByIDOrName(idOrName string) (*models.Category, error)
	Create(category *models.Category) error
}

package services

import (
	"errors"
	"math"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/realtime"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ProductService serves the read-mostly catalog and pushes stock/price change
// events to product watchers on writes.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	emitter      *realtime.Emitter
}

func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, emitter *realtime.Emitter) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		emitter:      emitter,
	}
}

// List returns one page of active products plus pagination metadata. The
// page size is clamped to 1..100 so a single request cannot drag the whole
// catalog.
func (s *ProductService) List(filter repositories.ProductFilter) ([]models.ProductView, models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, models.Pagination{}, apperrors.Wrap(apperrors.KindInternal, "failed to list products", err)
	}

	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, p.View())
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	pagination := models.Pagination{
		CurrentPage:   filter.Page,
		TotalPages:    totalPages,
		TotalProducts: total,
		HasNextPage:   filter.Page < totalPages,
		HasPrevPage:   filter.Page > 1,
		Limit:         filter.Limit,
	}
	return views, pagination, nil
}

// Get returns one active product. Deactivated products are hidden from the
// public catalog, so they report not found here.
func (s *ProductService) Get(productID string) (*models.ProductView, error) {
	product, err := s.productRepo.GetActive(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to get product", err)
	}
	view := product.View()
	return &view, nil
}

// ByCategory resolves the category by id or name, then returns its in-stock
// products sorted by rating descending.
func (s *ProductService) ByCategory(idOrName string) (*models.Category, []models.ProductView, error) {
	category, err := s.categoryRepo.GetByIDOrName(idOrName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, apperrors.NotFound("category not found")
		}
		return nil, nil, apperrors.Wrap(apperrors.KindInternal, "failed to get category", err)
	}

	products, _, err := s.productRepo.List(repositories.ProductFilter{
		Category: category.Name,
		InStock:  true,
		SortBy:   "rating",
		SortDesc: true,
		Page:     1,
		Limit:    maxPageLimit,
	})
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.KindInternal, "failed to list category products", err)
	}

	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, p.View())
	}
	return category, views, nil
}

// Categories returns all categories.
func (s *ProductService) Categories() ([]models.Category, error) {
	categories, err := s.categoryRepo.List()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list categories", err)
	}
	return categories, nil
}

// Create adds a product to the catalog.
func (s *ProductService) Create(product *models.Product) error {
	if product.Title == "" {
		return apperrors.Validation("product title is required")
	}
	if product.Price < 0 {
		return apperrors.Validation("product price cannot be negative")
	}
	if product.Stock < 0 {
		return apperrors.Validation("product stock cannot be negative")
	}
	if err := s.productRepo.Create(product); err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "failed to create product", err)
	}
	return nil
}

// Update persists product changes and notifies watchers. Stock and price
// changes get their own dedicated events on top of the generic update so
// product-detail screens can react without diffing.
func (s *ProductService) Update(productID string, update *models.Product) (*models.Product, error) {
	existing, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to get product", err)
	}
	if update.Price < 0 {
		return nil, apperrors.Validation("product price cannot be negative")
	}
	if update.Stock < 0 {
		return nil, apperrors.Validation("product stock cannot be negative")
	}

	oldStock := existing.Stock
	oldPrice := existing.Price

	existing.Title = update.Title
	existing.Description = update.Description
	existing.ShortDescription = update.ShortDescription
	existing.Price = update.Price
	existing.ImageURL = update.ImageURL
	existing.Category = update.Category
	existing.Rating = update.Rating
	existing.Stock = update.Stock
	existing.Brand = update.Brand

	if err := s.productRepo.Update(existing); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to update product", err)
	}

	if s.emitter != nil {
		if existing.Stock != oldStock {
			s.emitter.ProductStockUpdated(existing.ID, existing.Stock)
		}
		if existing.Price != oldPrice {
			s.emitter.ProductPriceUpdated(existing.ID, existing.Price, models.FormatPrice(existing.Price))
		}
		s.emitter.ProductUpdated(existing.ID, "updated", existing.View())
	}
	return existing, nil
}

// Deactivate hides a product from the catalog without deleting it; existing
// order items keep their frozen copy of it.
func (s *ProductService) Deactivate(productID string) error {
	if err := s.productRepo.Deactivate(productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("product not found")
		}
		return apperrors.Wrap(apperrors.KindInternal, "failed to deactivate product", err)
	}
	if s.emitter != nil {
		s.emitter.ProductUpdated(productID, "deactivated", nil)
	}
	return nil
}

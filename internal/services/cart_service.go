package services

import (
	"errors"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/realtime"

	"go.uber.org/zap"
)

// CartService is the per-owner cart ledger. It enforces the one-line-per-
// product invariant and the stock ceiling, and pushes a fanout event for every
// mutation using the same post-mutation summary it returns to the caller.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	emitter     *realtime.Emitter
	log         *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository, emitter *realtime.Emitter, log *zap.Logger) *CartService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		emitter:     emitter,
		log:         log,
	}
}

// AddItem adds quantity units of a product to the owner's cart. A second add
// for the same product increments the existing line instead of duplicating
// it. The resulting quantity may never exceed the product's current stock;
// the rejection message names how many more units are actually available.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.CartLine, models.CartSummary, error) {
	if quantity < 1 {
		return nil, models.CartSummary{}, apperrors.Validation("quantity must be at least 1")
	}

	product, err := s.productRepo.GetActive(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, models.CartSummary{}, apperrors.NotFound("product not found or unavailable")
		}
		return nil, models.CartSummary{}, apperrors.Wrap(apperrors.KindInternal, "failed to load product", err)
	}

	existing, err := s.cartRepo.GetByProduct(userID, productID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, models.CartSummary{}, apperrors.Wrap(apperrors.KindInternal, "failed to load cart line", err)
	}

	var line *models.CartLine
	if existing != nil {
		newQuantity := existing.Quantity + quantity
		if product.Stock < newQuantity {
			return nil, models.CartSummary{}, apperrors.Newf(apperrors.KindInsufficientStock,
				"Cannot add %d more items. Only %d more available", quantity, product.Stock-existing.Quantity)
		}
		existing.Quantity = newQuantity
		if err := s.cartRepo.Save(existing); err != nil {
			return nil, models.CartSummary{}, apperrors.Wrap(apperrors.KindInternal, "failed to update cart line", err)
		}
		line = existing
	} else {
		if product.Stock < quantity {
			return nil, models.CartSummary{}, apperrors.Newf(apperrors.KindInsufficientStock,
				"Only %d items available in stock", product.Stock)
		}
		line = &models.CartLine{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.cartRepo.Create(line); err != nil {
			return nil, models.CartSummary{}, apperrors.Wrap(apperrors.KindInternal, "failed to add item to cart", err)
		}
	}

	summary, err := s.Summary(userID)
	if err != nil {
		return nil, models.CartSummary{}, err
	}

	if s.emitter != nil {
		s.emitter.CartItemAdded(userID, lineView(line, product))
		s.emitter.CartUpdated(userID, summary)
	}
	return line, summary, nil
}

// UpdateQuantity sets a line to an absolute quantity, re-validated against
// live stock. Zero is not a valid quantity here; callers wanting zero should
// remove the line.
func (s *CartService) UpdateQuantity(userID, lineID string, quantity int) (models.CartSummary, error) {
	if quantity < 1 {
		return models.CartSummary{}, apperrors.Validation("quantity must be at least 1")
	}

	line, err := s.cartRepo.GetByID(userID, lineID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.CartSummary{}, apperrors.NotFound("cart item not found")
		}
		return models.CartSummary{}, apperrors.Wrap(apperrors.KindInternal, "failed to load cart line", err)
	}

	product, err := s.productRepo.GetByID(line.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.CartSummary{}, apperrors.NotFound("product is no longer available")
		}
		return models.CartSummary{}, apperrors.Wrap(apperrors.KindInternal, "failed to load product", err)
	}
	if !product.IsActive {
		return models.CartSummary{}, apperrors.NotFound("product is no longer available")
	}
	if product.Stock < quantity {
		return models.CartSummary{}, apperrors.Newf(apperrors.KindInsufficientStock,
			"Only %d items available in stock", product.Stock)
	}

	line.Quantity = quantity
	if err := s.cartRepo.Save(line); err != nil {
		return models.CartSummary{}, apperrors.Wrap(apperrors.KindInternal, "failed to update cart line", err)
	}

	summary, err := s.Summary(userID)
	if err != nil {
		return models.CartSummary{}, err
	}
	if s.emitter != nil {
		s.emitter.CartUpdated(userID, summary)
	}
	return summary, nil
}

// RemoveItem deletes one line. Removing an already-removed line reports not
// found rather than success.
func (s *CartService) RemoveItem(userID, lineID string) (models.CartSummary, error) {
	if err := s.cartRepo.Delete(userID, lineID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.CartSummary{}, apperrors.NotFound("cart item not found")
		}
		return models.CartSummary{}, apperrors.Wrap(apperrors.KindInternal, "failed to remove cart line", err)
	}

	summary, err := s.Summary(userID)
	if err != nil {
		return models.CartSummary{}, err
	}
	if s.emitter != nil {
		s.emitter.CartItemRemoved(userID, lineID)
		s.emitter.CartUpdated(userID, summary)
	}
	return summary, nil
}

// Clear deletes every line for the owner. Clearing an empty cart succeeds.
func (s *CartService) Clear(userID string) (models.CartSummary, error) {
	if err := s.cartRepo.DeleteByUser(userID); err != nil {
		return models.CartSummary{}, apperrors.Wrap(apperrors.KindInternal, "failed to clear cart", err)
	}
	if s.emitter != nil {
		s.emitter.CartCleared(userID)
	}
	return models.EmptyCartSummary(), nil
}

// Summary is a pure read of the cart with display fields joined live from the
// current product records. Lines whose product row has been hard-removed are
// skipped.
func (s *CartService) Summary(userID string) (models.CartSummary, error) {
	lines, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return models.CartSummary{}, apperrors.Wrap(apperrors.KindInternal, "failed to load cart", err)
	}

	summary := models.EmptyCartSummary()
	for i := range lines {
		product, err := s.productRepo.GetByID(lines[i].ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				s.log.Warn("cart line references missing product",
					zap.String("lineId", lines[i].ID), zap.String("productId", lines[i].ProductID))
				continue
			}
			return models.CartSummary{}, apperrors.Wrap(apperrors.KindInternal, "failed to load product", err)
		}
		view := lineView(&lines[i], product)
		summary.Items = append(summary.Items, view)
		summary.TotalAmount += view.TotalPrice
		summary.TotalItems += lines[i].Quantity
	}
	summary.FormattedTotalAmount = models.FormatPrice(summary.TotalAmount)
	return summary, nil
}

func lineView(line *models.CartLine, product *models.Product) models.CartLineView {
	total := product.Price * float64(line.Quantity)
	return models.CartLineView{
		ID:                  line.ID,
		UserID:              line.UserID,
		ProductID:           line.ProductID,
		Quantity:            line.Quantity,
		DateAdded:           line.DateAdded,
		Product:             product.View(),
		TotalPrice:          total,
		FormattedTotalPrice: models.FormatPrice(total),
	}
}

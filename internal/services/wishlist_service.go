package services

import (
	"errors"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/realtime"
)

// WishlistService is the per-owner saved-products ledger. Same uniqueness
// invariant as the cart, no quantity concept.
type WishlistService struct {
	wishlistRepo repositories.WishlistRepository
	productRepo  repositories.ProductRepository
	emitter      *realtime.Emitter
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(wishlistRepo repositories.WishlistRepository, productRepo repositories.ProductRepository, emitter *realtime.Emitter) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		emitter:      emitter,
	}
}

// Add saves a product to the owner's wishlist. Adding a product that is
// already saved returns the existing entry without creating a duplicate row
// or re-emitting an event.
func (s *WishlistService) Add(userID, productID string) (*models.WishlistEntryView, bool, error) {
	product, err := s.productRepo.GetActive(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, apperrors.NotFound("product not found or unavailable")
		}
		return nil, false, apperrors.Wrap(apperrors.KindInternal, "failed to load product", err)
	}

	existing, err := s.wishlistRepo.GetByProduct(userID, productID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, apperrors.Wrap(apperrors.KindInternal, "failed to load wishlist entry", err)
	}
	if existing != nil {
		view := entryView(existing, product)
		return &view, false, nil
	}

	entry := &models.WishlistEntry{UserID: userID, ProductID: productID}
	if err := s.wishlistRepo.Create(entry); err != nil {
		return nil, false, apperrors.Wrap(apperrors.KindInternal, "failed to add wishlist entry", err)
	}

	view := entryView(entry, product)
	if s.emitter != nil {
		s.emitter.WishlistItemAdded(userID, view)
	}
	return &view, true, nil
}

// Remove deletes one entry; removing an absent entry reports not found.
func (s *WishlistService) Remove(userID, entryID string) error {
	if err := s.wishlistRepo.Delete(userID, entryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("wishlist item not found")
		}
		return apperrors.Wrap(apperrors.KindInternal, "failed to remove wishlist entry", err)
	}
	if s.emitter != nil {
		s.emitter.WishlistItemRemoved(userID, entryID)
	}
	return nil
}

// List returns the owner's wishlist joined live against the catalog. Entries
// whose product has been removed are skipped.
func (s *WishlistService) List(userID string) ([]models.WishlistEntryView, error) {
	entries, err := s.wishlistRepo.ListByUser(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load wishlist", err)
	}

	views := make([]models.WishlistEntryView, 0, len(entries))
	for i := range entries {
		product, err := s.productRepo.GetByID(entries[i].ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load product", err)
		}
		views = append(views, entryView(&entries[i], product))
	}
	return views, nil
}

// Contains reports whether the owner has saved the given product. Used to
// enrich product responses for authenticated readers.
func (s *WishlistService) Contains(userID, productID string) (bool, error) {
	_, err := s.wishlistRepo.GetByProduct(userID, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.KindInternal, "failed to check wishlist", err)
	}
	return true, nil
}

func entryView(entry *models.WishlistEntry, product *models.Product) models.WishlistEntryView {
	return models.WishlistEntryView{
		ID:        entry.ID,
		UserID:    entry.UserID,
		ProductID: entry.ProductID,
		DateAdded: entry.DateAdded,
		Product:   product.View(),
	}
}

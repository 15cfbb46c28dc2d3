package services_test

import (
	"testing"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartFixture() (*services.CartService, *MockCartRepository, *MockProductRepository, *recordingPublisher) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	pub := &recordingPublisher{}
	svc := services.NewCartService(cartRepo, productRepo, realtime.NewEmitter(pub), nil)
	return svc, cartRepo, productRepo, pub
}

func TestCartService_AddItem(t *testing.T) {
	svc, cartRepo, productRepo, pub := newCartFixture()

	product := &models.Product{ID: "p1", Title: "Wireless Mouse", Price: 10.0, Stock: 5, IsActive: true}
	productRepo.On("GetActive", "p1").Return(product, nil).Once()
	cartRepo.On("GetByProduct", "u1", "p1").Return(nil, repositories.ErrNotFound).Once()
	cartRepo.On("Create", mock.AnythingOfType("*models.CartLine")).Run(func(args mock.Arguments) {
		line := args.Get(0).(*models.CartLine)
		line.ID = "line-1"
	}).Return(nil).Once()
	cartRepo.On("ListByUser", "u1").Return([]models.CartLine{
		{ID: "line-1", UserID: "u1", ProductID: "p1", Quantity: 3},
	}, nil).Once()
	productRepo.On("GetByID", "p1").Return(product, nil).Once()

	line, summary, err := svc.AddItem("u1", "p1", 3)

	assert.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 30.0, summary.TotalAmount)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, "₹30.00", summary.FormattedTotalAmount)
	assert.Equal(t, []string{"cart:item-added", "cart:updated"}, pub.eventNames())
	cartRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestCartService_AddItem_QuantityBelowOne(t *testing.T) {
	svc, _, _, pub := newCartFixture()

	_, _, err := svc.AddItem("u1", "p1", 0)

	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Empty(t, pub.events)
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	svc, _, productRepo, pub := newCartFixture()

	productRepo.On("GetActive", "ghost").Return(nil, repositories.ErrNotFound).Once()

	_, _, err := svc.AddItem("u1", "ghost", 1)

	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.Empty(t, pub.events)
	productRepo.AssertExpectations(t)
}

func TestCartService_AddItem_FreshAddExceedsStock(t *testing.T) {
	svc, cartRepo, productRepo, pub := newCartFixture()

	product := &models.Product{ID: "p1", Title: "Wireless Mouse", Price: 10.0, Stock: 5, IsActive: true}
	productRepo.On("GetActive", "p1").Return(product, nil).Once()
	cartRepo.On("GetByProduct", "u1", "p1").Return(nil, repositories.ErrNotFound).Once()

	_, _, err := svc.AddItem("u1", "p1", 6)

	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInsufficientStock))
	assert.Contains(t, err.Error(), "Only 5 items available in stock")
	assert.Empty(t, pub.events)
	cartRepo.AssertExpectations(t)
}

func TestCartService_AddItem_IncrementExceedsStock(t *testing.T) {
	svc, cartRepo, productRepo, pub := newCartFixture()

	// Stock 5 with 4 already in the cart: asking for 2 more must be rejected
	// with the remaining headroom, and the existing line stays untouched.
	product := &models.Product{ID: "p1", Title: "Wireless Mouse", Price: 10.0, Stock: 5, IsActive: true}
	existing := &models.CartLine{ID: "line-1", UserID: "u1", ProductID: "p1", Quantity: 4}
	productRepo.On("GetActive", "p1").Return(product, nil).Once()
	cartRepo.On("GetByProduct", "u1", "p1").Return(existing, nil).Once()

	_, _, err := svc.AddItem("u1", "p1", 2)

	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInsufficientStock))
	assert.Contains(t, err.Error(), "Cannot add 2 more items. Only 1 more available")
	assert.Empty(t, pub.events)
	cartRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestCartService_AddItem_IncrementsExistingLine(t *testing.T) {
	svc, cartRepo, productRepo, pub := newCartFixture()

	product := &models.Product{ID: "p1", Title: "Wireless Mouse", Price: 10.0, Stock: 5, IsActive: true}
	existing := &models.CartLine{ID: "line-1", UserID: "u1", ProductID: "p1", Quantity: 2}
	productRepo.On("GetActive", "p1").Return(product, nil).Once()
	cartRepo.On("GetByProduct", "u1", "p1").Return(existing, nil).Once()
	cartRepo.On("Save", existing).Return(nil).Once()
	cartRepo.On("ListByUser", "u1").Return([]models.CartLine{*existing}, nil).Once()
	productRepo.On("GetByID", "p1").Return(product, nil).Once()

	line, summary, err := svc.AddItem("u1", "p1", 3)

	assert.NoError(t, err)
	assert.Equal(t, "line-1", line.ID)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, 50.0, summary.TotalAmount)
	assert.Equal(t, []string{"cart:item-added", "cart:updated"}, pub.eventNames())
	cartRepo.AssertExpectations(t)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	svc, cartRepo, productRepo, pub := newCartFixture()

	product := &models.Product{ID: "p1", Title: "Wireless Mouse", Price: 10.0, Stock: 5, IsActive: true}
	line := &models.CartLine{ID: "line-1", UserID: "u1", ProductID: "p1", Quantity: 2}
	cartRepo.On("GetByID", "u1", "line-1").Return(line, nil).Once()
	productRepo.On("GetByID", "p1").Return(product, nil).Twice()
	cartRepo.On("Save", line).Return(nil).Once()
	cartRepo.On("ListByUser", "u1").Return([]models.CartLine{*line}, nil).Once()

	summary, err := svc.UpdateQuantity("u1", "line-1", 4)

	assert.NoError(t, err)
	assert.Equal(t, 40.0, summary.TotalAmount)
	assert.Equal(t, []string{"cart:updated"}, pub.eventNames())
	cartRepo.AssertExpectations(t)
}

func TestCartService_UpdateQuantity_DeactivatedProduct(t *testing.T) {
	svc, cartRepo, productRepo, _ := newCartFixture()

	line := &models.CartLine{ID: "line-1", UserID: "u1", ProductID: "p1", Quantity: 2}
	cartRepo.On("GetByID", "u1", "line-1").Return(line, nil).Once()
	productRepo.On("GetByID", "p1").Return(&models.Product{ID: "p1", IsActive: false}, nil).Once()

	_, err := svc.UpdateQuantity("u1", "line-1", 3)

	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.Contains(t, err.Error(), "product is no longer available")
}

func TestCartService_RemoveItem_AlreadyGone(t *testing.T) {
	svc, cartRepo, _, pub := newCartFixture()

	cartRepo.On("Delete", "u1", "line-1").Return(repositories.ErrNotFound).Once()

	_, err := svc.RemoveItem("u1", "line-1")

	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.Empty(t, pub.events)
	cartRepo.AssertExpectations(t)
}

func TestCartService_RemoveItem(t *testing.T) {
	svc, cartRepo, _, pub := newCartFixture()

	cartRepo.On("Delete", "u1", "line-1").Return(nil).Once()
	cartRepo.On("ListByUser", "u1").Return([]models.CartLine{}, nil).Once()

	summary, err := svc.RemoveItem("u1", "line-1")

	assert.NoError(t, err)
	assert.Equal(t, 0.0, summary.TotalAmount)
	assert.Empty(t, summary.Items)
	assert.Equal(t, []string{"cart:item-removed", "cart:updated"}, pub.eventNames())
}

func TestCartService_Clear(t *testing.T) {
	svc, cartRepo, _, pub := newCartFixture()

	cartRepo.On("DeleteByUser", "u1").Return(nil).Once()

	summary, err := svc.Clear("u1")

	assert.NoError(t, err)
	assert.Equal(t, 0, summary.TotalItems)
	assert.Equal(t, "₹0.00", summary.FormattedTotalAmount)
	assert.Equal(t, []string{"cart:cleared"}, pub.eventNames())
	cartRepo.AssertExpectations(t)
}

func TestCartService_Summary_SkipsMissingProducts(t *testing.T) {
	svc, cartRepo, productRepo, _ := newCartFixture()

	product := &models.Product{ID: "p1", Title: "Wireless Mouse", Price: 10.0, Stock: 5, IsActive: true}
	cartRepo.On("ListByUser", "u1").Return([]models.CartLine{
		{ID: "line-1", UserID: "u1", ProductID: "p1", Quantity: 2},
		{ID: "line-2", UserID: "u1", ProductID: "gone", Quantity: 1},
	}, nil).Once()
	productRepo.On("GetByID", "p1").Return(product, nil).Once()
	productRepo.On("GetByID", "gone").Return(nil, repositories.ErrNotFound).Once()

	summary, err := svc.Summary("u1")

	assert.NoError(t, err)
	assert.Len(t, summary.Items, 1)
	assert.Equal(t, 20.0, summary.TotalAmount)
	assert.Equal(t, 2, summary.TotalItems)
}

package services_test

import (
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(filter repositories.ProductFilter) ([]models.Product, int64, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetActive(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Deactivate(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of repositories.CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List() ([]models.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByIDOrName(idOrName string) (*models.Category, error) {
	args := m.Called(idOrName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of repositories.CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) ListByUser(userID string) ([]models.CartLine, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartLine), args.Error(1)
}

func (m *MockCartRepository) GetByID(userID, lineID string) (*models.CartLine, error) {
	args := m.Called(userID, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartLine), args.Error(1)
}

func (m *MockCartRepository) GetByProduct(userID, productID string) (*models.CartLine, error) {
	args := m.Called(userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartLine), args.Error(1)
}

func (m *MockCartRepository) Create(line *models.CartLine) error {
	args := m.Called(line)
	return args.Error(0)
}

func (m *MockCartRepository) Save(line *models.CartLine) error {
	args := m.Called(line)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(userID, lineID string) error {
	args := m.Called(userID, lineID)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteByUser(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockWishlistRepository is a mock implementation of repositories.WishlistRepository.
type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) ListByUser(userID string) ([]models.WishlistEntry, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WishlistEntry), args.Error(1)
}

func (m *MockWishlistRepository) GetByProduct(userID, productID string) (*models.WishlistEntry, error) {
	args := m.Called(userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WishlistEntry), args.Error(1)
}

func (m *MockWishlistRepository) Create(entry *models.WishlistEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockWishlistRepository) Delete(userID, entryID string) error {
	args := m.Called(userID, entryID)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of repositories.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByUser(userID, orderID string) (*models.Order, error) {
	args := m.Called(userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(orderID string) (*models.Order, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(orderID string, status models.OrderStatus, trackingNumber string) error {
	args := m.Called(orderID, status, trackingNumber)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdatePayment(orderID string, status models.PaymentStatus, paymentID string) error {
	args := m.Called(orderID, status, paymentID)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// recordedEvent captures one fanout emission for assertions.
type recordedEvent struct {
	Room  string
	Event string
	Data  interface{}
}

// recordingPublisher is a realtime.Publisher fake that records instead of
// fanning out.
type recordingPublisher struct {
	events []recordedEvent
}

func (p *recordingPublisher) Publish(room, event string, data interface{}) {
	p.events = append(p.events, recordedEvent{Room: room, Event: event, Data: data})
}

func (p *recordingPublisher) eventNames() []string {
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.Event)
	}
	return names
}

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

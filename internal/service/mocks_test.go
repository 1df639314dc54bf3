package service_test

import (
	"context"

	"github.com/iyhunko/product-catalog/internal/cache"
	"github.com/iyhunko/product-catalog/internal/media"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/iyhunko/product-catalog/internal/sqs"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of repository.ProductRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	args := m.Called(ctx, product)
	if fn, ok := args.Get(0).(func(context.Context, *model.Product) *model.Product); ok {
		return fn(ctx, product), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, query repository.Query) ([]*model.Product, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context, query repository.Query) (int, error) {
	args := m.Called(ctx, query)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	args := m.Called(ctx, product)
	if fn, ok := args.Get(0).(func(context.Context, *model.Product) *model.Product); ok {
		return fn(ctx, product), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockRepository) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WithinTransaction records the call and runs fn against the mock itself.
func (m *MockRepository) WithinTransaction(ctx context.Context, fn func(repo repository.ProductRepository) error) error {
	m.Called(ctx)
	return fn(m)
}

// MockCartRepository is a mock implementation of repository.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) CreateCart(ctx context.Context, cart *model.ShoppingCart) (*model.ShoppingCart, error) {
	args := m.Called(ctx, cart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShoppingCart), args.Error(1)
}

func (m *MockCartRepository) AddItem(ctx context.Context, item *model.ShoppingCartItem) (*model.ShoppingCartItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShoppingCartItem), args.Error(1)
}

func (m *MockCartRepository) ListItemsByProduct(ctx context.Context, productID int64) ([]model.ShoppingCartItem, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShoppingCartItem), args.Error(1)
}

// MockSummaryCache is a mock implementation of cache.SummaryCache
type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) Get(ctx context.Context, productID int64) (cache.Summary, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(cache.Summary), args.Error(1)
}

func (m *MockSummaryCache) Set(ctx context.Context, productID int64, summary cache.Summary) error {
	args := m.Called(ctx, productID, summary)
	return args.Error(0)
}

func (m *MockSummaryCache) Delete(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// MockImageStorage is a mock implementation of service.ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) SaveImage(upload media.Upload) (string, error) {
	args := m.Called(upload)
	return args.String(0), args.Error(1)
}

// MockNotifier is a mock implementation of service.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PublishProductMessage(ctx context.Context, msg sqs.ProductMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

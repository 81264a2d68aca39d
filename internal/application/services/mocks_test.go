package services_test

import (
	"context"
	"path"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
)

type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) FetchAll(ctx context.Context, spec entities.FilterSpec) ([]*entities.Provider, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Provider), args.Error(1)
}

func (m *MockProviderRepository) FetchByID(ctx context.Context, id int64) (*entities.Provider, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entities.Provider), args.Bool(1), args.Error(2)
}

func (m *MockProviderRepository) Create(ctx context.Context, provider *entities.Provider) (*entities.Provider, error) {
	args := m.Called(ctx, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Provider), args.Error(1)
}

func (m *MockProviderRepository) Update(ctx context.Context, id int64, provider *entities.Provider) (*entities.Provider, error) {
	args := m.Called(ctx, id, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Provider), args.Error(1)
}

func (m *MockProviderRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockProviderSearchRepository struct {
	mock.Mock
}

func (m *MockProviderSearchRepository) Suggest(ctx context.Context, query string, limit int) ([]*entities.Provider, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Provider), args.Error(1)
}

func (m *MockProviderSearchRepository) Index(ctx context.Context, provider *entities.Provider) error {
	return m.Called(ctx, provider).Error(0)
}

func (m *MockProviderSearchRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockEventBus struct {
	mu        sync.Mutex
	published []*entities.ProviderEvent
	channels  []string
}

func (m *MockEventBus) Publish(_ context.Context, channel string, event *entities.ProviderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, channel)
	m.published = append(m.published, event)
	return nil
}

func (m *MockEventBus) Subscribe(context.Context, string) (<-chan *entities.ProviderEvent, error) {
	return make(chan *entities.ProviderEvent), nil
}

func (m *MockEventBus) Close() error { return nil }

func (m *MockEventBus) Published() []*entities.ProviderEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entities.ProviderEvent(nil), m.published...)
}

// MockCacheProvider is a map-backed cache recording deleted keys
type MockCacheProvider struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func NewMockCacheProvider() *MockCacheProvider {
	return &MockCacheProvider{data: make(map[string][]byte)}
}

func (m *MockCacheProvider) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, providers.ErrCacheMiss
}

func (m *MockCacheProvider) Set(_ context.Context, key string, value []byte, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCacheProvider) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *MockCacheProvider) DeletePattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.data, key)
			m.deleted = append(m.deleted, key)
		}
	}
	return nil
}

func (m *MockCacheProvider) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

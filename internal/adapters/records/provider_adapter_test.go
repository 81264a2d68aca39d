package records

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
	apperrors "github.com/zatekoja/holistic-provider-directory/pkg/errors"
)

type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Query(ctx context.Context, query providers.RecordQuery) (*providers.RecordResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.RecordResponse), args.Error(1)
}

func (m *MockRecordStore) Get(ctx context.Context, id int64) (*providers.RecordResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.RecordResponse), args.Error(1)
}

func (m *MockRecordStore) Create(ctx context.Context, record *entities.ProviderRecord) (*providers.RecordResponse, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.RecordResponse), args.Error(1)
}

func (m *MockRecordStore) Update(ctx context.Context, id int64, record *entities.ProviderRecord) (*providers.RecordResponse, error) {
	args := m.Called(ctx, id, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.RecordResponse), args.Error(1)
}

func (m *MockRecordStore) Delete(ctx context.Context, id int64) (*providers.RecordResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.RecordResponse), args.Error(1)
}

func TestProviderAdapter_FetchAll(t *testing.T) {
	store := new(MockRecordStore)
	adapter := NewProviderAdapter(store)
	ctx := context.Background()
	spec := entities.FilterSpec{Location: "WA"}

	store.On("Query", ctx, QueryFromSpec(spec)).Return(&providers.RecordResponse{
		Success: true,
		Data:    []entities.ProviderRecord{flatRecord()},
	}, nil)

	result, err := adapter.FetchAll(ctx, spec)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Dr. Sarah Chen", result[0].Name)
	store.AssertExpectations(t)
}

func TestProviderAdapter_FetchAll_ToleratesAbsentData(t *testing.T) {
	store := new(MockRecordStore)
	adapter := NewProviderAdapter(store)
	ctx := context.Background()

	store.On("Query", ctx, mock.Anything).Return(&providers.RecordResponse{Success: true}, nil)

	result, err := adapter.FetchAll(ctx, entities.FilterSpec{})

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestProviderAdapter_FetchAll_FailureIsDistinguishableFromEmpty(t *testing.T) {
	ctx := context.Background()

	outage := new(MockRecordStore)
	outage.On("Query", ctx, mock.Anything).Return(nil, errors.New("connection refused"))
	_, err := NewProviderAdapter(outage).FetchAll(ctx, entities.FilterSpec{})
	require.Error(t, err)
	assert.True(t, apperrors.HasType(err, apperrors.ErrorTypePersistence))

	refused := new(MockRecordStore)
	refused.On("Query", ctx, mock.Anything).Return(&providers.RecordResponse{Success: false, Message: "quota exceeded"}, nil)
	_, err = NewProviderAdapter(refused).FetchAll(ctx, entities.FilterSpec{})
	require.Error(t, err)
	assert.True(t, apperrors.HasType(err, apperrors.ErrorTypePersistence))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestProviderAdapter_FetchByID_NotFoundVersusOutage(t *testing.T) {
	ctx := context.Background()

	missing := new(MockRecordStore)
	missing.On("Get", ctx, int64(999999)).Return(&providers.RecordResponse{Success: true}, nil)
	provider, found, err := NewProviderAdapter(missing).FetchByID(ctx, 999999)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, provider)

	outage := new(MockRecordStore)
	outage.On("Get", ctx, int64(999999)).Return(nil, errors.New("timeout"))
	provider, found, err = NewProviderAdapter(outage).FetchByID(ctx, 999999)
	require.Error(t, err)
	assert.True(t, apperrors.HasType(err, apperrors.ErrorTypePersistence))
	assert.False(t, found)
	assert.Nil(t, provider)
}

func TestProviderAdapter_FetchByID_Found(t *testing.T) {
	store := new(MockRecordStore)
	ctx := context.Background()
	store.On("Get", ctx, int64(7)).Return(&providers.RecordResponse{
		Success: true,
		Data:    []entities.ProviderRecord{flatRecord()},
	}, nil)

	provider, found, err := NewProviderAdapter(store).FetchByID(ctx, 7)

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(7), provider.ID)
}

func TestProviderAdapter_FetchByID_NonPositiveSkipsStore(t *testing.T) {
	store := new(MockRecordStore)

	_, found, err := NewProviderAdapter(store).FetchByID(context.Background(), 0)

	assert.NoError(t, err)
	assert.False(t, found)
	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestProviderAdapter_Create(t *testing.T) {
	store := new(MockRecordStore)
	ctx := context.Background()
	input := Normalize(flatRecord())
	input.ID = 55

	stored := flatRecord()
	stored.ID = 101
	store.On("Create", ctx, mock.MatchedBy(func(rec *entities.ProviderRecord) bool {
		return rec.ID == 0 && rec.Specialty.String() == "Functional Medicine,Integrative Nutrition"
	})).Return(&providers.RecordResponse{Success: true, Data: []entities.ProviderRecord{stored}}, nil)

	created, err := NewProviderAdapter(store).Create(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, int64(101), created.ID)
	store.AssertExpectations(t)
}

func TestProviderAdapter_Create_ValidationFailure(t *testing.T) {
	store := new(MockRecordStore)
	adapter := NewProviderAdapter(store)

	_, err := adapter.Create(context.Background(), &entities.Provider{Name: "  "})
	require.Error(t, err)
	assert.True(t, apperrors.HasType(err, apperrors.ErrorTypePersistence))
	assert.True(t, apperrors.HasType(err, apperrors.ErrorTypeValidation))

	_, err = adapter.Create(context.Background(), &entities.Provider{Name: "A", Rating: 6})
	assert.True(t, apperrors.HasType(err, apperrors.ErrorTypeValidation))

	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProviderAdapter_Update(t *testing.T) {
	store := new(MockRecordStore)
	ctx := context.Background()
	input := Normalize(flatRecord())
	input.Rating = 4.2

	updated := Denormalize(input)
	store.On("Update", ctx, int64(7), mock.MatchedBy(func(rec *entities.ProviderRecord) bool {
		return rec.ID == 7 && rec.Rating == 4.2
	})).Return(&providers.RecordResponse{Success: true, Data: []entities.ProviderRecord{updated}}, nil)

	result, err := NewProviderAdapter(store).Update(ctx, 7, input)

	require.NoError(t, err)
	assert.Equal(t, 4.2, result.Rating)
}

func TestProviderAdapter_Update_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewProviderAdapter(new(MockRecordStore)).Update(ctx, -1, &entities.Provider{Name: "A"})
	assert.True(t, apperrors.HasType(err, apperrors.ErrorTypeValidation))

	missing := new(MockRecordStore)
	missing.On("Update", ctx, int64(8), mock.Anything).Return(&providers.RecordResponse{Success: true}, nil)
	_, err = NewProviderAdapter(missing).Update(ctx, 8, &entities.Provider{Name: "A"})
	assert.True(t, apperrors.HasType(err, apperrors.ErrorTypePersistence))
	assert.True(t, apperrors.HasType(err, apperrors.ErrorTypeNotFound))
}

func TestProviderAdapter_Delete(t *testing.T) {
	store := new(MockRecordStore)
	ctx := context.Background()
	store.On("Delete", ctx, int64(7)).Return(&providers.RecordResponse{
		Success: true,
		Data:    []entities.ProviderRecord{flatRecord()},
	}, nil)
	store.On("Delete", ctx, int64(8)).Return(&providers.RecordResponse{Success: true}, nil)
	store.On("Delete", ctx, int64(9)).Return(nil, errors.New("broken pipe"))

	adapter := NewProviderAdapter(store)

	deleted, err := adapter.Delete(ctx, 7)
	assert.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = adapter.Delete(ctx, 8)
	assert.NoError(t, err)
	assert.False(t, deleted)

	_, err = adapter.Delete(ctx, 9)
	assert.True(t, apperrors.HasType(err, apperrors.ErrorTypePersistence))
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/pinewood-labs/customer-store/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository es un mock de CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) ListAll(ctx context.Context) ([]models.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Insert(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) ReplaceByID(ctx context.Context, customer *models.Customer) (bool, error) {
	args := m.Called(ctx, customer)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) DeleteByID(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func newTestService() (*CustomerService, *MockCustomerRepository) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := new(MockCustomerRepository)
	return NewCustomerService(repo, logger), repo
}

func validCustomer() *models.Customer {
	return &models.Customer{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@x.com",
		Age:       30,
	}
}

func TestCustomerService_ListAll(t *testing.T) {
	t.Run("returns every customer", func(t *testing.T) {
		svc, repo := newTestService()
		stored := []models.Customer{{ID: 1, FirstName: "John"}, {ID: 2, FirstName: "Jane"}}
		repo.On("ListAll", mock.Anything).Return(stored, nil)

		customers, err := svc.ListAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, stored, customers)
		repo.AssertExpectations(t)
	})

	t.Run("returns empty slice when none exist", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("ListAll", mock.Anything).Return(nil, nil)

		customers, err := svc.ListAll(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, customers)
		assert.Empty(t, customers)
	})

	t.Run("propagates storage failures", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("ListAll", mock.Anything).Return(nil, fmt.Errorf("query: %w", models.ErrStorageUnavailable))

		customers, err := svc.ListAll(context.Background())

		assert.Nil(t, customers)
		assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	})
}

func TestCustomerService_GetByID(t *testing.T) {
	t.Run("returns customer", func(t *testing.T) {
		svc, repo := newTestService()
		expected := &models.Customer{ID: 1, FirstName: "John", LastName: "Doe"}
		repo.On("GetByID", mock.Anything, 1).Return(expected, nil)

		customer, err := svc.GetByID(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, expected, customer)
	})

	t.Run("returns not found for missing id", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("GetByID", mock.Anything, 555).Return(nil, models.ErrCustomerNotFound)

		customer, err := svc.GetByID(context.Background(), 555)

		assert.Nil(t, customer)
		assert.ErrorIs(t, err, models.ErrCustomerNotFound)
	})
}

func TestCustomerService_Create(t *testing.T) {
	t.Run("persists valid customer", func(t *testing.T) {
		svc, repo := newTestService()
		customer := validCustomer()
		repo.On("Insert", mock.Anything, customer).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Customer).ID = 7
			}).
			Return(nil)

		err := svc.Create(context.Background(), customer)

		require.NoError(t, err)
		assert.Equal(t, 7, customer.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid customer before storage", func(t *testing.T) {
		svc, repo := newTestService()
		customer := validCustomer()
		customer.Age = 17

		err := svc.Create(context.Background(), customer)

		var validationErr *models.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, []string{"Age must be between 18 and 100"}, validationErr.Messages())
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("surfaces duplicate email as conflict", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("Insert", mock.Anything, mock.Anything).Return(fmt.Errorf("insert: %w", models.ErrDuplicateEmail))

		err := svc.Create(context.Background(), validCustomer())

		assert.ErrorIs(t, err, models.ErrDuplicateEmail)
	})
}

func TestCustomerService_Update(t *testing.T) {
	t.Run("replaces existing customer", func(t *testing.T) {
		svc, repo := newTestService()
		customer := validCustomer()
		customer.ID = 3
		repo.On("ReplaceByID", mock.Anything, customer).Return(true, nil)

		require.NoError(t, svc.Update(context.Background(), customer))
		repo.AssertExpectations(t)
	})

	t.Run("returns not found without changes for missing id", func(t *testing.T) {
		svc, repo := newTestService()
		customer := validCustomer()
		customer.ID = 99
		repo.On("ReplaceByID", mock.Anything, customer).Return(false, nil)

		err := svc.Update(context.Background(), customer)

		assert.ErrorIs(t, err, models.ErrCustomerNotFound)
	})

	t.Run("rejects invalid customer before storage", func(t *testing.T) {
		svc, repo := newTestService()
		customer := validCustomer()
		customer.ID = 3
		customer.Email = "nope"

		err := svc.Update(context.Background(), customer)

		var validationErr *models.ValidationError
		assert.True(t, errors.As(err, &validationErr))
		repo.AssertNotCalled(t, "ReplaceByID", mock.Anything, mock.Anything)
	})

	t.Run("propagates storage failures", func(t *testing.T) {
		svc, repo := newTestService()
		customer := validCustomer()
		customer.ID = 3
		repo.On("ReplaceByID", mock.Anything, customer).Return(false, models.ErrStorageUnavailable)

		err := svc.Update(context.Background(), customer)

		assert.ErrorIs(t, err, models.ErrStorageUnavailable)
		assert.NotErrorIs(t, err, models.ErrCustomerNotFound)
	})
}

func TestCustomerService_Delete(t *testing.T) {
	t.Run("removes existing customer", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("DeleteByID", mock.Anything, 4).Return(true, nil)

		require.NoError(t, svc.Delete(context.Background(), 4))
		repo.AssertExpectations(t)
	})

	t.Run("returns not found for missing id", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("DeleteByID", mock.Anything, 4).Return(false, nil)

		err := svc.Delete(context.Background(), 4)

		assert.ErrorIs(t, err, models.ErrCustomerNotFound)
	})
}

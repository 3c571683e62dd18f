package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pinewood-labs/customer-store/internal/api"
	"github.com/pinewood-labs/customer-store/internal/database"
	"github.com/pinewood-labs/customer-store/internal/models"
	"github.com/pinewood-labs/customer-store/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newAPIServer levanta la API real sobre SQLite en memoria
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := newTestLogger()
	db, err := database.Open(sqlite.Open(":memory:"), logger)
	require.NoError(t, err)
	db.SQL().SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.AutoMigrate(&database.CustomerModel{}))

	service := services.NewCustomerService(database.NewCustomerRepository(db, logger), logger)
	handler := api.NewAPI(service, db, nil, logger)

	router := gin.New()
	router.GET("/health", handler.Health)
	handler.RegisterRoutes(router.Group("/api"))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	server := newAPIServer(t)
	return NewClient(server.URL+"/api/", 5*time.Second, newTestLogger())
}

func johnDoe() *models.Customer {
	return &models.Customer{
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john@x.com",
		PhoneNumber: "555-1234",
		Age:         30,
	}
}

func TestClient_Lifecycle(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	customers, err := client.ListCustomers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, customers)
	assert.Empty(t, customers)

	customer := johnDoe()
	require.NoError(t, client.CreateCustomer(ctx, customer))
	assert.Equal(t, 1, customer.ID)

	found, err := client.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer, found)

	customer.LastName = "Smith"
	require.NoError(t, client.UpdateCustomer(ctx, customer))

	customers, err = client.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Smith", customers[0].LastName)

	require.NoError(t, client.DeleteCustomer(ctx, customer.ID))

	_, err = client.GetCustomer(ctx, customer.ID)
	assert.ErrorIs(t, err, models.ErrCustomerNotFound)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Customer with ID 1 not found", apiErr.Message)
}

func TestClient_DuplicateEmail(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.CreateCustomer(ctx, johnDoe()))
	err := client.CreateCustomer(ctx, johnDoe())

	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, []string{"Customer with email john@x.com already exists"}, apiErr.Messages())
}

func TestClient_ValidationErrors(t *testing.T) {
	client := newTestClient(t)

	customer := johnDoe()
	customer.Age = 17
	err := client.CreateCustomer(context.Background(), customer)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, models.MessageValidationFailed, apiErr.Message)
	assert.Equal(t, []string{"Age must be between 18 and 100"}, apiErr.Messages())
}

func TestClient_UpdateMissing(t *testing.T) {
	client := newTestClient(t)

	customer := johnDoe()
	customer.ID = 42
	err := client.UpdateCustomer(context.Background(), customer)

	assert.ErrorIs(t, err, models.ErrCustomerNotFound)
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, newTestLogger())
	_, err := client.ListCustomers(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, []string{"Bad Gateway"}, apiErr.Messages())
	assert.NoError(t, apiErr.Unwrap())
}

func TestClient_StorageUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"The customer store is temporarily unavailable"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, newTestLogger())
	_, err := client.GetCustomer(context.Background(), 1)

	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
}

func TestClient_HealthCheck(t *testing.T) {
	client := newTestClient(t)
	assert.NoError(t, client.HealthCheck(context.Background()))

	unreachable := NewClient("http://127.0.0.1:1/api", time.Second, newTestLogger())
	assert.Error(t, unreachable.HealthCheck(context.Background()))
}

func TestClient_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1/api", time.Second, newTestLogger())

	_, err := client.ListCustomers(context.Background())

	assert.ErrorContains(t, err, "error calling customer API")
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

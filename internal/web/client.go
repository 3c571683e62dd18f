package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pinewood-labs/customer-store/internal/models"
	"github.com/sirupsen/logrus"
)

// APIError representa una respuesta no exitosa de la API de clientes
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

// Error implementa la interfaz error
func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("customer API returned %d: %s (%s)", e.StatusCode, e.Message, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("customer API returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap permite usar errors.Is con los errores del dominio
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return models.ErrCustomerNotFound
	case http.StatusConflict:
		return models.ErrDuplicateEmail
	case http.StatusServiceUnavailable:
		return models.ErrStorageUnavailable
	default:
		return nil
	}
}

// Messages retorna los mensajes a mostrar al usuario
func (e *APIError) Messages() []string {
	if len(e.Errors) > 0 {
		return e.Errors
	}
	if e.Message != "" {
		return []string{e.Message}
	}
	return []string{http.StatusText(e.StatusCode)}
}

// Client consume la API REST de clientes
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient crea un cliente para la API ubicada en baseURL (por ejemplo http://localhost:8081/api)
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ListCustomers obtiene todos los clientes
func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := c.do(ctx, http.MethodGet, "/customers", nil, &customers); err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}

// GetCustomer obtiene un cliente por ID
func (c *Client) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	var customer models.Customer
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer crea un cliente y actualiza customer con el registro creado
func (c *Client) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return c.do(ctx, http.MethodPost, "/customers", customer, customer)
}

// UpdateCustomer reemplaza el cliente con customer.ID
func (c *Client) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/customers/%d", customer.ID), customer, nil)
}

// DeleteCustomer elimina un cliente
func (c *Client) DeleteCustomer(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil, nil)
}

// HealthCheck consulta el endpoint /health del proceso de la API
func (c *Client) HealthCheck(ctx context.Context) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}
	u.Path = "/health"
	u.RawQuery = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("error creating health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling customer API health: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("customer API health returned %d", resp.StatusCode)
	}
	return nil
}

// do ejecuta una petición JSON; out puede ser nil
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).WithError(err).Error("Customer API request failed")
		return fmt.Errorf("error calling customer API: %w", err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start).String(),
	}).Debug("Customer API request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding customer API response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Message
		apiErr.Errors = body.Errors
	}
	return apiErr
}

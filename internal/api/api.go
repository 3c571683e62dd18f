package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pinewood-labs/customer-store/internal/middleware"
	"github.com/pinewood-labs/customer-store/internal/models"
	"github.com/pinewood-labs/customer-store/internal/services"
	"github.com/sirupsen/logrus"
)

// HealthChecker es una dependencia que puede reportar su salud
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// API maneja todos los endpoints de la API
type API struct {
	customerService *services.CustomerService
	database        HealthChecker
	redis           HealthChecker
	logger          *logrus.Logger
}

// NewAPI crea una nueva instancia de la API.
// redis puede ser nil cuando no está configurado.
func NewAPI(
	customerService *services.CustomerService,
	database HealthChecker,
	redis HealthChecker,
	logger *logrus.Logger,
) *API {
	return &API{
		customerService: customerService,
		database:        database,
		redis:           redis,
		logger:          logger,
	}
}

// RegisterRoutes registra los endpoints de clientes en el grupo recibido
func (api *API) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.GET("", api.ListCustomers)
		customers.GET("/:id", api.GetCustomer)
		customers.POST("", api.CreateCustomer)
		customers.PUT("/:id", api.UpdateCustomer)
		customers.DELETE("/:id", api.DeleteCustomer)
	}
}

// ListCustomers lista todos los clientes
func (api *API) ListCustomers(c *gin.Context) {
	customers, err := api.customerService.ListAll(c.Request.Context())
	if err != nil {
		api.handleError(c, err, 0, "")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer obtiene un cliente por ID
func (api *API) GetCustomer(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	customer, err := api.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		api.handleError(c, err, id, "")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// CreateCustomer crea un nuevo cliente
func (api *API) CreateCustomer(c *gin.Context) {
	var customer models.Customer
	if !api.bindCustomer(c, &customer) {
		return
	}

	// El ID lo asigna el almacenamiento
	customer.ID = 0

	if err := api.customerService.Create(c.Request.Context(), &customer); err != nil {
		api.handleError(c, err, 0, customer.Email)
		return
	}

	location := fmt.Sprintf("%s/%d", strings.TrimSuffix(c.Request.URL.Path, "/"), customer.ID)
	c.Header("Location", location)
	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer reemplaza todos los campos de un cliente
func (api *API) UpdateCustomer(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	var customer models.Customer
	if !api.bindCustomer(c, &customer) {
		return
	}

	// El cuerpo se valida antes de comparar IDs
	if err := customer.Validate(); err != nil {
		api.handleError(c, err, id, customer.Email)
		return
	}

	if customer.ID != id {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.MessageIDMismatch))
		return
	}

	if err := api.customerService.Update(c.Request.Context(), &customer); err != nil {
		api.handleError(c, err, id, customer.Email)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteCustomer elimina un cliente
func (api *API) DeleteCustomer(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	if err := api.customerService.Delete(c.Request.Context(), id); err != nil {
		api.handleError(c, err, id, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// Health reporta el estado de la base de datos y de Redis
func (api *API) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	checks := gin.H{}

	if err := api.database.HealthCheck(ctx); err != nil {
		api.logger.WithError(err).Error("Database health check failed")
		checks["database"] = "unavailable"
		status = "degraded"
		code = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	// Redis es opcional: su caída se reporta pero no degrada el servicio
	switch {
	case api.redis == nil:
		checks["redis"] = "disabled"
	case api.redis.HealthCheck(ctx) != nil:
		api.logger.Warn("Redis health check failed")
		checks["redis"] = "unavailable"
	default:
		checks["redis"] = "ok"
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"service":   "customer-api",
		"version":   "1.0.0",
		"checks":    checks,
	})
}

// parseID lee el parámetro :id; responde 400 si no es un entero
func (api *API) parseID(c *gin.Context) (int, bool) {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationErrorResponse([]string{
			fmt.Sprintf("The value '%s' is not valid for id.", raw),
		}))
		return 0, false
	}
	return id, true
}

// bindCustomer decodifica el cuerpo JSON; responde 400 si es inválido
func (api *API) bindCustomer(c *gin.Context, customer *models.Customer) bool {
	if err := c.ShouldBindJSON(customer); err != nil {
		api.requestLogger(c).WithError(err).Debug("Error binding customer request")
		c.JSON(http.StatusBadRequest, models.NewValidationErrorResponse([]string{models.MessageInvalidBody}))
		return false
	}
	return true
}

// handleError traduce errores del servicio a respuestas HTTP
func (api *API) handleError(c *gin.Context, err error, id int, email string) {
	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, models.NewValidationErrorResponse(validationErr.Messages()))
	case errors.Is(err, models.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, models.NewNotFoundErrorResponse(id))
	case errors.Is(err, models.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, models.NewConflictErrorResponse(email))
	case errors.Is(err, models.ErrStorageUnavailable):
		api.requestLogger(c).WithError(err).Error("Customer store unavailable")
		c.JSON(http.StatusServiceUnavailable, models.NewErrorResponse(models.MessageUnavailable))
	default:
		api.requestLogger(c).WithError(err).Error("Unexpected error handling customer request")
		c.JSON(http.StatusInternalServerError, models.NewInternalErrorResponse())
	}
}

func (api *API) requestLogger(c *gin.Context) *logrus.Entry {
	return api.logger.WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	})
}

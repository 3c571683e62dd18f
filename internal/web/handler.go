package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/pinewood-labs/customer-store/internal/middleware"
	"github.com/pinewood-labs/customer-store/internal/models"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	messageCustomerNotFound = "Customer not found"
	messageInvalidID        = "Invalid customer ID"
	messageInvalidForm      = "The submitted form contains invalid values"
	messageAPIUnavailable   = "The customer service is currently unavailable. Please try again later."
	messageInvalidCSRFToken = "The form has expired or was not submitted from this site. Please reload the page and try again."
)

// CustomerAPI es la API de clientes consumida por las vistas
type CustomerAPI interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id int) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id int) error
	HealthCheck(ctx context.Context) error
}

// Handler es el controlador MVC del front-end
type Handler struct {
	api           CustomerAPI
	reports       *ReportGenerator
	templates     *template.Template
	csrfKey       []byte
	secureCookies bool
	logger        *logrus.Logger
}

// NewHandler crea el controlador y carga las plantillas embebidas.
// csrfKey (32 bytes) firma los tokens anti-CSRF de los formularios.
func NewHandler(api CustomerAPI, csrfKey []byte, secureCookies bool, logger *logrus.Logger) (*Handler, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		api:           api,
		reports:       NewReportGenerator(logger),
		templates:     templates,
		csrfKey:       csrfKey,
		secureCookies: secureCookies,
		logger:        logger,
	}, nil
}

// RegisterRoutes registra las vistas y las plantillas en el router
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(h.templates)

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/customers")
	})
	router.GET("/health", h.Health)

	customers := router.Group("/customers")
	customers.Use(middleware.CSRF(h.csrfKey, h.secureCookies, h.rejectForgedForm))
	{
		customers.GET("", h.Index)
		customers.GET("/export", h.Export)
		customers.GET("/create", h.CreateForm)
		customers.POST("/create", h.Create)
		customers.GET("/:id", h.Details)
		customers.GET("/:id/edit", h.EditForm)
		customers.POST("/:id/edit", h.Edit)
		customers.GET("/:id/delete", h.DeleteForm)
		customers.POST("/:id/delete", h.Delete)
	}
}

// Index muestra el listado de clientes
func (h *Handler) Index(c *gin.Context) {
	customers, err := h.api.ListCustomers(c.Request.Context())
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":     "Customers",
		"Customers": customers,
	})
}

// Export descarga el listado de clientes en PDF
func (h *Handler) Export(c *gin.Context) {
	customers, err := h.api.ListCustomers(c.Request.Context())
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	data, err := h.reports.CustomerListPDF(customers, time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Error generating customer report")
		h.renderError(c, http.StatusInternalServerError, "The customer report could not be generated")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="customers.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// Details muestra un cliente
func (h *Handler) Details(c *gin.Context) {
	customer, ok := h.loadCustomer(c)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "details.html", gin.H{
		"Title":    "Customer Details",
		"Customer": customer,
	})
}

// CreateForm muestra el formulario vacío de alta
func (h *Handler) CreateForm(c *gin.Context) {
	h.renderForm(c, &models.Customer{}, false, nil, nil)
}

// Create procesa el formulario de alta
func (h *Handler) Create(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindWith(&customer, binding.Form); err != nil {
		h.logger.WithError(err).Debug("Error binding create customer form")
		h.renderForm(c, &customer, false, []string{messageInvalidForm}, nil)
		return
	}
	customer.ID = 0

	if fields := models.ValidateCustomer(&customer); fields != nil {
		h.renderForm(c, &customer, false, nil, fields)
		return
	}

	if err := h.api.CreateCustomer(c.Request.Context(), &customer); err != nil {
		if messages, ok := rejectedMessages(err); ok {
			h.renderForm(c, &customer, false, messages, nil)
			return
		}
		h.renderFailure(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"customer_id": customer.ID,
	}).Info("Customer created from web form")

	c.Redirect(http.StatusSeeOther, "/customers")
}

// EditForm muestra el formulario de edición
func (h *Handler) EditForm(c *gin.Context) {
	customer, ok := h.loadCustomer(c)
	if !ok {
		return
	}

	h.renderForm(c, customer, true, nil, nil)
}

// Edit procesa el formulario de edición
func (h *Handler) Edit(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := c.ShouldBindWith(&customer, binding.Form); err != nil {
		h.logger.WithError(err).Debug("Error binding edit customer form")
		customer.ID = id
		h.renderForm(c, &customer, true, []string{messageInvalidForm}, nil)
		return
	}

	if customer.ID != id {
		h.renderError(c, http.StatusBadRequest, models.MessageIDMismatch)
		return
	}

	if fields := models.ValidateCustomer(&customer); fields != nil {
		h.renderForm(c, &customer, true, nil, fields)
		return
	}

	if err := h.api.UpdateCustomer(c.Request.Context(), &customer); err != nil {
		if messages, ok := rejectedMessages(err); ok {
			h.renderForm(c, &customer, true, messages, nil)
			return
		}
		h.renderFailure(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/customers")
}

// DeleteForm muestra la confirmación de baja
func (h *Handler) DeleteForm(c *gin.Context) {
	customer, ok := h.loadCustomer(c)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "delete.html", gin.H{
		"Title":     "Delete Customer",
		"Customer":  customer,
		"CSRFField": middleware.CSRFFieldName,
		"CSRFToken": middleware.CSRFToken(c),
	})
}

// Delete elimina el cliente confirmado
func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.api.DeleteCustomer(c.Request.Context(), id); err != nil {
		h.renderFailure(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/customers")
}

// Health reporta la salud del front-end y de la API que consume
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	apiStatus := "ok"

	if err := h.api.HealthCheck(ctx); err != nil {
		h.logger.WithError(err).Warn("Customer API health check failed")
		status = "degraded"
		code = http.StatusServiceUnavailable
		apiStatus = "unavailable"
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"service":   "customer-web",
		"version":   "1.0.0",
		"checks":    gin.H{"api": apiStatus},
	})
}

func (h *Handler) parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.renderError(c, http.StatusBadRequest, messageInvalidID)
		return 0, false
	}
	return id, true
}

// loadCustomer obtiene el cliente del parámetro :id o renderiza el error
func (h *Handler) loadCustomer(c *gin.Context) (*models.Customer, bool) {
	id, ok := h.parseID(c)
	if !ok {
		return nil, false
	}

	customer, err := h.api.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.renderFailure(c, err)
		return nil, false
	}
	return customer, true
}

func (h *Handler) renderForm(c *gin.Context, customer *models.Customer, isEdit bool, messages []string, fields []models.FieldError) {
	title := "Create Customer"
	action := "/customers/create"
	if isEdit {
		title = "Edit Customer"
		action = "/customers/" + strconv.Itoa(customer.ID) + "/edit"
	}

	fieldErrors := make(map[string]string, len(fields))
	for _, f := range fields {
		fieldErrors[f.Field] = f.Message
		messages = append(messages, f.Message)
	}

	c.HTML(http.StatusOK, "form.html", gin.H{
		"Title":       title,
		"Action":      action,
		"IsEdit":      isEdit,
		"Customer":    customer,
		"Errors":      messages,
		"FieldErrors": fieldErrors,
		"CSRFField":   middleware.CSRFFieldName,
		"CSRFToken":   middleware.CSRFToken(c),
	})
}

func (h *Handler) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}

// rejectForgedForm responde a un POST sin token anti-CSRF válido
func (h *Handler) rejectForgedForm(c *gin.Context) {
	h.logger.WithFields(logrus.Fields{
		"method":    c.Request.Method,
		"path":      c.Request.URL.Path,
		"client_ip": c.ClientIP(),
	}).Warn("Form rejected: missing or invalid CSRF token")

	h.renderError(c, http.StatusForbidden, messageInvalidCSRFToken)
}

// renderFailure traduce un error de la API a una página de error
func (h *Handler) renderFailure(c *gin.Context, err error) {
	if errors.Is(err, models.ErrCustomerNotFound) {
		h.renderError(c, http.StatusNotFound, messageCustomerNotFound)
		return
	}

	h.logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error("Customer API call failed")

	status := http.StatusBadGateway
	if errors.Is(err, models.ErrStorageUnavailable) {
		status = http.StatusServiceUnavailable
	}
	h.renderError(c, status, messageAPIUnavailable)
}

// rejectedMessages extrae los mensajes cuando la API rechazó los datos enviados
func rejectedMessages(err error) ([]string, bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return nil, false
	}

	switch apiErr.StatusCode {
	case http.StatusBadRequest, http.StatusConflict:
		return apiErr.Messages(), true
	default:
		return nil, false
	}
}

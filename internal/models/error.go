package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCustomerNotFound indica que no existe un cliente con el ID solicitado
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrDuplicateEmail indica una violación de la restricción única sobre email
	ErrDuplicateEmail = errors.New("customer email already exists")
	// ErrStorageUnavailable indica que la base de datos no está disponible
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Mensajes expuestos en la API
const (
	MessageValidationFailed = "Validation Failed"
	MessageIDMismatch       = "Customer ID in the URL does not match the ID in the body"
	MessageInvalidBody      = "A non-empty request body with valid JSON is required."
	MessageInternal         = "An unexpected error occurred"
	MessageUnavailable      = "The customer store is temporarily unavailable"
)

// ValidationError agrupa los errores de validación de un cliente
type ValidationError struct {
	Fields []FieldError
}

// Error implementa la interfaz error
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages retorna solo los mensajes, en el orden de los campos
func (e *ValidationError) Messages() []string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Message
	}
	return messages
}

// ErrorResponse representa la respuesta de error estandarizada
type ErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// NewErrorResponse crea una nueva respuesta de error
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Message: message}
}

// NewValidationErrorResponse crea un error de validación con detalles
func NewValidationErrorResponse(messages []string) ErrorResponse {
	return ErrorResponse{
		Message: MessageValidationFailed,
		Errors:  messages,
	}
}

// NewNotFoundErrorResponse crea un error de recurso no encontrado
func NewNotFoundErrorResponse(id int) ErrorResponse {
	return ErrorResponse{Message: fmt.Sprintf("Customer with ID %d not found", id)}
}

// NewConflictErrorResponse crea un error de conflicto por email duplicado
func NewConflictErrorResponse(email string) ErrorResponse {
	return ErrorResponse{Message: fmt.Sprintf("Customer with email %s already exists", email)}
}

// NewInternalErrorResponse crea un error interno del servidor
func NewInternalErrorResponse() ErrorResponse {
	return ErrorResponse{Message: MessageInternal}
}

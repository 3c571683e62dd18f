package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"net"
	"strings"

	"github.com/lib/pq"
	"github.com/pinewood-labs/customer-store/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CustomerRepository maneja las operaciones de base de datos para Customer
type CustomerRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewCustomerRepository crea una nueva instancia del repositorio
func NewCustomerRepository(db *DB, logger *logrus.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

// ListAll obtiene todos los clientes ordenados por ID
func (r *CustomerRepository) ListAll(ctx context.Context) ([]models.Customer, error) {
	var records []CustomerModel
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("error querying customers: %w", translateError(err))
	}

	customers := make([]models.Customer, len(records))
	for i := range records {
		customers[i] = *records[i].ToDomain()
	}
	return customers, nil
}

// GetByID obtiene un cliente por ID
func (r *CustomerRepository) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	if !storableID(id) {
		return nil, models.ErrCustomerNotFound
	}

	var record CustomerModel
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("error querying customer %d: %w", id, translateError(err))
	}

	return record.ToDomain(), nil
}

// Insert crea un nuevo cliente; la base de datos asigna el ID
func (r *CustomerRepository) Insert(ctx context.Context, customer *models.Customer) error {
	record := CustomerModelFromDomain(customer)
	record.ID = 0

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("error creating customer: %w", translateError(err))
	}

	customer.ID = record.ID
	return nil
}

// ReplaceByID sobrescribe todos los campos del cliente con el ID indicado.
// Retorna false sin error si no existe ninguna fila con ese ID.
func (r *CustomerRepository) ReplaceByID(ctx context.Context, customer *models.Customer) (bool, error) {
	if !storableID(customer.ID) {
		return false, nil
	}

	record := CustomerModelFromDomain(customer)

	result := r.db.WithContext(ctx).
		Model(&CustomerModel{}).
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"first_name":   record.FirstName,
			"last_name":    record.LastName,
			"email":        record.Email,
			"phone_number": record.PhoneNumber,
			"age":          record.Age,
		})
	if result.Error != nil {
		return false, fmt.Errorf("error updating customer %d: %w", customer.ID, translateError(result.Error))
	}

	return result.RowsAffected > 0, nil
}

// DeleteByID elimina un cliente por ID.
// Retorna false sin error si no existe ninguna fila con ese ID.
func (r *CustomerRepository) DeleteByID(ctx context.Context, id int) (bool, error) {
	if !storableID(id) {
		return false, nil
	}

	result := r.db.WithContext(ctx).Delete(&CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("error deleting customer %d: %w", id, translateError(result.Error))
	}

	return result.RowsAffected > 0, nil
}

// storableID indica si el ID cabe en la clave SERIAL (int4) de la tabla.
// Un ID fuera de rango no puede existir y no se envía a la base de datos,
// que lo rechazaría con numeric_value_out_of_range.
func storableID(id int) bool {
	return id >= 1 && id <= math.MaxInt32
}

// translateError clasifica los errores del driver en los errores del dominio
func translateError(err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", models.ErrDuplicateEmail, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	default:
		return err
	}
}

// isUniqueViolation detecta violaciones de índice único (lib/pq, pgx y sqlite vía GORM)
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return false
}

// isConnectionError detecta fallos de conectividad con la base de datos
func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Clase 08: connection exception; 57P: operator intervention
		return pqErr.Code.Class() == "08" || strings.HasPrefix(string(pqErr.Code), "57P")
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

package services

import (
	"context"
	"fmt"

	"github.com/pinewood-labs/customer-store/internal/models"
	"github.com/sirupsen/logrus"
)

// CustomerRepository define el gateway de almacenamiento que usa el servicio
type CustomerRepository interface {
	ListAll(ctx context.Context) ([]models.Customer, error)
	GetByID(ctx context.Context, id int) (*models.Customer, error)
	Insert(ctx context.Context, customer *models.Customer) error
	ReplaceByID(ctx context.Context, customer *models.Customer) (bool, error)
	DeleteByID(ctx context.Context, id int) (bool, error)
}

// CustomerService media entre la API y el almacenamiento de clientes
type CustomerService struct {
	customerRepo CustomerRepository
	logger       *logrus.Logger
}

// NewCustomerService crea una nueva instancia del servicio
func NewCustomerService(customerRepo CustomerRepository, logger *logrus.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// ListAll obtiene todos los clientes; nunca retorna un slice nil sin error
func (s *CustomerService) ListAll(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing customers: %w", err)
	}
	if customers == nil {
		customers = []models.Customer{}
	}

	return customers, nil
}

// GetByID obtiene un cliente por ID; retorna models.ErrCustomerNotFound si no existe
func (s *CustomerService) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting customer %d: %w", id, err)
	}

	return customer, nil
}

// Create valida y persiste un nuevo cliente; el ID asignado queda en customer.ID
func (s *CustomerService) Create(ctx context.Context, customer *models.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}

	if err := s.customerRepo.Insert(ctx, customer); err != nil {
		return fmt.Errorf("error creating customer: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"email":       customer.Email,
	}).Info("Customer created successfully")

	return nil
}

// Update sobrescribe todos los campos del cliente con customer.ID.
// Retorna models.ErrCustomerNotFound sin modificar nada si el cliente no existe.
func (s *CustomerService) Update(ctx context.Context, customer *models.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}

	found, err := s.customerRepo.ReplaceByID(ctx, customer)
	if err != nil {
		return fmt.Errorf("error updating customer %d: %w", customer.ID, err)
	}
	if !found {
		return fmt.Errorf("customer %d: %w", customer.ID, models.ErrCustomerNotFound)
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"email":       customer.Email,
	}).Info("Customer updated successfully")

	return nil
}

// Delete elimina un cliente.
// Retorna models.ErrCustomerNotFound sin modificar nada si el cliente no existe.
func (s *CustomerService) Delete(ctx context.Context, id int) error {
	found, err := s.customerRepo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting customer %d: %w", id, err)
	}
	if !found {
		return fmt.Errorf("customer %d: %w", id, models.ErrCustomerNotFound)
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": id,
	}).Info("Customer deleted successfully")

	return nil
}

package database

import "github.com/pinewood-labs/customer-store/internal/models"

// CustomerModel es el mapeo ORM de la tabla customers
type CustomerModel struct {
	ID          int     `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName   string  `gorm:"column:first_name;size:50;not null"`
	LastName    string  `gorm:"column:last_name;size:50;not null"`
	Email       string  `gorm:"column:email;size:100;not null;uniqueIndex:idx_customers_email"`
	PhoneNumber *string `gorm:"column:phone_number;size:50"`
	Age         int     `gorm:"column:age;not null"`
}

// TableName implementa schema.Tabler
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain convierte el modelo en la entidad de dominio
func (m *CustomerModel) ToDomain() *models.Customer {
	customer := &models.Customer{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Age:       m.Age,
	}
	if m.PhoneNumber != nil {
		customer.PhoneNumber = *m.PhoneNumber
	}
	return customer
}

// CustomerModelFromDomain convierte la entidad de dominio en el modelo ORM
func CustomerModelFromDomain(c *models.Customer) *CustomerModel {
	model := &CustomerModel{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Age:       c.Age,
	}
	if c.PhoneNumber != "" {
		phone := c.PhoneNumber
		model.PhoneNumber = &phone
	}
	return model
}

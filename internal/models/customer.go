package models

// Customer representa un cliente del store
type Customer struct {
	ID          int    `json:"id" form:"id"`
	FirstName   string `json:"firstName" form:"firstName" validate:"notblank,max=50"`
	LastName    string `json:"lastName" form:"lastName" validate:"notblank,max=50"`
	Email       string `json:"email" form:"email" validate:"notblank,email,max=100"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber" validate:"omitempty,phone,max=50"`
	Age         int    `json:"age" form:"age" validate:"gte=18,lte=100"`
}

// Validate valida el cliente antes de cualquier escritura
func (c *Customer) Validate() error {
	if fields := ValidateCustomer(c); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

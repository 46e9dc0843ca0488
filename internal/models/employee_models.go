package models

// Employee represents a staff member of the shop
type Employee struct {
	Base
	Name  string  `json:"name" db:"name"`
	Email string  `json:"email" db:"email"`
	Phone *string `json:"phone,omitempty" db:"phone"`
	Role  string  `json:"role" db:"role"`
}

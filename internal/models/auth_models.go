package models

// Role names recognised by the authorization middleware.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleStaff   = "Staff"
)

// User represents an identity that can sign in to the back office
type User struct {
	Base
	Email        string  `json:"email" db:"email"`
	PasswordHash string  `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	FullName     *string `json:"full_name,omitempty" db:"full_name"`
	Role         string  `json:"role" db:"role"`
	EmployeeID   *string `json:"employee_id,omitempty" db:"employee_id"`
}

// Credentials for login request
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration payload for creating a back-office user
type Registration struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	FullName   *string `json:"full_name,omitempty"`
	Role       string  `json:"role"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

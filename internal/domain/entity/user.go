package entity

import "time"

// Application roles for RBAC on the API.
const (
	RoleAdmin      = "admin"
	RoleAccountant = "accountant"
	RoleClerk      = "clerk"
)

// User is an API account scoped to a company.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	Name         string
	Role         string // see Role* constants
	Status       string // active, disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package domain

import "time"

type OperatorRole string

const (
	OperatorRoleAdmin   OperatorRole = "ADMIN"
	OperatorRoleManager OperatorRole = "MANAGER"
)

// Operator is a portal user on the property-management side. Tenants
// never log in here; authentication proper lives with the identity
// provider, this is just enough to gate the API.
type Operator struct {
	ID           int32        `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         OperatorRole `json:"role"`
	CreatedOn    time.Time    `json:"created_on"`
}

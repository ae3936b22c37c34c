package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// Admin is a back-office credential. Operators share the collection and are
// distinguished by Role.
type Admin struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one the back office understands.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleOperator
}

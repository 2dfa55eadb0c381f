// Package models defines the user account and its role.
package models

import (
	"strings"
	"time"

	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
)

// Role is the closed set of account roles. A user's role decides which
// profile rows may exist alongside the account: suppliers get a supplier
// record, admins an admin record, customers neither.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSupplier Role = "supplier"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether r is a member of the closed enum.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleSupplier, RoleAdmin:
		return true
	}
	return false
}

// ParseRole maps a raw token to a Role. Unknown tokens are rejected at
// the boundary rather than carried around.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown role: %q", raw)
	}
	return role, nil
}

// User is one marketplace account.
type User struct {
	ID        id.UserID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	// PasswordHash is the bcrypt hash, never serialized.
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser validates and builds a User.
func NewUser(userID id.UserID, firstName, lastName, email string, role Role, now time.Time) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeValidation, "email is malformed")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown role")
	}
	return &User{
		ID:        userID,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     email,
		Role:      role,
		CreatedAt: now,
	}, nil
}

// FullName renders the display name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

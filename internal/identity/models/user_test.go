package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
)

func TestParseRole(t *testing.T) {
	for raw, want := range map[string]Role{
		"customer":   RoleCustomer,
		"supplier":   RoleSupplier,
		"admin":      RoleAdmin,
		" Supplier ": RoleSupplier,
	} {
		role, err := ParseRole(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, role)
	}

	for _, raw := range []string{"", "root", "superadmin"} {
		_, err := ParseRole(raw)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), raw)
	}
}

func TestNewUser(t *testing.T) {
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("normalizes email and trims names", func(t *testing.T) {
		user, err := NewUser(id.NewUserID(), " Nur ", " Tan ", " Nur.Tan@Example.COM ", RoleCustomer, now)
		require.NoError(t, err)
		assert.Equal(t, "nur.tan@example.com", user.Email)
		assert.Equal(t, "Nur", user.FirstName)
		assert.Equal(t, "Tan", user.LastName)
		assert.Equal(t, "Nur Tan", user.FullName())
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := NewUser(id.NewUserID(), "A", "B", "", RoleCustomer, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = NewUser(id.NewUserID(), "A", "B", "no-at-sign", RoleCustomer, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = NewUser(id.NewUserID(), "A", "B", "a@b.example", Role("root"), now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

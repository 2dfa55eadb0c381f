package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
)

func TestNewAdmin(t *testing.T) {
	t.Run("absolute admin carries no country", func(t *testing.T) {
		admin, err := NewAdmin(id.NewAdminID(), id.NewUserID(), AdminAbsolute, "")
		require.NoError(t, err)
		assert.True(t, admin.IsAbsolute())
		assert.Empty(t, admin.CountryCode)
	})

	t.Run("country admin requires a known country", func(t *testing.T) {
		admin, err := NewAdmin(id.NewAdminID(), id.NewUserID(), AdminCountry, "SG")
		require.NoError(t, err)
		assert.False(t, admin.IsAbsolute())
		assert.Equal(t, "SG", admin.CountryCode)
	})

	t.Run("rejects invalid combinations", func(t *testing.T) {
		cases := map[string]struct {
			adminType AdminType
			country   string
		}{
			"unknown type":                  {AdminType("super"), ""},
			"country admin without country": {AdminCountry, ""},
			"country admin unknown country": {AdminCountry, "ZZ"},
			"absolute admin with country":   {AdminAbsolute, "MY"},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := NewAdmin(id.NewAdminID(), id.NewUserID(), tc.adminType, tc.country)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
			})
		}
	})
}

func TestIsKnownCountry(t *testing.T) {
	for _, c := range Countries {
		assert.True(t, IsKnownCountry(c.Code), c.Code)
	}
	assert.False(t, IsKnownCountry("US"))
	assert.False(t, IsKnownCountry("my"))
	assert.False(t, IsKnownCountry(""))
}

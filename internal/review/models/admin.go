package models

import (
	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
)

// AdminType distinguishes global administrators from country-scoped ones.
type AdminType string

const (
	// AdminAbsolute has unrestricted read/write scope over all suppliers.
	AdminAbsolute AdminType = "absolute"
	// AdminCountry is restricted to suppliers whose country code matches
	// its own.
	AdminCountry AdminType = "country"
)

// IsValid reports whether t is a member of the closed enum.
func (t AdminType) IsValid() bool {
	return t == AdminAbsolute || t == AdminCountry
}

// Admin is an administrative user, 1:1 with a User account.
//
// Invariant: CountryCode is set iff Type is AdminCountry.
type Admin struct {
	ID          id.AdminID `json:"id"`
	UserID      id.UserID  `json:"user_id"`
	Type        AdminType  `json:"admin_type"`
	CountryCode string     `json:"country_code,omitempty"`
}

// NewAdmin validates the type/country invariant and builds an Admin.
func NewAdmin(adminID id.AdminID, userID id.UserID, adminType AdminType, countryCode string) (*Admin, error) {
	if !adminType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown admin type")
	}
	if adminType == AdminCountry && !IsKnownCountry(countryCode) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "country admin requires a known country code")
	}
	if adminType == AdminAbsolute && countryCode != "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "absolute admin must not carry a country code")
	}
	return &Admin{ID: adminID, UserID: userID, Type: adminType, CountryCode: countryCode}, nil
}

// IsAbsolute reports whether the admin has global scope.
func (a *Admin) IsAbsolute() bool { return a.Type == AdminAbsolute }

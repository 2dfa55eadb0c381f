package models

import (
	"strings"
	"time"

	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
)

// Contact is one contact person block on the verification dossier.
type Contact struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// Address is one address block on the verification dossier.
type Address struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// BankDetails holds the payout account a supplier submits for verification.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
}

// Supplier is the aggregate root for a verified-or-verifying business
// entity. One supplier per owning user.
//
// Invariants:
//   - Status moves only along the lifecycle graph in status.go
//   - RegistrationNumber is globally unique (enforced by the store)
//   - CountryCode is the two-letter code of the operational address
//     country, set at submission time, and is the sole scoping key for
//     country-admin visibility
//   - SubmittedAt is nil until the first submission
//   - Rows are never hard-deleted; suspension is a status, not a delete
type Supplier struct {
	ID     id.SupplierID `json:"id"`
	UserID id.UserID     `json:"user_id"`

	BusinessName       string `json:"business_name"`
	RegistrationNumber string `json:"registration_number"`
	TaxID              string `json:"tax_id"`
	NatureOfBusiness   string `json:"nature_of_business"`
	DirectorName       string `json:"director_name"`

	PrimaryContact   Contact `json:"primary_contact"`
	AlternateContact Contact `json:"alternate_contact"`

	RegisteredAddress  Address `json:"registered_address"`
	OperationalAddress Address `json:"operational_address"`

	Bank BankDetails `json:"bank"`

	CountryCode string         `json:"country_code"`
	Status      SupplierStatus `json:"status"`

	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy    id.AdminID `json:"reviewed_by,omitempty"`
	ReviewerNote  string     `json:"reviewer_note,omitempty"`
	SubmitterNote string     `json:"submitter_note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSupplier creates the DRAFT row at supplier account registration,
// before any dossier has been filled in.
func NewSupplier(supplierID id.SupplierID, userID id.UserID, now time.Time) (*Supplier, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "supplier must belong to a user")
	}
	return &Supplier{
		ID:        supplierID,
		UserID:    userID,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanListProducts is the externally consumed capability gate: only an
// approved supplier may publish live product listings.
func (s *Supplier) CanListProducts() bool {
	return s.Status == StatusApproved
}

func invalidTransition(from, to SupplierStatus) error {
	return dErrors.Newf(dErrors.CodeInvariantViolation,
		"cannot move supplier from %s to %s", from, to)
}

// CanSubmit checks whether the supplier may (re-)submit its verification
// dossier. Use with ApplySubmission inside a transaction.
func (s *Supplier) CanSubmit() error {
	if !s.Status.CanTransitionTo(StatusSubmitted) {
		return invalidTransition(s.Status, StatusSubmitted)
	}
	return nil
}

// ApplySubmission records a (re-)submission: dossier fields are written by
// the caller; this stamps the lifecycle bookkeeping. CountryCode is derived
// from the operational address country at this moment.
func (s *Supplier) ApplySubmission(now time.Time) {
	s.Status = StatusSubmitted
	s.SubmittedAt = &now
	s.CountryCode = CountryCodeOf(s.OperationalAddress)
	s.UpdatedAt = now
}

// CanOpenReview checks the optional submitted -> under_review transition.
func (s *Supplier) CanOpenReview() error {
	if s.Status == StatusUnderReview {
		// Reopening an already-open review is a no-op, not a conflict.
		return nil
	}
	if !s.Status.CanTransitionTo(StatusUnderReview) {
		return invalidTransition(s.Status, StatusUnderReview)
	}
	return nil
}

// ApplyOpenReview marks the dossier as being actively reviewed.
func (s *Supplier) ApplyOpenReview(adminID id.AdminID, now time.Time) {
	s.Status = StatusUnderReview
	s.stampReview(adminID, "", now)
}

// CanApprove checks the approve transition.
func (s *Supplier) CanApprove() error {
	if !s.Status.CanTransitionTo(StatusApproved) {
		return invalidTransition(s.Status, StatusApproved)
	}
	return nil
}

// ApplyApproval approves the supplier, granting the listing capability.
func (s *Supplier) ApplyApproval(adminID id.AdminID, note string, now time.Time) {
	s.Status = StatusApproved
	s.stampReview(adminID, note, now)
}

// CanRequestMoreInfo checks the needs-more-info transition.
func (s *Supplier) CanRequestMoreInfo() error {
	if !s.Status.CanTransitionTo(StatusNeedsMoreInfo) {
		return invalidTransition(s.Status, StatusNeedsMoreInfo)
	}
	return nil
}

// ApplyMoreInfoRequest sends the dossier back to the supplier for fixes.
func (s *Supplier) ApplyMoreInfoRequest(adminID id.AdminID, note string, now time.Time) {
	s.Status = StatusNeedsMoreInfo
	s.stampReview(adminID, note, now)
}

// CanReject checks the reject transition.
func (s *Supplier) CanReject() error {
	if !s.Status.CanTransitionTo(StatusRejected) {
		return invalidTransition(s.Status, StatusRejected)
	}
	return nil
}

// ApplyRejection rejects the dossier.
func (s *Supplier) ApplyRejection(adminID id.AdminID, note string, now time.Time) {
	s.Status = StatusRejected
	s.stampReview(adminID, note, now)
}

// CanSuspend checks the enforcement transition approved -> suspended.
func (s *Supplier) CanSuspend() error {
	if !s.Status.CanTransitionTo(StatusSuspended) {
		return invalidTransition(s.Status, StatusSuspended)
	}
	return nil
}

// ApplySuspension suspends an approved supplier, revoking the listing
// capability.
func (s *Supplier) ApplySuspension(adminID id.AdminID, note string, now time.Time) {
	s.Status = StatusSuspended
	s.stampReview(adminID, note, now)
}

func (s *Supplier) stampReview(adminID id.AdminID, note string, now time.Time) {
	s.ReviewedAt = &now
	s.ReviewedBy = adminID
	if note != "" {
		s.ReviewerNote = note
	}
	s.UpdatedAt = now
}

// CountryCodeOf normalizes an address country into the two-letter scoping
// code. Values longer than two letters are truncated rather than rejected;
// the submission form constrains the country field to ISO codes already.
func CountryCodeOf(addr Address) string {
	code := strings.ToUpper(strings.TrimSpace(addr.Country))
	if len(code) > 2 {
		code = code[:2]
	}
	return code
}

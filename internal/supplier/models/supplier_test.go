package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
)

func newDraft(t *testing.T) *Supplier {
	t.Helper()
	supplier, err := NewSupplier(id.NewSupplierID(), id.NewUserID(), time.Now())
	require.NoError(t, err)
	return supplier
}

func TestNewSupplier(t *testing.T) {
	t.Run("starts in draft", func(t *testing.T) {
		supplier := newDraft(t)
		assert.Equal(t, StatusDraft, supplier.Status)
		assert.Nil(t, supplier.SubmittedAt)
		assert.False(t, supplier.CanListProducts())
	})

	t.Run("requires an owning user", func(t *testing.T) {
		_, err := NewSupplier(id.NewSupplierID(), id.UserID{}, time.Now())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestApplySubmission(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("stamps submission and derives country code", func(t *testing.T) {
		supplier := newDraft(t)
		supplier.OperationalAddress.Country = "my"

		require.NoError(t, supplier.CanSubmit())
		supplier.ApplySubmission(now)

		assert.Equal(t, StatusSubmitted, supplier.Status)
		require.NotNil(t, supplier.SubmittedAt)
		assert.True(t, supplier.SubmittedAt.Equal(now))
		assert.Equal(t, "MY", supplier.CountryCode)
	})

	t.Run("resubmission from needs_more_info is allowed", func(t *testing.T) {
		supplier := newDraft(t)
		supplier.Status = StatusNeedsMoreInfo
		require.NoError(t, supplier.CanSubmit())
	})

	t.Run("rejected supplier cannot resubmit", func(t *testing.T) {
		supplier := newDraft(t)
		supplier.Status = StatusRejected
		err := supplier.CanSubmit()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestReviewActions(t *testing.T) {
	now := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	adminID := id.AdminID(uuid.New())

	t.Run("approval grants the listing capability", func(t *testing.T) {
		supplier := newDraft(t)
		supplier.Status = StatusSubmitted

		require.NoError(t, supplier.CanApprove())
		supplier.ApplyApproval(adminID, "all documents check out", now)

		assert.Equal(t, StatusApproved, supplier.Status)
		assert.Equal(t, adminID, supplier.ReviewedBy)
		require.NotNil(t, supplier.ReviewedAt)
		assert.Equal(t, "all documents check out", supplier.ReviewerNote)
		assert.True(t, supplier.CanListProducts())
	})

	t.Run("approve on a draft fails and leaves status unchanged", func(t *testing.T) {
		supplier := newDraft(t)
		err := supplier.CanApprove()
		require.Error(t, err)
		assert.Equal(t, StatusDraft, supplier.Status)
	})

	t.Run("reopening an open review is a no-op", func(t *testing.T) {
		supplier := newDraft(t)
		supplier.Status = StatusUnderReview
		assert.NoError(t, supplier.CanOpenReview())
	})

	t.Run("suspension revokes the listing capability", func(t *testing.T) {
		supplier := newDraft(t)
		supplier.Status = StatusApproved

		require.NoError(t, supplier.CanSuspend())
		supplier.ApplySuspension(adminID, "fraud report", now)

		assert.Equal(t, StatusSuspended, supplier.Status)
		assert.False(t, supplier.CanListProducts())
	})

	t.Run("empty note does not clear an earlier note", func(t *testing.T) {
		supplier := newDraft(t)
		supplier.Status = StatusSubmitted
		supplier.ReviewerNote = "missing bank statement"

		supplier.ApplyOpenReview(adminID, now)
		assert.Equal(t, "missing bank statement", supplier.ReviewerNote)
	})
}

func TestCountryCodeOf(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"MY", "MY"},
		{"sg", "SG"},
		{" th ", "TH"},
		{"IDN", "ID"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountryCodeOf(Address{Country: tt.raw}), tt.raw)
	}
}

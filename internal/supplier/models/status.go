package models

// SupplierStatus is the verification lifecycle state of a supplier.
// It is a closed enum; unknown tokens are rejected at the boundary by
// ParseSupplierStatus and callers decide how to fall back.
type SupplierStatus string

const (
	StatusDraft         SupplierStatus = "draft"
	StatusSubmitted     SupplierStatus = "submitted"
	StatusUnderReview   SupplierStatus = "under_review"
	StatusNeedsMoreInfo SupplierStatus = "needs_more_info"
	StatusApproved      SupplierStatus = "approved"
	StatusRejected      SupplierStatus = "rejected"
	StatusSuspended     SupplierStatus = "suspended"
)

// transitions is the full lifecycle graph. Submission is allowed from
// submitted itself so replaying the same form is idempotent rather than an
// error. rejected and suspended have no outgoing edges; re-entry into the
// review cycle from those states needs a product decision first.
var transitions = map[SupplierStatus][]SupplierStatus{
	StatusDraft:         {StatusSubmitted},
	StatusSubmitted:     {StatusSubmitted, StatusUnderReview, StatusApproved, StatusNeedsMoreInfo, StatusRejected},
	StatusUnderReview:   {StatusApproved, StatusNeedsMoreInfo, StatusRejected},
	StatusNeedsMoreInfo: {StatusSubmitted},
	StatusApproved:      {StatusSuspended},
	StatusRejected:      {},
	StatusSuspended:     {},
}

// CanTransitionTo reports whether the lifecycle graph permits moving from
// s to target.
func (s SupplierStatus) CanTransitionTo(target SupplierStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a member of the closed enum.
func (s SupplierStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s SupplierStatus) String() string { return string(s) }

// ParseSupplierStatus parses a status token. The boolean is false for
// unknown tokens; callers choose whether that is an error (persistence)
// or a fallback to a default (queue filters).
func ParseSupplierStatus(raw string) (SupplierStatus, bool) {
	s := SupplierStatus(raw)
	if !s.IsValid() {
		return "", false
	}
	return s, true
}

// ReviewableStatuses is the default "needs admin attention" queue filter.
func ReviewableStatuses() []SupplierStatus {
	return []SupplierStatus{StatusSubmitted, StatusUnderReview}
}

package service

import (
	"context"
	"log/slog"
	"time"

	"aseara/internal/review/models"
	suppliermodels "aseara/internal/supplier/models"
	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
	"aseara/pkg/requestcontext"
)

// Action names one admin review action, as submitted by the review form
// and recorded in metrics.
type Action string

const (
	ActionOpenReview      Action = "open_review"
	ActionApprove         Action = "approve"
	ActionRequestMoreInfo Action = "request_more_info"
	ActionReject          Action = "reject"
	ActionSuspend         Action = "suspend"
)

// ParseAction maps a raw form token to an Action.
func ParseAction(raw string) (Action, bool) {
	switch Action(raw) {
	case ActionOpenReview, ActionApprove, ActionRequestMoreInfo, ActionReject, ActionSuspend:
		return Action(raw), true
	}
	return "", false
}

// OpenReview moves a submitted dossier into active review. Reopening a
// dossier already under review is a no-op.
func (s *Service) OpenReview(ctx context.Context, admin *models.Admin, supplierID id.SupplierID) (*suppliermodels.Supplier, error) {
	return s.act(ctx, admin, supplierID, ActionOpenReview, "",
		func(sup *suppliermodels.Supplier) error { return sup.CanOpenReview() },
		func(sup *suppliermodels.Supplier, adminID id.AdminID, _ string, now time.Time) {
			sup.ApplyOpenReview(adminID, now)
		})
}

// Approve grants the supplier verified status and the listing capability.
func (s *Service) Approve(ctx context.Context, admin *models.Admin, supplierID id.SupplierID, note string) (*suppliermodels.Supplier, error) {
	return s.act(ctx, admin, supplierID, ActionApprove, note,
		func(sup *suppliermodels.Supplier) error { return sup.CanApprove() },
		func(sup *suppliermodels.Supplier, adminID id.AdminID, n string, now time.Time) {
			sup.ApplyApproval(adminID, n, now)
		})
}

// RequestMoreInfo sends the dossier back to the supplier with a note
// explaining what is missing.
func (s *Service) RequestMoreInfo(ctx context.Context, admin *models.Admin, supplierID id.SupplierID, note string) (*suppliermodels.Supplier, error) {
	return s.act(ctx, admin, supplierID, ActionRequestMoreInfo, note,
		func(sup *suppliermodels.Supplier) error { return sup.CanRequestMoreInfo() },
		func(sup *suppliermodels.Supplier, adminID id.AdminID, n string, now time.Time) {
			sup.ApplyMoreInfoRequest(adminID, n, now)
		})
}

// Reject rejects the dossier. There is no path back into the review cycle
// from a rejected supplier.
func (s *Service) Reject(ctx context.Context, admin *models.Admin, supplierID id.SupplierID, note string) (*suppliermodels.Supplier, error) {
	return s.act(ctx, admin, supplierID, ActionReject, note,
		func(sup *suppliermodels.Supplier) error { return sup.CanReject() },
		func(sup *suppliermodels.Supplier, adminID id.AdminID, n string, now time.Time) {
			sup.ApplyRejection(adminID, n, now)
		})
}

// Suspend revokes an approved supplier's listing capability.
func (s *Service) Suspend(ctx context.Context, admin *models.Admin, supplierID id.SupplierID, note string) (*suppliermodels.Supplier, error) {
	return s.act(ctx, admin, supplierID, ActionSuspend, note,
		func(sup *suppliermodels.Supplier) error { return sup.CanSuspend() },
		func(sup *suppliermodels.Supplier, adminID id.AdminID, n string, now time.Time) {
			sup.ApplySuspension(adminID, n, now)
		})
}

// Act dispatches a parsed action to its handler.
func (s *Service) Act(ctx context.Context, admin *models.Admin, supplierID id.SupplierID, action Action, note string) (*suppliermodels.Supplier, error) {
	switch action {
	case ActionOpenReview:
		return s.OpenReview(ctx, admin, supplierID)
	case ActionApprove:
		return s.Approve(ctx, admin, supplierID, note)
	case ActionRequestMoreInfo:
		return s.RequestMoreInfo(ctx, admin, supplierID, note)
	case ActionReject:
		return s.Reject(ctx, admin, supplierID, note)
	case ActionSuspend:
		return s.Suspend(ctx, admin, supplierID, note)
	}
	return nil, dErrors.New(dErrors.CodeBadRequest, "unknown review action")
}

// act runs one review action inside the transaction boundary: re-fetch the
// supplier, enforce scope, guard the transition, mutate and persist. A
// failed guard rejects the action and leaves the row untouched.
func (s *Service) act(
	ctx context.Context,
	admin *models.Admin,
	supplierID id.SupplierID,
	action Action,
	note string,
	guard func(*suppliermodels.Supplier) error,
	apply func(*suppliermodels.Supplier, id.AdminID, string, time.Time),
) (*suppliermodels.Supplier, error) {
	if admin == nil {
		return nil, errAccessDenied()
	}

	var supplier *suppliermodels.Supplier
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		supplier, err = s.loadScoped(txCtx, admin, supplierID)
		if err != nil {
			return err
		}
		if err := guard(supplier); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.Wrap(err, dErrors.CodeConflict, "action not allowed in the supplier's current status")
			}
			return err
		}
		apply(supplier, admin.ID, note, requestcontext.Now(txCtx))
		if err := s.suppliers.Update(txCtx, supplier); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist review action")
		}
		return nil
	})
	if txErr != nil {
		if isActionFailure(txErr) {
			s.metrics.RecordActionError(string(action))
		}
		return nil, txErr
	}

	if action == ActionSuspend && s.onSuspension != nil {
		s.onSuspension(ctx, supplier.ID)
	}

	s.metrics.RecordAction(string(action), string(supplier.Status))
	s.logger.InfoContext(ctx, "review action applied",
		slog.String("action", string(action)),
		slog.String("supplier_id", supplier.ID.String()),
		slog.String("admin_id", admin.ID.String()),
		slog.String("status", string(supplier.Status)),
	)
	return supplier, nil
}

// isActionFailure filters caller mistakes out of the error metric so it
// only counts failures worth paging on.
func isActionFailure(err error) bool {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeConflict, dErrors.CodeForbidden, dErrors.CodeNotFound, dErrors.CodeBadRequest:
		return false
	}
	return err != nil
}

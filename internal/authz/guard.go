package authz

import (
	"strings"

	"spice-hr/internal/shared/contextutil"
)

// RecordState is the slice of a leave request the guard needs: who owns it
// and where it sits in the lifecycle.
type RecordState struct {
	EmployeeID   string
	EmployeeName string
	Status       string
}

const statusPending = "pending"

// IsOwner matches on the (employee_id, employee_name) pair; the name
// comparison ignores case because names are title-cased on submission.
func IsOwner(actor contextutil.Actor, rec RecordState) bool {
	return actor.EmployeeID == rec.EmployeeID &&
		strings.EqualFold(actor.EmployeeName, rec.EmployeeName)
}

// CanView: every role in this workflow may view every request; buyers never
// reach this check because the route gate rejects them.
func CanView(actor contextutil.Actor, rec RecordState) bool {
	return actor.Role != RoleBuyer
}

// CanEdit: full-field edits are owner-only and pending-only.
func CanEdit(actor contextutil.Actor, rec RecordState) bool {
	return rec.Status == statusPending && IsOwner(actor, rec)
}

// CanDelete mirrors CanEdit: once a decision lands the record is immutable
// and retained.
func CanDelete(actor contextutil.Actor, rec RecordState) bool {
	return rec.Status == statusPending && IsOwner(actor, rec)
}

// CanDecide: only HR may transition status, and only out of pending.
func CanDecide(actor contextutil.Actor, rec RecordState) bool {
	return rec.Status == statusPending && actor.Role == RoleHRManager
}

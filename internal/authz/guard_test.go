package authz_test

import (
	"testing"

	"spice-hr/internal/authz"
	"spice-hr/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
)

func pendingRecord() authz.RecordState {
	return authz.RecordState{
		EmployeeID:   "EMP001",
		EmployeeName: "John Doe",
		Status:       "pending",
	}
}

func TestIsOwner(t *testing.T) {
	rec := pendingRecord()

	t.Run("id and name match", func(t *testing.T) {
		actor := contextutil.Actor{EmployeeID: "EMP001", EmployeeName: "John Doe"}
		assert.True(t, authz.IsOwner(actor, rec))
	})

	t.Run("name comparison ignores case", func(t *testing.T) {
		actor := contextutil.Actor{EmployeeID: "EMP001", EmployeeName: "john doe"}
		assert.True(t, authz.IsOwner(actor, rec))
	})

	t.Run("same id different name is not owner", func(t *testing.T) {
		actor := contextutil.Actor{EmployeeID: "EMP001", EmployeeName: "Jane Doe"}
		assert.False(t, authz.IsOwner(actor, rec))
	})

	t.Run("different id is not owner", func(t *testing.T) {
		actor := contextutil.Actor{EmployeeID: "EMP002", EmployeeName: "John Doe"}
		assert.False(t, authz.IsOwner(actor, rec))
	})
}

func TestCanEditAndDelete(t *testing.T) {
	owner := contextutil.Actor{EmployeeID: "EMP001", EmployeeName: "John Doe", Role: authz.RoleDeliveryManager}
	stranger := contextutil.Actor{EmployeeID: "EMP999", EmployeeName: "Someone Else", Role: authz.RoleDeliveryManager}

	t.Run("owner may edit and delete while pending", func(t *testing.T) {
		rec := pendingRecord()
		assert.True(t, authz.CanEdit(owner, rec))
		assert.True(t, authz.CanDelete(owner, rec))
	})

	t.Run("non owner may not edit or delete", func(t *testing.T) {
		rec := pendingRecord()
		assert.False(t, authz.CanEdit(stranger, rec))
		assert.False(t, authz.CanDelete(stranger, rec))
	})

	t.Run("terminal states are immutable even for the owner", func(t *testing.T) {
		for _, status := range []string{"approved", "rejected"} {
			rec := pendingRecord()
			rec.Status = status
			assert.False(t, authz.CanEdit(owner, rec), status)
			assert.False(t, authz.CanDelete(owner, rec), status)
		}
	})
}

func TestCanDecide(t *testing.T) {
	hr := contextutil.Actor{EmployeeID: "HR001", EmployeeName: "Hr Person", Role: authz.RoleHRManager}

	t.Run("hr decides pending requests it does not own", func(t *testing.T) {
		assert.True(t, authz.CanDecide(hr, pendingRecord()))
	})

	t.Run("non hr roles may not decide", func(t *testing.T) {
		for _, role := range authz.SubmitterRoles() {
			actor := contextutil.Actor{EmployeeID: "EMP001", EmployeeName: "John Doe", Role: role}
			assert.False(t, authz.CanDecide(actor, pendingRecord()), role)
		}
	})

	t.Run("no transition out of a terminal state", func(t *testing.T) {
		rec := pendingRecord()
		rec.Status = "approved"
		assert.False(t, authz.CanDecide(hr, rec))
	})
}

func TestEnforcerPolicy(t *testing.T) {
	enforcer, err := authz.NewEnforcer()
	assert.NoError(t, err)
	svc := authz.NewService(enforcer)

	check := func(role, action string) bool {
		allowed, err := svc.Enforce(authz.EnforceRequest{
			Role:     role,
			Resource: authz.ResourceLeaveRequest,
			Action:   action,
		})
		assert.NoError(t, err)
		return allowed
	}

	t.Run("submitter roles create and read", func(t *testing.T) {
		for _, role := range authz.SubmitterRoles() {
			assert.True(t, check(role, authz.ActionCreate), role)
			assert.True(t, check(role, authz.ActionRead), role)
			assert.False(t, check(role, authz.ActionDecide), role)
		}
	})

	t.Run("hr reads and decides but does not file", func(t *testing.T) {
		assert.True(t, check(authz.RoleHRManager, authz.ActionRead))
		assert.True(t, check(authz.RoleHRManager, authz.ActionDecide))
		assert.False(t, check(authz.RoleHRManager, authz.ActionCreate))
	})

	t.Run("buyer holds no permissions", func(t *testing.T) {
		for _, action := range []string{authz.ActionRead, authz.ActionCreate, authz.ActionDecide, authz.ActionDelete} {
			assert.False(t, check(authz.RoleBuyer, action), action)
		}
	})
}

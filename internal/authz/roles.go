// Package authz enforces who may do what to a leave request. Route-level
// permissions go through casbin; record-level rules (ownership, pending-only
// mutation) live in the Guard and are re-checked in the service layer no
// matter what the client UI rendered.
package authz

const (
	RoleHRManager        = "hr_manager"
	RoleDeliveryManager  = "delivery_manager"
	RoleProductManager   = "product_manager"
	RoleFinancialManager = "financial_manager"
	RoleEmployee         = "employee"
	RoleBuyer            = "buyer"
)

const (
	ResourceLeaveRequest = "leave_request"

	ActionRead   = "read"
	ActionCreate = "create"
	ActionDecide = "decide"
	ActionDelete = "delete"
)

// SubmitterRoles are the roles allowed to file leave requests. HR decides but
// does not file through this workflow; buyers have no access at all.
func SubmitterRoles() []string {
	return []string{
		RoleDeliveryManager,
		RoleProductManager,
		RoleFinancialManager,
		RoleEmployee,
	}
}

package authz

import (
	_ "embed"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const submitterGroup = "submitter"

//go:embed model.conf
var modelText string

// NewEnforcer builds the enforcer from the embedded model so binaries start
// from any working directory.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	if err := loadPolicies(e); err != nil {
		return nil, err
	}
	return e, nil
}

// loadPolicies installs the fixed role/permission table. Roles are a closed
// set so there is no policy storage to sync with; the buyer role is simply
// absent from every policy line. Submitter edits go through PUT, which is
// gated at read level and checked per record in the service.
func loadPolicies(e *casbin.Enforcer) error {
	for _, role := range SubmitterRoles() {
		if _, err := e.AddGroupingPolicy(role, submitterGroup); err != nil {
			return err
		}
	}

	policies := [][]string{
		{submitterGroup, ResourceLeaveRequest, ActionRead},
		{submitterGroup, ResourceLeaveRequest, ActionCreate},
		{submitterGroup, ResourceLeaveRequest, ActionDelete},
		{RoleHRManager, ResourceLeaveRequest, ActionRead},
		{RoleHRManager, ResourceLeaveRequest, ActionDecide},
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}
	return nil
}

package leaverequest

// Wire field names follow the platform's existing client contract
// (camelCase, ISO-8601 dates, lowercase status strings).

// CreateLeaveRequestInput carries no binding rules so an incomplete payload
// reaches ValidateDraft and answers with the full field map instead of the
// first binding failure.
type CreateLeaveRequestInput struct {
	EmployeeName string `json:"employeeName" form:"employeeName"`
	EmployeeID   string `json:"employeeId" form:"employeeId"`
	EmployeeType string `json:"employeeType" form:"employeeType"`
	LeaveType    string `json:"leaveType" form:"leaveType"`
	StartDate    string `json:"startDate" form:"startDate"`
	EndDate      string `json:"endDate" form:"endDate"`
	Reason       string `json:"reason" form:"reason"`
	// Clients send their locally computed duration; the stored value is always
	// recomputed server-side from the date range.
	Duration int `json:"duration" form:"duration"`
}

// UpdateLeaveRequestInput covers both PUT shapes: a bare {"status": ...} body
// is an HR decision, anything else is a full submitter edit.
type UpdateLeaveRequestInput struct {
	Status       string `json:"status" form:"status"`
	EmployeeName string `json:"employeeName" form:"employeeName"`
	EmployeeID   string `json:"employeeId" form:"employeeId"`
	EmployeeType string `json:"employeeType" form:"employeeType"`
	LeaveType    string `json:"leaveType" form:"leaveType"`
	StartDate    string `json:"startDate" form:"startDate"`
	EndDate      string `json:"endDate" form:"endDate"`
	Reason       string `json:"reason" form:"reason"`
	Duration     int    `json:"duration" form:"duration"`
}

// IsStatusOnly reports whether the body is a bare status transition.
func (u UpdateLeaveRequestInput) IsStatusOnly() bool {
	return u.Status != "" &&
		u.EmployeeName == "" && u.EmployeeID == "" && u.EmployeeType == "" &&
		u.LeaveType == "" && u.StartDate == "" && u.EndDate == ""
}

func (u UpdateLeaveRequestInput) AsCreateInput() CreateLeaveRequestInput {
	return CreateLeaveRequestInput{
		EmployeeName: u.EmployeeName,
		EmployeeID:   u.EmployeeID,
		EmployeeType: u.EmployeeType,
		LeaveType:    u.LeaveType,
		StartDate:    u.StartDate,
		EndDate:      u.EndDate,
		Reason:       u.Reason,
		Duration:     u.Duration,
	}
}

type ListFilter struct {
	Category     string
	EmployeeID   string
	EmployeeName string
	Status       string
}

type CertificationMeta struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}

type LeaveRequestResponse struct {
	ID            string             `json:"id"`
	RequestNumber string             `json:"requestNumber"`
	EmployeeName  string             `json:"employeeName"`
	EmployeeID    string             `json:"employeeId"`
	EmployeeType  string             `json:"employeeType"`
	Category      string             `json:"category"`
	LeaveType     string             `json:"leaveType"`
	StartDate     string             `json:"startDate"`
	EndDate       string             `json:"endDate"`
	Duration      int                `json:"duration"`
	Reason        string             `json:"reason,omitempty"`
	Certification *CertificationMeta `json:"certification,omitempty"`
	Status        string             `json:"status"`
	DecidedBy     *string            `json:"decidedBy,omitempty"`
	DecidedAt     *string            `json:"decidedAt,omitempty"`
	CreatedAt     string             `json:"createdAt"`
}

// CategoryCount is one row of the reporting summary.
type CategoryCount struct {
	Category string `json:"category"`
	Pending  int64  `json:"pending"`
	Approved int64  `json:"approved"`
	Rejected int64  `json:"rejected"`
}

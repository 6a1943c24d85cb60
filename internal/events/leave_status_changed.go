package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	EventLeaveSubmitted = "leave_request.submitted"
	EventLeaveApproved  = "leave_request.approved"
	EventLeaveRejected  = "leave_request.rejected"
)

// LeaveStatusChangedEvent is published for every lifecycle transition of a
// leave request, including the initial submission.
type LeaveStatusChangedEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	RequestNumber  string    `json:"request_number"`
	EmployeeID     string    `json:"employee_id"`
	EmployeeName   string    `json:"employee_name"`
	Category       string    `json:"category"`
	FromStatus     string    `json:"from_status,omitempty"`
	ToStatus       string    `json:"to_status"`
	DecidedBy      string    `json:"decided_by,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

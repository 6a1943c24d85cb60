package leaverequest

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveRequest is the persisted record. EmployeeType keeps the role string as
// submitted; Category is its normalized form and is what filtering and
// reporting key on.
type LeaveRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestNumber string    `gorm:"type:varchar(20);not null;uniqueIndex"`

	EmployeeID   string `gorm:"type:varchar(50);not null;index:idx_leave_requests_employee"`
	EmployeeName string `gorm:"type:varchar(100);not null;index:idx_leave_requests_employee"`
	EmployeeType string `gorm:"type:varchar(50);not null"`
	Category     string `gorm:"type:varchar(30);not null;index:idx_leave_requests_category"`

	LeaveType string    `gorm:"type:varchar(20);not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Duration  int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:text"`

	CertName string `gorm:"type:varchar(255)"`
	CertMIME string `gorm:"type:varchar(100)"`
	CertSize int64  `gorm:"type:bigint"`
	CertData []byte `gorm:"type:bytea"`

	Status    string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_status"`
	DecidedBy *string    `gorm:"type:varchar(50)"`
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}

// HasCertification reports whether a document is attached.
func (l *LeaveRequest) HasCertification() bool {
	return l.CertSize > 0 && l.CertMIME != ""
}

package leaverequest

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"spice-hr/internal/workday"

	"github.com/gabriel-vasile/mimetype"
)

const (
	dateLayout      = "2006-01-02"
	maxCertBytes    = 5 << 20 // 5 MiB
	maxReasonLength = 1000
)

var (
	nameCharsRe  = regexp.MustCompile(`^[A-Za-z ]+$`)
	titleWordRe  = regexp.MustCompile(`^[A-Z][a-z]*$`)
	employeeIDRe = regexp.MustCompile(`^[A-Za-z0-9]{3,}$`)
	reasonRe     = regexp.MustCompile(`^[A-Za-z0-9 ,.]*$`)
)

var allowedLeaveTypes = map[string]bool{
	"Annual": true, "Sick": true, "Personal": true,
	"Emergency": true, "Maternity": true, "Paternity": true,
}

// CertificationFile is an uploaded supporting document. MIMEType is sniffed
// from content, never trusted from the client header.
type CertificationFile struct {
	Name string
	Data []byte
}

func (c *CertificationFile) Size() int64 { return int64(len(c.Data)) }

// DetectMIME sniffs the content type from the file bytes.
func (c *CertificationFile) DetectMIME() string {
	return mimetype.Detect(c.Data).String()
}

// Draft is a candidate leave request before it reaches the store.
type Draft struct {
	EmployeeName  string
	EmployeeID    string
	EmployeeType  string
	LeaveType     string
	StartDate     string // YYYY-MM-DD
	EndDate       string
	Reason        string
	Certification *CertificationFile

	// HasExistingCertification is true on edits of a request that already
	// carries a document, which makes a new upload optional.
	HasExistingCertification bool
}

// ValidateDraft checks every rule and reports every failure at once; the
// returned map is keyed by wire field name and empty when the draft is valid.
// The zero-working-days invariant is cross-field and deliberately not part of
// this map; the service checks it after the per-field rules pass.
func ValidateDraft(d Draft, isNewSubmission bool) map[string]string {
	errs := make(map[string]string)

	validateEmployeeName(d.EmployeeName, errs)
	validateEmployeeID(d.EmployeeID, errs)

	if strings.TrimSpace(d.EmployeeType) == "" {
		errs["employeeType"] = "employee type is required"
	}

	if !allowedLeaveTypes[d.LeaveType] {
		errs["leaveType"] = "leave type must be one of Annual, Sick, Personal, Emergency, Maternity, Paternity"
	}

	start, startOK := validateDateField(d.StartDate, "startDate", "start date", errs)
	end, endOK := validateDateField(d.EndDate, "endDate", "end date", errs)
	if startOK && endOK && end.Before(start) {
		errs["endDate"] = "end date must not be before start date"
	}

	validateCertification(d, isNewSubmission, errs)

	if d.Reason != "" {
		if !reasonRe.MatchString(d.Reason) {
			errs["reason"] = "reason may only contain letters, digits, spaces, commas and periods"
		} else if len(d.Reason) > maxReasonLength {
			errs["reason"] = fmt.Sprintf("reason must not exceed %d characters", maxReasonLength)
		}
	}

	return errs
}

func validateEmployeeName(name string, errs map[string]string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		errs["employeeName"] = "employee name is required"
		return
	}
	if len(trimmed) < 2 {
		errs["employeeName"] = "employee name must be at least 2 characters"
		return
	}
	if !nameCharsRe.MatchString(trimmed) {
		errs["employeeName"] = "employee name may only contain letters and spaces"
		return
	}
	for _, word := range strings.Fields(trimmed) {
		if !titleWordRe.MatchString(word) {
			errs["employeeName"] = "employee name must be in Title Case, e.g. John Doe"
			return
		}
	}
}

func validateEmployeeID(id string, errs map[string]string) {
	if strings.TrimSpace(id) == "" {
		errs["employeeId"] = "employee id is required"
		return
	}
	if !employeeIDRe.MatchString(id) {
		errs["employeeId"] = "employee id must be alphanumeric and at least 3 characters"
	}
}

func validateDateField(raw, key, label string, errs map[string]string) (time.Time, bool) {
	if raw == "" {
		errs[key] = label + " is required"
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		errs[key] = label + " must be a valid date in YYYY-MM-DD format"
		return time.Time{}, false
	}
	if workday.IsWeekend(d) {
		errs[key] = label + " must not fall on a weekend"
		return d, false
	}
	return d, true
}

func validateCertification(d Draft, isNewSubmission bool, errs map[string]string) {
	if d.Certification == nil {
		if isNewSubmission && !d.HasExistingCertification {
			errs["certification"] = "a certification document is required"
		}
		return
	}

	if d.Certification.Size() > maxCertBytes {
		errs["certification"] = "certification must not exceed 5 MiB"
		return
	}
	switch d.Certification.DetectMIME() {
	case "image/jpeg", "application/pdf":
	default:
		errs["certification"] = "certification must be a JPEG image or a PDF document"
	}
}

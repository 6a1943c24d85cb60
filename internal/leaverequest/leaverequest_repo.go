package leaverequest

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leaverequest_repo.go -destination=mock/leaverequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error)
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	Delete(ctx context.Context, id string) error
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	CountByCategoryAndStatus(ctx context.Context) ([]CategoryCount, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds a fresh session to the caller's transaction so every query in
// the unit of work commits or rolls back together.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{NewDB: true, Context: r.db.Statement.Context})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error) {
	db := r.db.WithContext(ctx).Model(&LeaveRequest{})
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.EmployeeName != "" {
		db = db.Where("LOWER(employee_name) = LOWER(?)", filter.EmployeeName)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var requests []LeaveRequest
	err := db.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&LeaveRequest{}, "id = ?", id).Error
}

// HasOverlappingPeriod reports whether the employee already has a live
// request touching [startDate, endDate]. Rejected requests do not block a
// resubmission for the same dates.
func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", StatusRejected).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) CountByCategoryAndStatus(ctx context.Context) ([]CategoryCount, error) {
	type row struct {
		Category string
		Status   string
		Count    int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Select("category, status, COUNT(*) AS count").
		Group("category, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]*CategoryCount)
	order := make([]string, 0, len(rows))
	for _, rw := range rows {
		cc, ok := byCategory[rw.Category]
		if !ok {
			cc = &CategoryCount{Category: rw.Category}
			byCategory[rw.Category] = cc
			order = append(order, rw.Category)
		}
		switch rw.Status {
		case StatusPending:
			cc.Pending = rw.Count
		case StatusApproved:
			cc.Approved = rw.Count
		case StatusRejected:
			cc.Rejected = rw.Count
		}
	}

	out := make([]CategoryCount, 0, len(order))
	for _, cat := range order {
		out = append(out, *byCategory[cat])
	}
	return out, nil
}

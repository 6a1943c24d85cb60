package leaverequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"spice-hr/internal/authz"
	"spice-hr/internal/category"
	"spice-hr/internal/events"
	leaverequesterrors "spice-hr/internal/leaverequest/errors"
	"spice-hr/internal/messaging/kafka"
	"spice-hr/internal/shared/apperror"
	"spice-hr/internal/shared/contextutil"
	"spice-hr/internal/shared/counter"
	"spice-hr/internal/workday"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	summaryCacheKey = "leave_requests:summary"
	summaryCacheTTL = 5 * time.Minute

	requestNumberCounter = "leave_request"
)

// isAllowedStatusTransition encodes the whole lifecycle: pending may move to
// approved or rejected, and both of those are terminal.
func isAllowedStatusTransition(current, target string) bool {
	return current == StatusPending &&
		(target == StatusApproved || target == StatusRejected)
}

//go:generate mockgen -source=leaverequest_service.go -destination=mock/leaverequest_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor contextutil.Actor, input CreateLeaveRequestInput, cert *CertificationFile) (LeaveRequestResponse, error)
	GetAll(ctx context.Context, actor contextutil.Actor, filter ListFilter) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, actor contextutil.Actor, id string) (LeaveRequestResponse, error)
	Update(ctx context.Context, actor contextutil.Actor, id string, input UpdateLeaveRequestInput, cert *CertificationFile) (LeaveRequestResponse, error)
	Approve(ctx context.Context, actor contextutil.Actor, id string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, actor contextutil.Actor, id string) (LeaveRequestResponse, error)
	Delete(ctx context.Context, actor contextutil.Actor, id string) error
	Certification(ctx context.Context, actor contextutil.Actor, id string) (CertificationFile, string, error)
	CategorySummary(ctx context.Context) ([]CategoryCount, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counterRepo, nil, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, actor contextutil.Actor, input CreateLeaveRequestInput, cert *CertificationFile) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave request requested",
		zap.String("request_id", rid),
		zap.String("actor_employee_id", actor.EmployeeID),
		zap.String("start_date", input.StartDate),
		zap.String("end_date", input.EndDate),
	)

	draft := Draft{
		EmployeeName:  input.EmployeeName,
		EmployeeID:    input.EmployeeID,
		EmployeeType:  input.EmployeeType,
		LeaveType:     input.LeaveType,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Reason:        input.Reason,
		Certification: cert,
	}
	// Field validation runs first so an incomplete payload always answers
	// with the full field map.
	if fieldErrs := ValidateDraft(draft, true); len(fieldErrs) > 0 {
		s.logger.Warn("create leave request validation failed",
			zap.String("request_id", rid),
			zap.Int("field_errors", len(fieldErrs)),
		)
		return LeaveRequestResponse{}, &ValidationError{Fields: fieldErrs}
	}

	if actor.EmployeeID != "" && input.EmployeeID != actor.EmployeeID {
		return LeaveRequestResponse{}, leaverequesterrors.ErrSubmitForOther
	}

	startDate, endDate, err := parseDates(input.StartDate, input.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	duration := workday.CountWorkingDays(startDate, endDate)
	if duration == 0 {
		return LeaveRequestResponse{}, leaverequesterrors.ErrZeroWorkingDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, input.EmployeeID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("create leave request overlap check failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave request overlap detected",
			zap.String("employee_id", input.EmployeeID),
			zap.String("start_date", input.StartDate),
			zap.String("end_date", input.EndDate),
		)
		return LeaveRequestResponse{}, leaverequesterrors.ErrOverlappingRequest
	}

	seq, err := s.counter.WithTx(tx).GetNextValue(ctx, requestNumberCounter)
	if err != nil {
		s.logger.Error("create leave request number generation failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	l := &LeaveRequest{
		ID:            uuid.New(),
		RequestNumber: fmt.Sprintf("LR-%06d", seq),
		EmployeeID:    input.EmployeeID,
		EmployeeName:  input.EmployeeName,
		EmployeeType:  input.EmployeeType,
		Category:      category.Normalize(input.EmployeeType).String(),
		LeaveType:     input.LeaveType,
		StartDate:     startDate,
		EndDate:       endDate,
		Duration:      duration,
		Reason:        input.Reason,
		Status:        StatusPending,
	}
	if cert != nil {
		l.CertName = cert.Name
		l.CertMIME = cert.DetectMIME()
		l.CertSize = cert.Size()
		l.CertData = cert.Data
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave request persist failed", zap.Error(err))
		return LeaveRequestResponse{}, mapRepositoryError(err)
	}

	if err := s.queueStatusEvent(ctx, tx, l, events.EventLeaveSubmitted, "", ""); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave request commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.invalidateSummary(ctx)
	s.logger.Info("create leave request success",
		zap.String("request_id", rid),
		zap.String("leave_request_id", l.ID.String()),
		zap.String("request_number", l.RequestNumber),
		zap.Int("duration", duration),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, actor contextutil.Actor, filter ListFilter) ([]LeaveRequestResponse, error) {
	if filter.Category != "" {
		filter.Category = category.Normalize(filter.Category).String()
	}

	requests, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all leave requests failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, actor contextutil.Actor, id string) (LeaveRequestResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveRequestResponse{}, mapRepositoryError(err)
	}
	if !authz.CanView(actor, recordState(l)) {
		return LeaveRequestResponse{}, apperror.ErrForbidden
	}
	return mapToResponse(*l), nil
}

func (s *service) Update(ctx context.Context, actor contextutil.Actor, id string, input UpdateLeaveRequestInput, cert *CertificationFile) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update leave request requested",
		zap.String("request_id", rid),
		zap.String("leave_request_id", id),
		zap.String("actor_employee_id", actor.EmployeeID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveRequestResponse{}, mapRepositoryError(err)
	}

	if l.Status != StatusPending {
		return LeaveRequestResponse{}, leaverequesterrors.ErrRequestDecided
	}
	if !authz.CanEdit(actor, recordState(l)) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrEditForbidden
	}

	draft := Draft{
		EmployeeName:             input.EmployeeName,
		EmployeeID:               input.EmployeeID,
		EmployeeType:             input.EmployeeType,
		LeaveType:                input.LeaveType,
		StartDate:                input.StartDate,
		EndDate:                  input.EndDate,
		Reason:                   input.Reason,
		Certification:            cert,
		HasExistingCertification: l.HasCertification(),
	}
	if fieldErrs := ValidateDraft(draft, false); len(fieldErrs) > 0 {
		return LeaveRequestResponse{}, &ValidationError{Fields: fieldErrs}
	}

	// The owner pair is the match key and cannot be edited away.
	if input.EmployeeID != l.EmployeeID {
		return LeaveRequestResponse{}, leaverequesterrors.ErrEditForbidden
	}

	startDate, endDate, err := parseDates(input.StartDate, input.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	duration := workday.CountWorkingDays(startDate, endDate)
	if duration == 0 {
		return LeaveRequestResponse{}, leaverequesterrors.ErrZeroWorkingDays
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, input.EmployeeID, startDate, endDate, &id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if overlap {
		return LeaveRequestResponse{}, leaverequesterrors.ErrOverlappingRequest
	}

	l.EmployeeName = input.EmployeeName
	l.EmployeeType = input.EmployeeType
	l.Category = category.Normalize(input.EmployeeType).String()
	l.LeaveType = input.LeaveType
	l.StartDate = startDate
	l.EndDate = endDate
	l.Duration = duration
	l.Reason = input.Reason
	if cert != nil {
		l.CertName = cert.Name
		l.CertMIME = cert.DetectMIME()
		l.CertSize = cert.Size()
		l.CertData = cert.Data
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("update leave request persist failed",
			zap.String("leave_request_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave request commit failed",
			zap.String("leave_request_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	s.invalidateSummary(ctx)
	s.logger.Info("update leave request success",
		zap.String("request_id", rid),
		zap.String("leave_request_id", id),
	)

	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actor contextutil.Actor, id string) (LeaveRequestResponse, error) {
	return s.transitionStatus(ctx, actor, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, actor contextutil.Actor, id string) (LeaveRequestResponse, error) {
	return s.transitionStatus(ctx, actor, id, StatusRejected)
}

func (s *service) transitionStatus(ctx context.Context, actor contextutil.Actor, id, targetStatus string) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("transition leave request status requested",
		zap.String("request_id", rid),
		zap.String("leave_request_id", id),
		zap.String("actor_employee_id", actor.EmployeeID),
		zap.String("target_status", targetStatus),
	)

	if targetStatus != StatusApproved && targetStatus != StatusRejected {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidStatusTransition
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveRequestResponse{}, mapRepositoryError(err)
	}

	if !authz.CanDecide(actor, recordState(l)) {
		if l.Status != StatusPending {
			s.logger.Warn("transition leave request status invalid",
				zap.String("leave_request_id", id),
				zap.String("from_status", l.Status),
				zap.String("to_status", targetStatus),
			)
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestDecided
		}
		return LeaveRequestResponse{}, leaverequesterrors.ErrDecideForbidden
	}
	if !isAllowedStatusTransition(l.Status, targetStatus) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidStatusTransition
	}

	fromStatus := l.Status
	now := time.Now().UTC()
	l.Status = targetStatus
	decidedBy := actor.EmployeeID
	l.DecidedBy = &decidedBy
	l.DecidedAt = &now

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("transition leave request persist failed",
			zap.String("leave_request_id", id),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, mapRepositoryError(err)
	}

	eventType := events.EventLeaveApproved
	if targetStatus == StatusRejected {
		eventType = events.EventLeaveRejected
	}
	if err := s.queueStatusEvent(ctx, tx, l, eventType, fromStatus, actor.EmployeeID); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition leave request commit failed",
			zap.String("leave_request_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	s.invalidateSummary(ctx)
	s.logger.Info("transition leave request status success",
		zap.String("request_id", rid),
		zap.String("leave_request_id", id),
		zap.String("status", targetStatus),
	)

	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, actor contextutil.Actor, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if l.Status != StatusPending {
		return leaverequesterrors.ErrRequestDecided
	}
	if !authz.CanDelete(actor, recordState(l)) {
		return leaverequesterrors.ErrDeleteForbidden
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateSummary(ctx)
	s.logger.Info("delete leave request success", zap.String("leave_request_id", id))
	return nil
}

func (s *service) Certification(ctx context.Context, actor contextutil.Actor, id string) (CertificationFile, string, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return CertificationFile{}, "", mapRepositoryError(err)
	}
	if !authz.CanView(actor, recordState(l)) {
		return CertificationFile{}, "", apperror.ErrForbidden
	}
	if !l.HasCertification() {
		return CertificationFile{}, "", leaverequesterrors.ErrCertificationNotFound
	}
	return CertificationFile{Name: l.CertName, Data: l.CertData}, l.CertMIME, nil
}

// CategorySummary serves the HR dashboard counts from Redis, with
// singleflight collapsing concurrent misses into one query.
func (s *service) CategorySummary(ctx context.Context) ([]CategoryCount, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, summaryCacheKey).Result(); err == nil {
			var resp []CategoryCount
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(summaryCacheKey, func() (interface{}, error) {
		counts, err := s.repo.CountByCategoryAndStatus(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(counts); err == nil {
				s.rdb.Set(ctx, summaryCacheKey, jsonData, summaryCacheTTL)
			}
		}

		return counts, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]CategoryCount), nil
}

func (s *service) queueStatusEvent(ctx context.Context, tx *sql.Tx, l *LeaveRequest, eventType, fromStatus, decidedBy string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveStatusChangedEvent{
		EventType:      eventType,
		LeaveRequestID: l.ID.String(),
		RequestNumber:  l.RequestNumber,
		EmployeeID:     l.EmployeeID,
		EmployeeName:   l.EmployeeName,
		Category:       l.Category,
		FromStatus:     fromStatus,
		ToStatus:       l.Status,
		DecidedBy:      decidedBy,
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal leave status event failed", zap.Error(err))
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("leave request outbox persist failed",
			zap.String("leave_request_id", l.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidateSummary(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, summaryCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate summary cache",
			zap.Error(err),
			zap.String("key", summaryCacheKey),
		)
	}
}

func recordState(l *LeaveRequest) authz.RecordState {
	return authz.RecordState{
		EmployeeID:   l.EmployeeID,
		EmployeeName: l.EmployeeName,
		Status:       l.Status,
	}
}

func parseDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidDateFormat
	}
	return startDate, endDate, nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaverequesterrors.ErrLeaveRequestNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return leaverequesterrors.ErrOverlappingRequest
	}
	return err
}

func mapToResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:            l.ID.String(),
		RequestNumber: l.RequestNumber,
		EmployeeName:  l.EmployeeName,
		EmployeeID:    l.EmployeeID,
		EmployeeType:  l.EmployeeType,
		Category:      category.Normalize(l.Category).String(),
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format(dateLayout),
		EndDate:       l.EndDate.Format(dateLayout),
		Duration:      l.Duration,
		Reason:        l.Reason,
		Status:        l.Status,
		CreatedAt:     l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.HasCertification() {
		resp.Certification = &CertificationMeta{
			Name:     l.CertName,
			MIMEType: l.CertMIME,
			Size:     l.CertSize,
			URL:      "/api/v1/leave-requests/" + l.ID.String() + "/certification",
		}
	}
	resp.DecidedBy = l.DecidedBy
	if l.DecidedAt != nil {
		v := l.DecidedAt.UTC().Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}

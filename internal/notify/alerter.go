// Package notify watches leave requests for decisions and raises one alert
// per observed transition into a terminal state.
package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Alert describes a single observed status transition.
type Alert struct {
	LeaveRequestID string `json:"leaveRequestId"`
	RequestNumber  string `json:"requestNumber"`
	EmployeeID     string `json:"employeeId"`
	EmployeeName   string `json:"employeeName"`
	FromStatus     string `json:"fromStatus"`
	ToStatus       string `json:"toStatus"`
}

//go:generate mockgen -source=alerter.go -destination=mock/alerter_mock.go -package=mock
type Alerter interface {
	Raise(ctx context.Context, alert Alert) error
}

const alertChannelPrefix = "leave:alerts:"

// AlertChannel is the redis pub/sub channel carrying alerts for one employee.
func AlertChannel(employeeID string) string {
	return alertChannelPrefix + employeeID
}

type redisAlerter struct {
	rdb *redis.Client
}

// NewRedisAlerter publishes alerts to a per-employee pub/sub channel that
// client sessions subscribe to.
func NewRedisAlerter(rdb *redis.Client) Alerter {
	return &redisAlerter{rdb: rdb}
}

func (a *redisAlerter) Raise(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return a.rdb.Publish(ctx, AlertChannel(alert.EmployeeID), payload).Err()
}

type logAlerter struct {
	logger *zap.Logger
}

// NewLogAlerter writes alerts to the log only; used in development.
func NewLogAlerter(logger *zap.Logger) Alerter {
	return &logAlerter{logger: logger.Named("notify.alerter")}
}

func (a *logAlerter) Raise(_ context.Context, alert Alert) error {
	a.logger.Info("leave request decided",
		zap.String("leave_request_id", alert.LeaveRequestID),
		zap.String("request_number", alert.RequestNumber),
		zap.String("employee_id", alert.EmployeeID),
		zap.String("from_status", alert.FromStatus),
		zap.String("to_status", alert.ToStatus),
	)
	return nil
}

package notify

import (
	"context"
	"time"

	"spice-hr/internal/leaverequest"

	"go.uber.org/zap"
)

// Snapshot is the slice of a leave request the watcher tracks between polls.
type Snapshot struct {
	ID            string
	RequestNumber string
	EmployeeID    string
	EmployeeName  string
	Status        string
}

//go:generate mockgen -source=watcher.go -destination=mock/source_mock.go -package=mock
type Source interface {
	Snapshot(ctx context.Context) ([]Snapshot, error)
}

type repositorySource struct {
	repo leaverequest.Repository
}

// NewRepositorySource reads snapshots straight from the store.
func NewRepositorySource(repo leaverequest.Repository) Source {
	return &repositorySource{repo: repo}
}

func (s *repositorySource) Snapshot(ctx context.Context) ([]Snapshot, error) {
	requests, err := s.repo.FindAll(ctx, leaverequest.ListFilter{})
	if err != nil {
		return nil, err
	}
	snaps := make([]Snapshot, len(requests))
	for i, r := range requests {
		snaps[i] = Snapshot{
			ID:            r.ID.String(),
			RequestNumber: r.RequestNumber,
			EmployeeID:    r.EmployeeID,
			EmployeeName:  r.EmployeeName,
			Status:        r.Status,
		}
	}
	return snaps, nil
}

// Watcher polls the store on a fixed interval and alerts on transitions into
// a terminal state. Polls never overlap: each fetch runs to completion on the
// watcher goroutine before the next tick is consumed. A failed poll is
// skipped; the ticker reschedules regardless.
type Watcher struct {
	source   Source
	alerter  Alerter
	interval time.Duration
	logger   *zap.Logger

	known map[string]string // request id -> last observed status
}

const DefaultPollInterval = 5 * time.Second

func NewWatcher(source Source, alerter Alerter, interval time.Duration, logger ...*zap.Logger) *Watcher {
	l := zap.L().Named("notify.watcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.watcher")
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		source:   source,
		alerter:  alerter,
		interval: interval,
		logger:   l,
		known:    make(map[string]string),
	}
}

// Run polls until ctx is cancelled. The first successful poll only primes the
// status map; transitions that happened before the watcher started are not
// re-announced.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("watcher started", zap.Duration("poll_interval", w.interval))

	if err := w.Poll(ctx); err != nil {
		w.logger.Debug("initial poll failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return
		case <-ticker.C:
			if err := w.Poll(ctx); err != nil {
				w.logger.Debug("poll failed, skipping tick", zap.Error(err))
			}
		}
	}
}

// Poll runs one fetch-and-diff cycle. Exported so tests can drive the
// watcher without a running ticker.
func (w *Watcher) Poll(ctx context.Context) error {
	snaps, err := w.source.Snapshot(ctx)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(snaps))
	for _, snap := range snaps {
		seen[snap.ID] = struct{}{}

		prev, ok := w.known[snap.ID]
		w.known[snap.ID] = snap.Status
		if !ok || prev == snap.Status {
			continue
		}
		if prev != leaverequest.StatusPending || !isTerminal(snap.Status) {
			continue
		}

		alert := Alert{
			LeaveRequestID: snap.ID,
			RequestNumber:  snap.RequestNumber,
			EmployeeID:     snap.EmployeeID,
			EmployeeName:   snap.EmployeeName,
			FromStatus:     prev,
			ToStatus:       snap.Status,
		}
		if err := w.alerter.Raise(ctx, alert); err != nil {
			// The status map already advanced, so a failed raise is not
			// retried on the next tick; the at-most-once contract wins.
			w.logger.Warn("raise alert failed",
				zap.String("leave_request_id", snap.ID),
				zap.Error(err),
			)
		}
	}

	// Forget deleted requests so a reused id cannot replay an old status.
	for id := range w.known {
		if _, ok := seen[id]; !ok {
			delete(w.known, id)
		}
	}

	return nil
}

func isTerminal(status string) bool {
	return status == leaverequest.StatusApproved || status == leaverequest.StatusRejected
}

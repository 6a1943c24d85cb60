package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"spice-hr/internal/notify"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSource struct {
	snapshots [][]notify.Snapshot
	errs      []error
	calls     int
}

func (f *fakeSource) Snapshot(ctx context.Context) ([]notify.Snapshot, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.snapshots) {
		return f.snapshots[len(f.snapshots)-1], nil
	}
	return f.snapshots[i], nil
}

type fakeAlerter struct {
	raised []notify.Alert
	err    error
}

func (f *fakeAlerter) Raise(ctx context.Context, alert notify.Alert) error {
	if f.err != nil {
		return f.err
	}
	f.raised = append(f.raised, alert)
	return nil
}

func snap(id, status string) notify.Snapshot {
	return notify.Snapshot{
		ID:            id,
		RequestNumber: "LR-000001",
		EmployeeID:    "EMP001",
		EmployeeName:  "John Doe",
		Status:        status,
	}
}

func TestWatcher_Poll(t *testing.T) {
	ctx := context.Background()

	t.Run("pending to approved raises exactly one alert", func(t *testing.T) {
		source := &fakeSource{snapshots: [][]notify.Snapshot{
			{snap("a", "pending")},
			{snap("a", "approved")},
			{snap("a", "approved")},
			{snap("a", "approved")},
		}}
		alerter := &fakeAlerter{}
		w := notify.NewWatcher(source, alerter, time.Second, zap.NewNop())

		for range source.snapshots {
			assert.NoError(t, w.Poll(ctx))
		}

		assert.Len(t, alerter.raised, 1)
		assert.Equal(t, "a", alerter.raised[0].LeaveRequestID)
		assert.Equal(t, "pending", alerter.raised[0].FromStatus)
		assert.Equal(t, "approved", alerter.raised[0].ToStatus)
	})

	t.Run("first poll primes without alerting", func(t *testing.T) {
		source := &fakeSource{snapshots: [][]notify.Snapshot{
			{snap("a", "approved"), snap("b", "rejected")},
		}}
		alerter := &fakeAlerter{}
		w := notify.NewWatcher(source, alerter, time.Second, zap.NewNop())

		assert.NoError(t, w.Poll(ctx))

		assert.Empty(t, alerter.raised)
	})

	t.Run("each request alerts independently", func(t *testing.T) {
		source := &fakeSource{snapshots: [][]notify.Snapshot{
			{snap("a", "pending"), snap("b", "pending")},
			{snap("a", "approved"), snap("b", "pending")},
			{snap("a", "approved"), snap("b", "rejected")},
		}}
		alerter := &fakeAlerter{}
		w := notify.NewWatcher(source, alerter, time.Second, zap.NewNop())

		for range source.snapshots {
			assert.NoError(t, w.Poll(ctx))
		}

		assert.Len(t, alerter.raised, 2)
		assert.Equal(t, "a", alerter.raised[0].LeaveRequestID)
		assert.Equal(t, "approved", alerter.raised[0].ToStatus)
		assert.Equal(t, "b", alerter.raised[1].LeaveRequestID)
		assert.Equal(t, "rejected", alerter.raised[1].ToStatus)
	})

	t.Run("failed poll reports error and keeps state", func(t *testing.T) {
		source := &fakeSource{
			snapshots: [][]notify.Snapshot{
				{snap("a", "pending")},
				nil, // error slot
				{snap("a", "approved")},
			},
			errs: []error{nil, errors.New("store unavailable"), nil},
		}
		alerter := &fakeAlerter{}
		w := notify.NewWatcher(source, alerter, time.Second, zap.NewNop())

		assert.NoError(t, w.Poll(ctx))
		assert.Error(t, w.Poll(ctx))
		assert.NoError(t, w.Poll(ctx))

		assert.Len(t, alerter.raised, 1)
	})

	t.Run("failed raise is not retried", func(t *testing.T) {
		source := &fakeSource{snapshots: [][]notify.Snapshot{
			{snap("a", "pending")},
			{snap("a", "approved")},
			{snap("a", "approved")},
		}}
		alerter := &fakeAlerter{err: errors.New("broker down")}
		w := notify.NewWatcher(source, alerter, time.Second, zap.NewNop())

		assert.NoError(t, w.Poll(ctx))
		assert.NoError(t, w.Poll(ctx))

		alerter.err = nil
		assert.NoError(t, w.Poll(ctx))

		assert.Empty(t, alerter.raised)
	})

	t.Run("deleted request is forgotten", func(t *testing.T) {
		source := &fakeSource{snapshots: [][]notify.Snapshot{
			{snap("a", "pending")},
			{},
			{snap("a", "approved")},
		}}
		alerter := &fakeAlerter{}
		w := notify.NewWatcher(source, alerter, time.Second, zap.NewNop())

		for range source.snapshots {
			assert.NoError(t, w.Poll(ctx))
		}

		// The id vanished and came back decided; with no pending observation
		// in between there is nothing to announce.
		assert.Empty(t, alerter.raised)
	})
}

func TestWatcher_Run(t *testing.T) {
	t.Run("stops on context cancel", func(t *testing.T) {
		source := &fakeSource{snapshots: [][]notify.Snapshot{
			{snap("a", "pending")},
			{snap("a", "approved")},
		}}
		alerter := &fakeAlerter{}
		w := notify.NewWatcher(source, alerter, 5*time.Millisecond, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			w.Run(ctx)
			close(done)
		}()

		assert.Eventually(t, func() bool { return len(alerter.raised) == 1 },
			time.Second, 5*time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("watcher did not stop after cancel")
		}
	})
}

func TestRedisAlerter_Raise(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	alert := notify.Alert{
		LeaveRequestID: "a",
		RequestNumber:  "LR-000001",
		EmployeeID:     "EMP001",
		EmployeeName:   "John Doe",
		FromStatus:     "pending",
		ToStatus:       "approved",
	}
	payload, err := json.Marshal(alert)
	assert.NoError(t, err)

	mock.ExpectPublish(notify.AlertChannel("EMP001"), payload).SetVal(1)

	err = notify.NewRedisAlerter(rdb).Raise(context.Background(), alert)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

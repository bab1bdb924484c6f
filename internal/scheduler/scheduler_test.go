package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jjc-attendance/internal/clockevent"
	"jjc-attendance/internal/events"
	"jjc-attendance/internal/reconcile"
	"jjc-attendance/internal/remote"
	"jjc-attendance/internal/scheduler"
	"jjc-attendance/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.mu.Lock()
	c.waiters = append(c.waiters, ch)
	c.mu.Unlock()
	return ch
}

// fire releases every armed timer.
func (c *fakeClock) fire() {
	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	now := c.now
	c.mu.Unlock()
	for _, ch := range waiters {
		ch <- now
	}
}

func (c *fakeClock) armed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

type fakeEventsRepo struct {
	findByIDFn  func(ctx context.Context, id string) (*clockevent.ClockEvent, error)
	findDirtyFn func(ctx context.Context, limit int) ([]clockevent.ClockEvent, error)
	saveFn      func(ctx context.Context, e *clockevent.ClockEvent) error
}

func (f *fakeEventsRepo) WithTx(tx *gorm.DB) clockevent.Repository { return f }
func (f *fakeEventsRepo) Create(ctx context.Context, e *clockevent.ClockEvent) error {
	return nil
}
func (f *fakeEventsRepo) Save(ctx context.Context, e *clockevent.ClockEvent) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, e)
	}
	return nil
}
func (f *fakeEventsRepo) Delete(ctx context.Context, id string) error              { return nil }
func (f *fakeEventsRepo) DeleteByServerID(ctx context.Context, serverID int64) error { return nil }
func (f *fakeEventsRepo) FindByID(ctx context.Context, id string) (*clockevent.ClockEvent, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEventsRepo) FindByServerID(ctx context.Context, serverID int64) (*clockevent.ClockEvent, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEventsRepo) FindByDay(ctx context.Context, key clockevent.DayKey) ([]clockevent.ClockEvent, error) {
	return nil, nil
}
func (f *fakeEventsRepo) FindByRange(ctx context.Context, startDate, endDate, employeeID string) ([]clockevent.ClockEvent, error) {
	return nil, nil
}
func (f *fakeEventsRepo) FindDirty(ctx context.Context, limit int) ([]clockevent.ClockEvent, error) {
	if f.findDirtyFn != nil {
		return f.findDirtyFn(ctx, limit)
	}
	return nil, nil
}
func (f *fakeEventsRepo) LastForEmployee(ctx context.Context, employeeID string) (*clockevent.ClockEvent, error) {
	return nil, gorm.ErrRecordNotFound
}

type fakePushGateway struct {
	pushFn func(ctx context.Context, record remote.Record) (*remote.Record, error)
}

func (f *fakePushGateway) PushRecord(ctx context.Context, record remote.Record) (*remote.Record, error) {
	return f.pushFn(ctx, record)
}

type fakeRunner struct {
	triggerFn func(ctx context.Context) (*reconcile.CycleResult, error)
}

func (f *fakeRunner) Trigger(ctx context.Context) (*reconcile.CycleResult, error) {
	return f.triggerFn(ctx)
}

type fakeDayValidator struct {
	validated chan clockevent.DayKey
}

func (f *fakeDayValidator) ValidateDay(ctx context.Context, key clockevent.DayKey) (validation.Report, error) {
	f.validated <- key
	return validation.Report{}, nil
}

type capturePublisher struct {
	events.Publisher
	syncErrors chan events.SyncErrorEvent
}

func (p *capturePublisher) PublishSyncError(ctx context.Context, event events.SyncErrorEvent) error {
	p.syncErrors <- event
	return nil
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	clock := newFakeClock()
	flushed := make(chan []clockevent.DayKey, 1)
	d := scheduler.NewDebouncer(clock, 3*time.Second, func(keys []clockevent.DayKey) {
		flushed <- keys
	})

	k1 := clockevent.DayKey{EmployeeID: "emp-1", Date: "2026-03-02"}
	k2 := clockevent.DayKey{EmployeeID: "emp-2", Date: "2026-03-02"}
	d.Add(k1)
	d.Add(k2)
	d.Add(k1)

	// One burst arms exactly one timer.
	assert.Equal(t, 1, clock.armed())
	assert.Equal(t, 2, d.Pending())

	clock.fire()

	select {
	case keys := <-flushed:
		assert.ElementsMatch(t, []clockevent.DayKey{k1, k2}, keys)
	case <-time.After(time.Second):
		t.Fatal("flush never fired")
	}
	assert.Equal(t, 0, d.Pending())
}

func TestDebouncerFlushOnEmptyIsNoop(t *testing.T) {
	clock := newFakeClock()
	flushed := make(chan []clockevent.DayKey, 1)
	d := scheduler.NewDebouncer(clock, time.Second, func(keys []clockevent.DayKey) {
		flushed <- keys
	})

	d.Flush()
	select {
	case <-flushed:
		t.Fatal("flush callback ran with nothing pending")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUploaderPushesAndLinksServerID(t *testing.T) {
	dirty := clockevent.ClockEvent{
		ID:         "e1",
		EmployeeID: "emp-1",
		ClockType:  "morning_in",
		ClockTime:  time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		Date:       "2026-03-02",
		SyncState:  clockevent.SyncNeverSynced,
	}
	saved := make(chan clockevent.ClockEvent, 1)
	repo := &fakeEventsRepo{
		findByIDFn: func(ctx context.Context, id string) (*clockevent.ClockEvent, error) {
			e := dirty
			return &e, nil
		},
		saveFn: func(ctx context.Context, e *clockevent.ClockEvent) error {
			saved <- *e
			return nil
		},
	}
	gw := &fakePushGateway{
		pushFn: func(ctx context.Context, record remote.Record) (*remote.Record, error) {
			assert.Equal(t, "emp-1", record.EmployeeID)
			return &remote.Record{ID: 77}, nil
		},
	}

	u := scheduler.NewUploader(repo, gw, 8, time.Millisecond, zap.NewNop())
	require.True(t, u.Enqueue("e1"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go u.Run(ctx)

	select {
	case e := <-saved:
		require.NotNil(t, e.ServerID)
		assert.Equal(t, int64(77), *e.ServerID)
		assert.Equal(t, clockevent.SyncSynced, e.SyncState)
	case <-time.After(time.Second):
		t.Fatal("row never saved")
	}
}

func TestUploaderRequeuesOnFailure(t *testing.T) {
	dirty := clockevent.ClockEvent{
		ID: "e1", EmployeeID: "emp-1", ClockType: "morning_in",
		Date: "2026-03-02", SyncState: clockevent.SyncDirty,
	}
	saved := make(chan clockevent.ClockEvent, 1)
	repo := &fakeEventsRepo{
		findByIDFn: func(ctx context.Context, id string) (*clockevent.ClockEvent, error) {
			e := dirty
			return &e, nil
		},
		saveFn: func(ctx context.Context, e *clockevent.ClockEvent) error {
			saved <- *e
			return nil
		},
	}

	var mu sync.Mutex
	calls := 0
	gw := &fakePushGateway{
		pushFn: func(ctx context.Context, record remote.Record) (*remote.Record, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				return nil, errors.New("server unreachable")
			}
			return &remote.Record{ID: 88}, nil
		},
	}

	u := scheduler.NewUploader(repo, gw, 8, time.Millisecond, zap.NewNop())
	require.True(t, u.Enqueue("e1"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go u.Run(ctx)

	select {
	case e := <-saved:
		require.NotNil(t, e.ServerID)
		assert.Equal(t, int64(88), *e.ServerID)
	case <-time.After(time.Second):
		t.Fatal("retry never succeeded")
	}

	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()
}

func TestUploaderSkipsAlreadySyncedRows(t *testing.T) {
	repo := &fakeEventsRepo{
		findByIDFn: func(ctx context.Context, id string) (*clockevent.ClockEvent, error) {
			return &clockevent.ClockEvent{ID: id, SyncState: clockevent.SyncSynced}, nil
		},
		saveFn: func(ctx context.Context, e *clockevent.ClockEvent) error {
			t.Fatal("synced row must not be rewritten")
			return nil
		},
	}
	gw := &fakePushGateway{
		pushFn: func(ctx context.Context, record remote.Record) (*remote.Record, error) {
			t.Fatal("synced row must not be pushed")
			return nil, nil
		},
	}

	u := scheduler.NewUploader(repo, gw, 8, time.Millisecond, zap.NewNop())
	require.True(t, u.Enqueue("e1"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go u.Run(ctx)
	time.Sleep(100 * time.Millisecond)
}

func TestSchedulerStopsAfterMaxAttempts(t *testing.T) {
	triggered := make(chan struct{}, 4)
	runner := &fakeRunner{
		triggerFn: func(ctx context.Context) (*reconcile.CycleResult, error) {
			triggered <- struct{}{}
			return nil, errors.New("remote down")
		},
	}
	pub := &capturePublisher{
		Publisher:  events.NewNoopPublisher(),
		syncErrors: make(chan events.SyncErrorEvent, 1),
	}
	repo := &fakeEventsRepo{}
	u := scheduler.NewUploader(repo, &fakePushGateway{}, 8, time.Millisecond, zap.NewNop())

	s := scheduler.New(runner, &fakeDayValidator{validated: make(chan clockevent.DayKey, 8)}, u, pub, newFakeClock(), scheduler.Options{
		Interval:      time.Hour,
		MaxAttempts:   2,
		DebounceQuiet: time.Second,
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	s.Kick()
	select {
	case <-triggered:
	case <-time.After(time.Second):
		t.Fatal("first cycle never ran")
	}

	s.Kick()
	select {
	case <-triggered:
	case <-time.After(time.Second):
		t.Fatal("second cycle never ran")
	}

	select {
	case evt := <-pub.syncErrors:
		assert.Equal(t, 2, evt.Attempts)
		assert.Contains(t, evt.Message, "remote down")
	case <-time.After(time.Second):
		t.Fatal("scheduler never reported giving up")
	}
}

func TestSchedulerFlushValidatesTouchedDays(t *testing.T) {
	runner := &fakeRunner{
		triggerFn: func(ctx context.Context) (*reconcile.CycleResult, error) {
			return &reconcile.CycleResult{}, nil
		},
	}
	validator := &fakeDayValidator{validated: make(chan clockevent.DayKey, 8)}
	repo := &fakeEventsRepo{}
	u := scheduler.NewUploader(repo, &fakePushGateway{}, 8, time.Millisecond, zap.NewNop())
	clock := newFakeClock()

	s := scheduler.New(runner, validator, u, events.NewNoopPublisher(), clock, scheduler.Options{
		Interval:      time.Hour,
		MaxAttempts:   5,
		DebounceQuiet: time.Second,
	}, zap.NewNop())

	key := clockevent.DayKey{EmployeeID: "emp-1", Date: "2026-03-02"}
	s.AttendanceChanged(key)
	clock.fire()

	select {
	case got := <-validator.validated:
		assert.Equal(t, key, got)
	case <-time.After(time.Second):
		t.Fatal("flush never validated the day")
	}
}

package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type memStore struct {
	snap     Snapshot
	saves    int
	failSave bool
}

func (m *memStore) Load(_ context.Context) (Snapshot, error) {
	return m.snap.Clone(), nil
}

func (m *memStore) Save(_ context.Context, snap Snapshot) error {
	if m.failSave {
		return errors.New("save failed")
	}
	m.snap = snap.Clone()
	m.saves++
	return nil
}

type captureEmitter struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureEmitter) Emit(evt Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
}

func (c *captureEmitter) last() (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		return Event{}, false
	}
	return c.events[len(c.events)-1], true
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T, snap Snapshot, start time.Time) (*Service, *memStore, *captureEmitter, *testClock) {
	t.Helper()

	store := &memStore{snap: snap}
	emitter := &captureEmitter{}
	clock := &testClock{now: start}

	svc, err := New(context.Background(), store,
		WithEmitter(emitter),
		WithClock(clock.Now))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store, emitter, clock
}

func hourlyEmployee(id string, rate float64) Employee {
	return Employee{
		ID:         id,
		FirstName:  "Crew",
		LastName:   id,
		IsActive:   true,
		Role:       RoleLaborer,
		PayType:    PayTypeHourly,
		HourlyRate: rate,
	}
}

func finisherEmployee(id string, rate float64) Employee {
	emp := hourlyEmployee(id, rate)
	emp.Role = RoleFinisher
	return emp
}

func hangerEmployee(id string, rate float64) Employee {
	emp := hourlyEmployee(id, rate)
	emp.Role = RoleHanger
	return emp
}

func standardJob(id string) Job {
	return Job{
		ID:         id,
		Name:       "Job " + id,
		IsActive:   true,
		SquareFeet: 1000,
		FinishRate: 0.85,
		HangRate:   0.30,
	}
}

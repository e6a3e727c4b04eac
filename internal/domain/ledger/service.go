package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Service is the labor ledger: work session registry, completion progress
// tracker, hour bank, tool deduction pool and payroll generator over a single
// injected snapshot store.
//
// Every mutating command runs under one write lock: read current state,
// validate, write, persist, as one unit. That is stronger than the required
// per-employee serialization and makes a duplicate-click double invocation
// resolve as a clean state conflict on the second call. Payroll generation
// runs under the same lock, which gives it the exclusive scope it needs
// across all employees.
type Service struct {
	store   Store
	emitter Emitter
	locator Locator
	log     *zap.Logger
	now     func() time.Time

	mu    sync.RWMutex
	state Snapshot
}

type Option func(*Service)

func WithEmitter(emitter Emitter) Option {
	return func(s *Service) { s.emitter = emitter }
}

func WithLocator(locator Locator) Option {
	return func(s *Service) { s.locator = locator }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock overrides the service clock. Tests pin it to fixed dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New loads the full snapshot from the store and returns a ready service.
func New(ctx context.Context, store Store, opts ...Option) (*Service, error) {
	s := &Service{
		store: store,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger snapshot: %w", err)
	}
	s.state = snap
	s.log.Info("ledger loaded",
		zap.Int("employees", len(snap.Employees)),
		zap.Int("jobs", len(snap.Jobs)),
		zap.Int("timeEntries", len(snap.TimeEntries)),
		zap.Int("pieceRateEntries", len(snap.PieceRateEntries)),
		zap.Int("payrollEntries", len(snap.PayrollEntries)))
	return s, nil
}

// persist writes the working state through the store, restoring the backup on
// failure so no command ever leaves a half-applied mutation behind.
func (s *Service) persist(ctx context.Context, backup Snapshot) error {
	if err := s.store.Save(ctx, s.state); err != nil {
		s.state = backup
		s.log.Error("snapshot save failed, state rolled back", zap.Error(err))
		return fmt.Errorf("persist ledger snapshot: %w", err)
	}
	return nil
}

func (s *Service) findEmployee(id string) (*Employee, error) {
	for i := range s.state.Employees {
		if s.state.Employees[i].ID == id {
			return &s.state.Employees[i], nil
		}
	}
	return nil, ErrEmployeeNotFound
}

func (s *Service) findActiveEmployee(id string) (*Employee, error) {
	emp, err := s.findEmployee(id)
	if err != nil {
		return nil, err
	}
	if !emp.IsActive {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *Service) findJob(id string) (*Job, error) {
	for i := range s.state.Jobs {
		if s.state.Jobs[i].ID == id {
			return &s.state.Jobs[i], nil
		}
	}
	return nil, ErrJobNotFound
}

func (s *Service) openTimeEntry(employeeID string) *TimeEntry {
	for i := range s.state.TimeEntries {
		entry := &s.state.TimeEntries[i]
		if entry.EmployeeID == employeeID && entry.Open() && !entry.Assistance {
			return entry
		}
	}
	return nil
}

func (s *Service) activePieceEntry(employeeID string) *PieceRateEntry {
	for i := range s.state.PieceRateEntries {
		entry := &s.state.PieceRateEntries[i]
		if entry.EmployeeID == employeeID && entry.Active() {
			return entry
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// hourlyEntryToday reports whether a (non-assistance) time entry exists for
// the employee and job on the given day.
func (s *Service) hourlyEntryToday(employeeID, jobID string, day time.Time) bool {
	for i := range s.state.TimeEntries {
		entry := &s.state.TimeEntries[i]
		if entry.Assistance {
			continue
		}
		if entry.EmployeeID == employeeID && entry.JobID == jobID && sameDay(entry.ClockInTime, day) {
			return true
		}
	}
	return false
}

// pieceEntryToday reports whether a piece-rate entry exists for the employee
// and job on the given day, optionally narrowed to one coat. Cancelled
// entries are voided records and do not count.
func (s *Service) pieceEntryToday(employeeID, jobID, coat string, day time.Time) bool {
	for i := range s.state.PieceRateEntries {
		entry := &s.state.PieceRateEntries[i]
		if entry.Status == PieceStatusCancelled {
			continue
		}
		if entry.EmployeeID != employeeID || entry.JobID != jobID || !sameDay(entry.StartTime, day) {
			continue
		}
		if coat == "" || entry.Coat == coat {
			return true
		}
	}
	return false
}

// Employees returns the employee directory view.
func (s *Service) Employees() []Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone().Employees
}

// Jobs returns the job directory view.
func (s *Service) Jobs() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Job(nil), s.state.Jobs...)
}

// Job returns one job by ID.
func (s *Service) Job(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, err := s.findJob(id)
	if err != nil {
		return Job{}, err
	}
	return *job, nil
}

// Sessions returns every open time entry and active piece-rate entry.
func (s *Service) Sessions() ActiveSessions {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out ActiveSessions
	for _, entry := range s.state.TimeEntries {
		if entry.Open() && !entry.Assistance {
			out.TimeEntries = append(out.TimeEntries, entry)
		}
	}
	for _, entry := range s.state.PieceRateEntries {
		if entry.Active() {
			out.PieceRateEntries = append(out.PieceRateEntries, entry)
		}
	}
	return out
}

// EmployeeStatus reports whether the employee is idle, on the clock, or on a
// piece-rate session.
func (s *Service) EmployeeStatus(employeeID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.findEmployee(employeeID); err != nil {
		return "", err
	}
	if s.openTimeEntry(employeeID) != nil {
		return WorkStatusHourly, nil
	}
	if s.activePieceEntry(employeeID) != nil {
		return WorkStatusPieceRate, nil
	}
	return WorkStatusIdle, nil
}

package ledger

import "time"

// Event kinds, one per command outcome. A failed command emits the same kind
// with Err set.
const (
	EventClockIn         = "session.clock_in"
	EventClockOut        = "session.clock_out"
	EventPieceCancelled  = "session.piece_rate_cancelled"
	EventPunchIn         = "session.piece_rate_punch_in"
	EventPieceCompleted  = "session.piece_rate_completed"
	EventPayrollRun      = "payroll.generated"
	EventPayrollEdited   = "payroll.updated"
	EventHoursBanked     = "hourbank.banked"
	EventBankedHoursUsed = "hourbank.used"
	EventLocationWarning = "session.location_warning"
)

// Event is the outcome notification produced for every command, successful or
// failed. The presentation layer renders these instead of the ledger firing
// UI side effects itself.
type Event struct {
	Kind       string         `json:"kind"`
	EmployeeID string         `json:"employeeId,omitempty"`
	Message    string         `json:"message,omitempty"`
	Err        string         `json:"error,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	At         time.Time      `json:"at"`
}

// Emitter receives ledger events. Implementations must not block; the ledger
// calls Emit while holding no locks but on the command path.
type Emitter interface {
	Emit(Event)
}

func (s *Service) emit(kind, employeeID, message string, payload map[string]any) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(Event{
		Kind:       kind,
		EmployeeID: employeeID,
		Message:    message,
		Payload:    payload,
		At:         s.now(),
	})
}

// fail emits a failure event for the command and returns err unchanged so
// call sites can report and return in one step.
func (s *Service) fail(kind, employeeID string, err error) error {
	if s.emitter != nil {
		s.emitter.Emit(Event{
			Kind:       kind,
			EmployeeID: employeeID,
			Err:        err.Error(),
			At:         s.now(),
		})
	}
	return err
}

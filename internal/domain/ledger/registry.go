package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClockIn opens an hourly time entry for the employee on the job.
//
// Preconditions: the employee exists and is active, has no open session of
// either kind, and has no entry of any kind for this job today.
func (s *Service) ClockIn(ctx context.Context, employeeID, jobID string, meta SessionMeta) (TimeEntry, error) {
	if employeeID == "" || jobID == "" {
		return TimeEntry{}, s.fail(EventClockIn, employeeID, fmt.Errorf("%w: employee and job are required", ErrInvalidInput))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.findActiveEmployee(employeeID)
	if err != nil {
		return TimeEntry{}, s.fail(EventClockIn, employeeID, err)
	}
	job, err := s.findJob(jobID)
	if err != nil {
		return TimeEntry{}, s.fail(EventClockIn, employeeID, err)
	}

	now := s.now()
	if s.openTimeEntry(employeeID) != nil || s.activePieceEntry(employeeID) != nil {
		return TimeEntry{}, s.fail(EventClockIn, employeeID, ErrAlreadyWorking)
	}
	if s.hourlyEntryToday(employeeID, jobID, now) || s.pieceEntryToday(employeeID, jobID, "", now) {
		return TimeEntry{}, s.fail(EventClockIn, employeeID, ErrAlreadyWorkedToday)
	}

	entry := TimeEntry{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		JobID:       jobID,
		ClockInTime: now,
		Trade:       meta.Trade,
		Phase:       meta.Phase,
		Notes:       meta.Notes,
	}

	backup := s.state.Clone()
	s.state.TimeEntries = append(s.state.TimeEntries, entry)
	if err := s.persist(ctx, backup); err != nil {
		return TimeEntry{}, s.fail(EventClockIn, employeeID, err)
	}

	s.log.Info("clock in",
		zap.String("employeeId", employeeID),
		zap.String("jobId", jobID),
		zap.String("entryId", entry.ID))
	s.emit(EventClockIn, employeeID, emp.Name()+" clocked in", map[string]any{
		"entryId": entry.ID,
		"jobId":   jobID,
	})
	s.checkLocation(*job, employeeID, meta)
	return entry, nil
}

// ClockOutResult reports what the clock-out actually did: closed an hourly
// entry, or cancelled an abandoned piece-rate entry.
type ClockOutResult struct {
	TimeEntry *TimeEntry      `json:"timeEntry,omitempty"`
	Cancelled *PieceRateEntry `json:"cancelled,omitempty"`
}

// ClockOut ends the employee's current session.
//
// An open time entry is closed and its total hours derived from the span. An
// active piece-rate entry is never silently closed with earnings: unless
// cancelPiece is set the call fails with ErrCompletionPending so the caller
// can run the completion flow; with cancelPiece set the entry terminates as
// cancelled with zero earnings.
func (s *Service) ClockOut(ctx context.Context, employeeID, notes string, cancelPiece bool) (ClockOutResult, error) {
	if employeeID == "" {
		return ClockOutResult{}, s.fail(EventClockOut, employeeID, fmt.Errorf("%w: employee is required", ErrInvalidInput))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.findEmployee(employeeID)
	if err != nil {
		return ClockOutResult{}, s.fail(EventClockOut, employeeID, err)
	}

	now := s.now()
	if piece := s.activePieceEntry(employeeID); piece != nil {
		if !cancelPiece {
			return ClockOutResult{}, s.fail(EventClockOut, employeeID, ErrCompletionPending)
		}

		backup := s.state.Clone()
		end := now
		piece.Status = PieceStatusCancelled
		piece.EndTime = &end
		piece.TotalEarnings = 0
		piece.Notes = appendNote(piece.Notes, "cancelled at clock-out without completion")
		if notes != "" {
			piece.Notes = appendNote(piece.Notes, notes)
		}
		cancelled := *piece
		if err := s.persist(ctx, backup); err != nil {
			return ClockOutResult{}, s.fail(EventPieceCancelled, employeeID, err)
		}

		s.log.Info("piece-rate entry cancelled at clock-out",
			zap.String("employeeId", employeeID),
			zap.String("entryId", cancelled.ID))
		s.emit(EventPieceCancelled, employeeID, emp.Name()+" clocked out, piece-rate entry cancelled", map[string]any{
			"entryId": cancelled.ID,
			"jobId":   cancelled.JobID,
			"coat":    cancelled.Coat,
		})
		return ClockOutResult{Cancelled: &cancelled}, nil
	}

	open := s.openTimeEntry(employeeID)
	if open == nil {
		return ClockOutResult{}, s.fail(EventClockOut, employeeID, ErrNotWorking)
	}

	backup := s.state.Clone()
	end := now
	open.ClockOutTime = &end
	open.TotalHours = Round2(end.Sub(open.ClockInTime).Hours())
	if notes != "" {
		open.Notes = appendNote(open.Notes, notes)
	}
	closed := *open
	if err := s.persist(ctx, backup); err != nil {
		return ClockOutResult{}, s.fail(EventClockOut, employeeID, err)
	}

	s.log.Info("clock out",
		zap.String("employeeId", employeeID),
		zap.String("entryId", closed.ID),
		zap.Float64("totalHours", closed.TotalHours))
	s.emit(EventClockOut, employeeID, emp.Name()+" clocked out", map[string]any{
		"entryId":    closed.ID,
		"jobId":      closed.JobID,
		"totalHours": closed.TotalHours,
	})
	return ClockOutResult{TimeEntry: &closed}, nil
}

// PunchInPieceRate opens an active piece-rate entry for the employee on the
// job and coat.
//
// Laborers are not eligible for piece-rate work. Hangers always work the
// "hang" sentinel coat and are gated on cumulative hang progress; everyone
// else works a coat from the job's sequence and is gated on that coat's
// remaining capacity.
func (s *Service) PunchInPieceRate(ctx context.Context, employeeID, jobID, coat string, meta SessionMeta) (PieceRateEntry, error) {
	if employeeID == "" || jobID == "" || coat == "" {
		return PieceRateEntry{}, s.fail(EventPunchIn, employeeID, fmt.Errorf("%w: employee, job and coat are required", ErrInvalidInput))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.findActiveEmployee(employeeID)
	if err != nil {
		return PieceRateEntry{}, s.fail(EventPunchIn, employeeID, err)
	}
	if emp.Role == RoleLaborer {
		return PieceRateEntry{}, s.fail(EventPunchIn, employeeID, ErrRoleNotEligible)
	}
	job, err := s.findJob(jobID)
	if err != nil {
		return PieceRateEntry{}, s.fail(EventPunchIn, employeeID, err)
	}

	if emp.Role == RoleHanger {
		if coat != CoatHang {
			return PieceRateEntry{}, s.fail(EventPunchIn, employeeID, fmt.Errorf("%w: hangers punch in on %q", ErrInvalidInput, CoatHang))
		}
	} else {
		if !coatInSequence(*job, coat) {
			return PieceRateEntry{}, s.fail(EventPunchIn, employeeID, fmt.Errorf("%w: coat %q is not in this job's sequence", ErrInvalidInput, coat))
		}
	}

	now := s.now()
	if s.openTimeEntry(employeeID) != nil || s.activePieceEntry(employeeID) != nil {
		return PieceRateEntry{}, s.fail(EventPunchIn, employeeID, ErrAlreadyWorking)
	}
	if s.hourlyEntryToday(employeeID, jobID, now) || s.pieceEntryToday(employeeID, jobID, coat, now) {
		return PieceRateEntry{}, s.fail(EventPunchIn, employeeID, ErrAlreadyWorkedToday)
	}

	if coat == CoatHang {
		if s.hangProgressLocked(jobID, employeeID) >= 100 {
			return PieceRateEntry{}, s.fail(EventPunchIn, employeeID, ErrJobComplete)
		}
	} else if s.coatProgressLocked(jobID, employeeID, coat) >= 100 {
		return PieceRateEntry{}, s.fail(EventPunchIn, employeeID, ErrCoatComplete)
	}

	entry := PieceRateEntry{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		JobID:      jobID,
		Role:       emp.Role,
		Coat:       coat,
		StartTime:  now,
		Status:     PieceStatusActive,
		Notes:      meta.Notes,
	}

	backup := s.state.Clone()
	s.state.PieceRateEntries = append(s.state.PieceRateEntries, entry)
	if err := s.persist(ctx, backup); err != nil {
		return PieceRateEntry{}, s.fail(EventPunchIn, employeeID, err)
	}

	s.log.Info("piece-rate punch in",
		zap.String("employeeId", employeeID),
		zap.String("jobId", jobID),
		zap.String("coat", coat),
		zap.String("entryId", entry.ID))
	s.emit(EventPunchIn, employeeID, emp.Name()+" punched in on "+coat, map[string]any{
		"entryId": entry.ID,
		"jobId":   jobID,
		"coat":    coat,
	})
	s.checkLocation(*job, employeeID, meta)
	return entry, nil
}

func coatInSequence(job Job, coat string) bool {
	for _, c := range CoatSequence(job) {
		if c == coat {
			return true
		}
	}
	return false
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "; " + note
}

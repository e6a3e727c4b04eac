package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// coatProgressLocked sums completed completion percentages for the coat.
// Callers hold the service lock.
func (s *Service) coatProgressLocked(jobID, employeeID, coat string) float64 {
	var total float64
	for i := range s.state.PieceRateEntries {
		entry := &s.state.PieceRateEntries[i]
		if entry.Status == PieceStatusCompleted && entry.JobID == jobID && entry.EmployeeID == employeeID && entry.Coat == coat {
			total += entry.CompletionPercentage
		}
	}
	return total
}

// hangProgressLocked returns the highest completed hang percentage: each
// completed hang entry reports the new cumulative total, so the latest state
// is the maximum, not a sum.
func (s *Service) hangProgressLocked(jobID, employeeID string) float64 {
	var max float64
	for i := range s.state.PieceRateEntries {
		entry := &s.state.PieceRateEntries[i]
		if entry.Status == PieceStatusCompleted && entry.JobID == jobID && entry.EmployeeID == employeeID && entry.Coat == CoatHang {
			if entry.CompletionPercentage > max {
				max = entry.CompletionPercentage
			}
		}
	}
	return max
}

// CoatProgress returns cumulative completed percentage for a (job, employee,
// coat). Used to gate finisher punch-ins.
func (s *Service) CoatProgress(jobID, employeeID, coat string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coatProgressLocked(jobID, employeeID, coat)
}

// HangProgress returns the latest cumulative hang percentage for a (job,
// employee).
func (s *Service) HangProgress(jobID, employeeID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hangProgressLocked(jobID, employeeID)
}

// RemainingCoatPercentage is the capacity left on a coat for the employee.
func (s *Service) RemainingCoatPercentage(jobID, employeeID, coat string) float64 {
	return 100 - s.CoatProgress(jobID, employeeID, coat)
}

// CoatStatuses reports every coat in the job's sequence with the employee's
// progress, driving the punch-in picker.
func (s *Service) CoatStatuses(jobID, employeeID string) ([]CoatStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, err := s.findJob(jobID)
	if err != nil {
		return nil, err
	}

	var out []CoatStatus
	for _, coat := range CoatSequence(*job) {
		done := s.coatProgressLocked(jobID, employeeID, coat)
		out = append(out, CoatStatus{Coat: coat, Completed: done, Remaining: 100 - done})
	}
	return out, nil
}

// AvailableCoats returns the coats of the job's sequence the employee can
// still punch in on (progress below 100).
func (s *Service) AvailableCoats(jobID, employeeID string) ([]string, error) {
	statuses, err := s.CoatStatuses(jobID, employeeID)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, status := range statuses {
		if status.Completed < 100 {
			out = append(out, status.Coat)
		}
	}
	return out, nil
}

// CompletionInput carries the completion flow's fields. Rate and net
// earnings come from the caller so the payout stays auditable and editable;
// SuggestedEarnings prices the default.
type CompletionInput struct {
	EntryID              string  `json:"entryId"`
	CompletionPercentage float64 `json:"completionPercentage"`
	Rate                 float64 `json:"rate"`
	NetEarnings          float64 `json:"netEarnings"`
	Notes                string  `json:"notes,omitempty"`
	ApprenticeID         string  `json:"apprenticeId,omitempty"`
	ApprenticeHours      float64 `json:"apprenticeHours,omitempty"`
	ApprenticeCost       float64 `json:"apprenticeCost,omitempty"`
}

// CompletePieceRateEntry terminates an active piece-rate entry as completed
// with earnings.
//
// Finisher coats accumulate: the reported percentage may not push the coat
// past 100 in total. Hang completions are cumulative totals: the reported
// percentage must strictly exceed the prior maximum and may not exceed 100.
//
// When an apprentice assisted, a closed assistance time entry is synthesized
// for them spanning the piece-rate session. It is a retroactive record, not a
// live clock-in, so it bypasses session exclusivity and daily-uniqueness
// checks.
func (s *Service) CompletePieceRateEntry(ctx context.Context, input CompletionInput) (PieceRateEntry, error) {
	if input.EntryID == "" {
		return PieceRateEntry{}, s.fail(EventPieceCompleted, "", fmt.Errorf("%w: entry id is required", ErrInvalidInput))
	}
	if input.CompletionPercentage <= 0 {
		return PieceRateEntry{}, s.fail(EventPieceCompleted, "", fmt.Errorf("%w: completion percentage must be positive", ErrInvalidInput))
	}
	if input.CompletionPercentage > 100 {
		return PieceRateEntry{}, s.fail(EventPieceCompleted, "", fmt.Errorf("%w: completion percentage cannot exceed 100", ErrInvalidInput))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var entry *PieceRateEntry
	for i := range s.state.PieceRateEntries {
		if s.state.PieceRateEntries[i].ID == input.EntryID {
			entry = &s.state.PieceRateEntries[i]
			break
		}
	}
	if entry == nil {
		return PieceRateEntry{}, s.fail(EventPieceCompleted, "", ErrEntryNotFound)
	}
	if !entry.Active() {
		return PieceRateEntry{}, s.fail(EventPieceCompleted, entry.EmployeeID, ErrEntryNotActive)
	}

	if entry.Coat == CoatHang {
		if prior := s.hangProgressLocked(entry.JobID, entry.EmployeeID); input.CompletionPercentage <= prior {
			return PieceRateEntry{}, s.fail(EventPieceCompleted, entry.EmployeeID, ErrProgressNotIncreased)
		}
	} else {
		remaining := 100 - s.coatProgressLocked(entry.JobID, entry.EmployeeID, entry.Coat)
		if input.CompletionPercentage > remaining {
			return PieceRateEntry{}, s.fail(EventPieceCompleted, entry.EmployeeID, ErrCompletionExceedsCoat)
		}
	}

	if input.ApprenticeID != "" {
		if _, err := s.findEmployee(input.ApprenticeID); err != nil {
			return PieceRateEntry{}, s.fail(EventPieceCompleted, entry.EmployeeID, err)
		}
	}

	now := s.now()
	backup := s.state.Clone()

	end := now
	entry.Status = PieceStatusCompleted
	entry.EndTime = &end
	entry.CompletionPercentage = input.CompletionPercentage
	entry.PieceRate = input.Rate
	entry.TotalEarnings = Round2(input.NetEarnings)
	entry.ApprenticeID = input.ApprenticeID
	entry.ApprenticeHours = input.ApprenticeHours
	entry.ApprenticeCost = input.ApprenticeCost
	if input.Notes != "" {
		entry.Notes = appendNote(entry.Notes, input.Notes)
	}
	completed := *entry

	if input.ApprenticeID != "" && input.ApprenticeHours > 0 {
		assistEnd := now
		s.state.TimeEntries = append(s.state.TimeEntries, TimeEntry{
			ID:           uuid.NewString(),
			EmployeeID:   input.ApprenticeID,
			JobID:        completed.JobID,
			ClockInTime:  completed.StartTime,
			ClockOutTime: &assistEnd,
			TotalHours:   Round2(input.ApprenticeHours),
			Assistance:   true,
			Notes:        "assisted piece-rate work on " + completed.Coat,
		})
	}

	if err := s.persist(ctx, backup); err != nil {
		return PieceRateEntry{}, s.fail(EventPieceCompleted, completed.EmployeeID, err)
	}

	s.log.Info("piece-rate entry completed",
		zap.String("employeeId", completed.EmployeeID),
		zap.String("entryId", completed.ID),
		zap.String("coat", completed.Coat),
		zap.Float64("completionPercentage", completed.CompletionPercentage),
		zap.Float64("totalEarnings", completed.TotalEarnings))
	s.emit(EventPieceCompleted, completed.EmployeeID, "piece-rate work completed on "+completed.Coat, map[string]any{
		"entryId":              completed.ID,
		"jobId":                completed.JobID,
		"coat":                 completed.Coat,
		"completionPercentage": completed.CompletionPercentage,
		"totalEarnings":        completed.TotalEarnings,
	})
	return completed, nil
}

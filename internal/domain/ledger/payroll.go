package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GeneratePayroll produces one draft payroll entry covering every active
// employee for the date range. Entries are selected by their start timestamp
// falling inside [start, end].
//
// This is the only operation that mutates the tool deduction pool. The run is
// atomic: every balance decrement and the new payroll entry commit in one
// snapshot save, or none of it does.
func (s *Service) GeneratePayroll(ctx context.Context, start, end time.Time) (PayrollEntry, error) {
	if start.IsZero() || end.IsZero() {
		return PayrollEntry{}, s.fail(EventPayrollRun, "", fmt.Errorf("%w: start and end dates are required", ErrInvalidInput))
	}
	if end.Before(start) {
		return PayrollEntry{}, s.fail(EventPayrollRun, "", fmt.Errorf("%w: end date before start date", ErrInvalidInput))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.state.Clone()
	now := s.now()

	entry := PayrollEntry{
		ID:            uuid.NewString(),
		StartDate:     start,
		EndDate:       end,
		GeneratedDate: now,
		Status:        PayrollStatusDraft,
	}

	for i := range s.state.Employees {
		emp := &s.state.Employees[i]
		if !emp.IsActive {
			continue
		}

		var hourTotal float64
		var workTimes []time.Time
		for _, t := range s.state.TimeEntries {
			if t.EmployeeID != emp.ID || t.Open() {
				continue
			}
			if t.ClockInTime.Before(start) || t.ClockInTime.After(end) {
				continue
			}
			hourTotal += t.TotalHours
			workTimes = append(workTimes, t.ClockInTime)
		}
		hourTotal = Round2(hourTotal)

		var pieceTotal float64
		for _, p := range s.state.PieceRateEntries {
			if p.EmployeeID != emp.ID || p.Status != PieceStatusCompleted {
				continue
			}
			if p.StartTime.Before(start) || p.StartTime.After(end) {
				continue
			}
			pieceTotal += p.TotalEarnings
		}
		pieceTotal = Round2(pieceTotal)

		regular, overtime := SplitOvertime(hourTotal)
		basePay := emp.SalaryAmount
		if emp.PayType != PayTypeSalary {
			basePay = HourlyBasePay(regular, overtime, emp.HourlyRate)
		}

		daysWorked := DistinctDays(workTimes)
		perDiemTotal := Round2(emp.PerDiem * float64(daysWorked))

		updatedTools, toolTotal := ApplyToolDeductions(emp.ToolDeductions)
		emp.ToolDeductions = updatedTools

		row := PayrollRow{
			EmployeeID:        emp.ID,
			EmployeeName:      emp.Name(),
			PayType:           emp.PayType,
			TotalHours:        hourTotal,
			RegularHours:      regular,
			OvertimeHours:     overtime,
			BasePay:           basePay,
			PieceRateEarnings: pieceTotal,
			DaysWorked:        daysWorked,
			PerDiemTotal:      perDiemTotal,
			FuelAllowance:     emp.FuelAllowance,
			ToolDeductions:    toolTotal,
			ChildSupport:      emp.ChildSupportDeduction,
			MiscDeduction:     emp.MiscDeduction,
			BankedHours:       emp.BankedHours,
		}
		row.GrossPay = Round2(row.BasePay + row.PieceRateEarnings + row.PerDiemTotal + row.FuelAllowance)
		row.TotalDeductions = Round2(row.ToolDeductions + row.ChildSupport + row.MiscDeduction)
		row.NetPay = Round2(row.GrossPay - row.TotalDeductions)

		entry.Rows = append(entry.Rows, row)
	}

	recomputeTotals(&entry)
	s.state.PayrollEntries = append(s.state.PayrollEntries, entry)

	if err := s.persist(ctx, backup); err != nil {
		return PayrollEntry{}, s.fail(EventPayrollRun, "", err)
	}

	s.log.Info("payroll generated",
		zap.String("payrollId", entry.ID),
		zap.Time("startDate", start),
		zap.Time("endDate", end),
		zap.Int("rows", len(entry.Rows)),
		zap.Float64("totalNet", entry.TotalNet))
	s.emit(EventPayrollRun, "", fmt.Sprintf("payroll generated for %d employees", len(entry.Rows)), map[string]any{
		"payrollId": entry.ID,
		"totalNet":  entry.TotalNet,
	})
	return entry, nil
}

// RowUpdate carries caller-supplied edits to one payroll row. Nil fields are
// left alone.
type RowUpdate struct {
	EmployeeID        string   `json:"employeeId"`
	TotalHours        *float64 `json:"totalHours,omitempty"`
	BasePay           *float64 `json:"basePay,omitempty"`
	PieceRateEarnings *float64 `json:"pieceRateEarnings,omitempty"`
	PerDiemTotal      *float64 `json:"perDiemTotal,omitempty"`
	FuelAllowance     *float64 `json:"fuelAllowance,omitempty"`
	ToolDeductions    *float64 `json:"toolDeductions,omitempty"`
	ChildSupport      *float64 `json:"childSupport,omitempty"`
	MiscDeduction     *float64 `json:"miscDeduction,omitempty"`
}

// UpdatePayrollEntry merges row edits into a generated payroll entry and
// stamps it. Only the touched rows' gross and net and the aggregate totals
// are recomputed from the edited columns; time entries are not re-read and
// the tool deduction pool is never touched again.
func (s *Service) UpdatePayrollEntry(ctx context.Context, payrollID string, updates []RowUpdate) (PayrollEntry, error) {
	if payrollID == "" {
		return PayrollEntry{}, s.fail(EventPayrollEdited, "", fmt.Errorf("%w: payroll id is required", ErrInvalidInput))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var entry *PayrollEntry
	for i := range s.state.PayrollEntries {
		if s.state.PayrollEntries[i].ID == payrollID {
			entry = &s.state.PayrollEntries[i]
			break
		}
	}
	if entry == nil {
		return PayrollEntry{}, s.fail(EventPayrollEdited, "", ErrPayrollNotFound)
	}

	backup := s.state.Clone()

	for _, update := range updates {
		row := findRow(entry, update.EmployeeID)
		if row == nil {
			s.state = backup
			return PayrollEntry{}, s.fail(EventPayrollEdited, update.EmployeeID, fmt.Errorf("%w: no payroll row for employee", ErrEmployeeNotFound))
		}
		if update.TotalHours != nil {
			row.TotalHours = *update.TotalHours
		}
		if update.BasePay != nil {
			row.BasePay = *update.BasePay
		}
		if update.PieceRateEarnings != nil {
			row.PieceRateEarnings = *update.PieceRateEarnings
		}
		if update.PerDiemTotal != nil {
			row.PerDiemTotal = *update.PerDiemTotal
		}
		if update.FuelAllowance != nil {
			row.FuelAllowance = *update.FuelAllowance
		}
		if update.ToolDeductions != nil {
			row.ToolDeductions = *update.ToolDeductions
		}
		if update.ChildSupport != nil {
			row.ChildSupport = *update.ChildSupport
		}
		if update.MiscDeduction != nil {
			row.MiscDeduction = *update.MiscDeduction
		}
		row.GrossPay = Round2(row.BasePay + row.PieceRateEarnings + row.PerDiemTotal + row.FuelAllowance)
		row.TotalDeductions = Round2(row.ToolDeductions + row.ChildSupport + row.MiscDeduction)
		row.NetPay = Round2(row.GrossPay - row.TotalDeductions)
	}

	recomputeTotals(entry)
	stamped := s.now()
	entry.UpdatedDate = &stamped
	updated := *entry
	updated.Rows = append([]PayrollRow(nil), entry.Rows...)

	if err := s.persist(ctx, backup); err != nil {
		return PayrollEntry{}, s.fail(EventPayrollEdited, "", err)
	}

	s.log.Info("payroll entry updated",
		zap.String("payrollId", payrollID),
		zap.Int("rowEdits", len(updates)))
	s.emit(EventPayrollEdited, "", "payroll entry updated", map[string]any{
		"payrollId": payrollID,
	})
	return updated, nil
}

// Payrolls lists generated payroll entries, newest first.
func (s *Service) Payrolls() []PayrollEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state.Clone().PayrollEntries
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Payroll returns one payroll entry by ID.
func (s *Service) Payroll(id string) (PayrollEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.state.PayrollEntries {
		if entry.ID == id {
			entry.Rows = append([]PayrollRow(nil), entry.Rows...)
			return entry, nil
		}
	}
	return PayrollEntry{}, ErrPayrollNotFound
}

func findRow(entry *PayrollEntry, employeeID string) *PayrollRow {
	for i := range entry.Rows {
		if entry.Rows[i].EmployeeID == employeeID {
			return &entry.Rows[i]
		}
	}
	return nil
}

func recomputeTotals(entry *PayrollEntry) {
	entry.TotalGross, entry.TotalDeductions, entry.TotalNet = 0, 0, 0
	for _, row := range entry.Rows {
		entry.TotalGross += row.GrossPay
		entry.TotalDeductions += row.TotalDeductions
		entry.TotalNet += row.NetPay
	}
	entry.TotalGross = Round2(entry.TotalGross)
	entry.TotalDeductions = Round2(entry.TotalDeductions)
	entry.TotalNet = Round2(entry.TotalNet)
}

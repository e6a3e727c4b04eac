package ledger

import (
	"context"
	"errors"
	"testing"
	"time"
)

var (
	periodStart = time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2025, 3, 15, 23, 59, 59, 0, time.UTC)
)

func closedEntry(employeeID, jobID string, day time.Time, hours float64) TimeEntry {
	end := day.Add(time.Duration(hours * float64(time.Hour)))
	return TimeEntry{
		ID:           "te-" + employeeID + day.Format("0102"),
		EmployeeID:   employeeID,
		JobID:        jobID,
		ClockInTime:  day,
		ClockOutTime: &end,
		TotalHours:   hours,
	}
}

func TestGeneratePayrollOvertimeSplit(t *testing.T) {
	emp := hourlyEmployee("emp-1", 20)
	snap := Snapshot{
		Employees: []Employee{emp},
		Jobs:      []Job{standardJob("job-1")},
	}
	// 45 hours across the week: 40 regular + 5 overtime at time and a half.
	for d := 0; d < 5; d++ {
		day := periodStart.Add(time.Duration(d)*24*time.Hour + 8*time.Hour)
		snap.TimeEntries = append(snap.TimeEntries, closedEntry("emp-1", "job-1", day, 9))
	}

	svc, _, _, _ := newTestService(t, snap, periodEnd)
	entry, err := svc.GeneratePayroll(context.Background(), periodStart, periodEnd)
	if err != nil {
		t.Fatalf("generate payroll: %v", err)
	}
	if len(entry.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(entry.Rows))
	}

	row := entry.Rows[0]
	if row.TotalHours != 45 || row.RegularHours != 40 || row.OvertimeHours != 5 {
		t.Fatalf("unexpected hour split: %+v", row)
	}
	if row.BasePay != 950.00 {
		t.Fatalf("expected base pay 950.00, got %v", row.BasePay)
	}
	if row.DaysWorked != 5 {
		t.Fatalf("expected 5 days worked, got %d", row.DaysWorked)
	}
	if entry.Status != PayrollStatusDraft {
		t.Fatalf("expected draft status, got %q", entry.Status)
	}
}

func TestGeneratePayrollAllowancesAndDeductions(t *testing.T) {
	emp := hourlyEmployee("emp-1", 20)
	emp.PerDiem = 50
	emp.FuelAllowance = 75
	emp.ChildSupportDeduction = 120
	emp.MiscDeduction = 30
	emp.ToolDeductions = []ToolDeduction{
		{ID: "tool-1", Description: "screw gun", TotalAmount: 500, WeeklyDeduction: 100, RemainingBalance: 500},
	}
	snap := Snapshot{
		Employees: []Employee{emp},
		Jobs:      []Job{standardJob("job-1")},
		TimeEntries: []TimeEntry{
			closedEntry("emp-1", "job-1", periodStart.Add(8*time.Hour), 8),
			closedEntry("emp-1", "job-1", periodStart.Add(24*time.Hour+8*time.Hour), 8),
		},
		PieceRateEntries: []PieceRateEntry{
			{
				ID: "pr-1", EmployeeID: "emp-1", JobID: "job-1", Coat: CoatTape,
				StartTime: periodStart.Add(48 * time.Hour), Status: PieceStatusCompleted,
				CompletionPercentage: 50, PieceRate: 0.85, TotalEarnings: 106.25,
			},
		},
	}

	svc, store, _, _ := newTestService(t, snap, periodEnd)
	entry, err := svc.GeneratePayroll(context.Background(), periodStart, periodEnd)
	if err != nil {
		t.Fatalf("generate payroll: %v", err)
	}

	row := entry.Rows[0]
	if row.BasePay != 320.00 {
		t.Fatalf("expected base pay 320.00, got %v", row.BasePay)
	}
	if row.PieceRateEarnings != 106.25 {
		t.Fatalf("expected piece-rate earnings 106.25, got %v", row.PieceRateEarnings)
	}
	if row.DaysWorked != 2 || row.PerDiemTotal != 100.00 {
		t.Fatalf("unexpected per diem: %+v", row)
	}
	if row.ToolDeductions != 100.00 {
		t.Fatalf("expected tool deduction 100.00, got %v", row.ToolDeductions)
	}
	if row.GrossPay != 601.25 {
		t.Fatalf("expected gross 601.25, got %v", row.GrossPay)
	}
	if row.TotalDeductions != 250.00 {
		t.Fatalf("expected deductions 250.00, got %v", row.TotalDeductions)
	}
	if row.NetPay != row.GrossPay-row.TotalDeductions {
		t.Fatalf("net must equal gross minus deductions: %+v", row)
	}

	// The run persisted the decremented balance back to the employee.
	persisted := store.snap.Employees[0].ToolDeductions[0]
	if persisted.RemainingBalance != 400.00 {
		t.Fatalf("expected remaining balance 400.00, got %v", persisted.RemainingBalance)
	}
}

func TestToolDeductionsExhaustAcrossRuns(t *testing.T) {
	emp := hourlyEmployee("emp-1", 20)
	emp.ToolDeductions = []ToolDeduction{
		{ID: "tool-1", TotalAmount: 500, WeeklyDeduction: 100, RemainingBalance: 500},
	}
	snap := Snapshot{Employees: []Employee{emp}}

	svc, store, _, _ := newTestService(t, snap, periodEnd)
	ctx := context.Background()

	for run := 0; run < 5; run++ {
		entry, err := svc.GeneratePayroll(ctx, periodStart, periodEnd)
		if err != nil {
			t.Fatalf("run %d: %v", run+1, err)
		}
		if entry.Rows[0].ToolDeductions != 100.00 {
			t.Fatalf("run %d: expected 100.00 deduction, got %v", run+1, entry.Rows[0].ToolDeductions)
		}
	}
	if balance := store.snap.Employees[0].ToolDeductions[0].RemainingBalance; balance != 0 {
		t.Fatalf("expected exhausted balance, got %v", balance)
	}

	// A sixth run deducts nothing for the paid-off tool.
	entry, err := svc.GeneratePayroll(ctx, periodStart, periodEnd)
	if err != nil {
		t.Fatalf("sixth run: %v", err)
	}
	if entry.Rows[0].ToolDeductions != 0 {
		t.Fatalf("expected zero deduction on sixth run, got %v", entry.Rows[0].ToolDeductions)
	}
	if balance := store.snap.Employees[0].ToolDeductions[0].RemainingBalance; balance != 0 {
		t.Fatalf("balance must never go negative, got %v", balance)
	}
}

func TestGeneratePayrollSalaryEmployee(t *testing.T) {
	emp := hourlyEmployee("emp-sal", 0)
	emp.PayType = PayTypeSalary
	emp.SalaryAmount = 1500
	snap := Snapshot{
		Employees:   []Employee{emp},
		Jobs:        []Job{standardJob("job-1")},
		TimeEntries: []TimeEntry{closedEntry("emp-sal", "job-1", periodStart.Add(8*time.Hour), 50)},
	}

	svc, _, _, _ := newTestService(t, snap, periodEnd)
	entry, err := svc.GeneratePayroll(context.Background(), periodStart, periodEnd)
	if err != nil {
		t.Fatalf("generate payroll: %v", err)
	}
	if entry.Rows[0].BasePay != 1500 {
		t.Fatalf("expected salary base pay 1500, got %v", entry.Rows[0].BasePay)
	}
}

func TestGeneratePayrollSkipsOutOfRangeAndOpenEntries(t *testing.T) {
	open := TimeEntry{
		ID: "te-open", EmployeeID: "emp-1", JobID: "job-1",
		ClockInTime: periodStart.Add(3 * 24 * time.Hour),
	}
	before := closedEntry("emp-1", "job-1", periodStart.Add(-48*time.Hour), 8)
	after := closedEntry("emp-1", "job-1", periodEnd.Add(48*time.Hour), 8)
	inRange := closedEntry("emp-1", "job-1", periodStart.Add(8*time.Hour), 6)

	snap := Snapshot{
		Employees:   []Employee{hourlyEmployee("emp-1", 20)},
		Jobs:        []Job{standardJob("job-1")},
		TimeEntries: []TimeEntry{open, before, after, inRange},
	}

	svc, _, _, _ := newTestService(t, snap, periodEnd)
	entry, err := svc.GeneratePayroll(context.Background(), periodStart, periodEnd)
	if err != nil {
		t.Fatalf("generate payroll: %v", err)
	}
	if entry.Rows[0].TotalHours != 6 {
		t.Fatalf("expected 6 in-range hours, got %v", entry.Rows[0].TotalHours)
	}
}

func TestGeneratePayrollIgnoresBankedHours(t *testing.T) {
	// Open decision point: banked hours are tracked but not paid out by the
	// generator. The row reports the balance so a payout line can be added
	// later; gross pay must not include it.
	emp := hourlyEmployee("emp-1", 20)
	emp.BankedHours = 12
	snap := Snapshot{
		Employees:   []Employee{emp},
		Jobs:        []Job{standardJob("job-1")},
		TimeEntries: []TimeEntry{closedEntry("emp-1", "job-1", periodStart.Add(8*time.Hour), 8)},
	}

	svc, _, _, _ := newTestService(t, snap, periodEnd)
	entry, err := svc.GeneratePayroll(context.Background(), periodStart, periodEnd)
	if err != nil {
		t.Fatalf("generate payroll: %v", err)
	}
	row := entry.Rows[0]
	if row.BankedHours != 12 {
		t.Fatalf("expected banked hours reported as 12, got %v", row.BankedHours)
	}
	if row.GrossPay != 160.00 {
		t.Fatalf("banked hours must not change gross pay, got %v", row.GrossPay)
	}
}

func TestGeneratePayrollAtomicRollback(t *testing.T) {
	emp := hourlyEmployee("emp-1", 20)
	emp.ToolDeductions = []ToolDeduction{
		{ID: "tool-1", TotalAmount: 500, WeeklyDeduction: 100, RemainingBalance: 500},
	}
	snap := Snapshot{Employees: []Employee{emp}}

	svc, store, _, _ := newTestService(t, snap, periodEnd)
	ctx := context.Background()

	store.failSave = true
	if _, err := svc.GeneratePayroll(ctx, periodStart, periodEnd); err == nil {
		t.Fatal("expected save failure")
	}

	// No tool balance may be decremented without a committed payroll entry.
	if balance := store.snap.Employees[0].ToolDeductions[0].RemainingBalance; balance != 500 {
		t.Fatalf("expected untouched balance 500, got %v", balance)
	}
	if len(svc.Payrolls()) != 0 {
		t.Fatal("expected no payroll entries after rollback")
	}

	store.failSave = false
	if _, err := svc.GeneratePayroll(ctx, periodStart, periodEnd); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if balance := store.snap.Employees[0].ToolDeductions[0].RemainingBalance; balance != 400 {
		t.Fatalf("expected balance 400 after committed run, got %v", balance)
	}
}

func TestUpdatePayrollEntry(t *testing.T) {
	emp := hourlyEmployee("emp-1", 20)
	emp.ToolDeductions = []ToolDeduction{
		{ID: "tool-1", TotalAmount: 500, WeeklyDeduction: 100, RemainingBalance: 500},
	}
	snap := Snapshot{
		Employees:   []Employee{emp},
		Jobs:        []Job{standardJob("job-1")},
		TimeEntries: []TimeEntry{closedEntry("emp-1", "job-1", periodStart.Add(8*time.Hour), 8)},
	}

	svc, store, _, _ := newTestService(t, snap, periodEnd)
	ctx := context.Background()

	generated, err := svc.GeneratePayroll(ctx, periodStart, periodEnd)
	if err != nil {
		t.Fatalf("generate payroll: %v", err)
	}

	newBase := 200.00
	updated, err := svc.UpdatePayrollEntry(ctx, generated.ID, []RowUpdate{
		{EmployeeID: "emp-1", BasePay: &newBase},
	})
	if err != nil {
		t.Fatalf("update payroll: %v", err)
	}

	row := updated.Rows[0]
	if row.BasePay != 200.00 {
		t.Fatalf("expected edited base pay, got %v", row.BasePay)
	}
	if row.GrossPay != 200.00 {
		t.Fatalf("expected recomputed gross 200.00, got %v", row.GrossPay)
	}
	if row.NetPay != Round2(row.GrossPay-row.TotalDeductions) {
		t.Fatalf("net not recomputed: %+v", row)
	}
	if updated.TotalGross != 200.00 {
		t.Fatalf("aggregate totals not recomputed: %v", updated.TotalGross)
	}
	if updated.UpdatedDate == nil {
		t.Fatal("expected updated timestamp")
	}

	// Edits never touch the tool deduction pool again.
	if balance := store.snap.Employees[0].ToolDeductions[0].RemainingBalance; balance != 400 {
		t.Fatalf("expected balance 400 untouched by edit, got %v", balance)
	}

	if _, err := svc.UpdatePayrollEntry(ctx, "missing", nil); !errors.Is(err, ErrPayrollNotFound) {
		t.Fatalf("expected ErrPayrollNotFound, got %v", err)
	}
}

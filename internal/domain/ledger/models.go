package ledger

import "time"

// ToolDeduction is one financed tool purchase on an employee's declining
// balance. RemainingBalance only ever moves down, and only inside a payroll
// run.
type ToolDeduction struct {
	ID               string  `json:"id"`
	Description      string  `json:"description"`
	TotalAmount      float64 `json:"totalAmount"`
	WeeklyDeduction  float64 `json:"weeklyDeduction"`
	RemainingBalance float64 `json:"remainingBalance"`
}

// Employee is owned by the external directory. The ledger reads it and writes
// back exactly two things: tool deduction balances and banked hours.
type Employee struct {
	ID                    string          `json:"id"`
	FirstName             string          `json:"firstName"`
	LastName              string          `json:"lastName"`
	IsActive              bool            `json:"isActive"`
	Role                  string          `json:"role"`
	PayType               string          `json:"payType"`
	HourlyRate            float64         `json:"hourlyRate"`
	SalaryAmount          float64         `json:"salaryAmount"`
	PerDiem               float64         `json:"perDiem"`
	FuelAllowance         float64         `json:"fuelAllowance"`
	BankedHours           float64         `json:"bankedHours"`
	ChildSupportDeduction float64         `json:"childSupportDeduction"`
	MiscDeduction         float64         `json:"miscDeduction"`
	ToolDeductions        []ToolDeduction `json:"toolDeductions"`
}

func (e Employee) Name() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// Job is owned by the external directory and consumed read-only. The finish
// scope strings drive the coat sequence; the rates and square footage drive
// piece-rate earnings suggestions.
type Job struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	IsActive        bool     `json:"isActive"`
	SquareFeet      float64  `json:"squareFeet"`
	FinishRate      float64  `json:"finishRate"`
	HangRate        float64  `json:"hangRate"`
	WallFinish      string   `json:"wallFinish"`
	CeilingFinish   string   `json:"ceilingFinish"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	GeofenceRadiusM float64  `json:"geofenceRadiusM"`
}

// TimeEntry is an hourly work session. Open while ClockOutTime is nil, Closed
// exactly once by clock-out, immutable afterward.
type TimeEntry struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	JobID        string     `json:"jobId"`
	ClockInTime  time.Time  `json:"clockInTime"`
	ClockOutTime *time.Time `json:"clockOutTime,omitempty"`
	TotalHours   float64    `json:"totalHours"`
	Trade        string     `json:"trade,omitempty"`
	Phase        string     `json:"phase,omitempty"`
	// Assistance marks a retroactive apprentice record synthesized by a
	// piece-rate completion. It is exempt from session exclusivity and
	// daily-uniqueness checks.
	Assistance bool   `json:"assistance,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func (t TimeEntry) Open() bool {
	return t.ClockOutTime == nil
}

// PieceRateEntry is a piece-rate work session. Active until it terminates as
// Completed (with earnings) or Cancelled (zero earnings).
type PieceRateEntry struct {
	ID                   string     `json:"id"`
	EmployeeID           string     `json:"employeeId"`
	JobID                string     `json:"jobId"`
	Role                 string     `json:"role"`
	Coat                 string     `json:"coat"`
	StartTime            time.Time  `json:"startTime"`
	EndTime              *time.Time `json:"endTime,omitempty"`
	Status               string     `json:"status"`
	CompletionPercentage float64    `json:"completionPercentage"`
	PieceRate            float64    `json:"pieceRate"`
	TotalEarnings        float64    `json:"totalEarnings"`
	ApprenticeID         string     `json:"apprenticeId,omitempty"`
	ApprenticeHours      float64    `json:"apprenticeHours,omitempty"`
	ApprenticeCost       float64    `json:"apprenticeCost,omitempty"`
	Notes                string     `json:"notes,omitempty"`
}

func (p PieceRateEntry) Active() bool {
	return p.Status == PieceStatusActive
}

// PayrollRow is one employee's line in a payroll entry.
type PayrollRow struct {
	EmployeeID        string  `json:"employeeId"`
	EmployeeName      string  `json:"employeeName"`
	PayType           string  `json:"payType"`
	TotalHours        float64 `json:"totalHours"`
	RegularHours      float64 `json:"regularHours"`
	OvertimeHours     float64 `json:"overtimeHours"`
	BasePay           float64 `json:"basePay"`
	PieceRateEarnings float64 `json:"pieceRateEarnings"`
	DaysWorked        int     `json:"daysWorked"`
	PerDiemTotal      float64 `json:"perDiemTotal"`
	FuelAllowance     float64 `json:"fuelAllowance"`
	ToolDeductions    float64 `json:"toolDeductions"`
	ChildSupport      float64 `json:"childSupport"`
	MiscDeduction     float64 `json:"miscDeduction"`
	// BankedHours is informational only; the generator does not pay it out.
	BankedHours     float64 `json:"bankedHours"`
	GrossPay        float64 `json:"grossPay"`
	TotalDeductions float64 `json:"totalDeductions"`
	NetPay          float64 `json:"netPay"`
}

// PayrollEntry is one generated payroll run. Rows may be edited afterward;
// edits recompute gross/net for the touched row and the aggregate totals, and
// never touch tool deduction balances again.
type PayrollEntry struct {
	ID              string       `json:"id"`
	StartDate       time.Time    `json:"startDate"`
	EndDate         time.Time    `json:"endDate"`
	GeneratedDate   time.Time    `json:"generatedDate"`
	UpdatedDate     *time.Time   `json:"updatedDate,omitempty"`
	Status          string       `json:"status"`
	Rows            []PayrollRow `json:"rows"`
	TotalGross      float64      `json:"totalGross"`
	TotalDeductions float64      `json:"totalDeductions"`
	TotalNet        float64      `json:"totalNet"`
}

// SessionMeta carries optional tags and an advisory location for clock-in and
// piece-rate punch-in.
type SessionMeta struct {
	Trade     string   `json:"trade,omitempty"`
	Phase     string   `json:"phase,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// CoatStatus reports one coat of a job's sequence with the employee's
// progress on it.
type CoatStatus struct {
	Coat      string  `json:"coat"`
	Completed float64 `json:"completed"`
	Remaining float64 `json:"remaining"`
}

// ActiveSessions is the registry's live view: every open time entry and
// active piece-rate entry across the crew.
type ActiveSessions struct {
	TimeEntries      []TimeEntry      `json:"timeEntries"`
	PieceRateEntries []PieceRateEntry `json:"pieceRateEntries"`
}

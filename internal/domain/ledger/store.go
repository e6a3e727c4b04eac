package ledger

import "context"

// Snapshot is the full persisted state of the ledger: the two
// externally-owned directories plus the three collections the ledger owns.
// Stores load it in full at startup and rewrite it in full after each
// mutating batch.
type Snapshot struct {
	Employees        []Employee       `json:"employees"`
	Jobs             []Job            `json:"jobs"`
	TimeEntries      []TimeEntry      `json:"timeEntries"`
	PieceRateEntries []PieceRateEntry `json:"pieceRateEntries"`
	PayrollEntries   []PayrollEntry   `json:"payrollEntries"`
}

// Store persists snapshots. Save must be atomic: a partially written
// snapshot would break the payroll run's all-or-nothing contract.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// Clone deep-copies the snapshot. The service keeps a clone as a rollback
// point around every mutating command.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Employees:        make([]Employee, len(s.Employees)),
		Jobs:             append([]Job(nil), s.Jobs...),
		TimeEntries:      append([]TimeEntry(nil), s.TimeEntries...),
		PieceRateEntries: append([]PieceRateEntry(nil), s.PieceRateEntries...),
		PayrollEntries:   make([]PayrollEntry, len(s.PayrollEntries)),
	}
	for i, emp := range s.Employees {
		emp.ToolDeductions = append([]ToolDeduction(nil), emp.ToolDeductions...)
		out.Employees[i] = emp
	}
	for i, entry := range s.PayrollEntries {
		entry.Rows = append([]PayrollRow(nil), entry.Rows...)
		out.PayrollEntries[i] = entry
	}
	return out
}

package ledger

import (
	"math"
	"strings"
	"time"
)

// Round2 rounds a dollar or hour amount to two decimals.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// SplitOvertime splits total hours at the 40-hour weekly threshold.
func SplitOvertime(totalHours float64) (regular, overtime float64) {
	if totalHours <= overtimeThreshold {
		return totalHours, 0
	}
	return overtimeThreshold, totalHours - overtimeThreshold
}

// HourlyBasePay pays regular hours at the rate and overtime at time and a
// half.
func HourlyBasePay(regular, overtime, rate float64) float64 {
	return Round2(regular*rate + overtime*rate*overtimeMultiplier)
}

// DistinctDays counts distinct calendar dates among the given timestamps.
func DistinctDays(times []time.Time) int {
	seen := map[string]struct{}{}
	for _, t := range times {
		seen[t.Format("2006-01-02")] = struct{}{}
	}
	return len(seen)
}

// ApplyToolDeductions applies one payroll run's worth of weekly deductions to
// a tool list, clamping each at its remaining balance. It returns the updated
// list and the total withheld this run. A tool already at zero contributes
// nothing.
func ApplyToolDeductions(tools []ToolDeduction) ([]ToolDeduction, float64) {
	updated := make([]ToolDeduction, len(tools))
	var total float64
	for i, tool := range tools {
		if tool.RemainingBalance > 0 {
			deduction := math.Min(tool.WeeklyDeduction, tool.RemainingBalance)
			tool.RemainingBalance = Round2(tool.RemainingBalance - deduction)
			total += deduction
		}
		updated[i] = tool
	}
	return updated, Round2(total)
}

// CoatSequence derives the expected coat sequence from the job's finish
// scope. The default is the 4-stage tape/bed/skim/sand run; a Level-5 smooth
// finish or a textured ceiling adds a fifth pass before sanding.
func CoatSequence(job Job) []string {
	seq := []string{CoatTape, CoatBed, CoatSkim}
	finish := strings.ToLower(job.WallFinish + " " + job.CeilingFinish)
	switch {
	case strings.Contains(finish, "level 5") || strings.Contains(finish, "level5") || strings.Contains(finish, "smooth"):
		seq = append(seq, CoatLevel5)
	case strings.Contains(strings.ToLower(job.CeilingFinish), "textur"):
		seq = append(seq, CoatTexture)
	}
	return append(seq, CoatSand)
}

// CoatValue is the full dollar value of one coat on the job: the finish rate
// across the whole square footage, split evenly over the coat sequence.
func CoatValue(job Job) float64 {
	coats := len(CoatSequence(job))
	if coats == 0 {
		return 0
	}
	return Round2(job.FinishRate * job.SquareFeet / float64(coats))
}

// HangValue is the full dollar value of hanging the job.
func HangValue(job Job) float64 {
	return Round2(job.HangRate * job.SquareFeet)
}

// SuggestedEarnings prices a completion percentage against the coat (or hang)
// value. The completion flow accepts an explicit net earnings figure, so this
// is the default the caller starts from, not a constraint.
func SuggestedEarnings(job Job, coat string, percentage float64) float64 {
	if coat == CoatHang {
		return Round2(HangValue(job) * percentage / 100)
	}
	return Round2(CoatValue(job) * percentage / 100)
}

package ledger

import "errors"

// Validation errors: the input itself is unusable.
var (
	ErrInvalidInput = errors.New("invalid input")
)

// Not-found errors.
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrJobNotFound      = errors.New("job not found")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrPayrollNotFound  = errors.New("payroll entry not found")
)

// State-conflict errors: the command would violate a ledger invariant. The
// caller must resolve the conflicting state before retrying.
var (
	ErrAlreadyWorking          = errors.New("employee already has an open session")
	ErrAlreadyWorkedToday      = errors.New("employee already has an entry for this job today")
	ErrNotWorking              = errors.New("employee has no open session")
	ErrCompletionPending       = errors.New("active piece-rate entry must be completed or cancelled")
	ErrEntryNotActive          = errors.New("piece-rate entry is not active")
	ErrCoatComplete            = errors.New("coat is already fully complete")
	ErrJobComplete             = errors.New("hanging is already fully complete")
	ErrCompletionExceedsCoat   = errors.New("completion exceeds remaining coat percentage")
	ErrProgressNotIncreased    = errors.New("hang completion must exceed current cumulative progress")
	ErrInsufficientBankedHours = errors.New("insufficient banked hours")
)

// Role gating.
var (
	ErrRoleNotEligible = errors.New("role is not eligible for piece-rate work")
)

// IsConflict reports whether err is a state-conflict error, as opposed to bad
// input or a missing record.
func IsConflict(err error) bool {
	for _, conflict := range []error{
		ErrAlreadyWorking, ErrAlreadyWorkedToday, ErrNotWorking,
		ErrCompletionPending, ErrEntryNotActive, ErrCoatComplete,
		ErrJobComplete, ErrCompletionExceedsCoat, ErrProgressNotIncreased,
		ErrInsufficientBankedHours,
	} {
		if errors.Is(err, conflict) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err refers to a missing employee, job or entry.
func IsNotFound(err error) bool {
	for _, notFound := range []error{
		ErrEmployeeNotFound, ErrJobNotFound, ErrEntryNotFound, ErrPayrollNotFound,
	} {
		if errors.Is(err, notFound) {
			return true
		}
	}
	return false
}

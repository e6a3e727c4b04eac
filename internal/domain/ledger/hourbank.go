package ledger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// BankHours adds overtime hours to the employee's banked reserve. Whether a
// later payroll run pays banked hours out is an open product decision; the
// generator currently reports the balance on the row without paying it.
func (s *Service) BankHours(ctx context.Context, employeeID string, hours float64) (float64, error) {
	if hours <= 0 {
		return 0, s.fail(EventHoursBanked, employeeID, fmt.Errorf("%w: hours must be positive", ErrInvalidInput))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.findEmployee(employeeID)
	if err != nil {
		return 0, s.fail(EventHoursBanked, employeeID, err)
	}

	backup := s.state.Clone()
	emp.BankedHours = Round2(emp.BankedHours + hours)
	balance := emp.BankedHours
	if err := s.persist(ctx, backup); err != nil {
		return 0, s.fail(EventHoursBanked, employeeID, err)
	}

	s.log.Info("hours banked",
		zap.String("employeeId", employeeID),
		zap.Float64("hours", hours),
		zap.Float64("balance", balance))
	s.emit(EventHoursBanked, employeeID, "hours banked", map[string]any{
		"hours":   hours,
		"balance": balance,
	})
	return balance, nil
}

// UseBankedHours draws hours from the employee's banked reserve. The reserve
// never goes negative.
func (s *Service) UseBankedHours(ctx context.Context, employeeID string, hours float64) (float64, error) {
	if hours <= 0 {
		return 0, s.fail(EventBankedHoursUsed, employeeID, fmt.Errorf("%w: hours must be positive", ErrInvalidInput))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.findEmployee(employeeID)
	if err != nil {
		return 0, s.fail(EventBankedHoursUsed, employeeID, err)
	}
	if hours > emp.BankedHours {
		return 0, s.fail(EventBankedHoursUsed, employeeID, ErrInsufficientBankedHours)
	}

	backup := s.state.Clone()
	emp.BankedHours = Round2(emp.BankedHours - hours)
	balance := emp.BankedHours
	if err := s.persist(ctx, backup); err != nil {
		return 0, s.fail(EventBankedHoursUsed, employeeID, err)
	}

	s.log.Info("banked hours used",
		zap.String("employeeId", employeeID),
		zap.Float64("hours", hours),
		zap.Float64("balance", balance))
	s.emit(EventBankedHoursUsed, employeeID, "banked hours used", map[string]any{
		"hours":   hours,
		"balance": balance,
	})
	return balance, nil
}

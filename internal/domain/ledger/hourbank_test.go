package ledger

import (
	"context"
	"errors"
	"testing"
)

func TestBankAndUseHours(t *testing.T) {
	snap := Snapshot{Employees: []Employee{hourlyEmployee("emp-1", 20)}}
	svc, store, _, _ := newTestService(t, snap, day1)
	ctx := context.Background()

	balance, err := svc.BankHours(ctx, "emp-1", 5)
	if err != nil {
		t.Fatalf("bank hours: %v", err)
	}
	if balance != 5 {
		t.Fatalf("expected balance 5, got %v", balance)
	}

	balance, err = svc.UseBankedHours(ctx, "emp-1", 3)
	if err != nil {
		t.Fatalf("use banked hours: %v", err)
	}
	if balance != 2 {
		t.Fatalf("expected balance 2, got %v", balance)
	}

	if store.snap.Employees[0].BankedHours != 2 {
		t.Fatalf("balance not persisted: %v", store.snap.Employees[0].BankedHours)
	}
}

func TestUseBankedHoursNeverGoesNegative(t *testing.T) {
	emp := hourlyEmployee("emp-1", 20)
	emp.BankedHours = 2
	snap := Snapshot{Employees: []Employee{emp}}
	svc, _, _, _ := newTestService(t, snap, day1)

	if _, err := svc.UseBankedHours(context.Background(), "emp-1", 3); !errors.Is(err, ErrInsufficientBankedHours) {
		t.Fatalf("expected ErrInsufficientBankedHours, got %v", err)
	}
}

func TestHourBankRejectsNonPositiveHours(t *testing.T) {
	snap := Snapshot{Employees: []Employee{hourlyEmployee("emp-1", 20)}}
	svc, _, _, _ := newTestService(t, snap, day1)
	ctx := context.Background()

	if _, err := svc.BankHours(ctx, "emp-1", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.UseBankedHours(ctx, "emp-1", -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.BankHours(ctx, "missing", 1); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

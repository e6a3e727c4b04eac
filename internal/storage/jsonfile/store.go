package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"crewledger/internal/domain/ledger"
)

const (
	employeesFile = "employees.json"
	jobsFile      = "jobs.json"
	timeFile      = "time_entries.json"
	pieceFile     = "piece_rate_entries.json"
	payrollFile   = "payroll_entries.json"
)

// Store keeps each collection as one flat JSON array file in dir. The whole
// snapshot is loaded at startup and every collection is rewritten in full
// after each mutating batch. Save stages every collection as a temp file
// before the first rename, so a failed write aborts the whole save and a
// reload still sees the previous snapshot, never a torn one.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Load(_ context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	if err := readCollection(s.path(employeesFile), &snap.Employees); err != nil {
		return ledger.Snapshot{}, err
	}
	if err := readCollection(s.path(jobsFile), &snap.Jobs); err != nil {
		return ledger.Snapshot{}, err
	}
	if err := readCollection(s.path(timeFile), &snap.TimeEntries); err != nil {
		return ledger.Snapshot{}, err
	}
	if err := readCollection(s.path(pieceFile), &snap.PieceRateEntries); err != nil {
		return ledger.Snapshot{}, err
	}
	if err := readCollection(s.path(payrollFile), &snap.PayrollEntries); err != nil {
		return ledger.Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) Save(_ context.Context, snap ledger.Snapshot) error {
	staged := make([]string, 0, 5)
	stage := func(name string, records any) error {
		path := s.path(name)
		if err := stageCollection(path, records); err != nil {
			for _, tmp := range staged {
				_ = os.Remove(tmp)
			}
			return err
		}
		staged = append(staged, path+tmpSuffix)
		return nil
	}

	if err := stage(employeesFile, orEmpty(snap.Employees)); err != nil {
		return err
	}
	if err := stage(jobsFile, orEmpty(snap.Jobs)); err != nil {
		return err
	}
	if err := stage(timeFile, orEmpty(snap.TimeEntries)); err != nil {
		return err
	}
	if err := stage(pieceFile, orEmpty(snap.PieceRateEntries)); err != nil {
		return err
	}
	if err := stage(payrollFile, orEmpty(snap.PayrollEntries)); err != nil {
		return err
	}

	for _, tmp := range staged {
		target := strings.TrimSuffix(tmp, tmpSuffix)
		if err := os.Rename(tmp, target); err != nil {
			return fmt.Errorf("replace %s: %w", filepath.Base(target), err)
		}
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func readCollection[T any](path string, out *[]T) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

const tmpSuffix = ".tmp"

func stageCollection(path string, records any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path+tmpSuffix, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path)+tmpSuffix, err)
	}
	return nil
}

func orEmpty[T any](records []T) []T {
	if records == nil {
		return []T{}
	}
	return records
}

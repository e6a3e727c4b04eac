package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crewledger/internal/domain/ledger"
)

// Store persists the full snapshot in Postgres, one jsonb document row per
// record. Save rewrites every table inside a single transaction so a payroll
// run lands atomically or not at all, mirroring the file backend's contract.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Load(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	if err := loadTable(ctx, s.pool, "employees", &snap.Employees); err != nil {
		return ledger.Snapshot{}, err
	}
	if err := loadTable(ctx, s.pool, "jobs", &snap.Jobs); err != nil {
		return ledger.Snapshot{}, err
	}
	if err := loadTable(ctx, s.pool, "time_entries", &snap.TimeEntries); err != nil {
		return ledger.Snapshot{}, err
	}
	if err := loadTable(ctx, s.pool, "piece_rate_entries", &snap.PieceRateEntries); err != nil {
		return ledger.Snapshot{}, err
	}
	if err := loadTable(ctx, s.pool, "payroll_entries", &snap.PayrollEntries); err != nil {
		return ledger.Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) Save(ctx context.Context, snap ledger.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot save: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := saveTable(ctx, tx, "employees", snap.Employees, func(e ledger.Employee) string { return e.ID }); err != nil {
		return err
	}
	if err := saveTable(ctx, tx, "jobs", snap.Jobs, func(j ledger.Job) string { return j.ID }); err != nil {
		return err
	}
	if err := saveTable(ctx, tx, "time_entries", snap.TimeEntries, func(t ledger.TimeEntry) string { return t.ID }); err != nil {
		return err
	}
	if err := saveTable(ctx, tx, "piece_rate_entries", snap.PieceRateEntries, func(p ledger.PieceRateEntry) string { return p.ID }); err != nil {
		return err
	}
	if err := saveTable(ctx, tx, "payroll_entries", snap.PayrollEntries, func(p ledger.PayrollEntry) string { return p.ID }); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func loadTable[T any](ctx context.Context, pool *pgxpool.Pool, table string, out *[]T) error {
	rows, err := pool.Query(ctx, fmt.Sprintf(`SELECT doc FROM %s ORDER BY id`, table))
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		var record T
		if err := json.Unmarshal(doc, &record); err != nil {
			return fmt.Errorf("decode %s: %w", table, err)
		}
		*out = append(*out, record)
	}
	return rows.Err()
}

func saveTable[T any](ctx context.Context, tx pgx.Tx, table string, records []T, id func(T) string) error {
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for _, record := range records {
		doc, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode %s: %w", table, err)
		}
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, table),
			id(record), doc,
		); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

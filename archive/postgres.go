package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS hedge_runs (
	id         uuid PRIMARY KEY,
	task_id    text NOT NULL,
	created_at timestamptz NOT NULL,
	payload    jsonb NOT NULL
)`

// PostgresStore keeps runs in the hedge_runs table. The full Run is stored
// as jsonb; id, task_id and created_at are duplicated as columns for lookup.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenPostgres connects with the lib/pq driver and pings the server.
func OpenPostgres(dsn string, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dsn == "" {
		return nil, fmt.Errorf("OpenPostgres: empty dsn")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("OpenPostgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("OpenPostgres: ping: %w", err)
	}
	logger.Debug("postgres archive connected")
	return &PostgresStore{db: db, logger: logger}, nil
}

// Migrate creates the hedge_runs table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createRunsTable); err != nil {
		return fmt.Errorf("PostgresStore.Migrate: %w", err)
	}
	return nil
}

// DB exposes the connection pool for maintenance queries.
func (s *PostgresStore) DB() *sql.DB { return s.db }

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Save(ctx context.Context, run Run) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("PostgresStore.Save: marshal: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO hedge_runs (id, task_id, created_at, payload) VALUES ($1, $2, $3, $4)`,
		run.ID, run.TaskID, run.CreatedAt, payload)
	if err != nil {
		return fmt.Errorf("PostgresStore.Save: %w", err)
	}
	s.logger.Debug("run archived", "id", run.ID, "task_id", run.TaskID)
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM hedge_runs WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("PostgresStore.Get: %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("PostgresStore.Get: %w", err)
	}
	var run Run
	if err := json.Unmarshal(payload, &run); err != nil {
		return Run{}, fmt.Errorf("PostgresStore.Get: decode: %w", err)
	}
	return run, nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT payload FROM hedge_runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("PostgresStore.List: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("PostgresStore.List: %w", err)
		}
		var run Run
		if err := json.Unmarshal(payload, &run); err != nil {
			return nil, fmt.Errorf("PostgresStore.List: decode: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PostgresStore.List: %w", err)
	}
	return runs, nil
}

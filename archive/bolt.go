package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var bucketRuns = []byte("runs")

// BoltStore keeps runs in a single bbolt bucket keyed by the 16 raw UUID
// bytes. IDs are UUIDv7, so key order is creation order.
type BoltStore struct {
	db     *bolt.DB
	logger *slog.Logger
}

// OpenBolt opens (or creates) the database file at path.
func OpenBolt(path string, logger *slog.Logger) (*BoltStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return nil, fmt.Errorf("OpenBolt: empty path")
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("OpenBolt: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("OpenBolt: create bucket: %w", err)
	}
	logger.Debug("bolt archive opened", "path", path)
	return &BoltStore{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Save(ctx context.Context, run Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("BoltStore.Save: marshal: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).Put(run.ID[:], data)
	})
	if err != nil {
		return fmt.Errorf("BoltStore.Save: %w", err)
	}
	s.logger.Debug("run archived", "id", run.ID, "task_id", run.TaskID)
	return nil
}

func (s *BoltStore) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	var run Run
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketRuns).Get(id[:])
		if v == nil {
			return nil
		}
		found = true
		// v is only valid inside the transaction; Unmarshal copies.
		return json.Unmarshal(v, &run)
	})
	if err != nil {
		return Run{}, fmt.Errorf("BoltStore.Get: %w", err)
	}
	if !found {
		return Run{}, fmt.Errorf("BoltStore.Get: %s: %w", id, ErrNotFound)
	}
	return run, nil
}

func (s *BoltStore) List(ctx context.Context, limit int) ([]Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var runs []Run
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(runs) >= limit {
				break
			}
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("decode %x: %w", k, err)
			}
			runs = append(runs, run)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("BoltStore.List: %w", err)
	}
	return runs, nil
}

// Package archive persists hedge runs so that past solves can be listed and
// re-read. Two backends are provided: an embedded bbolt file and Postgres.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meenmo/krdhedge/config"
	"github.com/meenmo/krdhedge/hedge"
)

// ErrNotFound is returned by Get when no run has the requested ID.
var ErrNotFound = errors.New("archive: run not found")

// Run is the archived form of one hedge solve.
type Run struct {
	ID             uuid.UUID `json:"id"`
	TaskID         string    `json:"task_id"`
	CreatedAt      time.Time `json:"created_at"`
	SettlementDate string    `json:"settlement_date"`
	KeyGridYears   []float64 `json:"key_grid_years"`
	Target         []float64 `json:"target_krd"`
	Legs           []RunLeg  `json:"hedges"`
	ResidualRatio  float64   `json:"residual_ratio"`
}

// RunLeg is one hedge instrument of a Run.
type RunLeg struct {
	Name     string          `json:"name"`
	Weight   float64         `json:"weight"`
	Notional decimal.Decimal `json:"notional"`
	KeyRates []float64       `json:"krd"`
}

// Store saves and reads back hedge runs.
type Store interface {
	Save(ctx context.Context, run Run) error
	Get(ctx context.Context, id uuid.UUID) (Run, error)
	// List returns up to limit runs, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// NewRun snapshots res under a fresh time-ordered ID.
func NewRun(taskID string, settlement string, res hedge.Result, now time.Time) Run {
	legs := make([]RunLeg, len(res.Legs))
	for i, leg := range res.Legs {
		legs[i] = RunLeg{
			Name:     leg.Name,
			Weight:   leg.Weight,
			Notional: leg.Notional,
			KeyRates: append([]float64(nil), leg.KeyRates...),
		}
	}
	return Run{
		ID:             uuid.Must(uuid.NewV7()),
		TaskID:         taskID,
		CreatedAt:      now.UTC(),
		SettlementDate: settlement,
		KeyGridYears:   append([]float64(nil), res.Keys...),
		Target:         append([]float64(nil), res.Target...),
		Legs:           legs,
		ResidualRatio:  res.ResidualRatio,
	}
}

// Open returns the store selected by cfg.Driver, or a nil Store when the
// archive is disabled.
func Open(cfg config.ArchiveConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverNone:
		return nil, nil
	case config.DriverBolt:
		s, err := OpenBolt(cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := OpenPostgres(cfg.DSN, logger)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("archive.Open: unknown driver %q", cfg.Driver)
	}
}

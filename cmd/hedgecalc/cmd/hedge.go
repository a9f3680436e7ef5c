package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/meenmo/krdhedge/archive"
	"github.com/meenmo/krdhedge/hedge"
	"github.com/meenmo/krdhedge/utils"
)

type hedgeInput struct {
	TaskID         string           `json:"task_id,omitempty"`
	SettlementDate string           `json:"settlement_date"`
	Curve          curveJSON        `json:"curve"`
	Target         instrumentJSON   `json:"target"`
	Hedges         []instrumentJSON `json:"hedges"`
	overrides
}

type hedgeOutput struct {
	TaskID         string        `json:"task_id,omitempty"`
	RunID          string        `json:"run_id,omitempty"`
	SettlementDate string        `json:"settlement_date,omitempty"`
	KeyGridYears   []float64     `json:"key_grid_years,omitempty"`
	TargetKRD      []float64     `json:"target_krd,omitempty"`
	TargetDV01     *float64      `json:"target_dv01,omitempty"`
	Hedges         []hedgeLegOut `json:"hedges,omitempty"`
	Residual       []float64     `json:"residual,omitempty"`
	ResidualRatio  *float64      `json:"residual_ratio,omitempty"`
	Error          string        `json:"error,omitempty"`
}

type hedgeLegOut struct {
	Name     string          `json:"name"`
	Weight   float64         `json:"weight"`
	Notional decimal.Decimal `json:"notional"`
	KRD      []float64       `json:"krd"`
}

func newHedgeCmd(a *app) *cobra.Command {
	var (
		inputPath string
		save      bool
	)
	c := &cobra.Command{
		Use:   "hedge",
		Short: "Solve hedge weights that match a target's key-rate profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(inputPath, cmd.InOrStdin())
			if err != nil {
				return writeError(cmd.OutOrStdout(), fmt.Sprintf("read input: %v", err))
			}
			inputs, isArray, err := parseInputs[hedgeInput](raw)
			if err != nil {
				return writeError(cmd.OutOrStdout(), fmt.Sprintf("parse JSON: %v", err))
			}

			var store archive.Store
			if save {
				store, err = archive.Open(a.cfg.Archive, a.logger)
				if err != nil {
					return err
				}
				if store == nil {
					return fmt.Errorf("--save requires archive.driver in config")
				}
				defer store.Close()
			}

			hadError := false
			outputs := make([]hedgeOutput, 0, len(inputs))
			for _, in := range inputs {
				out, err := a.processHedge(cmd.Context(), in, store)
				if err != nil {
					hadError = true
					a.logger.Warn("hedge request failed", "task_id", in.TaskID, "err", err)
					outputs = append(outputs, hedgeOutput{TaskID: in.TaskID, Error: err.Error()})
					continue
				}
				outputs = append(outputs, *out)
			}
			if err := writeOutputs(cmd.OutOrStdout(), outputs, isArray); err != nil {
				return err
			}
			if hadError {
				return errItemsFailed
			}
			return nil
		},
	}
	c.Flags().StringVarP(&inputPath, "input", "i", "", "JSON input path (reads stdin if omitted)")
	c.Flags().BoolVar(&save, "save", false, "Archive each solved run")
	return c
}

func (a *app) processHedge(ctx context.Context, in hedgeInput, store archive.Store) (*hedgeOutput, error) {
	settlement, err := utils.ParseDate(in.SettlementDate)
	if err != nil {
		return nil, fmt.Errorf("invalid settlement_date: %v", err)
	}
	if len(in.Hedges) == 0 {
		return nil, fmt.Errorf("hedges is required")
	}
	cfg, err := in.overrides.apply(a.cfg)
	if err != nil {
		return nil, err
	}
	zc, err := in.Curve.build()
	if err != nil {
		return nil, err
	}

	t, err := in.Target.resolve(settlement, cfg.Risk.DayCount)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	hedgers := make([]hedge.Position, 0, len(in.Hedges))
	for _, h := range in.Hedges {
		r, err := h.resolve(settlement, cfg.Risk.DayCount)
		if err != nil {
			return nil, fmt.Errorf("hedges: %w", err)
		}
		hedgers = append(hedgers, hedge.Position{Name: r.name, Notional: r.notional, Cashflows: r.cashflows})
	}

	res, err := hedge.Build(hedge.Position{Name: t.name, Notional: t.notional, Cashflows: t.cashflows},
		hedgers, zc.DiscountFactor, cfg)
	if err != nil {
		return nil, err
	}
	// NaN and Inf have no JSON form; they fail this item only.
	checks := []namedValues{
		{"target_krd", res.Target},
		{"target_dv01", []float64{res.TargetDV01}},
		{"weights", res.Weights()},
		{"residual", res.Residual},
		{"residual_ratio", []float64{res.ResidualRatio}},
	}
	for _, leg := range res.Legs {
		checks = append(checks, namedValues{leg.Name + " krd", leg.KeyRates})
	}
	if err := checkFinite(checks...); err != nil {
		return nil, err
	}

	// Pointers keep legitimate zeros while error items omit the fields.
	out := &hedgeOutput{
		TaskID:         in.TaskID,
		SettlementDate: in.SettlementDate,
		KeyGridYears:   res.Keys,
		TargetKRD:      res.Target,
		TargetDV01:     &res.TargetDV01,
		Residual:       res.Residual,
		ResidualRatio:  &res.ResidualRatio,
	}
	for _, leg := range res.Legs {
		out.Hedges = append(out.Hedges, hedgeLegOut{
			Name:     leg.Name,
			Weight:   leg.Weight,
			Notional: leg.Notional,
			KRD:      leg.KeyRates,
		})
	}

	if store != nil {
		run := archive.NewRun(in.TaskID, in.SettlementDate, res, time.Now())
		if err := store.Save(ctx, run); err != nil {
			return nil, err
		}
		out.RunID = run.ID.String()
	}
	a.logger.Info("hedge solved", "task_id", in.TaskID, "run_id", out.RunID,
		"hedges", len(res.Legs), "residual_ratio", res.ResidualRatio)
	return out, nil
}

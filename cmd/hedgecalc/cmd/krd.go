package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meenmo/krdhedge/bond"
	"github.com/meenmo/krdhedge/risk"
	"github.com/meenmo/krdhedge/utils"
)

type krdInput struct {
	TaskID         string           `json:"task_id,omitempty"`
	SettlementDate string           `json:"settlement_date"`
	Curve          curveJSON        `json:"curve"`
	Instruments    []instrumentJSON `json:"instruments"`
	overrides
}

type krdOutput struct {
	TaskID         string          `json:"task_id,omitempty"`
	SettlementDate string          `json:"settlement_date,omitempty"`
	KeyGridYears   []float64       `json:"key_grid_years,omitempty"`
	Instruments    []krdInstrument `json:"instruments,omitempty"`
	Error          string          `json:"error,omitempty"`
}

type krdInstrument struct {
	Name   string    `json:"name"`
	Price  float64   `json:"price"`
	DV01   float64   `json:"dv01"`
	KRD    []float64 `json:"krd"`
	KRDSum float64   `json:"krd_sum"`
	YTM    float64   `json:"ytm"`
}

func newKRDCmd(a *app) *cobra.Command {
	var inputPath string
	c := &cobra.Command{
		Use:   "krd",
		Short: "Key-rate DV01 profile, price, DV01 and yield per instrument",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(inputPath, cmd.InOrStdin())
			if err != nil {
				return writeError(cmd.OutOrStdout(), fmt.Sprintf("read input: %v", err))
			}
			inputs, isArray, err := parseInputs[krdInput](raw)
			if err != nil {
				return writeError(cmd.OutOrStdout(), fmt.Sprintf("parse JSON: %v", err))
			}

			hadError := false
			outputs := make([]krdOutput, 0, len(inputs))
			for _, in := range inputs {
				out, err := a.processKRD(in)
				if err != nil {
					hadError = true
					a.logger.Warn("krd request failed", "task_id", in.TaskID, "err", err)
					outputs = append(outputs, krdOutput{TaskID: in.TaskID, Error: err.Error()})
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
	return c
}

func (a *app) processKRD(in krdInput) (*krdOutput, error) {
	settlement, err := utils.ParseDate(in.SettlementDate)
	if err != nil {
		return nil, fmt.Errorf("invalid settlement_date: %v", err)
	}
	if len(in.Instruments) == 0 {
		return nil, fmt.Errorf("instruments is required")
	}
	cfg, err := in.overrides.apply(a.cfg)
	if err != nil {
		return nil, err
	}
	zc, err := in.Curve.build()
	if err != nil {
		return nil, err
	}
	grid, err := risk.NewKeyGrid(cfg.Risk.KeyGridYears)
	if err != nil {
		return nil, err
	}

	out := &krdOutput{
		TaskID:         in.TaskID,
		SettlementDate: in.SettlementDate,
		KeyGridYears:   grid.Years(),
	}
	for _, inst := range in.Instruments {
		r, err := inst.resolve(settlement, cfg.Risk.DayCount)
		if err != nil {
			return nil, err
		}
		krd, err := risk.KeyRateDV01(r.cashflows, zc.DiscountFactor, grid, cfg.Risk.BumpBP)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.name, err)
		}
		price := bond.Price(r.cashflows, zc)
		dv01 := risk.ParallelDV01(r.cashflows, zc.DiscountFactor, cfg.Risk.BumpBP)
		err = checkFinite(
			namedValues{r.name + " krd", krd},
			namedValues{r.name + " price", []float64{price}},
			namedValues{r.name + " dv01", []float64{dv01}},
		)
		if err != nil {
			return nil, err
		}
		ytm, err := bond.YieldToMaturity(price, r.cashflows, r.frequency)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.name, err)
		}
		sum := 0.0
		for _, v := range krd {
			sum += v
		}
		out.Instruments = append(out.Instruments, krdInstrument{
			Name:   r.name,
			Price:  price,
			DV01:   dv01,
			KRD:    krd,
			KRDSum: sum,
			YTM:    ytm.Yield,
		})
		a.logger.Debug("krd computed", "task_id", in.TaskID, "instrument", r.name, "krd_sum", sum)
	}
	return out, nil
}

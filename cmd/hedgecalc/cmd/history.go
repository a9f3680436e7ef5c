package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/meenmo/krdhedge/archive"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List archived hedge runs, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := archive.Open(a.cfg.Archive, a.logger)
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("history requires archive.driver in config")
			}
			defer store.Close()

			if len(args) == 1 {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid run id %q: %w", args[0], err)
				}
				run, err := store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				return writeOutputs(cmd.OutOrStdout(), []archive.Run{run}, false)
			}

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if runs == nil {
				runs = []archive.Run{}
			}
			a.logger.Debug("history listed", "runs", len(runs), "limit", limit)
			return writeOutputs(cmd.OutOrStdout(), runs, true)
		},
	}
	c.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	return c
}

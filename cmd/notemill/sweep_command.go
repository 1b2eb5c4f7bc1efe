package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notemill/internal/history"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Drop history records whose vault files were removed by hand",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			tracker, err := history.NewTracker(history.NewStore(cfg.Paths.VaultDir, logger), logger)
			if err != nil {
				return err
			}
			defer tracker.Close()

			dropped, err := tracker.SweepOrphans()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped %d orphaned record(s)\n", dropped)
			return nil
		},
	}
}

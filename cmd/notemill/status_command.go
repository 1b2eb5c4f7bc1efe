package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"notemill/internal/history"
	"notemill/internal/logging"
)

const statusSessionLimit = 10

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration history for the configured vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			tracker, err := history.NewTracker(history.NewStore(cfg.Paths.VaultDir, logging.NewNop()), logging.NewNop())
			if err != nil {
				return err
			}
			defer tracker.Close()

			stats := tracker.Stats()
			if jsonOutput {
				return writeJSON(cmd, stats)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Vault: %s\n", cfg.Paths.VaultDir)
			fmt.Fprintf(out, "Live notes: %d\n", stats.LiveNotes)
			fmt.Fprintf(out, "Deleted notes: %d\n", stats.DeletedNotes)
			fmt.Fprintf(out, "Sessions: %d\n", len(stats.Sessions))

			if len(stats.Sessions) == 0 {
				return nil
			}

			sessions := append([]history.Session(nil), stats.Sessions...)
			sort.Slice(sessions, func(i, j int) bool {
				return sessions[i].StartTime.After(sessions[j].StartTime)
			})
			if len(sessions) > statusSessionLimit {
				sessions = sessions[:statusSessionLimit]
			}

			rows := make([][]string, 0, len(sessions))
			for _, sess := range sessions {
				rows = append(rows, []string{
					shortSessionID(sess.SessionID),
					string(sess.Status),
					sess.StartTime.Local().Format("2006-01-02 15:04"),
					strconv.Itoa(sess.Counters.Total),
					strconv.Itoa(sess.Counters.New),
					strconv.Itoa(sess.Counters.Updated),
					strconv.Itoa(sess.Counters.SkippedDuplicate),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Session", "Status", "Started", "Total", "New", "Updated", "Skipped"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit history statistics as JSON")
	return cmd
}

func shortSessionID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"notemill/internal/config"
	"notemill/internal/migrate"
)

const timeRounding = 10 * time.Millisecond

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	var full bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "migrate <bundle|directory>...",
		Short: "Convert export bundles into the Markdown vault",
		Long: "Parses the given .enex bundles (directories are scanned for *.enex files),\n" +
			"converts each note to Markdown, and writes the result into the configured\n" +
			"vault. Reruns skip unchanged notes and reconcile deletions unless --full\n" +
			"is given.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			bundles, err := collectBundles(args)
			if err != nil {
				return err
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			migrator, err := migrate.New(cfg, logger, full)
			if err != nil {
				return err
			}
			defer migrator.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, runErr := migrator.Run(runCtx, bundles)
			if summary != nil {
				out := cmd.OutOrStdout()
				if jsonOutput {
					if err := writeJSON(cmd, summary); err != nil {
						return err
					}
				} else {
					printSummary(out, summary)
				}
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Ignore migration history and process every note")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run summary as JSON")
	return cmd
}

// collectBundles expands the argument list into concrete bundle paths.
// Directory arguments contribute their *.enex files in sorted order.
func collectBundles(args []string) ([]string, error) {
	var bundles []string
	for _, arg := range args {
		path, err := config.ExpandPath(strings.TrimSpace(arg))
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("inspect bundle path %q: %w", arg, err)
		}
		if !info.IsDir() {
			bundles = append(bundles, path)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(path, "*.enex"))
		if err != nil {
			return nil, fmt.Errorf("scan directory %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("directory %q contains no .enex bundles", arg)
		}
		sort.Strings(matches)
		bundles = append(bundles, matches...)
	}
	if len(bundles) == 0 {
		return nil, errors.New("no bundles to migrate")
	}
	return bundles, nil
}

func printSummary(out io.Writer, summary *migrate.Summary) {
	fmt.Fprintf(out, "Session %s processed %d bundle(s) in %s\n",
		summary.SessionID, summary.Bundles, summary.Duration.Round(timeRounding))

	rows := [][]string{
		{"Notes seen", strconv.Itoa(summary.Counters.Total)},
		{"New", strconv.Itoa(summary.Counters.New)},
		{"Updated", strconv.Itoa(summary.Counters.Updated)},
		{"Skipped", strconv.Itoa(summary.Counters.SkippedDuplicate)},
		{"Attachments", strconv.Itoa(summary.Attachments)},
		{"Removed", strconv.Itoa(len(summary.Removed))},
		{"Errors", strconv.Itoa(summary.Errors)},
	}
	fmt.Fprintln(out, renderTable([]string{"Metric", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))

	for _, path := range summary.Removed {
		fmt.Fprintf(out, "removed %s\n", path)
	}
}

// Package journal provides the "fontkit journal" commands for viewing the
// record of processed files.
package journal

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/klytics/fontkit/internal/audit"
	"github.com/klytics/fontkit/internal/config"
	"github.com/klytics/fontkit/internal/fs"
)

// NewCommand creates the "journal" command with all subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "View and manage the processing journal",
		Long:  "Show which files were rewritten, when, and whether they failed. The journal path is set by audit.file in the config.",
	}

	cmd.AddCommand(newLogCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newStatsCmd())

	return cmd
}

func journalPath(cmd *cobra.Command) (string, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return "", err
	}
	path := cfg.JournalPath()
	if path == "" {
		return "", fmt.Errorf("the journal is disabled — set audit.file in %s", config.ConfigPath())
	}
	return path, nil
}

func newLogCmd() *cobra.Command {
	var (
		last   int
		kind   string
		status string
		since  string
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := journalPath(cmd)
			if err != nil {
				return err
			}
			entries, err := audit.ReadEntries(path)
			if err != nil {
				return err
			}

			var sinceTime, untilTime time.Time
			if since != "" {
				t, err := time.Parse("2006-01-02", since)
				if err != nil {
					return fmt.Errorf("invalid --since date: %w (use YYYY-MM-DD)", err)
				}
				sinceTime = t
			}

			filtered := audit.FilterEntries(entries, sinceTime, untilTime, kind, status)
			if last > 0 && len(filtered) > last {
				filtered = filtered[len(filtered)-last:]
			}

			out := cmd.OutOrStdout()
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(filtered)
			}

			if len(filtered) == 0 {
				fmt.Fprintln(out, "No journal entries found.")
				return nil
			}

			fmt.Fprintf(out, "Journal — %d Entries\n", len(filtered))
			fmt.Fprintf(out, "File: %s\n\n", path)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "TIMESTAMP\tKIND\tSTATUS\tFILE\tDURATION\tERROR\n")
			for _, e := range filtered {
				ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
				dur := fmt.Sprintf("%dms", e.DurationMs)
				if e.DurationMs >= 1000 {
					dur = fmt.Sprintf("%.1fs", float64(e.DurationMs)/1000)
				}
				errText := e.Error
				if errText == "" {
					errText = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", ts, e.Kind, e.Status, filepath.Base(e.Input), dur, errText)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&last, "last", 20, "Show last N entries")
	cmd.Flags().StringVar(&kind, "kind", "", "Filter by file kind: word | excel")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status: ok | error | skipped")
	cmd.Flags().StringVar(&since, "since", "", "Filter entries since date (YYYY-MM-DD)")
	return cmd
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := journalPath(cmd)
			if err != nil {
				return err
			}
			if err := audit.Clear(path); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(out).Encode(map[string]string{"cleared": path})
			}
			fmt.Fprintf(out, "Journal cleared: %s\n", path)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show journal path and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := journalPath(cmd)
			if err != nil {
				return err
			}
			size := audit.LogSize(path)
			entries, _ := audit.ReadEntries(path)

			out := cmd.OutOrStdout()
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"path":    path,
					"size":    size,
					"entries": len(entries),
				})
			}

			fmt.Fprintf(out, "Journal: %s\n", path)
			if size == 0 {
				fmt.Fprintln(out, "Size:    empty (no entries)")
			} else {
				fmt.Fprintf(out, "Size:    %s\n", fs.FormatSize(size))
			}
			fmt.Fprintf(out, "Entries: %d\n", len(entries))
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the journal by kind and status",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := journalPath(cmd)
			if err != nil {
				return err
			}
			entries, err := audit.ReadEntries(path)
			if err != nil {
				return err
			}
			stats := audit.Summarize(entries)

			out := cmd.OutOrStdout()
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			fmt.Fprintf(out, "Entries:      %d\n", stats.Total)
			fmt.Fprintf(out, "Avg duration: %.0fms\n", stats.AvgDurationMs)
			printCounts(out, "By kind", stats.ByKind)
			printCounts(out, "By status", stats.ByStatus)
			if len(stats.LastFailures) > 0 {
				fmt.Fprintln(out, "\nRecent failures:")
				for _, f := range stats.LastFailures {
					fmt.Fprintf(out, "  %s\n", f)
				}
			}
			return nil
		},
	}
}

func printCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-10s %d\n", k, counts[k])
	}
}

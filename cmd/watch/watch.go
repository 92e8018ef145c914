// Package watch provides the "fontkit watch" command.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/klytics/fontkit/cmd/run"
	"github.com/klytics/fontkit/internal/batch"
	"github.com/klytics/fontkit/internal/output"
	w "github.com/klytics/fontkit/internal/watch"
)

// NewCommand creates the "watch" command.
func NewCommand() *cobra.Command {
	var (
		debounce int
		initial  bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rewrite fonts of documents as they appear in the input directory",
		Long: `Watches the input directory for new or modified .docx and .xlsx files
and rewrites each one into the output directory once it has settled.
A failing file is reported and the watcher keeps running.

Example:
  fontkit watch --input uploads --output output --initial`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, err := run.LoadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("debounce") {
				cfg.Watch.DebounceMs = debounce
			}
			if err := cfg.EnsureDirs(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if initial {
				if err := run.Batch(ctx, cmd, cfg); err != nil {
					return err
				}
			}

			opts, err := run.Options(cfg, false)
			if err != nil {
				return err
			}
			dispatcher := batch.New(opts)

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			ow := output.NewWriter(out)
			var mu sync.Mutex

			watcher, err := w.New(w.Config{
				Dir:      cfg.InputDir,
				Debounce: time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
			}, func(ctx context.Context, path string) error {
				res, err := dispatcher.ProcessFile(ctx, path, cfg.OutputDir)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case jsonFlag:
					enc.Encode(res)
				case res.Status == batch.StatusOK:
					ow.OK("%s → %s", filepath.Base(path), res.Output)
				case res.Status == batch.StatusError:
					ow.Fail("%s: %s", filepath.Base(path), res.Error)
				}
				return err
			})
			if err != nil {
				return err
			}

			if !jsonFlag {
				fmt.Fprintf(out, "Watching %s → %s (%s)\n", cfg.InputDir, cfg.OutputDir, cfg.FontSpec())
				fmt.Fprintln(out, "Press Ctrl+C to stop")
			}

			return watcher.Start(ctx)
		},
	}

	run.AddFlags(cmd)
	cmd.Flags().IntVar(&debounce, "debounce", 500, "Quiet period in milliseconds before a changed file is processed")
	cmd.Flags().BoolVar(&initial, "initial", false, "Process the files already in the input directory first")

	return cmd
}

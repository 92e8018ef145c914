// Package scan provides the "fontkit scan" command, a dry run of the batch.
package scan

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/fontkit/cmd/run"
	"github.com/klytics/fontkit/internal/batch"
	"github.com/klytics/fontkit/internal/fs"
	"github.com/klytics/fontkit/internal/output"
)

// NewCommand returns the scan command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List the files a run would process and the names it would write",
		Long: `Lists every file in the input directory with the output file a run
would produce for it. Nothing is read or written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, err := run.LoadConfig(cmd)
			if err != nil {
				return err
			}
			opts, err := run.Options(cfg, false)
			if err != nil {
				return err
			}

			plan, err := batch.New(opts).Plan(cfg.InputDir, cfg.OutputDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonFlag {
				return output.PrintJSON(out, "scan", plan)
			}

			var (
				supported  int
				total      int64
				collisions int
			)
			for _, p := range plan {
				if p.Kind != "" {
					supported++
					total += p.Size
				}
				if p.Collides {
					collisions++
				}
			}

			fmt.Fprintf(out, "Scanned: %s\n", cfg.InputDir)
			fmt.Fprintf(out, "Found: %s to rewrite (%s), %d skipped\n\n",
				output.Plural(supported, "file"), fs.FormatSize(total), len(plan)-supported)

			if len(plan) == 0 {
				return nil
			}

			yellow := color.New(color.FgYellow).SprintFunc()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "NAME\tKIND\tSIZE\tOUTPUT\n")
			for _, p := range plan {
				kind, dst := string(p.Kind), p.Output
				if p.Kind == "" {
					kind, dst = "-", "(skipped)"
				}
				if p.Collides {
					dst = yellow(dst + " (overwrites previous)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", filepath.Base(p.Input), kind, fs.FormatSize(p.Size), dst)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if collisions > 0 {
				fmt.Fprintf(out, "\nOutput name collisions: %d — use --keep-names or rename the inputs.\n", collisions)
			}
			return nil
		},
	}

	run.AddFlags(cmd)
	return cmd
}

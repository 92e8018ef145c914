// Package run provides the batch command, also used as the root action.
package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/klytics/fontkit/internal/audit"
	"github.com/klytics/fontkit/internal/batch"
	"github.com/klytics/fontkit/internal/config"
	"github.com/klytics/fontkit/internal/logger"
	"github.com/klytics/fontkit/internal/output"
)

// NewCommand returns the run subcommand.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rewrite fonts of every .docx and .xlsx file in the input directory",
		Long: `Rewrites the font of every text run in Word files and every populated
cell in Excel files found directly inside the input directory. Copies are
written to the output directory as <name>-word.docx and <name>-excel.xlsx;
originals are never modified. Other files are skipped.

By default a Word failure stops the batch and an Excel failure is logged and
the batch continues.

Example:
  fontkit run --input uploads --output output --font "TH Sarabun New" --size 16`,
		Args: cobra.NoArgs,
	}
	Attach(cmd)
	return cmd
}

// Attach registers the batch flags on cmd and makes the batch its action.
func Attach(cmd *cobra.Command) {
	AddFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return Batch(ctx, cmd, cfg)
	}
}

// AddFlags registers the flags that override config values.
func AddFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("input", "", "Input directory (default from config: uploads)")
	f.String("output", "", "Output directory (default from config: output)")
	f.String("font", "", "Target font family (default from config: Times New Roman)")
	f.Float64("size", 0, "Target font size in points (default from config: 12)")
	f.Int("concurrency", 0, "Number of parallel workers (default from config: 1)")
	f.Bool("continue-on-error", false, "Log Word failures and continue instead of aborting")
	f.Bool("keep-names", false, "Do not sanitize output file names")
}

// LoadConfig loads the configuration named by --config and applies the
// flags the user set on cmd.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Lookup("input") != nil && f.Changed("input") {
		cfg.InputDir, _ = f.GetString("input")
	}
	if f.Lookup("output") != nil && f.Changed("output") {
		cfg.OutputDir, _ = f.GetString("output")
	}
	if f.Lookup("font") != nil && f.Changed("font") {
		cfg.Font.Name, _ = f.GetString("font")
	}
	if f.Lookup("size") != nil && f.Changed("size") {
		cfg.Font.Size, _ = f.GetFloat64("size")
	}
	if f.Lookup("concurrency") != nil && f.Changed("concurrency") {
		cfg.Concurrency, _ = f.GetInt("concurrency")
	}
	if f.Lookup("continue-on-error") != nil {
		if cont, _ := f.GetBool("continue-on-error"); cont {
			cfg.Policy.Word = string(batch.PolicyContinue)
		}
	}
	if f.Lookup("keep-names") != nil {
		if keep, _ := f.GetBool("keep-names"); keep {
			cfg.SanitizeNames = false
		}
	}

	for _, issue := range config.Validate(cfg) {
		switch issue.Severity {
		case "error":
			return nil, fmt.Errorf("invalid configuration: %s", issue.Message)
		case "warning":
			logger.Warn("configuration warning", "key", issue.Key, "message", issue.Message)
		}
	}
	return cfg, nil
}

// Options builds dispatcher options from cfg.
func Options(cfg *config.Config, showProgress bool) (batch.Options, error) {
	wordPolicy, err := batch.ParsePolicy(cfg.Policy.Word)
	if err != nil {
		return batch.Options{}, err
	}
	excelPolicy, err := batch.ParsePolicy(cfg.Policy.Excel)
	if err != nil {
		return batch.Options{}, err
	}

	return batch.Options{
		Font:          cfg.FontSpec(),
		WordPolicy:    wordPolicy,
		ExcelPolicy:   excelPolicy,
		Concurrency:   cfg.Concurrency,
		SanitizeNames: cfg.SanitizeNames,
		Journal:       audit.NewLogger(cfg.JournalPath()),
		ShowProgress:  showProgress,
	}, nil
}

// Batch runs one batch with cfg and reports the summary on cmd's output.
func Batch(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	jsonFlag, _ := cmd.Flags().GetBool("json")

	opts, err := Options(cfg, !jsonFlag)
	if err != nil {
		return err
	}

	summary, runErr := batch.New(opts).ProcessAll(ctx, cfg.InputDir, cfg.OutputDir)

	out := cmd.OutOrStdout()
	if jsonFlag {
		if runErr != nil {
			output.PrintJSONError(out, "run", summary, runErr, output.ExitSystemError)
			return runErr
		}
		return output.PrintJSON(out, "run", summary)
	}

	if summary != nil {
		PrintSummary(out, summary)
	}
	return runErr
}

// PrintSummary writes one line per processed file and a totals line.
func PrintSummary(w io.Writer, s *batch.Summary) {
	ow := output.NewWriter(w)
	for _, r := range s.Results {
		name := filepath.Base(r.Input)
		switch r.Status {
		case batch.StatusOK:
			ow.OK("%s → %s (%s)", name, r.Output, nodes(r))
		case batch.StatusError:
			ow.Fail("%s: %s", name, r.Error)
		}
	}

	processed := s.Succeeded + s.Failed
	if processed == 0 && s.Skipped == 0 {
		fmt.Fprintln(w, "No files found in the input directory.")
		return
	}
	fmt.Fprintf(w, "\nProcessed %s. %d succeeded, %d failed, %d skipped.\n",
		output.Plural(processed, "file"), s.Succeeded, s.Failed, s.Skipped)
}

func nodes(r batch.FileResult) string {
	if r.Kind == batch.KindWord {
		return output.Plural(r.Nodes, "run")
	}
	return output.Plural(r.Nodes, "cell")
}

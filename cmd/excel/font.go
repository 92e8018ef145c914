package excel

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klytics/fontkit/cmd/run"
	"github.com/klytics/fontkit/internal/batch"
	"github.com/klytics/fontkit/internal/formats/xlsx"
	"github.com/klytics/fontkit/internal/logger"
	"github.com/klytics/fontkit/internal/output"
)

func newFontCommand() *cobra.Command {
	var (
		outPath string
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "font <file.xlsx>",
		Short: "Rewrite the font of every populated cell in an Excel workbook",
		Long: `Replaces the font of every non-empty cell of every sheet with the target
family and size, keeping fills, borders, number formats and alignment.
Empty cells are left alone. The source is left untouched; the copy is
written to --out, or to <output_dir>/<name>-excel.xlsx.

Failures are logged and the command exits successfully, as in a batch run.
Use --strict to make a failure the command's exit status.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			inputPath := args[0]

			if kind, ok := batch.KindOf(inputPath); !ok || kind != batch.KindExcel {
				return fmt.Errorf("expected a .xlsx file, got %q", inputPath)
			}

			cfg, err := run.LoadConfig(cmd)
			if err != nil {
				return err
			}

			dst := outPath
			if dst == "" {
				dst = filepath.Join(cfg.OutputDir, batch.OutputName(filepath.Base(inputPath), batch.KindExcel, cfg.SanitizeNames))
			} else if !strings.HasSuffix(strings.ToLower(dst), ".xlsx") {
				dst += ".xlsx"
			}

			out := cmd.OutOrStdout()
			res, err := xlsx.RewriteFontFile(inputPath, dst, cfg.FontSpec())
			if err != nil {
				logger.Error("error processing Excel file", "path", inputPath, "error", err)
				if jsonFlag {
					output.PrintJSONError(out, "excel font", nil, err, output.ExitSystemError)
				} else {
					output.NewWriter(out).Fail("%s: %v", filepath.Base(inputPath), err)
				}
				if strict {
					return err
				}
				return nil
			}

			if jsonFlag {
				return output.PrintJSON(out, "excel font", res)
			}
			output.NewWriter(out).OK("%s → %s (%s in %s, %s)",
				filepath.Base(inputPath), res.OutputPath,
				output.Plural(res.Cells, "cell"), output.Plural(res.Sheets, "sheet"), cfg.FontSpec())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output .xlsx file path")
	cmd.Flags().BoolVar(&strict, "strict", false, "Return an error status when the workbook cannot be processed")
	cmd.Flags().String("font", "", "Target font family (default from config)")
	cmd.Flags().Float64("size", 0, "Target font size in points (default from config)")

	return cmd
}

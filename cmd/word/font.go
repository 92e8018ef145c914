package word

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klytics/fontkit/cmd/run"
	"github.com/klytics/fontkit/internal/batch"
	"github.com/klytics/fontkit/internal/formats/docx"
	"github.com/klytics/fontkit/internal/output"
)

func newFontCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "font <file.docx>",
		Short: "Rewrite the font of every run in a Word document",
		Long: `Sets the font family and size of every run in the body paragraphs and
table cells of a .docx file. The source is left untouched; the copy is
written to --out, or to <output_dir>/<name>-word.docx.

Example:
  fontkit word font report.docx --font "TH Sarabun New" --size 16 --out report-thai.docx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			inputPath := args[0]

			if kind, ok := batch.KindOf(inputPath); !ok || kind != batch.KindWord {
				return fmt.Errorf("expected a .docx file, got %q", inputPath)
			}

			cfg, err := run.LoadConfig(cmd)
			if err != nil {
				return err
			}

			dst := outPath
			if dst == "" {
				dst = filepath.Join(cfg.OutputDir, batch.OutputName(filepath.Base(inputPath), batch.KindWord, cfg.SanitizeNames))
			} else if !strings.HasSuffix(strings.ToLower(dst), ".docx") {
				dst += ".docx"
			}

			res, err := docx.RewriteFontFile(inputPath, dst, cfg.FontSpec())
			if err != nil {
				return err
			}

			if jsonFlag {
				return output.PrintJSON(cmd.OutOrStdout(), "word font", res)
			}
			output.NewWriter(cmd.OutOrStdout()).OK("%s → %s (%s, %s)",
				filepath.Base(inputPath), res.OutputPath, output.Plural(res.Runs, "run"), cfg.FontSpec())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output .docx file path")
	cmd.Flags().String("font", "", "Target font family (default from config)")
	cmd.Flags().Float64("size", 0, "Target font size in points (default from config)")

	return cmd
}

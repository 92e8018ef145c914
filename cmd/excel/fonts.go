package excel

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/klytics/fontkit/cmd/run"
	"github.com/klytics/fontkit/internal/formats/xlsx"
	"github.com/klytics/fontkit/internal/output"
)

func newFontsCommand() *cobra.Command {
	var (
		mismatches bool
		sheet      string
	)

	cmd := &cobra.Command{
		Use:   "fonts <file.xlsx>",
		Short: "List the font of every populated cell in an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			report, err := xlsx.ReadCellFontsFile(args[0])
			if err != nil {
				return err
			}

			cells := report.Cells
			if mismatches {
				cfg, err := run.LoadConfig(cmd)
				if err != nil {
					return err
				}
				cells = report.Mismatches(cfg.FontSpec())
			}
			if sheet != "" {
				cells = filterSheet(cells, sheet)
				if !hasSheet(report.Sheets, sheet) {
					return fmt.Errorf("sheet %q not found — available sheets: %v", sheet, report.Sheets)
				}
			}

			if jsonFlag {
				return output.PrintJSON(cmd.OutOrStdout(), "excel fonts", map[string]interface{}{
					"sheets":   report.Sheets,
					"cells":    cells,
					"families": report.Families(),
				})
			}

			var buf bytes.Buffer
			fmt.Fprintf(&buf, "%s, %s\n\n", output.Plural(len(report.Sheets), "sheet"), output.Plural(len(report.Cells), "populated cell"))

			tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "SHEET\tCELL\tFAMILY\tSIZE\tSTYLE\tVALUE\n")
			for _, c := range cells {
				family := c.Family
				if family == "" {
					family = "(default)"
				}
				if c.RichText {
					family += " +rich"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%d\t%s\n", c.Sheet, c.Cell, family, c.Size, c.StyleID, truncate(c.Value, 40))
			}
			tw.Flush()

			if output.ShouldPage(buf.String(), 40) {
				return output.Page(buf.String())
			}
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		},
	}

	cmd.Flags().BoolVar(&mismatches, "mismatches", false, "Only show cells that do not carry the configured font")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Only show cells of this sheet")
	cmd.Flags().String("font", "", "Font family to compare against (default from config)")
	cmd.Flags().Float64("size", 0, "Font size to compare against (default from config)")

	return cmd
}

func filterSheet(cells []xlsx.CellFont, sheet string) []xlsx.CellFont {
	var out []xlsx.CellFont
	for _, c := range cells {
		if c.Sheet == sheet {
			out = append(out, c)
		}
	}
	return out
}

func hasSheet(sheets []string, name string) bool {
	for _, s := range sheets {
		if s == name {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

package word

import (
	"bytes"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/klytics/fontkit/cmd/run"
	"github.com/klytics/fontkit/internal/formats/docx"
	"github.com/klytics/fontkit/internal/output"
)

func newFontsCommand() *cobra.Command {
	var mismatches bool

	cmd := &cobra.Command{
		Use:   "fonts <file.docx>",
		Short: "List the font declared by every run of a Word document",
		Long: `Lists each run of the body paragraphs and table cells with its rFonts
declarations and size. With --mismatches only runs that do not carry the
configured font are shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			report, err := docx.ReadRunFontsFile(args[0])
			if err != nil {
				return err
			}

			runs := report.Runs
			if mismatches {
				cfg, err := run.LoadConfig(cmd)
				if err != nil {
					return err
				}
				runs = report.Mismatches(cfg.FontSpec())
			}

			if jsonFlag {
				return output.PrintJSON(cmd.OutOrStdout(), "word fonts", map[string]interface{}{
					"paragraphs": report.Paragraphs,
					"tables":     report.Tables,
					"runs":       runs,
					"families":   report.Families(),
				})
			}

			var buf bytes.Buffer
			fmt.Fprintf(&buf, "%s, %s, %s\n\n",
				output.Plural(report.Paragraphs, "paragraph"), output.Plural(report.Tables, "table"), output.Plural(len(report.Runs), "run"))

			tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "LOCATION\tASCII\tHANSI\tCS\tSIZE\tTEXT\n")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.Location, dash(r.ASCII), dash(r.HAnsi), dash(r.CS), size(r.Size), truncate(r.Text, 40))
			}
			tw.Flush()

			families := report.Families()
			names := make([]string, 0, len(families))
			for name := range families {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintln(&buf, "\nFamilies:")
			for _, name := range names {
				fmt.Fprintf(&buf, "  %s: %d\n", dash(name), families[name])
			}

			if output.ShouldPage(buf.String(), 40) {
				return output.Page(buf.String())
			}
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		},
	}

	cmd.Flags().BoolVar(&mismatches, "mismatches", false, "Only show runs that do not carry the configured font")
	cmd.Flags().String("font", "", "Font family to compare against (default from config)")
	cmd.Flags().Float64("size", 0, "Font size to compare against (default from config)")

	return cmd
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func size(halfPoints int) string {
	if halfPoints == 0 {
		return "-"
	}
	return fmt.Sprintf("%gpt", float64(halfPoints)/2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
